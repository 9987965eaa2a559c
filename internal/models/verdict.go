package models

import (
	"fmt"
)

// Status is the enforcement decision attached to a verdict.
type Status string

const (
	StatusAllow Status = "ALLOW"
	StatusWarn  Status = "WARN"
	StatusBlock Status = "BLOCK"
)

// Severity grades how dangerous a classified request is.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Attack taxonomy keys. "normal" marks traffic with no detected pattern.
const (
	AttackNormal         = "normal"
	AttackRepeatOffender = "repeat_offender"
	AttackSensitivePath  = "sensitive_path_access"
	AttackSQLInjection   = "sql_injection"
	AttackXSS            = "xss_attempt"
	AttackBruteForce     = "brute_force_login"
	AttackDoSFlood       = "dos_flood"
	AttackDirectoryScan  = "directory_scan"
	AttackAutomatedBot   = "automated_bot"
	AttackThreatIntel    = "threat_intel"
)

// DecisionRequest is the inbound telemetry for a single request under
// evaluation. Payload carries arbitrary nested JSON from the caller.
type DecisionRequest struct {
	IP        string      `json:"ip"`
	Path      string      `json:"path"`
	Method    string      `json:"method"`
	UserAgent string      `json:"user_agent"`
	Payload   interface{} `json:"payload"`
}

// Normalize applies the documented field defaults.
func (r *DecisionRequest) Normalize() {
	if r.Path == "" {
		r.Path = "/"
	}
	if r.Method == "" {
		r.Method = "GET"
	}
}

// Verdict is the classification outcome for one inbound request. It is what
// the decision API returns synchronously and what flows through the queue,
// the store and the downstream relay.
type Verdict struct {
	UUID         string   `json:"uuid"`
	IP           string   `json:"ip"`
	Path         string   `json:"path"`
	Method       string   `json:"method"`
	Status       Status   `json:"status"`
	AttackType   string   `json:"attack_type"`
	Severity     Severity `json:"severity,omitempty"`
	Timestamp    int64    `json:"timestamp"`
	Reason       string   `json:"reason,omitempty"`
	Suggestion   string   `json:"suggestion"`
	IsBlockedNow bool     `json:"is_blocked_now"`
}

// DedupKey collapses repeated identical verdicts for the same address and
// attack within the same 60-second bucket into one stored record.
func (v Verdict) DedupKey() string {
	attack := v.AttackType
	if attack == "" {
		attack = AttackNormal
	}
	return fmt.Sprintf("%s_%s_%d", v.IP, attack, v.Timestamp/60)
}
