// Package classifier decides what a single request is and what should happen
// to it. It reads shared state (blocklist, rolling counters) but never
// mutates the blocklist itself; enforcement is the caller's job.
package classifier

import (
	"context"
	"time"

	"github.com/microsoc/command-centre/internal/blocklist"
	"github.com/microsoc/command-centre/internal/logger"
	"github.com/microsoc/command-centre/internal/models"
)

// IntelScorer is the optional reputation/ML collaborator. Any error from it
// is treated as "no signal", never propagated.
type IntelScorer interface {
	Score(ctx context.Context, req models.DecisionRequest) (label string, confidence float64, err error)
}

// intelBlockConfidence is the minimum confidence at which a "malicious"
// reputation signal escalates to a block.
const intelBlockConfidence = 0.7

// intelTimeout bounds the reputation lookup so a slow collaborator cannot
// stall the decision path. Kept equal to the intel client's own HTTP timeout
// so one bound governs the lookup.
const intelTimeout = 2 * time.Second

// Classifier evaluates requests against the attack taxonomy in a fixed
// precedence order.
type Classifier struct {
	blocklist *blocklist.Blocklist
	tracker   *tracker
	intel     IntelScorer
}

// New creates a classifier reading the given blocklist. intel may be nil.
func New(bl *blocklist.Blocklist, intel IntelScorer) *Classifier {
	return &Classifier{
		blocklist: bl,
		tracker:   newTracker(),
		intel:     intel,
	}
}

// Classify runs the precedence chain and returns a verdict without timestamp
// or UUID; the decision handler stamps those. First match wins: stronger
// rules sit earlier so a later, weaker match can never downgrade them.
func (c *Classifier) Classify(req models.DecisionRequest) models.Verdict {
	req.Normalize()

	v := models.Verdict{
		IP:     req.IP,
		Path:   req.Path,
		Method: req.Method,
	}

	obs := c.tracker.observe(req.IP, req.Path, req.Method)

	// 1. Address already under an active block. This call does not newly
	// trigger enforcement, so is_blocked_now stays false.
	if cause, blocked := c.blocklist.Cause(req.IP); blocked {
		v.Status = models.StatusBlock
		v.AttackType = cause
		v.Severity = models.SeverityHigh
		v.Reason = "IP currently blocked"
		v.Suggestion = Suggestion(models.AttackRepeatOffender)
		if s := Suggestion(cause); s != "" {
			v.Suggestion = s
		}
		return v
	}

	// 2. Sensitive path access.
	if matchesAny(sensitivePathPatterns, req.Path) {
		return c.block(v, models.AttackSensitivePath, models.SeverityHigh,
			"Request targets a sensitive path")
	}

	fragments := flattenPayload(req.Payload)

	// 3. SQL injection signatures in the payload.
	if matchesAnyFragment(sqlInjectionPatterns, fragments) {
		return c.block(v, models.AttackSQLInjection, models.SeverityHigh,
			"SQL injection signature in payload")
	}

	// 4. XSS markers warn only: lower confidence, legitimate rich text
	// trips these patterns too often to auto-block.
	if matchesAnyFragment(xssPatterns, fragments) {
		v.Status = models.StatusWarn
		v.AttackType = models.AttackXSS
		v.Severity = models.SeverityMedium
		v.Reason = "Script injection marker in payload"
		v.Suggestion = Suggestion(models.AttackXSS)
		return v
	}

	// 5. Brute-force login attempts.
	if obs.loginCount > bruteForceThreshold {
		return c.block(v, models.AttackBruteForce, models.SeverityHigh,
			"Excessive authentication attempts from address")
	}

	// 6. Flood / DoS.
	if obs.requestCount > floodThreshold {
		return c.block(v, models.AttackDoSFlood, models.SeverityCritical,
			"Request rate exceeds flood threshold")
	}

	// 7. Directory scan.
	if obs.uniquePaths > scanThreshold {
		return c.block(v, models.AttackDirectoryScan, models.SeverityHigh,
			"Address is enumerating distinct paths")
	}

	// 8. Automated bot user agents warn only: plenty of legitimate
	// integrations identify themselves this way.
	if req.UserAgent == "" || matchesAny(botAgentPatterns, req.UserAgent) {
		v.Status = models.StatusWarn
		v.AttackType = models.AttackAutomatedBot
		v.Severity = models.SeverityMedium
		v.Reason = "Automated client user agent"
		v.Suggestion = Suggestion(models.AttackAutomatedBot)
		return v
	}

	// 9. Threat-intel lookup, consulted last so a lookup failure can simply
	// fall through to the default.
	if c.intel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), intelTimeout)
		label, confidence, err := c.intel.Score(ctx, req)
		cancel()
		switch {
		case err != nil:
			logger.WithFields(map[string]interface{}{"ip": req.IP}).
				Debugf("intel lookup unavailable: %v", err)
		case label == "malicious" && confidence >= intelBlockConfidence:
			return c.block(v, models.AttackThreatIntel, models.SeverityCritical,
				"Address reported malicious by threat intelligence")
		}
	}

	// 10. Default.
	v.Status = models.StatusAllow
	v.AttackType = models.AttackNormal
	v.Severity = models.SeverityLow
	return v
}

func (c *Classifier) block(v models.Verdict, attackType string, severity models.Severity, reason string) models.Verdict {
	v.Status = models.StatusBlock
	v.AttackType = attackType
	v.Severity = severity
	v.Reason = reason
	v.Suggestion = Suggestion(attackType)
	v.IsBlockedNow = true
	return v
}

// SweepCounters evicts idle addresses from the rolling windows and returns
// how many were removed.
func (c *Classifier) SweepCounters() int {
	return c.tracker.sweep()
}
