package models

import (
	"time"
)

// AttackLog is the persisted form of a Verdict. The primary key is the dedup
// key, so repeated identical verdicts within a minute bucket overwrite each
// other (last write wins) instead of flooding the table during an attack.
type AttackLog struct {
	DedupKey     string    `json:"dedup_key" gorm:"primaryKey;column:dedup_key"`
	UUID         string    `json:"uuid"`
	IP           string    `json:"ip" gorm:"index"`
	Path         string    `json:"path"`
	Method       string    `json:"method"`
	Status       string    `json:"status"`
	AttackType   string    `json:"attack_type" gorm:"index"`
	Severity     string    `json:"severity"`
	Timestamp    int64     `json:"timestamp" gorm:"index"`
	Reason       string    `json:"reason"`
	Suggestion   string    `json:"suggestion"`
	IsBlockedNow bool      `json:"is_blocked_now"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAttackLog maps a verdict onto its storage row.
func NewAttackLog(v Verdict) AttackLog {
	return AttackLog{
		DedupKey:     v.DedupKey(),
		UUID:         v.UUID,
		IP:           v.IP,
		Path:         v.Path,
		Method:       v.Method,
		Status:       string(v.Status),
		AttackType:   v.AttackType,
		Severity:     string(v.Severity),
		Timestamp:    v.Timestamp,
		Reason:       v.Reason,
		Suggestion:   v.Suggestion,
		IsBlockedNow: v.IsBlockedNow,
	}
}
