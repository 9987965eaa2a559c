// Package blocklist holds time-bounded per-address enforcement state.
package blocklist

import (
	"sync"
	"time"
)

type entry struct {
	expiry     time.Time
	attackType string
}

// Blocklist maps an address to a block-expiry timestamp plus the attack type
// that caused the block. Entries are never deleted on read; they expire
// lazily by timestamp comparison, which bounds memory by the number of
// distinct offending addresses.
type Blocklist struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New returns an empty blocklist.
func New() *Blocklist {
	return &Blocklist{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Block sets or overwrites the expiry for ip to now+duration and records the
// attack type that triggered enforcement.
func (b *Blocklist) Block(ip, attackType string, duration time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[ip] = entry{
		expiry:     b.now().Add(duration),
		attackType: attackType,
	}
}

// IsBlocked reports whether ip has a non-expired entry.
func (b *Blocklist) IsBlocked(ip string) bool {
	_, blocked := b.Cause(ip)
	return blocked
}

// Cause returns the attack type behind an active block. When the entry does
// not carry one it falls back to "repeat_offender".
func (b *Blocklist) Cause(ip string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[ip]
	if !ok || !e.expiry.After(b.now()) {
		return "", false
	}
	if e.attackType == "" {
		return "repeat_offender", true
	}
	return e.attackType, true
}

// ActiveEntry describes one currently enforced block.
type ActiveEntry struct {
	IP         string    `json:"ip"`
	AttackType string    `json:"attack_type"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Active returns a snapshot of all non-expired blocks.
func (b *Blocklist) Active() []ActiveEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	now := b.now()
	out := make([]ActiveEntry, 0, len(b.entries))
	for ip, e := range b.entries {
		if e.expiry.After(now) {
			out = append(out, ActiveEntry{IP: ip, AttackType: e.attackType, ExpiresAt: e.expiry})
		}
	}
	return out
}
