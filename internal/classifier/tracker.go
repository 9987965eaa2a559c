package classifier

import (
	"sync"
	"time"
)

// Rolling-window thresholds for the behavioural rules.
const (
	bruteForceThreshold = 10
	bruteForceWindow    = 60 * time.Second

	floodThreshold = 200
	floodWindow    = 10 * time.Second

	scanThreshold = 20
	scanWindow    = 60 * time.Second
)

type ipActivity struct {
	requests  []time.Time
	logins    []time.Time
	pathSeen  map[string]time.Time
	lastTouch time.Time
}

// tracker keeps per-address sliding-window counters for the brute-force,
// flood and directory-scan rules. State is separate from the blocklist and
// safe for concurrent decision paths.
type tracker struct {
	mu  sync.Mutex
	ips map[string]*ipActivity
	now func() time.Time
}

func newTracker() *tracker {
	return &tracker{
		ips: make(map[string]*ipActivity),
		now: time.Now,
	}
}

// observation summarises the windows for one address after recording the
// current request.
type observation struct {
	requestCount int
	loginCount   int
	uniquePaths  int
}

// observe records one request and returns the updated window counts. Stale
// window entries for the address are pruned in the same pass.
func (t *tracker) observe(ip, path, method string) observation {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	act, ok := t.ips[ip]
	if !ok {
		act = &ipActivity{pathSeen: make(map[string]time.Time)}
		t.ips[ip] = act
	}
	act.lastTouch = now

	act.requests = append(pruneBefore(act.requests, now.Add(-floodWindow)), now)

	if method == "POST" && loginPathPattern.MatchString(path) {
		act.logins = append(pruneBefore(act.logins, now.Add(-bruteForceWindow)), now)
	} else {
		act.logins = pruneBefore(act.logins, now.Add(-bruteForceWindow))
	}

	act.pathSeen[path] = now
	scanCutoff := now.Add(-scanWindow)
	for p, seen := range act.pathSeen {
		if seen.Before(scanCutoff) {
			delete(act.pathSeen, p)
		}
	}

	return observation{
		requestCount: len(act.requests),
		loginCount:   len(act.logins),
		uniquePaths:  len(act.pathSeen),
	}
}

// Sweep drops addresses with no activity inside the longest window. Run it
// periodically so one-off clients do not accumulate forever.
func (t *tracker) sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-scanWindow)
	removed := 0
	for ip, act := range t.ips {
		if act.lastTouch.Before(cutoff) {
			delete(t.ips, ip)
			removed++
		}
	}
	return removed
}

func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(ts) && ts[idx].Before(cutoff) {
		idx++
	}
	if idx == 0 {
		return ts
	}
	return append(ts[:0], ts[idx:]...)
}
