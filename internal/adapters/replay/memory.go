package replay

// Package replay provides replay guards for provider authorization codes.
// A guard admits each code into the pipeline at most once per hold window.

import (
	"context"
	"sync"
	"time"
)

// MemoryGuard is a process-local replay guard backed by a mutex-guarded set.
// Codes are lost on restart, which is acceptable: provider codes are
// single-use and short-lived upstream.
type MemoryGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
	holdFor  time.Duration

	// after schedules delayed eviction. Replaceable in tests so eviction
	// can be driven deterministically instead of sleeping.
	after func(d time.Duration, fn func())
}

// NewMemoryGuard creates a new in-memory replay guard. Codes are evicted
// holdFor after Release.
func NewMemoryGuard(holdFor time.Duration) *MemoryGuard {
	return &MemoryGuard{
		inflight: make(map[string]struct{}),
		holdFor:  holdFor,
		after:    func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// NewMemoryGuardWithScheduler creates a guard with a custom eviction
// scheduler (useful for tests).
func NewMemoryGuardWithScheduler(holdFor time.Duration, after func(time.Duration, func())) *MemoryGuard {
	return &MemoryGuard{
		inflight: make(map[string]struct{}),
		holdFor:  holdFor,
		after:    after,
	}
}

// Acquire marks the code in flight; false means it already is.
func (g *MemoryGuard) Acquire(_ context.Context, code string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.inflight[code]; exists {
		return false, nil
	}
	g.inflight[code] = struct{}{}
	return true, nil
}

// Release schedules eviction of the code after the hold window. It runs on
// every pipeline outcome so the guard is self-healing, not a permanent leak.
func (g *MemoryGuard) Release(_ context.Context, code string) {
	g.after(g.holdFor, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.inflight, code)
	})
}

// Len reports the number of codes currently in flight.
func (g *MemoryGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}
