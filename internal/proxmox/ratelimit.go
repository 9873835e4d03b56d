package proxmox

import (
	"context"
	"sync"
	"time"
)

// Limiter bounds the outbound request rate over a trailing time window:
// no more than maxRequests admissions occur within any trailing window.
//
// The implementation keeps the ordered admission timestamps of the trailing
// window and prunes them with a linear scan on every admission check. That
// is a deliberate design choice: at the configured scale (around 100
// requests per minute) the scan is trivially cheap, and the trailing-window
// semantics are exactly what the API's rate policy describes. Do not replace
// it with a counting semaphore with periodic reset; that changes semantics.
//
// The limiter only gates admissions. It knows nothing about request
// outcomes and has no side effects on failure paths.
type Limiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	stamps      []time.Time

	// now is injectable for tests.
	now func() time.Time
}

// NewLimiter creates a Limiter admitting at most maxRequests per trailing
// window.
func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Admit returns once a slot is free, suspending the caller when the window
// is full. It guarantees that no more than maxRequests admissions fall
// within any trailing window interval.
//
// The loop is deliberately iterative: prune, check, optionally sleep,
// repeat. The check is re-run from scratch after every wake-up, since other
// admissions may have landed while this caller slept. The prune-check-record
// sequence is a single atomic step under the mutex; the sleep happens with
// the mutex released.
//
// Admit returns early with the context error when ctx is cancelled while
// waiting; no admission is recorded in that case.
func (l *Limiter) Admit(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)

		if len(l.stamps) < l.maxRequests {
			l.stamps = append(l.stamps, now)
			l.mu.Unlock()
			return nil
		}

		wait := l.window - now.Sub(l.stamps[0])
		l.mu.Unlock()

		// The oldest stamp may have just aged out between the prune and
		// the wait computation; never sleep a non-positive duration.
		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// prune discards recorded timestamps older than now minus the window.
// Callers must hold l.mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[i:]...)
	}
}

// pending returns the number of admissions currently inside the window.
func (l *Limiter) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.stamps)
}
