// Package runner defines the interface for interruptible, resumable
// computations and a race combinator that runs several of them
// concurrently until one succeeds.
package runner

import (
	"sync"
	"sync/atomic"
)

// Runner is a computation that can be run to completion, interrupted, and
// resumed. Run and RunUntil may be called repeatedly; once Finished
// reports true further calls are no-ops.
type Runner interface {
	// Run runs the computation to completion.
	Run()

	// RunUntil runs until the computation finishes or stop reports true.
	RunUntil(stop func() bool)

	// Finished reports whether the computation ran to completion.
	Finished() bool

	// Success reports whether the computation finished and produced a
	// usable answer.
	Success() bool
}

// Race runs a set of runners concurrently and stops them all as soon as
// one finishes. The zero value is ready to use.
type Race struct {
	mu      sync.Mutex
	runners []Runner
	winner  Runner
}

// Add registers r as a contestant. Must not be called while Run is in
// progress.
func (r *Race) Add(rn Runner) *Race {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners = append(r.runners, rn)
	return r
}

// Run starts every contestant in its own goroutine and blocks until one
// finishes, then signals the rest to stop and waits for them. The first
// contestant observed to finish becomes the winner.
func (r *Race) Run() {
	r.mu.Lock()
	runners := append([]Runner(nil), r.runners...)
	r.mu.Unlock()
	if len(runners) == 0 {
		return
	}

	var stop atomic.Bool
	var wg sync.WaitGroup
	for _, rn := range runners {
		wg.Add(1)
		go func(rn Runner) {
			defer wg.Done()
			rn.RunUntil(stop.Load)
			if rn.Finished() && stop.CompareAndSwap(false, true) {
				r.mu.Lock()
				r.winner = rn
				r.mu.Unlock()
			}
		}(rn)
	}
	wg.Wait()
}

// Winner returns the runner that finished first, or nil if Run has not
// produced one yet.
func (r *Race) Winner() Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.winner
}
