// Package queue holds the pending work list: the hosts still waiting for
// a worker. Unlike the teacher's job manager, there is no retry or
// dead-letter state here — a ssh-para job visits the queue at most once.
package queue

import (
	"sync"

	"github.com/ChuLiYu/ssh-para/internal/job"
)

// Pending is a FIFO of job specs, safe for concurrent Take/Drain calls
// from multiple worker goroutines and the supervisor's abort path.
type Pending struct {
	mu    sync.Mutex
	specs []job.Spec
}

// New builds a Pending queue preloaded with specs, in order.
func New(specs []job.Spec) *Pending {
	cp := make([]job.Spec, len(specs))
	copy(cp, specs)
	return &Pending{specs: cp}
}

// Take removes and returns the head of the queue. ok is false once the
// queue is empty.
func (p *Pending) Take() (spec job.Spec, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.specs) == 0 {
		return job.Spec{}, false
	}
	spec, p.specs = p.specs[0], p.specs[1:]
	return spec, true
}

// Len reports the number of specs still waiting.
func (p *Pending) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.specs)
}

// Drain empties the queue and returns everything that was left, in FIFO
// order. Used by the supervisor's abort path: hosts never dispatched to
// a worker are reported as ABORTED in the order they were waiting.
func (p *Pending) Drain() []job.Spec {
	p.mu.Lock()
	defer p.mu.Unlock()
	drained := p.specs
	p.specs = nil
	return drained
}
