package sshrun

import "sync"

// PauseGate is the barrier workers pass through before dequeuing their
// next job. It is a broadcast condition variable, not a single queued
// token: Resume wakes every worker parked on Wait in one step, so a
// worker that arrives at the gate after Pause but before Resume can
// never be left permanently blocked the way a one-shot channel send
// could leave it.
type PauseGate struct {
	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
}

// NewPauseGate returns a gate that starts open.
func NewPauseGate() *PauseGate {
	g := &PauseGate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Pause closes the gate. Workers already past it (running a child) are
// unaffected; only the next dequeue blocks.
func (g *PauseGate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = true
}

// Resume opens the gate and wakes every worker waiting on it.
func (g *PauseGate) Resume() {
	g.mu.Lock()
	g.paused = false
	g.mu.Unlock()
	g.cond.Broadcast()
}

// Paused reports the current gate state.
func (g *PauseGate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Wait blocks the caller while the gate is closed.
func (g *PauseGate) Wait() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.paused {
		g.cond.Wait()
	}
}
