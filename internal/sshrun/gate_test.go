package sshrun

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPauseGateBlocksUntilResume(t *testing.T) {
	g := NewPauseGate()
	g.Pause()

	var wg sync.WaitGroup
	released := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Wait()
		close(released)
	}()

	select {
	case <-released:
		t.Fatal("worker passed a closed gate")
	case <-time.After(50 * time.Millisecond):
	}

	g.Resume()
	wg.Wait()
}

func TestPauseGateWakesAllWaiters(t *testing.T) {
	g := NewPauseGate()
	g.Pause()

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			g.Wait()
		}()
	}

	time.Sleep(20 * time.Millisecond)
	g.Resume()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all waiters were woken")
	}
}

func TestPauseGateOpenByDefault(t *testing.T) {
	g := NewPauseGate()
	assert.False(t, g.Paused())
	g.Wait() // must not block
}
