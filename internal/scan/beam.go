// Package scan implements the acquisition workflow: the scan session that
// owns the scanner device and beam animation, the permission gate, and the
// controller state machine the UI observes.
package scan

import (
	"sync"
	"time"
)

// DefaultBeamCycle is the fixed repeating cycle of the scan-beam indicator.
const DefaultBeamCycle = 2 * time.Second

// beamTickInterval controls how often the progress value is refreshed.
const beamTickInterval = 50 * time.Millisecond

// Beam drives the animated scan-beam indicator while a session is active.
// It is purely presentational: the bounded progress value feeds the UI and
// carries no correctness obligation. Its lifecycle is coupled 1:1 to the
// scanner device - the session starts and stops both together.
type Beam struct {
	cycle time.Duration

	mu       sync.Mutex
	running  bool
	progress float64
	stop     chan struct{}
	done     chan struct{}
}

// NewBeam creates a beam animator with the given cycle duration.
func NewBeam(cycle time.Duration) *Beam {
	if cycle <= 0 {
		cycle = DefaultBeamCycle
	}
	return &Beam{cycle: cycle}
}

// Start begins the repeating animation cycle. Starting a running beam is a no-op.
func (b *Beam) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return
	}
	b.running = true
	b.progress = 0
	b.stop = make(chan struct{})
	b.done = make(chan struct{})

	go b.run(b.stop, b.done, time.Now())
}

// Stop halts the animation. Idempotent: stopping twice is a no-op.
func (b *Beam) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	stop := b.stop
	done := b.done
	b.mu.Unlock()

	close(stop)
	<-done
}

// Running reports whether the animation cycle is active.
func (b *Beam) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// Progress returns the current beam position in [0, 1).
func (b *Beam) Progress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

func (b *Beam) run(stop chan struct{}, done chan struct{}, started time.Time) {
	defer close(done)

	ticker := time.NewTicker(beamTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			elapsed := now.Sub(started) % b.cycle
			b.mu.Lock()
			b.progress = float64(elapsed) / float64(b.cycle)
			b.mu.Unlock()
		}
	}
}
