// Package timer provides simple wall-clock timing for CLI stages.
package timer

import (
	"sync"
	"time"
)

// Timer measures total elapsed time and the elapsed time of the current stage.
type Timer interface {
	// Start begins timing. Calling Start again resets the timer.
	Start()
	// NewStage marks the beginning of a new stage.
	NewStage()
	// Stop freezes the timer.
	Stop()
	// GetTiming returns the total elapsed duration and the current stage duration.
	GetTiming() (time.Duration, time.Duration)
}

type clockTimer struct {
	mu         sync.Mutex
	start      time.Time
	stageStart time.Time
	stopped    time.Time
}

// New creates a started Timer.
func New() Timer {
	t := &clockTimer{}
	t.Start()

	return t
}

func (t *clockTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.start = now
	t.stageStart = now
	t.stopped = time.Time{}
}

func (t *clockTimer) NewStage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stageStart = time.Now()
}

func (t *clockTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = time.Now()
}

func (t *clockTimer) GetTiming() (time.Duration, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.stopped
	if now.IsZero() {
		now = time.Now()
	}

	return now.Sub(t.start), now.Sub(t.stageStart)
}
