package motion

import (
	"sync"
	"time"
)

// StepFunc advances an effect by dt, the wall-clock time since the previous
// frame (zero on the first frame after Start). Returning false ends the loop.
type StepFunc func(dt time.Duration) bool

// Loop runs a StepFunc once per frame while started. It keeps at most one
// callback pending on its scheduler, however often Start is called.
type Loop struct {
	sched Scheduler
	step  StepFunc

	mu      sync.Mutex
	running bool
	pending bool
	id      FrameID
	gen     uint64
	last    time.Time
	frames  uint64
}

// NewLoop creates a new stopped Loop.
func NewLoop(sched Scheduler, step StepFunc) *Loop {
	return &Loop{sched: sched, step: step}
}

// Start begins scheduling frames. It is a no-op while already running.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = true
	l.scheduleLocked()
}

// Stop cancels the pending frame. After Stop returns no new frame is
// scheduled until Start is called again.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = false
	l.gen++
	if l.pending {
		l.sched.CancelFrame(l.id)
		l.pending = false
	}
	l.last = time.Time{}
}

// Running reports whether the loop is scheduling frames.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Pending reports whether a frame callback is currently scheduled.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Frames is the number of frames the loop has stepped.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

func (l *Loop) scheduleLocked() {
	if l.pending || !l.running {
		return
	}
	l.gen++
	gen := l.gen
	l.pending = true
	l.id = l.sched.RequestFrame(func(now time.Time) { l.frame(gen, now) })
}

// frame runs a callback requested for generation gen. A callback the
// scheduler had already dequeued when Stop ran is stale and does nothing.
func (l *Loop) frame(gen uint64, now time.Time) {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.pending = false
	if !l.running {
		l.mu.Unlock()
		return
	}
	var dt time.Duration
	if !l.last.IsZero() {
		dt = now.Sub(l.last)
	}
	l.last = now
	l.frames++
	l.mu.Unlock()

	keep := l.step(dt)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return
	}
	if !keep {
		l.running = false
		l.last = time.Time{}
		return
	}
	l.scheduleLocked()
}
