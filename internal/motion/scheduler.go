package motion

import (
	"sync"
	"time"
)

// FrameID identifies a requested frame callback.
type FrameID uint64

// FrameFunc runs once on the next frame with that frame's timestamp.
type FrameFunc func(now time.Time)

// Scheduler hands out display-refresh callbacks. Callbacks requested before a
// frame run on that frame, in request order, one after another.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

type frameQueue struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]FrameFunc
	order   []FrameID
}

func (q *frameQueue) request(fn FrameFunc) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = make(map[FrameID]FrameFunc)
	}
	q.next++
	q.pending[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

func (q *frameQueue) cancel(id FrameID) {
	q.mu.Lock()
	delete(q.pending, id)
	q.mu.Unlock()
}

// drain runs every callback pending at the moment it is called. Callbacks
// requested while draining wait for the next frame, and a callback canceled
// by an earlier one in the same frame does not run.
func (q *frameQueue) drain(now time.Time) int {
	q.mu.Lock()
	order := q.order
	q.order = nil
	q.mu.Unlock()

	ran := 0
	for _, id := range order {
		q.mu.Lock()
		fn, ok := q.pending[id]
		delete(q.pending, id)
		q.mu.Unlock()
		if !ok {
			continue
		}
		fn(now)
		ran++
	}
	return ran
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// TickerScheduler drives frames from a time.Ticker on a single goroutine, so
// all callbacks it runs are serialized.
type TickerScheduler struct {
	queue frameQueue
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewTickerScheduler starts the frame goroutine. Close must be called to
// stop it.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	s := &TickerScheduler{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.run(interval)
	return s
}

// DefaultFrameInterval targets 60 frames per second.
const DefaultFrameInterval = time.Second / 60

func (s *TickerScheduler) run(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.queue.drain(now)
		}
	}
}

func (s *TickerScheduler) RequestFrame(fn FrameFunc) FrameID { return s.queue.request(fn) }

func (s *TickerScheduler) CancelFrame(id FrameID) { s.queue.cancel(id) }

// Pending is the number of callbacks waiting for a frame.
func (s *TickerScheduler) Pending() int { return s.queue.len() }

// Close stops the frame goroutine and waits for it to exit. Pending callbacks
// are dropped.
func (s *TickerScheduler) Close() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

// ManualScheduler only produces a frame when Advance is called. It backs
// deterministic simulations and tests.
type ManualScheduler struct {
	queue frameQueue
	mu    sync.Mutex
	now   time.Time
}

// NewManualScheduler creates a new ManualScheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (s *ManualScheduler) RequestFrame(fn FrameFunc) FrameID { return s.queue.request(fn) }

func (s *ManualScheduler) CancelFrame(id FrameID) { s.queue.cancel(id) }

// Advance moves the clock by d and runs one frame. It returns how many
// callbacks ran.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	s.now = s.now.Add(d)
	now := s.now
	s.mu.Unlock()
	return s.queue.drain(now)
}

// Pending is the number of callbacks waiting for a frame.
func (s *ManualScheduler) Pending() int { return s.queue.len() }

// Now is the scheduler's current frame time.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
