package motion

import (
	"math"
	"sync"
	"time"
)

// Kind selects which input a progress source reads.
type Kind int

const (
	KindTime Kind = iota
	KindScroll
	KindPointer
)

func (k Kind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindScroll:
		return "scroll"
	case KindPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// Capabilities describes what the client environment can deliver.
type Capabilities struct {
	Pointer bool
	Scroll  bool
}

// Resolve picks the source kind to use. A preferred kind the environment
// cannot deliver falls back pointer → scroll → time, so an effect always has
// something to read.
func Resolve(preferred Kind, caps Capabilities) Kind {
	switch preferred {
	case KindPointer:
		if caps.Pointer {
			return KindPointer
		}
		fallthrough
	case KindScroll:
		if caps.Scroll {
			return KindScroll
		}
	}
	return KindTime
}

// Input is one observation of everything a source might read.
type Input struct {
	Elapsed  time.Duration
	Element  Rect
	Viewport Rect
	PointerX float64
	PointerY float64
}

// Sample is a progress reading. Value is always in [0, 1]. X and Y carry the
// pointer offset in [-1, 1] for pointer sources and are zero otherwise.
type Sample struct {
	Kind  Kind
	Value float64
	X, Y  float64
}

// Source computes progress of one kind.
type Source struct {
	Kind Kind
	// Duration is the time-based span. Zero means free-running over Period.
	Duration time.Duration
	Period   time.Duration
}

// Sample reads in. ok is false when the input cannot produce a value, such
// as an empty tracked element.
func (s Source) Sample(in Input) (Sample, bool) {
	switch s.Kind {
	case KindScroll:
		v, ok := ScrollProgress(in.Element, in.Viewport.Height)
		return Sample{Kind: KindScroll, Value: v}, ok
	case KindPointer:
		x, y, ok := PointerOffset(in.Element, in.PointerX, in.PointerY)
		if !ok {
			return Sample{Kind: KindPointer}, false
		}
		// Value is the distance from center, 1 at a corner.
		d := Clamp01(math.Hypot(x, y) / math.Sqrt2)
		return Sample{Kind: KindPointer, Value: d, X: x, Y: y}, true
	default:
		if s.Duration > 0 {
			return Sample{Kind: KindTime, Value: TimeProgress(in.Elapsed, s.Duration)}, true
		}
		return Sample{Kind: KindTime, Value: Cycle(in.Elapsed, s.Period)}, true
	}
}

// Broadcaster fans shared viewport events out to every subscriber. Delivery
// order between subscribers is unspecified.
type Broadcaster struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Input)
}

// NewBroadcaster creates a new Broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]func(Input))}
}

// Subscribe registers fn and returns the function that removes it.
func (b *Broadcaster) Subscribe(fn func(Input)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers in to every current subscriber.
func (b *Broadcaster) Publish(in Input) {
	b.mu.RLock()
	fns := make([]func(Input), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()
	for _, fn := range fns {
		fn(in)
	}
}

// Len is the number of live subscriptions.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Tracker owns one source for one component instance. It listens on a
// Broadcaster while mounted and stops updating the moment it is unmounted.
type Tracker struct {
	mu       sync.Mutex
	source   Source
	element  func() Rect
	onSample func(Sample)
	unsub    func()
	last     Sample
	mounted  bool
}

// NewTracker builds a tracker reading the element's current rect through
// element on every event. onSample runs under the tracker's lock and must not
// call back into the tracker.
func NewTracker(source Source, element func() Rect, onSample func(Sample)) *Tracker {
	return &Tracker{source: source, element: element, onSample: onSample}
}

// Mount starts listening. Mounting twice is a no-op.
func (t *Tracker) Mount(b *Broadcaster) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mounted {
		return
	}
	t.mounted = true
	t.unsub = b.Subscribe(t.handle)
}

// Unmount deregisters synchronously; no sample is delivered afterwards.
func (t *Tracker) Unmount() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.mounted {
		return
	}
	t.mounted = false
	t.unsub()
	t.unsub = nil
}

// Last returns the most recent sample.
func (t *Tracker) Last() Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

func (t *Tracker) handle(in Input) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.mounted {
		return
	}
	if t.element != nil {
		in.Element = t.element()
	}
	s, ok := t.source.Sample(in)
	if !ok {
		return
	}
	t.last = s
	if t.onSample != nil {
		t.onSample(s)
	}
}
