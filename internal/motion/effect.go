package motion

import (
	"math/rand/v2"
	"sync"
	"time"
)

// State is an effect instance's lifecycle stage.
type State int

const (
	// StateIdle: not mounted, or mounted with every particle recycled and no
	// frames scheduled.
	StateIdle State = iota
	// StateArmed: mounted and listening, not yet triggered.
	StateArmed
	// StateActive: frames scheduled, particles emitted and evolving.
	StateActive
	// StateSettling: trigger ended, remaining particles finish their decay.
	StateSettling
	// StateDone: a fire-once effect that has finished. Terminal for the
	// instance, remounting does not re-arm it.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateActive:
		return "active"
	case StateSettling:
		return "settling"
	case StateDone:
		return "done"
	default:
		return "idle"
	}
}

// Emitter initializes a freshly spawned particle inside bounds.
type Emitter func(rng *rand.Rand, bounds Rect, pt *Particle)

// EffectConfig describes a particle effect.
type EffectConfig struct {
	Name      string
	Capacity  int
	Mode      Mode
	Threshold float64
	// Burst particles are spawned the moment the effect activates.
	Burst int
	// Rate is the continuous emission in particles per second while active.
	Rate float64
	// ActiveFor bounds the emission window. Zero keeps emitting until the
	// trigger leaves; a burst-only effect settles right after its burst.
	ActiveFor time.Duration
	Emit      Emitter
	Seed      uint64
}

// Frame is what an effect reports after each step. Particles is reused on
// the next frame; copy it to keep it.
type Frame struct {
	Index     uint64          `json:"index"`
	Elapsed   time.Duration   `json:"elapsed"`
	State     string          `json:"state"`
	Live      int             `json:"live"`
	Particles []ParticleState `json:"particles"`
}

// Effect is one animated instance: its own particle pool, trigger and frame
// loop. Nothing is shared with other instances.
type Effect struct {
	mu      sync.Mutex
	cfg     EffectConfig
	pool    *Pool
	trigger Trigger
	loop    *Loop
	rng     *rand.Rand
	onFrame func(Frame)

	state    State
	mounted  bool
	bounds   Rect
	unsub    func()
	elapsed  time.Duration
	activeT  time.Duration
	emitDebt float64
	frames   uint64
	buf      []ParticleState
}

// NewEffect builds an unmounted effect driven by sched. onFrame runs under
// the effect's lock after every step and must not call back into the effect.
func NewEffect(sched Scheduler, cfg EffectConfig, onFrame func(Frame)) *Effect {
	if cfg.Capacity <= 0 {
		cfg.Capacity = cfg.Burst
	}
	e := &Effect{
		cfg:     cfg,
		pool:    NewPool(cfg.Capacity),
		trigger: Trigger{Mode: cfg.Mode, Threshold: cfg.Threshold},
		rng:     rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		onFrame: onFrame,
		buf:     make([]ParticleState, 0, cfg.Capacity),
	}
	e.loop = NewLoop(sched, e.tick)
	return e
}

// Mount arms the effect over bounds. An empty bounds leaves the effect idle
// and returns false; nothing is scheduled. A finished fire-once effect
// mounts but stays done.
func (e *Effect) Mount(bounds Rect) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mounted {
		return true
	}
	if bounds.Empty() {
		return false
	}
	e.mounted = true
	e.bounds = bounds
	if e.state == StateDone {
		return true
	}
	e.trigger.Reset()
	e.state = StateArmed
	return true
}

// Listen observes viewport events from b until Unmount.
func (e *Effect) Listen(b *Broadcaster) {
	unsub := b.Subscribe(func(in Input) { e.ObserveViewport(in.Viewport) })
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		unsub()
		return
	}
	if e.unsub != nil {
		e.unsub()
	}
	e.unsub = unsub
}

// ObserveViewport feeds the visible fraction of the effect's bounds.
func (e *Effect) ObserveViewport(viewport Rect) State {
	e.mu.Lock()
	bounds := e.bounds
	e.mu.Unlock()
	return e.Observe(IntersectionRatio(bounds, viewport))
}

// Observe feeds an intersection ratio and returns the resulting state.
func (e *Effect) Observe(ratio float64) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted || e.state == StateDone {
		return e.state
	}

	switch e.trigger.Observe(ratio) {
	case TransitionEnter:
		e.activateLocked()
	case TransitionLeave:
		if e.state == StateActive {
			e.state = StateSettling
		}
	}
	return e.state
}

// Activate starts the effect without an intersection signal, for
// time-driven effects that are explicitly enabled.
func (e *Effect) Activate() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted || e.state == StateDone {
		return e.state
	}
	e.activateLocked()
	return e.state
}

func (e *Effect) activateLocked() {
	e.state = StateActive
	e.activeT = 0
	e.emitDebt = 0
	e.spawnLocked(e.cfg.Burst)
	if e.cfg.Rate <= 0 && e.cfg.ActiveFor <= 0 {
		e.state = StateSettling
	}
	e.loop.Start()
}

func (e *Effect) spawnLocked(n int) {
	if n <= 0 {
		return
	}
	e.pool.Spawn(n, func(_ int, pt *Particle) {
		if e.cfg.Emit != nil {
			e.cfg.Emit(e.rng, e.bounds, pt)
		}
	})
}

// Unmount stops the loop, deregisters listeners and recycles every
// particle. No frame is reported after it returns.
func (e *Effect) Unmount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		return
	}
	e.mounted = false
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
	e.loop.Stop()
	e.pool.Reset()
	if e.state != StateDone {
		e.state = StateIdle
	}
}

func (e *Effect) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Live is the number of particles still evolving.
func (e *Effect) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Live()
}

// Scheduled reports whether a frame is pending for this effect.
func (e *Effect) Scheduled() bool { return e.loop.Pending() }

func (e *Effect) tick(dt time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		return false
	}

	e.elapsed += dt
	if e.state == StateActive {
		e.activeT += dt
		if e.cfg.Rate > 0 {
			e.emitDebt += e.cfg.Rate * dt.Seconds()
			n := int(e.emitDebt)
			e.emitDebt -= float64(n)
			e.spawnLocked(n)
		}
		if e.cfg.ActiveFor > 0 && e.activeT >= e.cfg.ActiveFor {
			e.state = StateSettling
		}
	}

	live := e.pool.Step(dt)
	keep := true
	if e.state == StateSettling && live == 0 {
		if e.cfg.Mode == FireOnce {
			e.state = StateDone
		} else {
			e.state = StateIdle
		}
		keep = false
	}

	e.frames++
	if e.onFrame != nil {
		e.buf = e.pool.Snapshot(e.buf[:0])
		e.onFrame(Frame{
			Index:     e.frames,
			Elapsed:   e.elapsed,
			State:     e.state.String(),
			Live:      live,
			Particles: e.buf,
		})
	}
	return keep
}
