package motion

import "time"

// Phase is a particle's lifecycle stage.
type Phase uint8

const (
	PhaseDead Phase = iota
	PhasePending
	PhaseActive
	PhaseFading
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseActive:
		return "active"
	case PhaseFading:
		return "fading"
	default:
		return "dead"
	}
}

// Particle is one simulated visual unit. Durations are per phase: a particle
// waits Delay while pending, shows at Peak opacity for Life, then fades to
// zero over Fade and dies.
type Particle struct {
	X, Y   float64
	VX, VY float64
	// AX and AY are constant accelerations in units per second squared.
	AX, AY float64
	Size   float64
	Glyph  rune

	Alpha float64
	Peak  float64

	Phase Phase
	// Age is the time spent in the current phase.
	Age time.Duration

	Delay time.Duration
	Life  time.Duration
	Fade  time.Duration
}

// Lifetime is the total time from spawn to death.
func (p *Particle) Lifetime() time.Duration {
	return p.Delay + p.Life + p.Fade
}

func (p *Particle) budget() time.Duration {
	switch p.Phase {
	case PhasePending:
		return p.Delay
	case PhaseActive:
		return p.Life
	case PhaseFading:
		return p.Fade
	}
	return 0
}

func (p *Particle) advancePhase() {
	p.Age = 0
	switch p.Phase {
	case PhasePending:
		p.Phase = PhaseActive
	case PhaseActive:
		p.Phase = PhaseFading
	default:
		p.Phase = PhaseDead
	}
}

func (p *Particle) opacity() float64 {
	switch p.Phase {
	case PhaseActive:
		return p.Peak
	case PhaseFading:
		if p.Fade <= 0 {
			return 0
		}
		return p.Peak * (1 - Clamp01(float64(p.Age)/float64(p.Fade)))
	}
	return 0
}

// Step advances the particle by dt of simulated time. Time left over when a
// phase ends carries into the next one, so a particle stepped in small or
// large increments dies at the same moment. Phases with no budget are passed
// straight through.
func (p *Particle) Step(dt time.Duration) {
	for p.Phase != PhaseDead {
		if remaining := p.budget() - p.Age; remaining > 0 {
			if dt <= 0 {
				break
			}
			step := min(dt, remaining)
			if p.Phase != PhasePending {
				p.integrate(step)
			}
			p.Age += step
			dt -= step
			if step < remaining {
				break
			}
		}
		p.advancePhase()
	}
	p.Alpha = p.opacity()
}

func (p *Particle) integrate(dt time.Duration) {
	s := dt.Seconds()
	p.X += p.VX*s + 0.5*p.AX*s*s
	p.Y += p.VY*s + 0.5*p.AY*s*s
	p.VX += p.AX * s
	p.VY += p.AY * s
}

// ParticleState is the render-facing view of a live particle.
type ParticleState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Alpha float64 `json:"alpha"`
	Glyph string  `json:"glyph,omitempty"`
	Phase string  `json:"phase"`
}

// Pool is a fixed-capacity set of particles. Dead slots are reused by Spawn,
// so a long-running effect never grows its memory.
type Pool struct {
	particles []Particle
	live      int
}

// NewPool allocates every slot up front.
func NewPool(capacity int) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool{particles: make([]Particle, capacity)}
}

// Cap is the pool's fixed capacity.
func (p *Pool) Cap() int { return len(p.particles) }

// Live is the number of particles not yet dead.
func (p *Pool) Live() int { return p.live }

// Spawn initializes up to n dead slots with init and returns how many were
// spawned. A full pool spawns nothing.
func (p *Pool) Spawn(n int, init func(i int, pt *Particle)) int {
	spawned := 0
	for i := range p.particles {
		if spawned >= n {
			break
		}
		pt := &p.particles[i]
		if pt.Phase != PhaseDead {
			continue
		}
		*pt = Particle{Peak: 1}
		if init != nil {
			init(spawned, pt)
		}
		pt.Phase = PhasePending
		pt.Age = 0
		pt.Alpha = 0
		spawned++
	}
	p.live += spawned
	return spawned
}

// Step advances every live particle by dt and returns the live count.
func (p *Pool) Step(dt time.Duration) int {
	live := 0
	for i := range p.particles {
		pt := &p.particles[i]
		if pt.Phase == PhaseDead {
			continue
		}
		pt.Step(dt)
		if pt.Phase != PhaseDead {
			live++
		}
	}
	p.live = live
	return live
}

// Reset kills every particle.
func (p *Pool) Reset() {
	for i := range p.particles {
		p.particles[i] = Particle{}
	}
	p.live = 0
}

// Each calls fn for every live particle.
func (p *Pool) Each(fn func(pt *Particle)) {
	for i := range p.particles {
		if p.particles[i].Phase != PhaseDead {
			fn(&p.particles[i])
		}
	}
}

// Snapshot appends the visible state of live particles to dst and returns
// it. Pass dst[:0] from the previous frame to reuse its backing array.
func (p *Pool) Snapshot(dst []ParticleState) []ParticleState {
	for i := range p.particles {
		pt := &p.particles[i]
		if pt.Phase == PhaseDead || pt.Phase == PhasePending {
			continue
		}
		s := ParticleState{
			X:     pt.X,
			Y:     pt.Y,
			Size:  pt.Size,
			Alpha: pt.Alpha,
			Phase: pt.Phase.String(),
		}
		if pt.Glyph != 0 {
			s.Glyph = string(pt.Glyph)
		}
		dst = append(dst, s)
	}
	return dst
}
