package motion

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Easing maps linear progress in [0, 1] to eased progress in [0, 1].
type Easing func(t float64) float64

func Linear(t float64) float64 { return Clamp01(t) }

func EaseOutCubic(t float64) float64 {
	t = Clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

func EaseInOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Style is a set of derived visual values. The presentation layer binds
// them; the engine never applies them itself.
type Style struct {
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Scale      float64 `json:"scale"`
	Rotate     float64 `json:"rotate"`
	Opacity    float64 `json:"opacity"`
}

// Identity is the untransformed, fully visible style.
var Identity = Style{Scale: 1, Opacity: 1}

// Reveal fades an element in while sliding it up from distance below its
// layout position.
func Reveal(progress, distance float64, ease Easing) Style {
	if ease == nil {
		ease = Linear
	}
	p := Clamp01(ease(Clamp01(progress)))
	return Style{
		TranslateY: (1 - p) * distance,
		Scale:      1,
		Opacity:    p,
	}
}

// ParallaxStyle offsets an element vertically by scroll progress.
func ParallaxStyle(progress, distance, speed float64) Style {
	return Style{TranslateY: Parallax(progress, distance, speed), Scale: 1, Opacity: 1}
}

// Tilt rotates toward a pointer sample, up to maxDegrees at the edges.
func Tilt(s Sample, maxDegrees float64) Style {
	if s.Kind != KindPointer {
		return Identity
	}
	return Style{
		TranslateX: s.X * maxDegrees / 4,
		TranslateY: s.Y * maxDegrees / 4,
		Rotate:     Clamp(s.X*maxDegrees, -math.Abs(maxDegrees), math.Abs(maxDegrees)),
		Scale:      1,
		Opacity:    1,
	}
}

// Follower chases a moving target with a damped spring, for cursor-following
// elements. Frame deltas vary, so the spring is rebuilt whenever the delta
// changes.
type Follower struct {
	frequency float64
	damping   float64

	spring harmonica.Spring
	dt     time.Duration

	x, vx   float64
	y, vy   float64
	tx, ty  float64
	started bool
}

// NewFollower returns a follower with the given angular frequency and
// damping ratio. A damping ratio of 1 settles without overshoot.
func NewFollower(frequency, damping float64) *Follower {
	return &Follower{frequency: frequency, damping: damping}
}

// SetTarget moves the point the follower chases. The first target also
// places the follower.
func (f *Follower) SetTarget(x, y float64) {
	f.tx, f.ty = x, y
	if !f.started {
		f.x, f.y = x, y
		f.started = true
	}
}

// Step advances the spring by dt and returns the follower's position.
func (f *Follower) Step(dt time.Duration) (x, y float64) {
	if dt <= 0 {
		return f.x, f.y
	}
	if dt != f.dt {
		f.spring = harmonica.NewSpring(dt.Seconds(), f.frequency, f.damping)
		f.dt = dt
	}
	f.x, f.vx = f.spring.Update(f.x, f.vx, f.tx)
	f.y, f.vy = f.spring.Update(f.y, f.vy, f.ty)
	return f.x, f.y
}

// Position is the follower's current position.
func (f *Follower) Position() (x, y float64) { return f.x, f.y }

// Settled reports whether the follower is within eps of its target and
// nearly still.
func (f *Follower) Settled(eps float64) bool {
	return math.Abs(f.x-f.tx) < eps && math.Abs(f.y-f.ty) < eps &&
		math.Abs(f.vx) < eps && math.Abs(f.vy) < eps
}
