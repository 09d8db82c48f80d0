package motion

// Mode decides whether an intersection trigger can fire more than once.
type Mode int

const (
	// FireOnce fires on the first qualifying entry and never resets. Its
	// leave edge is still reported, once.
	FireOnce Mode = iota
	// FireEveryTime resets when the element leaves the trigger region and
	// fires again on the next entry.
	FireEveryTime
)

func (m Mode) String() string {
	if m == FireEveryTime {
		return "every"
	}
	return "once"
}

// Transition is what a trigger observation produced.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionEnter
	TransitionLeave
)

// Trigger turns a stream of intersection ratios into enter/leave edges.
// The zero value is a fire-once trigger that fires on any visible pixel.
type Trigger struct {
	Mode Mode
	// Threshold is the visible fraction required to count as inside. Zero
	// means any positive ratio.
	Threshold float64

	inside bool
	fired  bool
}

// Observe feeds one intersection ratio and reports the resulting edge.
func (t *Trigger) Observe(ratio float64) Transition {
	if t.Spent() && !t.inside {
		return TransitionNone
	}

	in := ratio > 0 && ratio >= t.Threshold
	switch {
	case in && !t.inside:
		t.inside = true
		t.fired = true
		return TransitionEnter
	case !in && t.inside:
		t.inside = false
		return TransitionLeave
	}
	return TransitionNone
}

// Fired reports whether the trigger has fired at least once.
func (t *Trigger) Fired() bool { return t.fired }

// Spent reports whether a fire-once trigger can no longer fire.
func (t *Trigger) Spent() bool { return t.Mode == FireOnce && t.fired }

// Inside reports the last observed side of the threshold.
func (t *Trigger) Inside() bool { return t.inside }

// Reset returns the trigger to its initial state.
func (t *Trigger) Reset() {
	t.inside = false
	t.fired = false
}
