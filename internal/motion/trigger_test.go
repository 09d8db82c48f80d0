package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigger_FireOnce(t *testing.T) {
	tr := Trigger{Mode: FireOnce, Threshold: 0.3}

	assert.Equal(t, TransitionNone, tr.Observe(0.1), "below threshold")
	assert.Equal(t, TransitionEnter, tr.Observe(0.5))
	assert.True(t, tr.Spent())

	assert.Equal(t, TransitionNone, tr.Observe(0.9), "staying inside is not a new entry")
	assert.Equal(t, TransitionLeave, tr.Observe(0), "the first leave is reported")

	// Re-entering and leaving again never produces another edge.
	for range 5 {
		assert.Equal(t, TransitionNone, tr.Observe(1))
		assert.Equal(t, TransitionNone, tr.Observe(0))
	}
	assert.True(t, tr.Spent())
}

func TestTrigger_FireEveryTime(t *testing.T) {
	tr := Trigger{Mode: FireEveryTime, Threshold: 0.3}

	enters := 0
	for range 3 {
		if tr.Observe(0.6) == TransitionEnter {
			enters++
		}
		assert.Equal(t, TransitionNone, tr.Observe(0.9), "staying inside is not a new entry")
		assert.Equal(t, TransitionLeave, tr.Observe(0.1))
	}
	assert.Equal(t, 3, enters)
	assert.False(t, tr.Spent())
}

func TestTrigger_ZeroThresholdNeedsVisibility(t *testing.T) {
	tr := Trigger{Mode: FireEveryTime}
	assert.Equal(t, TransitionNone, tr.Observe(0))
	assert.Equal(t, TransitionEnter, tr.Observe(0.01))

	tr.Reset()
	assert.False(t, tr.Fired())
	assert.False(t, tr.Inside())
}
