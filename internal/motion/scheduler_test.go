package motion

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualScheduler_RunsInRequestOrder(t *testing.T) {
	s := NewManualScheduler(epoch)
	var order []int
	s.RequestFrame(func(time.Time) { order = append(order, 1) })
	s.RequestFrame(func(time.Time) { order = append(order, 2) })
	canceled := s.RequestFrame(func(time.Time) { order = append(order, 3) })
	s.CancelFrame(canceled)

	assert.Equal(t, 2, s.Advance(frame))
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, epoch.Add(frame), s.Now())
}

func TestManualScheduler_RequestsDuringFrameWait(t *testing.T) {
	s := NewManualScheduler(epoch)
	runs := 0
	var fn FrameFunc
	fn = func(time.Time) {
		runs++
		s.RequestFrame(fn)
	}
	s.RequestFrame(fn)

	s.Advance(frame)
	assert.Equal(t, 1, runs, "a callback requested mid-frame waits for the next one")
	s.Advance(frame)
	assert.Equal(t, 2, runs)
}

func TestTickerScheduler_DeliversAndCloses(t *testing.T) {
	s := NewTickerScheduler(time.Millisecond)
	defer s.Close()

	var ran atomic.Int32
	done := make(chan time.Time, 1)
	s.RequestFrame(func(now time.Time) {
		ran.Add(1)
		done <- now
	})

	select {
	case now := <-done:
		assert.False(t, now.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("frame never ran")
	}
	assert.Equal(t, int32(1), ran.Load())

	id := s.RequestFrame(func(time.Time) { ran.Add(1) })
	s.CancelFrame(id)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), ran.Load(), "canceled callbacks never run")

	s.Close()
	s.Close()
	require.Equal(t, 0, s.Pending())
}
