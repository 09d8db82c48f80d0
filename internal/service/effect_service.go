package service

import (
	"context"
	"fmt"
	"sync"

	app_errors "studio/backend/internal/errors"
	"studio/backend/internal/motion"
)

// DefaultEffectBounds is the canvas effects run over when streamed.
var DefaultEffectBounds = motion.Rect{Width: 1280, Height: 720}

// EffectService runs named particle effects on a shared frame scheduler and
// hands their frames to a caller, one request at a time per effect instance.
type EffectService struct {
	sched  motion.Scheduler
	bounds motion.Rect
}

func NewEffectService(sched motion.Scheduler, bounds motion.Rect) *EffectService {
	if bounds.Empty() {
		bounds = DefaultEffectBounds
	}
	return &EffectService{sched: sched, bounds: bounds}
}

// Names lists the effects Run accepts.
func (s *EffectService) Names() []string { return motion.Presets() }

// Run mounts and activates the named effect and passes its frames to sink
// until the effect finishes, maxFrames have been sent (when positive), sink
// fails or ctx ends. Frames are coalesced: if sink is slower than the
// scheduler, intermediate frames are skipped and the newest one is sent. The
// final frame of a finished effect is always delivered.
func (s *EffectService) Run(ctx context.Context, name string, seed uint64, maxFrames int, sink func(motion.Frame) error) error {
	preset, ok := motion.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: unknown effect '%s'", app_errors.ErrNotFound, name)
	}

	latest := &frameSlot{notify: make(chan struct{}, 1)}
	effect := motion.NewEffect(s.sched, preset(seed), latest.put)
	if !effect.Mount(s.bounds) {
		return fmt.Errorf("%w: effect has no area to render into", app_errors.ErrValidation)
	}
	defer effect.Unmount()
	effect.Activate()

	var sent uint64
	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-latest.notify:
		}

		frame, final := latest.take()
		if frame.Index > sent {
			if err := sink(frame); err != nil {
				return err
			}
			sent = frame.Index
			count++
		}
		if final || (maxFrames > 0 && count >= maxFrames) {
			return nil
		}
	}
}

// frameSlot holds the newest frame reported by an effect. put runs on the
// scheduler goroutine and never blocks it.
type frameSlot struct {
	mu     sync.Mutex
	frame  motion.Frame
	final  bool
	notify chan struct{}
}

func (f *frameSlot) put(frame motion.Frame) {
	f.mu.Lock()
	particles := append(f.frame.Particles[:0], frame.Particles...)
	f.frame = frame
	f.frame.Particles = particles
	if frame.State == motion.StateDone.String() || frame.State == motion.StateIdle.String() {
		f.final = true
	}
	f.mu.Unlock()

	select {
	case f.notify <- struct{}{}:
	default:
	}
}

// take copies out the newest frame.
func (f *frameSlot) take() (motion.Frame, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	frame := f.frame
	frame.Particles = append([]motion.ParticleState(nil), f.frame.Particles...)
	return frame, f.final
}
