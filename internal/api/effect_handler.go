package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tmaxmax/go-sse"

	app_errors "studio/backend/internal/errors"
	"studio/backend/internal/interfaces"
	"studio/backend/internal/motion"
)

const (
	defaultEffectFrames = 300
	maxEffectFrames     = 1200
)

var (
	frameEventType = sse.Type("frame")
	doneEventType  = sse.Type("done")
)

// EffectHandler streams particle effect frames as server-sent events.
type EffectHandler struct {
	service interfaces.EffectService
}

func NewEffectHandler(svc interfaces.EffectService) *EffectHandler {
	return &EffectHandler{service: svc}
}

// StreamEffect godoc
// @Summary      Stream an effect
// @Description  Runs a particle effect and sends one `frame` event per rendered frame, then a `done` event.
// @Tags         Effects
// @Produce      text/event-stream
// @Param        name    path      string  true   "Effect name (ink, rain, float)"
// @Param        frames  query     int     false  "Frame limit, 1-1200 (default 300)"
// @Param        seed    query     int     false  "Random seed (default: time based)"
// @Success      200     {object}  motion.Frame
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /v1/effects/{name} [get]
func (h *EffectHandler) StreamEffect(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !slices.Contains(h.service.Names(), name) {
		respondWithError(w, fmt.Errorf("%w: effect %q", app_errors.ErrNotFound, name))
		return
	}
	frames, seed, err := effectParams(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	sess, err := sse.Upgrade(w, r)
	if err != nil {
		slog.Error("Failed to upgrade effect stream", "effect", name, "error", err)
		respondWithError(w, err)
		return
	}

	sent := 0
	err = h.service.Run(r.Context(), name, seed, frames, func(f motion.Frame) error {
		data, err := json.Marshal(f)
		if err != nil {
			return err
		}
		msg := &sse.Message{Type: frameEventType, ID: sse.ID(strconv.FormatUint(f.Index, 10))}
		msg.AppendData(string(data))
		if err := sess.Send(msg); err != nil {
			return err
		}
		sent++
		return sess.Flush()
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || r.Context().Err() != nil {
			slog.Info("Client left effect stream", "effect", name, "frames", sent)
		} else {
			slog.Error("Effect stream failed", "effect", name, "frames", sent, "error", err)
		}
		return
	}

	done := &sse.Message{Type: doneEventType}
	done.AppendData(strconv.Itoa(sent))
	if err := sess.Send(done); err != nil {
		slog.Warn("Failed to send effect done event", "effect", name, "error", err)
		return
	}
	if err := sess.Flush(); err != nil {
		slog.Warn("Failed to flush effect done event", "effect", name, "error", err)
		return
	}
	slog.Debug("Finished effect stream", "effect", name, "frames", sent)
}

func effectParams(r *http.Request) (int, uint64, error) {
	q := r.URL.Query()
	frames := defaultEffectFrames
	if raw := q.Get("frames"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxEffectFrames {
			return 0, 0, fmt.Errorf("%w: frames must be between 1 and %d", app_errors.ErrValidation, maxEffectFrames)
		}
		frames = n
	}
	seed := uint64(time.Now().UnixNano())
	if raw := q.Get("seed"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: seed must be a non-negative integer", app_errors.ErrValidation)
		}
		seed = n
	}
	return frames, seed, nil
}
