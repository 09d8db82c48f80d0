package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	app_errors "studio/backend/internal/errors"
)

// RequireToken rejects requests without `Authorization: Bearer <token>`.
// An empty token turns the check off.
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				respondWithError(w, app_errors.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit admits at most requests per window per client address, using
// httprate's sliding window. It must run after middleware.RealIP. A nil
// counter keeps counts in process memory. A failing counter lets the
// request through.
func RateLimit(requests int, window time.Duration, counter httprate.LimitCounter) func(http.Handler) http.Handler {
	opts := []httprate.Option{
		httprate.WithKeyByIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Info("Rate limit exceeded", "client", r.RemoteAddr, "limit", requests)
			respondRateLimited(w, window)
		}),
	}
	if counter != nil {
		opts = append(opts, httprate.WithLimitCounter(failOpen{counter}))
	}
	return httprate.Limit(requests, window, opts...)
}

// failOpen reports an unreachable counter as empty.
type failOpen struct {
	httprate.LimitCounter
}

func (c failOpen) Increment(key string, currentWindow time.Time) error {
	return c.IncrementBy(key, currentWindow, 1)
}

func (c failOpen) IncrementBy(key string, currentWindow time.Time, amount int) error {
	if err := c.LimitCounter.IncrementBy(key, currentWindow, amount); err != nil {
		slog.Error("Rate limit counter unavailable, allowing request", "error", err)
	}
	return nil
}

func (c failOpen) Get(key string, currentWindow, previousWindow time.Time) (int, int, error) {
	curr, prev, err := c.LimitCounter.Get(key, currentWindow, previousWindow)
	if err != nil {
		slog.Error("Rate limit counter unavailable, allowing request", "error", err)
		return 0, 0, nil
	}
	return curr, prev, nil
}
