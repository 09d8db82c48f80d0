package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "studio/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups every handler the router mounts.
type Handlers struct {
	Chat     *ChatHandler
	Contact  *ContactHandler
	Settings *SettingsHandler
	Models   *ModelHandler
	Effects  *EffectHandler
}

// RouterConfig carries the router's access policy.
type RouterConfig struct {
	// APIToken protects the demo chat, the contact inbox and the settings.
	// Empty leaves them open.
	APIToken string
	// RateLimitRequests per RateLimitWindow throttle the demo chat and
	// contact submissions per client. Zero turns limiting off.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// LimitCounter shares the counts between instances. Nil keeps them in
	// process memory.
	LimitCounter httprate.LimitCounter
	StaticDir    string
}

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(h Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP) // The rate limiter keys on the address this sets.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	auth := RequireToken(cfg.APIToken)
	limit := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimitRequests > 0 {
		limit = RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.LimitCounter)
	}

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {

		// JSON routes get a request timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Contact ---
			r.With(limit).Post("/contact", h.Contact.SubmitContact)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/contact", h.Contact.ListContacts)
				r.Get("/contact/{contactID}", h.Contact.GetContact)
				r.Delete("/contact/{contactID}", h.Contact.DeleteContact)

				// --- Settings ---
				r.Get("/settings", h.Settings.GetSettings)
				r.Post("/settings", h.Settings.UpdateSettings)
			})

			// --- Models ---
			r.Get("/models", h.Models.HandleListModels)
		})

		// Streaming routes hold the connection open and must NOT have a timeout.
		r.Group(func(r chi.Router) {
			r.With(auth, limit).Post("/demo-chat", h.Chat.HandleDemoChat)
			r.Get("/effects/{name}", h.Effects.StreamEffect)
		})
	})

	// --- Frontend File Server ---
	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = "./frontend/dist"
	}
	fileServer := http.FileServer(http.Dir(staticDir))
	r.Handle("/*", fileServer)

	return r
}
