package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"studio/backend/internal/api"
	"studio/backend/internal/config"
	"studio/backend/internal/database"
	"studio/backend/internal/llm"
	"studio/backend/internal/model"
	"studio/backend/internal/motion"
	"studio/backend/internal/ratelimit"
	"studio/backend/internal/repository"
	"studio/backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired server and the resources it must release.
type App struct {
	Config    *config.Config
	DB        *sql.DB
	Server    *http.Server
	Scheduler *motion.TickerScheduler
	Redis     *redis.Client
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource(cfg)

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

// NewApp opens the database, seeds the settings and builds the HTTP server.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)

	app := &App{Config: cfg, DB: db}

	gateway := llm.NewGatewayProvider(cfg.GatewayURL, cfg.GatewayAPIKey)
	settingsService := service.NewSettingsService(db, gateway)

	appSettings, err := settingsService.InitAndGet(context.Background(), &model.Settings{Model: cfg.GatewayModel})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize application settings: %w", err)
	}
	slog.Info("Loaded application settings", "model", appSettings.Model)

	modelService := service.NewModelService(gateway)
	checkGateway(modelService, appSettings.Model)

	app.Scheduler = motion.NewTickerScheduler(motion.DefaultFrameInterval)

	handlers := api.Handlers{
		Chat:     api.NewChatHandler(service.NewChatService(gateway, settingsService, cfg.GatewayModel, model.Tier(cfg.DefaultTier))),
		Contact:  api.NewContactHandler(service.NewContactService(repository.NewSQLiteRepository(db))),
		Settings: api.NewSettingsHandler(settingsService),
		Models:   api.NewModelHandler(modelService),
		Effects:  api.NewEffectHandler(service.NewEffectService(app.Scheduler, service.DefaultEffectBounds)),
	}
	router := api.NewRouter(handlers, api.RouterConfig{
		APIToken:          cfg.APIToken,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		LimitCounter:      app.newLimitCounter(),
		StaticDir:         cfg.StaticDir,
	})

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}
	return app, nil
}

// Serve runs the server until ctx is done, then shuts it down gracefully.
func (a *App) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting server", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Graceful shutdown failed, closing connections", "error", err)
			return a.Server.Close()
		}
		return nil
	})

	return g.Wait()
}

// Close releases the scheduler, redis and the database. Safe to call on a
// partially built App.
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Error("Failed to close redis connection", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}
}

// newLimitCounter uses redis when REDIS_ADDR is set and reachable, so limits
// hold across replicas. Otherwise it returns nil and limits are kept per
// process.
func (a *App) newLimitCounter() httprate.LimitCounter {
	cfg := a.Config
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := rdb.Ping(ctx).Err()
		if err == nil {
			slog.Info("Successfully connected to Redis.", "addr", cfg.RedisAddr)
			a.Redis = rdb
			return ratelimit.NewRedisCounter(rdb)
		}
		slog.Warn("Redis unreachable, keeping rate limits in memory", "addr", cfg.RedisAddr, "error", err)
		if err := rdb.Close(); err != nil {
			slog.Warn("Failed to close redis client", "error", err)
		}
	}
	return nil
}

// checkGateway logs whether the gateway answers and offers the configured
// model. The server starts either way.
func checkGateway(models *service.ModelService, want string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	list, err := models.List(ctx)
	if err != nil {
		slog.Warn("AI gateway not reachable at startup", "error", err)
		return
	}
	for _, id := range list.IDs() {
		if id == want {
			slog.Info("AI gateway is ready.", "models", len(list.Data))
			return
		}
	}
	slog.Warn("AI gateway does not offer the configured model", "model", want, "models", len(list.Data))
}

func logConfigSource(cfg *config.Config) {
	if file := cfg.Source(); file != "" {
		slog.Info("Successfully loaded configuration from file.", "file", file)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
