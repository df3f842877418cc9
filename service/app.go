package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"blogapi/app/cache"
	"blogapi/app/config"
	"blogapi/app/repositories"
	"blogapi/app/routes"
	"blogapi/app/services"
)

const (
	shutdownTimeout  = 10 * time.Second
	cachePingTimeout = 2 * time.Second
)

// App holds the dependency graph of a running process.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	DB       *repositories.DB
	Cache    *cache.Cache
	Posts    *services.PostService
	Comments *services.CommentService
}

// NewApp connects to the store and the cache and builds the services.
func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := repositories.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	c, err := openCache(ctx, cfg, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Cache:    c,
		Posts:    services.NewPostService(postRepo, commentRepo, c, logger),
		Comments: services.NewCommentService(commentRepo, postRepo, c, logger),
	}, nil
}

// openCache builds the cache backend named by the config. An unreachable
// Redis is logged and the cache is still returned.
func openCache(ctx context.Context, cfg config.Config, logger *slog.Logger) (*cache.Cache, error) {
	var backend cache.Backend
	switch cfg.CacheBackend {
	case config.CacheRedis:
		rb, err := cache.NewRedisBackend(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, cachePingTimeout)
		defer cancel()
		if err := rb.Ping(pingCtx); err != nil {
			logger.Warn("redis unavailable, serving from the store", "err", err)
		}
		backend = rb
	case config.CacheBadger:
		bb, err := cache.OpenBadgerBackend(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		backend = bb
	case config.CacheNone:
		backend = cache.NoopBackend{}
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
	logger.Info("cache ready", "backend", cfg.CacheBackend, "ttl", cfg.CacheTTL)
	return cache.New(backend, cfg.CacheTTL, logger), nil
}

// Handler returns the HTTP handler for the API.
func (a *App) Handler() http.Handler {
	return routes.SetupRoutes(routes.Config{
		PostService:    a.Posts,
		CommentService: a.Comments,
		Logger:         a.Logger,
		AllowedOrigins: a.Config.AllowedOrigins,
	})
}

// Close releases the cache and the connection pool.
func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn("failed to close cache", "err", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func newServer(handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

// Serve runs the API on ln until ctx is cancelled, then drains in-flight
// requests.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := newServer(a.Handler(), a.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	a.Logger.Info("server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// RunAppServer starts the blog service and blocks until SIGINT or SIGTERM.
func RunAppServer(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.DB.InitSchema(ctx); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}
	return app.Serve(ctx, ln)
}
