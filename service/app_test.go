package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"blogapi/app/cache"
	"blogapi/app/config"
	"blogapi/app/repositories/mock"
	"blogapi/app/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.RedisURL = "redis://" + mr.Addr()

		c, err := openCache(ctx, cfg, logger)
		require.NoError(t, err)
		defer c.Close()

		c.Set(ctx, "post:1", "cached")
		assert.True(t, mr.Exists("post:1"))
		assert.Equal(t, cfg.CacheTTL, mr.TTL("post:1"))
	})

	t.Run("unreachable redis still starts", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.Default()
		cfg.RedisURL = "redis://127.0.0.1:1"

		c, err := openCache(ctx, cfg, slog.New(slog.NewTextHandler(&buf, nil)))
		require.NoError(t, err)
		defer c.Close()

		assert.Contains(t, buf.String(), "redis unavailable")
		res := cache.Get[string](ctx, c, "post:1")
		assert.False(t, res.Hit)
	})

	t.Run("badger in memory", func(t *testing.T) {
		cfg := config.Default()
		cfg.CacheBackend = config.CacheBadger

		c, err := openCache(ctx, cfg, logger)
		require.NoError(t, err)
		defer c.Close()

		c.Set(ctx, "posts", []string{"a"})
		res := cache.Get[[]string](ctx, c, "posts")
		require.True(t, res.Hit)
		assert.Equal(t, []string{"a"}, res.Value)
	})

	t.Run("none", func(t *testing.T) {
		cfg := config.Default()
		cfg.CacheBackend = config.CacheNone

		c, err := openCache(ctx, cfg, logger)
		require.NoError(t, err)

		c.Set(ctx, "posts", []string{"a"})
		assert.False(t, cache.Get[[]string](ctx, c, "posts").Hit)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := config.Default()
		cfg.CacheBackend = "memcached"

		_, err := openCache(ctx, cfg, logger)
		assert.Error(t, err)
	})
}

func newTestApp() *App {
	logger := slog.New(slog.DiscardHandler)
	c := cache.New(cache.NoopBackend{}, 0, logger)
	postRepo, commentRepo := mock.NewRepositories()
	return &App{
		Config:   config.Default(),
		Logger:   logger,
		Cache:    c,
		Posts:    services.NewPostService(postRepo, commentRepo, c, logger),
		Comments: services.NewCommentService(commentRepo, postRepo, c, logger),
	}
}

func TestServerGracefulShutdown(t *testing.T) {
	app := newTestApp()
	defer app.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	url := fmt.Sprintf("http://%s/health", ln.Addr().String())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Serve(ctx, ln)
	}()

	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get(url)
	assert.Error(t, err)
}
