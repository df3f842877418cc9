// Package cache is the read-through accelerator in front of the store. It is
// never authoritative: every backend failure is absorbed here and reported to
// callers only as a Miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// ErrMiss is returned by a Backend when the key is absent or expired.
var ErrMiss = errors.New("cache: key not found")

// DefaultTTL is the expiry applied to populated entries.
const DefaultTTL = 300 * time.Second

// PostsKey holds the cached post list.
const PostsKey = "posts"

// PostKey returns the key holding a single post with its comments.
func PostKey(id int) string {
	return "post:" + strconv.Itoa(id)
}

// Backend is an expiring key-value store.
type Backend interface {
	// Get returns ErrMiss when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeleteMatching removes every key matching a glob pattern. A pattern
	// without glob metacharacters names a single key.
	DeleteMatching(ctx context.Context, pattern string) error
	Close() error
}

// Result is the outcome of a cache lookup: a Hit carrying the decoded value,
// or a Miss. Err is set when the miss came from a failure rather than an
// absent key.
type Result[T any] struct {
	Value T
	Hit   bool
	Err   error
}

// Hit wraps a value found in the cache.
func Hit[T any](value T) Result[T] {
	return Result[T]{Value: value, Hit: true}
}

// Miss reports a lookup that produced no value.
func Miss[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Cache stores JSON encoded values in a Backend.
type Cache struct {
	backend Backend
	ttl     time.Duration
	logger  *slog.Logger
}

// New creates a Cache. A non-positive ttl selects DefaultTTL.
func New(backend Backend, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{backend: backend, ttl: ttl, logger: logger.With("component", "cache")}
}

// TTL returns the expiry applied by Set.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get looks up key and decodes it into a T. Backend failures and undecodable
// payloads are misses; a corrupt entry is also deleted.
func Get[T any](ctx context.Context, c *Cache, key string) Result[T] {
	raw, err := c.backend.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return Miss[T](nil)
	}
	if err != nil {
		c.logger.Warn("cache get failed", "key", key, "err", err)
		return Miss[T](err)
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		c.logger.Warn("discarding corrupt cache entry", "key", key, "err", err)
		c.Invalidate(ctx, key)
		return Miss[T](fmt.Errorf("decode cached %q: %w", key, err))
	}
	return Hit(value)
}

// Set stores value under key with the cache TTL. Failures are logged, never
// returned.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("cannot encode cache value", "key", key, "err", err)
		return
	}
	if err := c.backend.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache set failed", "key", key, "err", err)
	}
}

// Invalidate deletes every key matching pattern. Failures are logged, never
// returned.
func (c *Cache) Invalidate(ctx context.Context, pattern string) {
	if err := c.backend.DeleteMatching(ctx, pattern); err != nil {
		c.logger.Warn("cache invalidate failed", "pattern", pattern, "err", err)
	}
}

// Close releases the backend.
func (c *Cache) Close() error {
	return c.backend.Close()
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[\`)
}

// literalPrefix returns the part of pattern before its first glob metacharacter.
func literalPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, `*?[\`); i >= 0 {
		return pattern[:i]
	}
	return pattern
}

// NoopBackend never stores anything.
type NoopBackend struct{}

func (NoopBackend) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (NoopBackend) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopBackend) DeleteMatching(context.Context, string) error { return nil }

func (NoopBackend) Close() error { return nil }
