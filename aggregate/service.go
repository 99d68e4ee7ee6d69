// Package aggregate builds the user, games and achievements responses from
// several Steam calls each, and memoizes them per user under kind-specific
// TTLs.
//
// Concurrent misses for the same key share one fan-out. Per-app fetches
// (store details, achievements) run on a bounded pool behind a shared token
// bucket, and a failing app never fails the aggregation.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ddevcap/steam-profile-api/cache"
	"github.com/ddevcap/steam-profile-api/metrics"
)

// Response kinds. Also used as cache key prefixes and metric labels.
const (
	KindUser         = "user"
	KindGames        = "games"
	KindAchievements = "achievements"
)

const (
	recentLimit           = 10
	ownedOutputLimit      = 100
	achievementOwnedLimit = 50

	defaultConcurrency  = 4
	defaultStoreTimeout = 5 * time.Second
	defaultPacing       = 100 * time.Millisecond
)

// TTL holds the lifetime of each response kind.
type TTL struct {
	User         time.Duration
	Games        time.Duration
	Achievements time.Duration
}

type Service struct {
	upstream Upstream
	cache    *cache.Cache[any]
	ttl      TTL

	concurrency  int
	limiter      *rate.Limiter
	storeTimeout time.Duration

	flight singleflight.Group
}

type Option func(*Service)

// WithConcurrency sets how many per-app fetches may be in flight at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLimiter replaces the default token bucket (one call per 100ms).
// Every store-detail and achievement call waits on it.
func WithLimiter(l *rate.Limiter) Option {
	return func(s *Service) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithStoreTimeout bounds each store-detail call.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

// New returns a Service reading through c. The cache may be shared with
// other services; keys are namespaced by kind and user id.
func New(upstream Upstream, c *cache.Cache[any], ttl TTL, opts ...Option) *Service {
	s := &Service{
		upstream:     upstream,
		cache:        c,
		ttl:          ttl,
		concurrency:  defaultConcurrency,
		limiter:      rate.NewLimiter(rate.Every(defaultPacing), 1),
		storeTimeout: defaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// User returns the profile and presence of userID with playtime totals.
func (s *Service) User(ctx context.Context, userID string) (UserProfile, Meta, error) {
	return load(ctx, s, KindUser, userID, s.ttl.User, s.buildUser)
}

// Games returns the recently played and owned games of userID.
func (s *Service) Games(ctx context.Context, userID string) (GamesData, Meta, error) {
	return load(ctx, s, KindGames, userID, s.ttl.Games, s.buildGames)
}

// Achievements returns per-game achievement detail for userID.
func (s *Service) Achievements(ctx context.Context, userID string) (AchievementsData, Meta, error) {
	return load(ctx, s, KindAchievements, userID, s.ttl.Achievements, s.buildAchievements)
}

// CacheKey returns the cache key of kind for userID.
func CacheKey(kind, userID string) string {
	return "steam-" + kind + "-" + userID
}

// load serves key from the cache or runs build once for all concurrent
// callers. The build runs detached from ctx: a caller that gives up only
// stops waiting, the result is still cached for the next one. Failures are
// never cached.
func load[T any](ctx context.Context, s *Service, kind, userID string, ttl time.Duration,
	build func(context.Context, string) (T, error)) (T, Meta, error) {
	var zero T
	key := CacheKey(kind, userID)

	if e, ok := s.cache.Peek(key); ok {
		if v, ok := e.Value.(T); ok {
			metrics.RecordCacheLookup(kind, true)
			slog.Debug("cache hit", "key", key, "expires", e.ExpiresAt)
			return v, Meta{Cached: true, StoredAt: e.StoredAt, ExpiresAt: e.ExpiresAt}, nil
		}
	}
	metrics.RecordCacheLookup(kind, false)

	detached := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (any, error) {
		start := time.Now()
		v, err := build(detached, userID)
		metrics.RecordAggregation(kind, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, v, ttl)
		slog.Debug("aggregated", "key", key, "duration_ms", time.Since(start).Milliseconds())
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, Meta{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, Meta{}, res.Err
		}
		v, ok := res.Val.(T)
		if !ok {
			return zero, Meta{}, fmt.Errorf("aggregate: unexpected %s payload %T", kind, res.Val)
		}
		now := time.Now()
		meta := Meta{StoredAt: now, ExpiresAt: now.Add(ttl)}
		if e, ok := s.cache.Peek(key); ok {
			meta.StoredAt, meta.ExpiresAt = e.StoredAt, e.ExpiresAt
		}
		return v, meta, nil
	}
}
