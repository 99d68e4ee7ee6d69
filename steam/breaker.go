package steam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ddevcap/steam-profile-api/metrics"
)

// BreakerSettings tunes the circuit breaker. Zero values use the defaults
// documented on each field.
type BreakerSettings struct {
	// MinRequests is the number of calls in a window before the failure
	// ratio is considered. Default 10.
	MinRequests uint32
	// FailureRatio opens the circuit once reached. Default 0.6.
	FailureRatio float64
	// Interval resets the closed-state counts. Default 1m.
	Interval time.Duration
	// OpenTimeout is how long the circuit stays open before probing. Default 30s.
	OpenTimeout time.Duration
}

// BreakerClient wraps Client with circuit breakers so that a Steam outage
// fails aggregations fast instead of letting every fan-out wait on timeouts.
// The Web API and the storefront are separate hosts and trip independently.
// It exposes the same call set as Client.
type BreakerClient struct {
	client *Client
	api    *gobreaker.CircuitBreaker[any]
	store  *gobreaker.CircuitBreaker[any]
}

func NewBreakerClient(client *Client, s BreakerSettings) *BreakerClient {
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = 0.6
	}
	if s.Interval <= 0 {
		s.Interval = time.Minute
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}

	return &BreakerClient{
		client: client,
		api:    newBreaker("steam-api", s),
		store:  newBreaker("steam-store", s),
	}
}

func newBreaker(name string, s BreakerSettings) *gobreaker.CircuitBreaker[any] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= s.FailureRatio
		},
		// A caller giving up is not an upstream failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.RecordBreakerTransition(name, from.String(), to.String(), stateToFloat(to))
		},
	})
}

// State returns the Web API breaker's current state.
func (b *BreakerClient) State() gobreaker.State {
	return b.api.State()
}

// StoreState returns the storefront breaker's current state.
func (b *BreakerClient) StoreState() gobreaker.State {
	return b.store.State()
}

func (b *BreakerClient) SetRegion(countryCode string) { b.client.SetRegion(countryCode) }

func (b *BreakerClient) Region() string { return b.client.Region() }

func (b *BreakerClient) Ping(ctx context.Context) error { return b.client.Ping(ctx) }

func (b *BreakerClient) PlayerSummaries(ctx context.Context, steamID string) ([]PlayerSummary, error) {
	return execute(b.api, func() ([]PlayerSummary, error) {
		return b.client.PlayerSummaries(ctx, steamID)
	})
}

func (b *BreakerClient) OwnedGames(ctx context.Context, steamID string, includeAppInfo bool) ([]OwnedGame, error) {
	return execute(b.api, func() ([]OwnedGame, error) {
		return b.client.OwnedGames(ctx, steamID, includeAppInfo)
	})
}

func (b *BreakerClient) RecentlyPlayed(ctx context.Context, steamID string, count int) (RecentlyPlayed, error) {
	return execute(b.api, func() (RecentlyPlayed, error) {
		return b.client.RecentlyPlayed(ctx, steamID, count)
	})
}

func (b *BreakerClient) AppDetails(ctx context.Context, appID int) (AppDetails, error) {
	return execute(b.store, func() (AppDetails, error) {
		return b.client.AppDetails(ctx, appID)
	})
}

func (b *BreakerClient) Achievements(ctx context.Context, steamID string, appID int) (GameAchievements, error) {
	return execute(b.api, func() (GameAchievements, error) {
		return b.client.Achievements(ctx, steamID, appID)
	})
}

// execute runs fn through cb and restores its static type.
func execute[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	var zero T
	result, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w", cb.Name(), err)
		}
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
