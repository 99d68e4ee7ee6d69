package aggregate

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ddevcap/steam-profile-api/metrics"
	"github.com/ddevcap/steam-profile-api/steam"
)

// Fetch labels for per-item failure metrics.
const (
	fetchStoreDetail = "store_detail"
	fetchAchievement = "achievements"
)

// forEach calls fn(ctx, i) for every index of appIDs on the worker pool,
// waiting on the shared limiter before each call. A failing item is logged
// and counted; it never stops the others.
func (s *Service) forEach(ctx context.Context, fetch string, appIDs []int, fn func(ctx context.Context, i int) error) {
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i := range appIDs {
		g.Go(func() error {
			err := s.limiter.Wait(ctx)
			if err == nil {
				err = fn(ctx, i)
			}
			if err != nil {
				metrics.RecordItemFailure(fetch)
				slog.Warn("steam fetch failed, skipping app",
					"fetch", fetch, "app_id", appIDs[i], "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// fetchStoreDetails returns store details aligned with appIDs. Failed or
// timed out calls yield a {Success: false} placeholder.
func (s *Service) fetchStoreDetails(ctx context.Context, appIDs []int) []steam.AppDetails {
	out := make([]steam.AppDetails, len(appIDs))
	s.forEach(ctx, fetchStoreDetail, appIDs, func(ctx context.Context, i int) error {
		callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()

		details, err := s.upstream.AppDetails(callCtx, appIDs[i])
		if err != nil {
			return err
		}
		out[i] = details
		return nil
	})
	return out
}

// fetchAchievements returns achievement data keyed by app id. Apps whose
// fetch failed are absent from the map.
func (s *Service) fetchAchievements(ctx context.Context, userID string, appIDs []int) map[int]steam.GameAchievements {
	results := make([]*steam.GameAchievements, len(appIDs))
	s.forEach(ctx, fetchAchievement, appIDs, func(ctx context.Context, i int) error {
		data, err := s.upstream.Achievements(ctx, userID, appIDs[i])
		if err != nil {
			return err
		}
		results[i] = &data
		return nil
	})

	out := make(map[int]steam.GameAchievements, len(appIDs))
	for i, r := range results {
		if r != nil {
			out[appIDs[i]] = *r
		}
	}
	return out
}

// libraryAndRecent fetches the owned catalog and the recently played list
// concurrently. Both are required.
func (s *Service) libraryAndRecent(ctx context.Context, userID string, includeAppInfo bool) ([]steam.OwnedGame, steam.RecentlyPlayed, error) {
	var (
		owned  []steam.OwnedGame
		recent steam.RecentlyPlayed
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = s.upstream.OwnedGames(gctx, userID, includeAppInfo)
		if err != nil {
			return &UpstreamError{Op: "owned games", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recent, err = s.upstream.RecentlyPlayed(gctx, userID, recentLimit)
		if err != nil {
			return &UpstreamError{Op: "recently played", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, steam.RecentlyPlayed{}, err
	}
	recent.Games = head(recent.Games, recentLimit)
	return owned, recent, nil
}
