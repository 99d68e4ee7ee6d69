package aggregate

import (
	"context"

	"github.com/ddevcap/steam-profile-api/steam"
)

// Upstream is the subset of the Steam client the aggregators need.
// *steam.Client and *steam.BreakerClient both satisfy it.
type Upstream interface {
	// PlayerSummaries returns an empty slice when the profile is missing or
	// private.
	PlayerSummaries(ctx context.Context, steamID string) ([]steam.PlayerSummary, error)
	OwnedGames(ctx context.Context, steamID string, includeAppInfo bool) ([]steam.OwnedGame, error)
	RecentlyPlayed(ctx context.Context, steamID string, count int) (steam.RecentlyPlayed, error)
	AppDetails(ctx context.Context, appID int) (steam.AppDetails, error)
	// Achievements returns empty slices, not an error, for games without
	// stats.
	Achievements(ctx context.Context, steamID string, appID int) (steam.GameAchievements, error)
}

// RegionSetter is implemented by upstreams whose store prices depend on a
// country code. It is optional.
type RegionSetter interface {
	SetRegion(countryCode string)
}
