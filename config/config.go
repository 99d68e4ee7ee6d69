package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ddevcap/steam-profile-api/steam"
)

var (
	// ErrMissingAPIKey is returned by Validate when STEAM_API_KEY is unset.
	ErrMissingAPIKey = errors.New("STEAM_API_KEY environment variable is not set")
	// ErrMissingUserID is returned by Validate when STEAM_USER_ID is unset.
	ErrMissingUserID = errors.New("STEAM_USER_ID environment variable is not set")
	// ErrInvalidUserID is returned by Validate when STEAM_USER_ID does not
	// contain a 17-digit Steam ID.
	ErrInvalidUserID = errors.New("STEAM_USER_ID must be a 17-digit number")
)

type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":4000"`
	// SteamAPIKey is the Steam Web API key. Checked per request by Validate
	// rather than at load time so the server can report ENV_ERROR to clients.
	SteamAPIKey string `env:"STEAM_API_KEY"`
	// SteamUserID is the profile served by the API. Either a 17-digit ID or a
	// profile URL that contains one.
	SteamUserID string `env:"STEAM_USER_ID"`
	// SteamAPIBaseURL is the Web API root. Overridable for tests.
	SteamAPIBaseURL string `env:"STEAM_API_BASE_URL" envDefault:"https://api.steampowered.com"`
	// SteamStoreBaseURL is the storefront API root used for app details.
	SteamStoreBaseURL string `env:"STEAM_STORE_BASE_URL" envDefault:"https://store.steampowered.com/api"`
	// StoreCountryCode selects the region (and so the currency) of store prices.
	StoreCountryCode string `env:"STORE_COUNTRY_CODE" envDefault:"cn"`
	// StoreLanguage is the language requested for store descriptions.
	StoreLanguage string `env:"STORE_LANGUAGE" envDefault:"english"`

	CacheTTLUserMinutes       int `env:"CACHE_TTL_USER_MINUTES" envDefault:"10"`
	CacheTTLGamesHours        int `env:"CACHE_TTL_GAMES_HOURS" envDefault:"24"`
	CacheTTLAchievementsHours int `env:"CACHE_TTL_ACHIEVEMENTS_HOURS" envDefault:"1"`
	// CacheSweepInterval is how often expired cache entries are purged
	// regardless of reads.
	CacheSweepInterval time.Duration `env:"CACHE_SWEEP_INTERVAL" envDefault:"5m"`

	// StoreDetailTimeout bounds every single store-detail call.
	StoreDetailTimeout time.Duration `env:"STORE_DETAIL_TIMEOUT" envDefault:"5s"`
	// UpstreamPacing is the refill interval of the token bucket shared by
	// store-detail and achievement fetches.
	UpstreamPacing time.Duration `env:"UPSTREAM_PACING" envDefault:"100ms"`
	// UpstreamBurst is the token bucket size.
	UpstreamBurst int `env:"UPSTREAM_BURST" envDefault:"1"`
	// FetchConcurrency is the number of per-app fetches allowed in flight.
	FetchConcurrency int `env:"FETCH_CONCURRENCY" envDefault:"4"`
	// HealthCheckInterval is how often the Steam API is pinged for /ready.
	HealthCheckInterval time.Duration `env:"HEALTH_CHECK_INTERVAL" envDefault:"1m"`

	// CORSOrigins restricts cross-origin access. Empty means any origin.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// to complete during graceful shutdown.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables.
// Returns an error if a value cannot be parsed into the expected type.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks the Steam credentials and normalises SteamUserID to a bare
// 17-digit ID. The returned error is one of the Err* values above.
func (c *Config) Validate() error {
	if c.SteamAPIKey == "" {
		return ErrMissingAPIKey
	}
	if c.SteamUserID == "" {
		return ErrMissingUserID
	}
	id, ok := steam.ParseSteamID(c.SteamUserID)
	if !ok {
		return ErrInvalidUserID
	}
	c.SteamUserID = id
	return nil
}

func (c Config) UserTTL() time.Duration {
	return time.Duration(c.CacheTTLUserMinutes) * time.Minute
}

func (c Config) GamesTTL() time.Duration {
	return time.Duration(c.CacheTTLGamesHours) * time.Hour
}

func (c Config) AchievementsTTL() time.Duration {
	return time.Duration(c.CacheTTLAchievementsHours) * time.Hour
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
