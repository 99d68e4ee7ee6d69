package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/ddevcap/steam-profile-api/aggregate"
	"github.com/ddevcap/steam-profile-api/api"
	"github.com/ddevcap/steam-profile-api/cache"
	"github.com/ddevcap/steam-profile-api/config"
	"github.com/ddevcap/steam-profile-api/steam"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Bad credentials do not stop the server: every API call answers
	// ENV_ERROR until the environment is fixed.
	if err := cfg.Validate(); err != nil {
		slog.Warn("steam configuration is invalid", "error", err)
	}

	client := steam.NewClient(steam.Options{
		APIKey:       cfg.SteamAPIKey,
		APIBaseURL:   cfg.SteamAPIBaseURL,
		StoreBaseURL: cfg.SteamStoreBaseURL,
		Language:     cfg.StoreLanguage,
	})
	client.SetRegion(cfg.StoreCountryCode)
	upstream := steam.NewBreakerClient(client, steam.BreakerSettings{})

	// Start background health checker so /ready reflects Steam availability.
	hc := steam.NewHealthChecker(client, cfg.HealthCheckInterval)
	hc.Start(context.Background())

	responses := cache.New[any](cfg.CacheSweepInterval)
	responses.Start(context.Background())

	svc := aggregate.New(upstream, responses,
		aggregate.TTL{
			User:         cfg.UserTTL(),
			Games:        cfg.GamesTTL(),
			Achievements: cfg.AchievementsTTL(),
		},
		aggregate.WithConcurrency(cfg.FetchConcurrency),
		aggregate.WithLimiter(pacing(cfg)),
		aggregate.WithStoreTimeout(cfg.StoreDetailTimeout),
	)

	h := api.NewRouter(cfg, api.Deps{Profiles: svc, Health: hc, Cache: responses})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MiB
	}

	// Start server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("steam profile api listening", "addr", cfg.ListenAddr, "region", client.Region())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt or SIGTERM (e.g. from container orchestration).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	hc.Stop()
	responses.Stop()
	responses.Clear()
	slog.Info("server stopped")
}

// pacing builds the token bucket shared by all per-app fetches.
// A zero UPSTREAM_PACING disables pacing.
func pacing(cfg config.Config) *rate.Limiter {
	burst := max(cfg.UpstreamBurst, 1)
	if cfg.UpstreamPacing <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Every(cfg.UpstreamPacing), burst)
}
