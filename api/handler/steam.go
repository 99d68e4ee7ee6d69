package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/ddevcap/steam-profile-api/aggregate"
	"github.com/ddevcap/steam-profile-api/config"
)

// Profiles is the aggregation service as seen by the HTTP layer.
type Profiles interface {
	User(ctx context.Context, userID string) (aggregate.UserProfile, aggregate.Meta, error)
	Games(ctx context.Context, userID string) (aggregate.GamesData, aggregate.Meta, error)
	Achievements(ctx context.Context, userID string) (aggregate.AchievementsData, aggregate.Meta, error)
}

// SteamHandler serves the configured Steam user's aggregated data.
type SteamHandler struct {
	profiles Profiles
	cfg      config.Config
}

func NewSteamHandler(profiles Profiles, cfg config.Config) *SteamHandler {
	return &SteamHandler{profiles: profiles, cfg: cfg}
}

// User handles GET /api/steam-user.
func (h *SteamHandler) User(c *gin.Context) {
	serve(c, h, aggregate.KindUser, h.profiles.User)
}

// Games handles GET /api/steam-games.
func (h *SteamHandler) Games(c *gin.Context) {
	serve(c, h, aggregate.KindGames, h.profiles.Games)
}

// Achievements handles GET /api/steam-achievements.
func (h *SteamHandler) Achievements(c *gin.Context) {
	serve(c, h, aggregate.KindAchievements, h.profiles.Achievements)
}

// Preflight handles OPTIONS on the API routes: 200 with an empty body. CORS
// headers are set by the router's middleware.
func (h *SteamHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

// userID validates the configuration on every request. A bad environment is
// reported to each caller as ENV_ERROR instead of keeping the server down.
func (h *SteamHandler) userID() (string, error) {
	cfg := h.cfg
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	return cfg.SteamUserID, nil
}

func serve[T any](c *gin.Context, h *SteamHandler, kind string,
	fetch func(context.Context, string) (T, aggregate.Meta, error)) {
	start := time.Now()

	userID, err := h.userID()
	if err != nil {
		slog.Error("invalid configuration", "kind", kind, "error", err)
		RespondError(c, http.StatusInternalServerError, err.Error(), CodeEnvError)
		return
	}

	data, meta, err := fetch(c.Request.Context(), userID)
	if err != nil {
		slog.Error("aggregation failed",
			"kind", kind, "user_id", userID, "request_id", requestid.Get(c), "error", err)
		respondFailure(c, kind)
		return
	}
	respondOK(c, data, meta, time.Since(start))
}

// respondFailure answers a failed aggregation. Missing profiles and upstream
// failures share one code; the underlying error text stays in the logs.
func respondFailure(c *gin.Context, kind string) {
	RespondError(c, http.StatusInternalServerError, "Failed to fetch Steam "+kind+" data", CodeSteamAPIError)
}
