package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ddevcap/steam-profile-api/api/handler"
	"github.com/ddevcap/steam-profile-api/api/middleware"
	"github.com/ddevcap/steam-profile-api/config"
)

// Deps are the collaborators the router hands to its handlers.
type Deps struct {
	Profiles handler.Profiles
	Health   handler.UpstreamHealth
	Cache    handler.CacheStats
}

// corsMiddleware allows any origin unless CORS_ORIGINS restricts it. The API
// is read-only, so only GET and OPTIONS are advertised.
func corsMiddleware(cfg config.Config) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:              []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:              []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:             []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:                    24 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}
	if len(cfg.CORSOrigins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = cfg.CORSOrigins
	}
	return cors.New(conf)
}

// NewRouter builds the HTTP handler for the API, probes and metrics.
func NewRouter(cfg config.Config, deps Deps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		gin.CustomRecovery(handler.Recovered),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		corsMiddleware(cfg),
	)

	steamH := handler.NewSteamHandler(deps.Profiles, cfg)
	systemH := handler.NewSystemHandler(deps.Health, deps.Cache)

	api := r.Group("/api")
	{
		routes := map[string]gin.HandlerFunc{
			"/steam-user":         steamH.User,
			"/steam-games":        steamH.Games,
			"/steam-achievements": steamH.Achievements,
		}
		for path, h := range routes {
			api.GET(path, h)
			api.OPTIONS(path, steamH.Preflight)
		}
	}

	// Probes and metrics are unauthenticated, for container orchestrators.
	r.GET("/health", systemH.HealthLive)
	r.GET("/ready", systemH.HealthReady)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(handler.NotFound)
	r.NoMethod(handler.MethodNotAllowed)

	return r
}
