package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ddevcap/steam-profile-api/aggregate"
)

// Error codes returned in failure envelopes.
const (
	CodeEnvError         = "ENV_ERROR"
	CodeSteamAPIError    = "STEAM_API_ERROR"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
)

// timestampLayout renders UTC times with millisecond precision,
// e.g. 2024-05-01T10:00:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type metadata struct {
	Cached        bool   `json:"cached"`
	CachedAt      string `json:"cachedAt"`
	CacheExpiry   string `json:"cacheExpiry"`
	FetchDuration string `json:"fetchDuration"`
}

type successResponse struct {
	Success  bool     `json:"success"`
	Data     any      `json:"data"`
	Metadata metadata `json:"metadata"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func respondOK(c *gin.Context, data any, meta aggregate.Meta, took time.Duration) {
	c.JSON(http.StatusOK, successResponse{
		Success: true,
		Data:    data,
		Metadata: metadata{
			Cached:        meta.Cached,
			CachedAt:      formatTime(meta.StoredAt),
			CacheExpiry:   formatTime(meta.ExpiresAt),
			FetchDuration: fmt.Sprintf("%dms", took.Milliseconds()),
		},
	})
}

// RespondError aborts the request with a failure envelope.
func RespondError(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message, Code: code})
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	RespondError(c, http.StatusNotFound, "Not found", CodeNotFound)
}

// MethodNotAllowed answers known routes called with an unsupported method.
func MethodNotAllowed(c *gin.Context) {
	RespondError(c, http.StatusMethodNotAllowed, "Method not allowed", CodeMethodNotAllowed)
}

// Recovered answers a request whose handler panicked. For use with
// gin.CustomRecovery.
func Recovered(c *gin.Context, _ any) {
	RespondError(c, http.StatusInternalServerError, "Internal server error", CodeInternalError)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
