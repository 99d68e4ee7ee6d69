// Package steam provides an HTTP client for the Steam Web API and storefront
// API, plus the resilience pieces around it (circuit breaker, health checker).
package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/ddevcap/steam-profile-api/metrics"
)

const (
	DefaultAPIBaseURL   = "https://api.steampowered.com"
	DefaultStoreBaseURL = "https://store.steampowered.com/api"

	defaultRegion   = "cn"
	defaultLanguage = "english"

	// maxErrorBody caps how much of a non-2xx body is kept in a StatusError.
	maxErrorBody = 512
)

// Endpoint labels used for metrics and error messages.
const (
	endpointPlayerSummaries    = "player_summaries"
	endpointOwnedGames         = "owned_games"
	endpointRecentlyPlayed     = "recently_played"
	endpointAppDetails         = "app_details"
	endpointPlayerAchievements = "player_achievements"
	endpointGameSchema         = "game_schema"
	endpointServerInfo         = "server_info"
)

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("steam %s returned status %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("steam %s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

// noStats reports whether err is the upstream's way of saying a game has no
// stats or the player's stats are hidden. Those are answered with empty
// achievement data rather than an error.
func noStats(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code {
	case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}

// Options configures a Client. Zero values fall back to the public Steam
// endpoints, region "cn" and language "english".
type Options struct {
	APIKey       string
	APIBaseURL   string
	StoreBaseURL string
	Region       string
	Language     string
	// HTTPClient overrides the tuned default client.
	HTTPClient *http.Client
}

// Client is a ready-to-use Steam API client. A single Client is created at
// startup and shared across all aggregations; it is safe for concurrent use.
type Client struct {
	apiKey    string
	apiBase   string
	storeBase string
	language  string
	http      *http.Client

	mu     sync.RWMutex
	region string
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		// Short timeouts: every call is a small JSON document.
		transport := &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
			MaxIdleConnsPerHost:   10,
		}
		httpClient = &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		}
	}
	c := &Client{
		apiKey:    opts.APIKey,
		apiBase:   strings.TrimRight(fallback(opts.APIBaseURL, DefaultAPIBaseURL), "/"),
		storeBase: strings.TrimRight(fallback(opts.StoreBaseURL, DefaultStoreBaseURL), "/"),
		language:  fallback(opts.Language, defaultLanguage),
		http:      httpClient,
		region:    fallback(opts.Region, defaultRegion),
	}
	return c
}

// SetRegion changes the storefront country code used by subsequent
// AppDetails calls, which in turn selects the price currency.
func (c *Client) SetRegion(countryCode string) {
	if countryCode == "" {
		return
	}
	c.mu.Lock()
	c.region = strings.ToLower(countryCode)
	c.mu.Unlock()
}

// Region returns the current storefront country code.
func (c *Client) Region() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.region
}

// PlayerSummaries returns the profiles for steamID. An empty slice means the
// profile does not exist or is not visible to the API key.
func (c *Client) PlayerSummaries(ctx context.Context, steamID string) ([]PlayerSummary, error) {
	q := c.keyed()
	q.Set("steamids", steamID)

	var resp struct {
		Response struct {
			Players []PlayerSummary `json:"players"`
		} `json:"response"`
	}
	if err := c.getJSON(ctx, endpointPlayerSummaries, c.apiBase+"/ISteamUser/GetPlayerSummaries/v0002/", q, &resp); err != nil {
		return nil, err
	}
	return orEmpty(resp.Response.Players), nil
}

// OwnedGames returns the user's library. With includeAppInfo false the
// upstream omits names and image hashes, which is noticeably cheaper for
// large libraries.
func (c *Client) OwnedGames(ctx context.Context, steamID string, includeAppInfo bool) ([]OwnedGame, error) {
	q := c.keyed()
	q.Set("steamid", steamID)
	q.Set("include_played_free_games", "1")
	if includeAppInfo {
		q.Set("include_appinfo", "1")
	} else {
		q.Set("include_appinfo", "0")
	}

	var resp struct {
		Response struct {
			GameCount int         `json:"game_count"`
			Games     []OwnedGame `json:"games"`
		} `json:"response"`
	}
	if err := c.getJSON(ctx, endpointOwnedGames, c.apiBase+"/IPlayerService/GetOwnedGames/v0001/", q, &resp); err != nil {
		return nil, err
	}
	return orEmpty(resp.Response.Games), nil
}

// RecentlyPlayed returns up to count games played in the last two weeks,
// along with the upstream's total count of such games.
func (c *Client) RecentlyPlayed(ctx context.Context, steamID string, count int) (RecentlyPlayed, error) {
	q := c.keyed()
	q.Set("steamid", steamID)
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}

	var resp struct {
		Response RecentlyPlayed `json:"response"`
	}
	if err := c.getJSON(ctx, endpointRecentlyPlayed, c.apiBase+"/IPlayerService/GetRecentlyPlayedGames/v0001/", q, &resp); err != nil {
		return RecentlyPlayed{}, err
	}
	resp.Response.Games = orEmpty(resp.Response.Games)
	return resp.Response, nil
}

// AppDetails fetches the storefront page data for one app in the current
// region. The store only accepts one app id per request for price data.
func (c *Client) AppDetails(ctx context.Context, appID int) (AppDetails, error) {
	id := strconv.Itoa(appID)
	q := url.Values{}
	q.Set("appids", id)
	q.Set("cc", c.Region())
	q.Set("l", c.language)

	var resp map[string]AppDetails
	if err := c.getJSON(ctx, endpointAppDetails, c.storeBase+"/appdetails", q, &resp); err != nil {
		return AppDetails{}, err
	}
	details, ok := resp[id]
	if !ok {
		return AppDetails{Success: false}, nil
	}
	return details, nil
}

// Achievements returns the achievement schema of appID together with the
// player's unlock states. Games without stats, and players whose stats are
// private, yield empty slices and a nil error. Transport and decoding
// failures are returned as errors.
func (c *Client) Achievements(ctx context.Context, steamID string, appID int) (GameAchievements, error) {
	result := GameAchievements{
		Schema:      []SchemaAchievement{},
		PlayerState: []PlayerAchievement{},
	}

	q := c.keyed()
	q.Set("steamid", steamID)
	q.Set("appid", strconv.Itoa(appID))

	var player struct {
		PlayerStats struct {
			Success      bool                `json:"success"`
			Achievements []PlayerAchievement `json:"achievements"`
		} `json:"playerstats"`
	}
	err := c.getJSON(ctx, endpointPlayerAchievements, c.apiBase+"/ISteamUserStats/GetPlayerAchievements/v0001/", q, &player)
	switch {
	case noStats(err):
		return result, nil
	case err != nil:
		return result, err
	}
	if !player.PlayerStats.Success || len(player.PlayerStats.Achievements) == 0 {
		// Nothing to join against, so the schema call is skipped.
		return result, nil
	}
	result.PlayerState = player.PlayerStats.Achievements

	sq := c.keyed()
	sq.Set("appid", strconv.Itoa(appID))
	sq.Set("l", c.language)

	var schema struct {
		Game struct {
			GameName           string `json:"gameName"`
			AvailableGameStats struct {
				Achievements []SchemaAchievement `json:"achievements"`
			} `json:"availableGameStats"`
		} `json:"game"`
	}
	err = c.getJSON(ctx, endpointGameSchema, c.apiBase+"/ISteamUserStats/GetSchemaForGame/v2/", sq, &schema)
	switch {
	case noStats(err):
		return result, nil
	case err != nil:
		return result, err
	}
	result.Schema = orEmpty(schema.Game.AvailableGameStats.Achievements)
	return result, nil
}

// Ping checks that the Web API is reachable. GetServerInfo needs no key, so a
// misconfigured key does not mark the upstream as down.
func (c *Client) Ping(ctx context.Context) error {
	var resp struct {
		ServerTime int64 `json:"servertime"`
	}
	return c.getJSON(ctx, endpointServerInfo, c.apiBase+"/ISteamWebAPIUtil/GetServerInfo/v0001/", url.Values{}, &resp)
}

// keyed returns a query with the API key and JSON format set.
func (c *Client) keyed() url.Values {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("format", "json")
	return q
}

// getJSON issues a GET and decodes a 2xx body into out. Non-2xx responses are
// returned as *StatusError. Transport errors are unwrapped from *url.Error so
// the API key embedded in the query never reaches logs.
func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, query url.Values, out any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstreamCall(endpoint, err, time.Since(start)) }()

	u := rawURL
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building steam %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return fmt.Errorf("steam %s request failed: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading steam %s response: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding steam %s response: %w", endpoint, err)
	}
	return nil
}

func fallback(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
