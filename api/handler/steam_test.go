package handler_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ddevcap/steam-profile-api/aggregate"
	"github.com/ddevcap/steam-profile-api/api/handler"
	"github.com/ddevcap/steam-profile-api/config"
)

const userID = "76561197960287930"

// stubProfiles returns canned payloads and records the requested ids.
type stubProfiles struct {
	meta aggregate.Meta
	err  error
	ids  []string
}

func (s *stubProfiles) User(_ context.Context, id string) (aggregate.UserProfile, aggregate.Meta, error) {
	s.ids = append(s.ids, id)
	return aggregate.UserProfile{SteamID: id, Username: "gabe", Status: aggregate.StatusOnline}, s.meta, s.err
}

func (s *stubProfiles) Games(_ context.Context, id string) (aggregate.GamesData, aggregate.Meta, error) {
	s.ids = append(s.ids, id)
	return aggregate.GamesData{TotalCount: 3, RecentGames: []aggregate.RecentGame{}, AllGames: []aggregate.GameEntry{}}, s.meta, s.err
}

func (s *stubProfiles) Achievements(_ context.Context, id string) (aggregate.AchievementsData, aggregate.Meta, error) {
	s.ids = append(s.ids, id)
	return aggregate.AchievementsData{TotalCount: 4, UnlockedCount: 3, UnlockedPercentage: 75, ByGame: []aggregate.GameAchievementGroup{}}, s.meta, s.err
}

func steamRouter(p handler.Profiles, cfg config.Config) *gin.Engine {
	h := handler.NewSteamHandler(p, cfg)
	r := gin.New()
	r.GET("/api/steam-user", h.User)
	r.GET("/api/steam-games", h.Games)
	r.GET("/api/steam-achievements", h.Achievements)
	r.OPTIONS("/api/steam-user", h.Preflight)
	return r
}

var _ = Describe("SteamHandler", func() {
	var (
		stub *stubProfiles
		cfg  config.Config
	)

	BeforeEach(func() {
		stored := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		stub = &stubProfiles{meta: aggregate.Meta{
			Cached:    true,
			StoredAt:  stored,
			ExpiresAt: stored.Add(10 * time.Minute),
		}}
		cfg = config.Config{SteamAPIKey: "key", SteamUserID: userID}
	})

	It("wraps the user payload in a success envelope", func() {
		w := doGet(steamRouter(stub, cfg), "/api/steam-user")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/json; charset=utf-8"))

		body := decode(w)
		Expect(body["success"]).To(BeTrue())
		data := body["data"].(map[string]any)
		Expect(data["steamid"]).To(Equal(userID))
		Expect(data["status"]).To(Equal("online"))

		meta := body["metadata"].(map[string]any)
		Expect(meta["cached"]).To(BeTrue())
		Expect(meta["cachedAt"]).To(Equal("2024-05-01T10:00:00.000Z"))
		Expect(meta["cacheExpiry"]).To(Equal("2024-05-01T10:10:00.000Z"))
		Expect(meta["fetchDuration"]).To(MatchRegexp(`^\d+ms$`))
	})

	It("serves games and achievements", func() {
		r := steamRouter(stub, cfg)

		games := decode(doGet(r, "/api/steam-games"))
		Expect(games["data"].(map[string]any)["totalCount"]).To(BeEquivalentTo(3))

		ach := decode(doGet(r, "/api/steam-achievements"))
		Expect(ach["data"].(map[string]any)["unlockedPercentage"]).To(BeEquivalentTo(75))
		Expect(ach["data"].(map[string]any)["byGame"]).To(BeEmpty())
	})

	It("passes the normalised user id from a profile URL", func() {
		cfg.SteamUserID = "https://steamcommunity.com/profiles/" + userID + "/"

		w := doGet(steamRouter(stub, cfg), "/api/steam-user")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stub.ids).To(Equal([]string{userID}))
	})

	It("answers ENV_ERROR without calling the service when the key is missing", func() {
		cfg.SteamAPIKey = ""

		w := doGet(steamRouter(stub, cfg), "/api/steam-user")
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		body := decode(w)
		Expect(body["success"]).To(BeFalse())
		Expect(body["code"]).To(Equal(handler.CodeEnvError))
		Expect(body["error"]).To(ContainSubstring("STEAM_API_KEY"))
		Expect(stub.ids).To(BeEmpty())
	})

	It("answers ENV_ERROR for a malformed user id", func() {
		cfg.SteamUserID = "gabe"

		w := doGet(steamRouter(stub, cfg), "/api/steam-games")
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(decode(w)["code"]).To(Equal(handler.CodeEnvError))
	})

	It("reports a missing profile as a Steam API error", func() {
		stub.err = aggregate.ErrPlayerNotFound

		w := doGet(steamRouter(stub, cfg), "/api/steam-user")
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		body := decode(w)
		Expect(body["code"]).To(Equal(handler.CodeSteamAPIError))
		Expect(body["error"]).To(Equal("Failed to fetch Steam user data"))
	})

	It("does not leak upstream error text", func() {
		stub.err = &aggregate.UpstreamError{Op: "owned games", Err: errors.New("dial tcp 10.0.0.1:443: secret detail")}

		w := doGet(steamRouter(stub, cfg), "/api/steam-achievements")
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).NotTo(ContainSubstring("secret detail"))
		Expect(decode(w)["code"]).To(Equal(handler.CodeSteamAPIError))
	})

	It("answers preflight with 200 and an empty body", func() {
		w := doRequest(steamRouter(stub, cfg), http.MethodOptions, "/api/steam-user")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.Len()).To(BeZero())
	})
})
