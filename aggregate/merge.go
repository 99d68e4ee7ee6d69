package aggregate

import (
	"github.com/ddevcap/steam-profile-api/cdn"
	"github.com/ddevcap/steam-profile-api/steam"
)

const (
	fallbackCurrency    = "CNY"
	unknownReleaseDate  = "Unknown"
	displayPriceFree    = "Free"
	displayPriceMissing = "N/A"
)

// personaStates is indexed by the upstream personastate code.
var personaStates = [...]struct {
	status  Status
	message string
}{
	{StatusOffline, "Offline"},
	{StatusOnline, "Online"},
	{StatusBusy, "Busy"},
	{StatusAway, "Away"},
	{StatusSnooze, "Snooze"},
	{StatusTrading, "Looking to trade"},
	{StatusPlaying, "Looking to play"},
}

// presence maps a personastate code to a status, defaulting to offline.
func presence(code int) (Status, string) {
	if code < 0 || code >= len(personaStates) {
		code = 0
	}
	p := personaStates[code]
	return p.status, p.message
}

func hours(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return minutes / 60
}

// percentage is round-half-up of part/total*100, or 0 when total is 0.
func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// achievementTargets is the recently played app ids followed by the first
// achievementOwnedLimit owned app ids, without duplicates.
func achievementTargets(recent, owned []steam.OwnedGame) []int {
	owned = head(owned, achievementOwnedLimit)
	seen := make(map[int]struct{}, len(recent)+len(owned))
	ids := make([]int, 0, len(recent)+len(owned))
	for _, list := range [][]steam.OwnedGame{recent, owned} {
		for _, g := range list {
			if _, dup := seen[g.AppID]; dup {
				continue
			}
			seen[g.AppID] = struct{}{}
			ids = append(ids, g.AppID)
		}
	}
	return ids
}

func appIDs(games []steam.OwnedGame) []int {
	ids := make([]int, len(games))
	for i, g := range games {
		ids[i] = g.AppID
	}
	return ids
}

func gameEntry(g steam.OwnedGame) GameEntry {
	return GameEntry{
		AppID:            g.AppID,
		Name:             g.Name,
		PlaytimeForever:  hours(g.PlaytimeForever),
		PlaytimeTwoWeeks: hours(g.Playtime2Weeks),
		Images: GameImages{
			Icon:        cdn.GameIcon(g.AppID, g.ImgIconURL),
			Logo:        cdn.GameLogo(g.AppID, g.ImgLogoURL),
			HeaderImage: cdn.GameHeader(g.AppID),
		},
	}
}

func recentGame(g steam.OwnedGame, details steam.AppDetails) RecentGame {
	rg := RecentGame{
		GameEntry:   gameEntry(g),
		Price:       priceOf(details),
		ReleaseDate: unknownReleaseDate,
	}
	rg.Images.HeroImage = cdn.GameHero(g.AppID)
	rg.Images.LibraryHeroImage = cdn.GameLibraryHero(g.AppID)

	if d := details.Data; details.Success && d != nil {
		rg.ShortDescription = d.ShortDescription
		if d.ReleaseDate != nil && d.ReleaseDate.Date != "" {
			rg.ReleaseDate = d.ReleaseDate.Date
		}
		if rg.Name == "" {
			rg.Name = d.Name
		}
	}
	return rg
}

func priceOf(details steam.AppDetails) Price {
	p := Price{Currency: fallbackCurrency, DisplayPrice: displayPriceMissing}
	d := details.Data
	if !details.Success || d == nil {
		return p
	}

	po := d.PriceOverview
	if po != nil {
		p.Amount = po.Final
		p.DiscountPercent = po.DiscountPercent
		if po.Currency != "" {
			p.Currency = po.Currency
		}
	}
	switch {
	case po != nil && po.FinalFormatted != "":
		p.DisplayPrice = po.FinalFormatted
	case d.IsFree, po != nil && po.Final == 0:
		p.DisplayPrice = displayPriceFree
	}
	return p
}

// summarize returns nil when there is no unlock data for the game.
func summarize(data steam.GameAchievements, ok bool) *AchievementSummary {
	if !ok || len(data.PlayerState) == 0 {
		return nil
	}
	unlocked := 0
	for _, a := range data.PlayerState {
		if a.Achieved == 1 {
			unlocked++
		}
	}
	total := len(data.PlayerState)
	return &AchievementSummary{
		Total:      total,
		Unlocked:   unlocked,
		Percentage: percentage(unlocked, total),
	}
}

// joinAchievements merges the schema into the player's unlock states. A state
// without a schema entry keeps its API name and gets no description or icons.
func joinAchievements(appID int, gameName string, data steam.GameAchievements) GameAchievementGroup {
	schema := make(map[string]steam.SchemaAchievement, len(data.Schema))
	for _, a := range data.Schema {
		schema[a.Name] = a
	}

	group := GameAchievementGroup{
		AppID:    appID,
		GameName: gameName,
		Total:    len(data.PlayerState),
		Items:    make([]AchievementRecord, 0, len(data.PlayerState)),
	}
	for _, st := range data.PlayerState {
		rec := AchievementRecord{
			APIName:    st.APIName,
			Name:       st.APIName,
			Unlocked:   st.Achieved == 1,
			UnlockTime: st.UnlockTime,
		}
		if def, ok := schema[st.APIName]; ok {
			if def.DisplayName != "" {
				rec.Name = def.DisplayName
			}
			rec.Description = def.Description
			rec.Images = AchievementImages{
				Icon:     cdn.AchievementIcon(appID, def.Icon),
				IconGray: cdn.AchievementIcon(appID, def.IconGray),
			}
		}
		if rec.Unlocked {
			group.Unlocked++
		}
		group.Items = append(group.Items, rec)
	}
	group.Percentage = percentage(group.Unlocked, group.Total)
	return group
}

// gameNames resolves app names from the recently played list first, then
// from the owned catalog.
func gameNames(recent, owned []steam.OwnedGame) map[int]string {
	names := make(map[int]string, len(recent)+len(owned))
	for _, list := range [][]steam.OwnedGame{owned, recent} {
		for _, g := range list {
			if g.Name != "" {
				names[g.AppID] = g.Name
			}
		}
	}
	return names
}
