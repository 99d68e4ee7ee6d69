package aggregate

import "time"

// Status is a player's presence.
type Status string

const (
	StatusOffline Status = "offline"
	StatusOnline  Status = "online"
	StatusBusy    Status = "busy"
	StatusAway    Status = "away"
	StatusSnooze  Status = "snooze"
	StatusTrading Status = "trading"
	StatusPlaying Status = "playing"
)

// Meta describes where a payload came from.
type Meta struct {
	// Cached is true when the payload was served from the cache without
	// any upstream call.
	Cached    bool
	StoredAt  time.Time
	ExpiresAt time.Time
}

type Avatar struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

type CurrentGame struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

// PlaytimeStats are whole hours summed over the owned library.
type PlaytimeStats struct {
	TotalForever  int `json:"totalForever"`
	TotalTwoWeeks int `json:"totalTwoWeeks"`
}

type UserProfile struct {
	SteamID       string        `json:"steamid"`
	Username      string        `json:"username"`
	ProfileURL    string        `json:"profileUrl"`
	Avatar        Avatar        `json:"avatar"`
	Status        Status        `json:"status"`
	StatusMessage string        `json:"statusMessage"`
	CurrentGame   *CurrentGame  `json:"currentGame,omitempty"`
	PlaytimeStats PlaytimeStats `json:"playtimeStats"`
}

// GameImages holds CDN URLs. HeroImage and LibraryHeroImage are only set on
// recently played games.
type GameImages struct {
	Icon             string `json:"icon"`
	Logo             string `json:"logo"`
	HeaderImage      string `json:"headerImage"`
	HeroImage        string `json:"heroImage,omitempty"`
	LibraryHeroImage string `json:"libraryHeroImage,omitempty"`
}

type AchievementSummary struct {
	Total      int `json:"total"`
	Unlocked   int `json:"unlocked"`
	Percentage int `json:"percentage"`
}

// GameEntry is one title in a library listing. Playtimes are whole hours.
type GameEntry struct {
	AppID            int                 `json:"appid"`
	Name             string              `json:"name"`
	PlaytimeForever  int                 `json:"playtimeForever"`
	PlaytimeTwoWeeks int                 `json:"playtimeTwoWeeks"`
	Images           GameImages          `json:"images"`
	Achievements     *AchievementSummary `json:"achievements,omitempty"`
}

// Price is in the currency's minor unit.
type Price struct {
	Amount          int    `json:"amount"`
	Currency        string `json:"currency"`
	DiscountPercent int    `json:"discountPercent"`
	DisplayPrice    string `json:"displayPrice"`
}

// RecentGame is a GameEntry enriched with storefront data.
type RecentGame struct {
	GameEntry
	Price            Price  `json:"price"`
	ReleaseDate      string `json:"releaseDate"`
	ShortDescription string `json:"shortDescription"`
}

type GamesData struct {
	// TotalCount is the size of the owned library.
	TotalCount int `json:"totalCount"`
	// RecentCount is the upstream's count of games played in the last two
	// weeks, which may exceed len(RecentGames).
	RecentCount int          `json:"recentCount"`
	RecentGames []RecentGame `json:"recentGames"`
	AllGames    []GameEntry  `json:"allGames"`
}

type AchievementImages struct {
	Icon     string `json:"icon"`
	IconGray string `json:"iconGray"`
}

type AchievementRecord struct {
	APIName     string `json:"apiName"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	// UnlockTime is epoch seconds as reported upstream.
	UnlockTime int64             `json:"unlockTime"`
	Images     AchievementImages `json:"images"`
}

type GameAchievementGroup struct {
	AppID      int                 `json:"appid"`
	GameName   string              `json:"gameName"`
	Total      int                 `json:"total"`
	Unlocked   int                 `json:"unlocked"`
	Percentage int                 `json:"percentage"`
	Items      []AchievementRecord `json:"items"`
}

type AchievementsData struct {
	TotalCount         int                    `json:"totalCount"`
	UnlockedCount      int                    `json:"unlockedCount"`
	UnlockedPercentage int                    `json:"unlockedPercentage"`
	ByGame             []GameAchievementGroup `json:"byGame"`
}
