package steam

// PlayerSummary is one entry of ISteamUser/GetPlayerSummaries.
type PlayerSummary struct {
	SteamID                  string `json:"steamid"`
	CommunityVisibilityState int    `json:"communityvisibilitystate"`
	ProfileState             int    `json:"profilestate"`
	PersonaName              string `json:"personaname"`
	ProfileURL               string `json:"profileurl"`
	Avatar                   string `json:"avatar"`
	AvatarMedium             string `json:"avatarmedium"`
	AvatarFull               string `json:"avatarfull"`
	AvatarHash               string `json:"avatarhash"`
	// PersonaState: 0 offline, 1 online, 2 busy, 3 away, 4 snooze,
	// 5 looking to trade, 6 looking to play.
	PersonaState   int    `json:"personastate"`
	RealName       string `json:"realname,omitempty"`
	TimeCreated    int64  `json:"timecreated,omitempty"`
	LocCountryCode string `json:"loccountrycode,omitempty"`
	GameExtraInfo  string `json:"gameextrainfo,omitempty"`
	GameID         string `json:"gameid,omitempty"`
}

// OwnedGame is one entry of GetOwnedGames or GetRecentlyPlayedGames.
// Playtimes are in minutes. Name and the image hashes are only populated when
// the catalog was requested with app info.
type OwnedGame struct {
	AppID                    int    `json:"appid"`
	Name                     string `json:"name"`
	PlaytimeForever          int    `json:"playtime_forever"`
	Playtime2Weeks           int    `json:"playtime_2weeks"`
	ImgIconURL               string `json:"img_icon_url"`
	ImgLogoURL               string `json:"img_logo_url"`
	HasCommunityVisibleStats bool   `json:"has_community_visible_stats"`
	RTimeLastPlayed          int64  `json:"rtime_last_played"`
}

// RecentlyPlayed is the GetRecentlyPlayedGames response. TotalCount is the
// upstream's count of recently played titles, which can exceed len(Games)
// when a count limit was requested.
type RecentlyPlayed struct {
	TotalCount int         `json:"total_count"`
	Games      []OwnedGame `json:"games"`
}

// AppDetails is the per-app storefront envelope. Success false means the
// store had no public page for the app, or the fetch was skipped.
type AppDetails struct {
	Success bool     `json:"success"`
	Data    *AppData `json:"data,omitempty"`
}

type AppData struct {
	Type             string         `json:"type"`
	Name             string         `json:"name"`
	SteamAppID       int            `json:"steam_appid"`
	IsFree           bool           `json:"is_free"`
	ShortDescription string         `json:"short_description"`
	HeaderImage      string         `json:"header_image"`
	Developers       []string       `json:"developers,omitempty"`
	Publishers       []string       `json:"publishers,omitempty"`
	ReleaseDate      *ReleaseDate   `json:"release_date,omitempty"`
	PriceOverview    *PriceOverview `json:"price_overview,omitempty"`
}

type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

// PriceOverview amounts are in the currency's minor unit (e.g. cents).
type PriceOverview struct {
	Currency         string `json:"currency"`
	Initial          int    `json:"initial"`
	Final            int    `json:"final"`
	DiscountPercent  int    `json:"discount_percent"`
	InitialFormatted string `json:"initial_formatted"`
	FinalFormatted   string `json:"final_formatted"`
}

// SchemaAchievement is one achievement definition from GetSchemaForGame.
// Icon and IconGray are full CDN URLs.
type SchemaAchievement struct {
	Name         string `json:"name"`
	DefaultValue int    `json:"defaultvalue"`
	DisplayName  string `json:"displayName"`
	Hidden       int    `json:"hidden"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	IconGray     string `json:"icongray"`
}

// PlayerAchievement is one unlock state from GetPlayerAchievements.
// UnlockTime is epoch seconds, 0 while locked.
type PlayerAchievement struct {
	APIName    string `json:"apiname"`
	Achieved   int    `json:"achieved"`
	UnlockTime int64  `json:"unlocktime"`
}

// GameAchievements pairs a game's achievement schema with one player's
// unlock states. Both slices are empty, never nil-with-error, for games
// without stats.
type GameAchievements struct {
	Schema      []SchemaAchievement
	PlayerState []PlayerAchievement
}
