package aggregate

import (
	"context"
	"strconv"

	"github.com/ddevcap/steam-profile-api/cdn"
	"github.com/ddevcap/steam-profile-api/steam"
)

// buildUser fetches the profile and the owned catalog without app info,
// which is enough for playtime totals. The profile's country becomes the
// store region when the upstream supports it.
func (s *Service) buildUser(ctx context.Context, userID string) (UserProfile, error) {
	players, err := s.upstream.PlayerSummaries(ctx, userID)
	if err != nil {
		return UserProfile{}, &UpstreamError{Op: "player summaries", Err: err}
	}
	if len(players) == 0 {
		return UserProfile{}, ErrPlayerNotFound
	}
	if rs, ok := s.upstream.(RegionSetter); ok && players[0].LocCountryCode != "" {
		rs.SetRegion(players[0].LocCountryCode)
	}

	owned, err := s.upstream.OwnedGames(ctx, userID, false)
	if err != nil {
		return UserProfile{}, &UpstreamError{Op: "owned games", Err: err}
	}
	return userProfile(players[0], owned), nil
}

func userProfile(p steam.PlayerSummary, owned []steam.OwnedGame) UserProfile {
	status, message := presence(p.PersonaState)

	var forever, twoWeeks int
	for _, g := range owned {
		forever += g.PlaytimeForever
		twoWeeks += g.Playtime2Weeks
	}

	u := UserProfile{
		SteamID:       p.SteamID,
		Username:      p.PersonaName,
		ProfileURL:    p.ProfileURL,
		Avatar:        avatarOf(p),
		Status:        status,
		StatusMessage: message,
		PlaytimeStats: PlaytimeStats{
			TotalForever:  hours(forever),
			TotalTwoWeeks: hours(twoWeeks),
		},
	}
	if p.GameID != "" && p.GameExtraInfo != "" {
		if appID, err := strconv.Atoi(p.GameID); err == nil {
			u.CurrentGame = &CurrentGame{AppID: appID, Name: p.GameExtraInfo}
		}
	}
	return u
}

func avatarOf(p steam.PlayerSummary) Avatar {
	if p.AvatarHash == "" {
		return Avatar{Small: p.Avatar, Medium: p.AvatarMedium, Large: p.AvatarFull}
	}
	return Avatar{
		Small:  cdn.UserAvatar(p.AvatarHash, cdn.AvatarSmall),
		Medium: cdn.UserAvatar(p.AvatarHash, cdn.AvatarMedium),
		Large:  cdn.UserAvatar(p.AvatarHash, cdn.AvatarFull),
	}
}
