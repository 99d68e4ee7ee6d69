package aggregate

import "context"

// buildGames fetches the full catalog and the recent list, store details for
// the recent games, and achievements for the recent games plus the head of
// the catalog.
func (s *Service) buildGames(ctx context.Context, userID string) (GamesData, error) {
	owned, recent, err := s.libraryAndRecent(ctx, userID, true)
	if err != nil {
		return GamesData{}, err
	}

	details := s.fetchStoreDetails(ctx, appIDs(recent.Games))
	achievements := s.fetchAchievements(ctx, userID, achievementTargets(recent.Games, owned))

	data := GamesData{
		TotalCount:  len(owned),
		RecentCount: recent.TotalCount,
		RecentGames: make([]RecentGame, 0, len(recent.Games)),
		AllGames:    make([]GameEntry, 0, min(len(owned), ownedOutputLimit)),
	}
	for i, g := range recent.Games {
		rg := recentGame(g, details[i])
		ach, ok := achievements[g.AppID]
		rg.Achievements = summarize(ach, ok)
		data.RecentGames = append(data.RecentGames, rg)
	}
	for i, g := range head(owned, ownedOutputLimit) {
		entry := gameEntry(g)
		// Only the head of the catalog was enriched. Later entries stay
		// bare even if their achievements were fetched as a recent game.
		if i < achievementOwnedLimit {
			ach, ok := achievements[g.AppID]
			entry.Achievements = summarize(ach, ok)
		}
		data.AllGames = append(data.AllGames, entry)
	}
	return data, nil
}
