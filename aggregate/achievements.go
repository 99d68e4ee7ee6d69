package aggregate

import "context"

func (s *Service) buildAchievements(ctx context.Context, userID string) (AchievementsData, error) {
	owned, recent, err := s.libraryAndRecent(ctx, userID, false)
	if err != nil {
		return AchievementsData{}, err
	}

	ids := achievementTargets(recent.Games, owned)
	achievements := s.fetchAchievements(ctx, userID, ids)
	names := gameNames(recent.Games, owned)

	data := AchievementsData{ByGame: make([]GameAchievementGroup, 0, len(achievements))}
	for _, id := range ids {
		ach, ok := achievements[id]
		if !ok || len(ach.PlayerState) == 0 {
			continue
		}
		group := joinAchievements(id, names[id], ach)
		data.TotalCount += group.Total
		data.UnlockedCount += group.Unlocked
		data.ByGame = append(data.ByGame, group)
	}
	data.UnlockedPercentage = percentage(data.UnlockedCount, data.TotalCount)
	return data, nil
}
