// Package ranking orders the participants of a room.
package ranking

import (
	"cmp"
	"drinkspeed/domain"
	"drinkspeed/scoring"
	"drinkspeed/store"
	"slices"
	"time"
)

// Rank scores every participant of the snapshot and sorts them by descending score.
// Ties keep join order. Ranks are 1-based positions.
func Rank(snapshot store.RoomSnapshot, tiers scoring.Tiers, now time.Time) []domain.RankEntry {
	entries := make([]domain.RankEntry, 0, len(snapshot.Users))
	for _, u := range snapshot.Users {
		rate := scoring.RatePerHour(u.User.TotalUnits, u.User.Elapsed(now))
		entries = append(entries, domain.RankEntry{
			UserID:      u.User.ID,
			UserName:    u.User.Name,
			Score:       scoring.CompositeScore(u.User.TotalUnits, u.AverageReactionMs),
			RatePerHour: rate,
			TotalUnits:  u.User.TotalUnits,
			Tier:        tiers.Level(rate),
			Finished:    u.User.IsFinished(),
		})
	}
	slices.SortStableFunc(entries, func(a, b domain.RankEntry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Find returns the entry of one participant.
func Find(entries []domain.RankEntry, id domain.UserID) (domain.RankEntry, bool) {
	i := slices.IndexFunc(entries, func(e domain.RankEntry) bool { return e.UserID == id })
	if i < 0 {
		return domain.RankEntry{}, false
	}
	return entries[i], true
}
