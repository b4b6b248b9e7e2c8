package store

import (
	"cmp"
	"drinkspeed/domain"
	"slices"

	"github.com/samber/lo"
)

// UserSnapshot is a participant plus the aggregates ranking needs.
type UserSnapshot struct {
	User              domain.User
	AverageReactionMs *float64
	GlassesByCategory map[domain.Category]int
}

// RoomSnapshot is a consistent copy of a room, participants in join order.
type RoomSnapshot struct {
	Room  domain.Room
	Users []UserSnapshot
}

// Snapshot copies a room under its read lock.
func (s *Store) Snapshot(code domain.RoomCode) (RoomSnapshot, error) {
	rs, err := s.roomState(code)
	if err != nil {
		return RoomSnapshot{}, err
	}
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	return RoomSnapshot{
		Room: rs.room,
		Users: lo.Map(rs.order, func(id domain.UserID, _ int) UserSnapshot {
			return snapshotOf(rs.users[id])
		}),
	}, nil
}

// UserSnapshot copies one participant with its aggregates.
func (s *Store) UserSnapshot(id domain.UserID) (UserSnapshot, error) {
	rs, err := s.userRoom(id)
	if err != nil {
		return UserSnapshot{}, err
	}
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return snapshotOf(rs.users[id]), nil
}

func snapshotOf(us *userState) UserSnapshot {
	glasses := make(map[domain.Category]int)
	for _, d := range us.drinks {
		glasses[d.Category] += d.Quantity
	}
	return UserSnapshot{
		User:              us.user,
		AverageReactionMs: averageLatency(us.reactions),
		GlassesByCategory: glasses,
	}
}

func averageLatency(reactions []domain.ReactionRecord) *float64 {
	if len(reactions) == 0 {
		return nil
	}
	sum := lo.SumBy(reactions, func(r domain.ReactionRecord) int { return r.LatencyMs })
	avg := float64(sum) / float64(len(reactions))
	return &avg
}

func sortRooms(rooms []domain.Room) []domain.Room {
	slices.SortFunc(rooms, func(a, b domain.Room) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return rooms
}
