// Package projection keeps read models built from the broadcast events.
// It does not emit events.
package projection

import (
	"context"
	"drinkspeed/contract"
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"sync"
)

var _ contract.EventSink = (*Timeline)(nil)

const defaultCapacity = 50

// Timeline holds, per room, the last ranking and the most recent events.
// A room is dropped when its room-ended event arrives; later events of that
// room are ignored. Readers of an ended room fall back to the store.
type Timeline struct {
	mu       sync.RWMutex
	capacity int
	rooms    map[domain.RoomCode]*roomTimeline
	ended    map[domain.RoomCode]struct{}
}

type roomTimeline struct {
	ranking []domain.RankEntry
	events  []event.DomainEvent
}

func NewTimeline() *Timeline {
	return NewTimelineWithCapacity(defaultCapacity)
}

func NewTimelineWithCapacity(capacity int) *Timeline {
	return &Timeline{
		capacity: max(capacity, 1),
		rooms:    make(map[domain.RoomCode]*roomTimeline),
		ended:    make(map[domain.RoomCode]struct{}),
	}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.ended[e.RoomCode()]; ok {
		return nil
	}
	if _, ok := e.(event.RoomEnded); ok {
		delete(t.rooms, e.RoomCode())
		t.ended[e.RoomCode()] = struct{}{}
		return nil
	}
	rt, ok := t.rooms[e.RoomCode()]
	if !ok {
		rt = &roomTimeline{}
		t.rooms[e.RoomCode()] = rt
	}
	if ranking, ok := e.(event.RankingUpdated); ok {
		rt.ranking = ranking.Entries
		return nil
	}
	rt.events = append(rt.events, e)
	if len(rt.events) > t.capacity {
		rt.events = rt.events[len(rt.events)-t.capacity:]
	}
	return nil
}

// LatestRanking is the last ranking broadcast for a room.
func (t *Timeline) LatestRanking(code domain.RoomCode) ([]domain.RankEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rt, ok := t.rooms[code]
	if !ok || rt.ranking == nil {
		return nil, false
	}
	return rt.ranking, true
}

// Recent returns the retained events of a room, oldest first, rankings excluded.
func (t *Timeline) Recent(code domain.RoomCode) []event.DomainEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rt, ok := t.rooms[code]
	if !ok {
		return nil
	}
	return append([]event.DomainEvent(nil), rt.events...)
}

// Rooms counts the rooms currently held.
func (t *Timeline) Rooms() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}
