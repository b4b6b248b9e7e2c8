package runtime

import (
	"drinkspeed/contract"
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"sync"
)

var _ contract.IRegistry = (*Registry)(nil)

type Set map[string]struct{}

// subscription is one live connection and the kinds it listens to. An empty filter means every kind.
type subscription struct {
	room  domain.RoomCode
	sink  contract.EventSink
	kinds map[event.Kind]struct{}
}

func (s subscription) accepts(kind event.Kind) bool {
	if len(s.kinds) == 0 {
		return true
	}
	_, ok := s.kinds[kind]
	return ok
}

type Registry struct {
	mu          sync.RWMutex
	Sessions    map[string]subscription // subscriber -> connection
	RoomMembers map[domain.RoomCode]Set // room -> subscribers
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:    make(map[string]subscription),
		RoomMembers: make(map[domain.RoomCode]Set),
	}
}

// GetSinksForRoom returns the sinks of a room subscribed to kind.
// Returns nil when the room has no subscriber.
func (r *Registry) GetSinksForRoom(code domain.RoomCode, kind event.Kind) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.RoomMembers[code]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for subscriberID := range members {
		if sub, exists := r.Sessions[subscriberID]; exists && sub.accepts(kind) {
			activeSinks = append(activeSinks, sub.sink)
		}
	}
	return activeSinks
}

// Subscribe registers a connection on a room topic, optionally filtered by kinds.
// Subscribing again with the same id replaces the previous connection and its room.
func (r *Registry) Subscribe(subscriberID string, code domain.RoomCode, sink contract.EventSink, kinds ...event.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.Sessions[subscriberID]; ok {
		r.leave(subscriberID, previous.room)
	}
	sub := subscription{room: code, sink: sink}
	if len(kinds) > 0 {
		sub.kinds = make(map[event.Kind]struct{}, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = struct{}{}
		}
	}
	r.Sessions[subscriberID] = sub

	if _, ok := r.RoomMembers[code]; !ok {
		r.RoomMembers[code] = make(Set)
	}
	r.RoomMembers[code][subscriberID] = struct{}{}
}

// Unsubscribe removes a connection. Empty rooms are dropped from the map.
func (r *Registry) Unsubscribe(subscriberID string, code domain.RoomCode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub, ok := r.Sessions[subscriberID]; ok && sub.room != code {
		return
	}
	delete(r.Sessions, subscriberID)
	r.leave(subscriberID, code)
}

// leave drops a subscriber from a room. Caller holds r.mu.
func (r *Registry) leave(subscriberID string, code domain.RoomCode) {
	if members, ok := r.RoomMembers[code]; ok {
		delete(members, subscriberID)
		if len(members) == 0 {
			delete(r.RoomMembers, code)
		}
	}
}

// SubscriberCount counts the live connections of a room.
func (r *Registry) SubscriberCount(code domain.RoomCode) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.RoomMembers[code])
}

// Count counts every live connection.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Sessions)
}
