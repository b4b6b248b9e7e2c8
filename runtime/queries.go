package runtime

import (
	"drinkspeed/domain"
	"drinkspeed/errors"
	"drinkspeed/ranking"
	"drinkspeed/runtime/workers"
	"drinkspeed/store"
	"fmt"
)

// Reads bypass the pool: they copy under the room read lock and never wait for a mutation queue.

func (o *Orchestrator) RoomInfo(code domain.RoomCode) (domain.RoomInfo, error) {
	snapshot, err := o.store.Snapshot(code)
	if err != nil {
		return domain.RoomInfo{}, err
	}
	active := 0
	for _, u := range snapshot.Users {
		if !u.User.IsFinished() {
			active++
		}
	}
	return domain.RoomInfo{Room: snapshot.Room, ParticipantCount: len(snapshot.Users), ActiveCount: active}, nil
}

// Ranking computes the current ranking of a room.
func (o *Orchestrator) Ranking(code domain.RoomCode) ([]domain.RankEntry, error) {
	snapshot, err := o.store.Snapshot(code)
	if err != nil {
		return nil, err
	}
	return ranking.Rank(snapshot, o.store.Tiers(), o.store.Now()), nil
}

// UserResult is the personal result of a participant, ranked against their room.
func (o *Orchestrator) UserResult(id domain.UserID) (domain.UserResult, error) {
	code, err := o.store.RoomOf(id)
	if err != nil {
		return domain.UserResult{}, err
	}
	snapshot, err := o.store.Snapshot(code)
	if err != nil {
		return domain.UserResult{}, err
	}
	entries := ranking.Rank(snapshot, o.store.Tiers(), o.store.Now())
	entry, ok := ranking.Find(entries, id)
	if !ok {
		return domain.UserResult{}, fmt.Errorf("%w: %s", errors.ErrUserNotFound, id)
	}
	var user store.UserSnapshot
	for _, u := range snapshot.Users {
		if u.User.ID == id {
			user = u
			break
		}
	}
	return domain.UserResult{
		User:              user.User,
		Rank:              entry.Rank,
		Score:             entry.Score,
		RatePerHour:       entry.RatePerHour,
		Tier:              entry.Tier,
		GlassesByCategory: user.GlassesByCategory,
		AverageReactionMs: user.AverageReactionMs,
	}, nil
}

// Commentary returns the generated text of a participant, nil until it is ready.
func (o *Orchestrator) Commentary(id domain.UserID) (*string, error) {
	user, err := o.store.User(id)
	if err != nil {
		return nil, err
	}
	return user.Commentary, nil
}

type Stats struct {
	Store        store.Stats            `json:"store"`
	Process      *workers.ProcessSample `json:"process,omitempty"`
	QueuedJobs   int                    `json:"queuedJobs"`
	QueuedEvents int                    `json:"queuedEvents"`
	QueuedTasks  int                    `json:"queuedTasks"`
	Subscribers  int                    `json:"subscribers"`
	Queues       []workers.ChannelLoad  `json:"queues"`
}

// Stats reports store counters, queue depths and the latest process sample.
func (o *Orchestrator) Stats() Stats {
	stats := Stats{
		Store:        o.store.Stats(),
		QueuedJobs:   len(o.jobs),
		QueuedEvents: len(o.events),
		QueuedTasks:  len(o.tasks),
		Subscribers:  o.registry.Count(),
		Queues:       o.capacity.Sample(),
	}
	if sample, ok := o.health.Latest(); ok {
		stats.Process = &sample
	}
	return stats
}
