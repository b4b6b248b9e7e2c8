package workers

import (
	"context"
	"drinkspeed/ai"
	"drinkspeed/contract"
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"log/slog"
	"time"
)

var _ contract.Worker = (*ReactionGameWorker)(nil)

const (
	gameStartMessage       = "⚡ Reaction game! Tap as fast as you can!"
	gameStartMessageKorean = "⚡ 순발력 게임 시작! 빠르게 반응하세요!"
)

// Publisher queues an event for broadcast without blocking.
type Publisher interface {
	Publish(evt event.DomainEvent)
}

// OpenRoomLister lists the rooms still accepting events.
type OpenRoomLister interface {
	OpenRooms() []domain.Room
}

// ReactionGameWorker periodically invites every open room to a reaction test.
type ReactionGameWorker struct {
	log       *slog.Logger
	rooms     OpenRoomLister
	publisher Publisher
	interval  time.Duration
	now       func() time.Time
}

func NewReactionGameWorker(log *slog.Logger, rooms OpenRoomLister, publisher Publisher, interval time.Duration) *ReactionGameWorker {
	return &ReactionGameWorker{
		log:       log,
		rooms:     rooms,
		publisher: publisher,
		interval:  interval,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (w *ReactionGameWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping reaction game")
			return nil
		case <-ticker.C:
			w.Trigger()
		}
	}
}

// Trigger publishes one game-start event per open room and returns how many were sent.
func (w *ReactionGameWorker) Trigger() int {
	rooms := w.rooms.OpenRooms()
	for _, room := range rooms {
		message := gameStartMessage
		if ai.LanguageOf(room.Name) == ai.Korean {
			message = gameStartMessageKorean
		}
		w.publisher.Publish(event.GameStarted{
			Room:     room.Code,
			RoomName: room.Name,
			Message:  message,
			At:       w.now(),
		})
	}
	w.log.Info("Reaction game triggered", "rooms", len(rooms))
	return len(rooms)
}
