//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging during supervision, so workers don't need to carry a name.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives broadcast events. Consume must not block past ctx.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry resolves which subscribers listen to a room topic.
type IRegistry interface {
	GetSinksForRoom(code domain.RoomCode, kind event.Kind) []EventSink
	Subscribe(subscriberID string, code domain.RoomCode, sink EventSink, kinds ...event.Kind)
	Unsubscribe(subscriberID string, code domain.RoomCode)
}

// Repository is the durability hook of the session store.
// Every Find method returns an error wrapping errors.ErrNotFound for missing records.
type Repository interface {
	SaveRoom(room domain.Room) error
	SaveUser(user domain.User) error
	AppendDrink(record domain.DrinkRecord) error
	AppendReaction(record domain.ReactionRecord) error
	FindRoomByCode(code domain.RoomCode) (domain.Room, error)
	FindUserByID(id domain.UserID) (domain.User, error)
	FindUsersByRoomCode(code domain.RoomCode) ([]domain.User, error)
	FindDrinksByUserID(id domain.UserID) ([]domain.DrinkRecord, error)
	FindReactionsByUserID(id domain.UserID) ([]domain.ReactionRecord, error)
	ListRooms() ([]domain.Room, error)
}

// TextGenerator produces free text from a prompt. Any error means "use the fallback".
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
