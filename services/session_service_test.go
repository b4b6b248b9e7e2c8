package services

import (
	"context"
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"drinkspeed/errors"
	"drinkspeed/runtime"
	"drinkspeed/runtime/workers"
	"drinkspeed/store"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type nopSink struct{}

func (nopSink) Consume(context.Context, event.DomainEvent) error { return nil }

func sequentialCodes() store.CodeGenerator {
	var mu sync.Mutex
	next := 1000
	return func() (domain.RoomCode, error) {
		mu.Lock()
		defer mu.Unlock()
		next++
		return domain.RoomCode(strconv.Itoa(next)), nil
	}
}

func newTestService(t *testing.T) *SessionService {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	o, err := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 10*time.Millisecond), runtime.NewRegistry(),
		store.New(log, store.WithCodeGenerator(sequentialCodes())), nil, runtime.Config{
			NumWorkers:           2,
			BufferSize:           64,
			SinkTimeout:          time.Second,
			EnrichmentWorkers:    1,
			EnrichmentBufferSize: 8,
			EnrichmentTimeout:    time.Second,
			CharReplacement:      '*',
		})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = o.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return NewSessionService(o)
}

func TestSessionService_Rejects_Invalid_Requests(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service := newTestService(t)

	created, err := service.CreateRoom(ctx, CreateRoomRequest{HostName: "Alice"})
	req.NoError(err)

	tests := []struct {
		description string
		call        func() error
		expected    error
	}{
		{
			"Should fail if host name is empty",
			func() error {
				_, err := service.CreateRoom(ctx, CreateRoomRequest{RoomName: "Friday"})
				return err
			},
			errors.ErrInvalidRequest,
		},
		{
			"Should fail if room name exceeds 40 characters",
			func() error {
				_, err := service.CreateRoom(ctx, CreateRoomRequest{RoomName: strings.Repeat("a", 41), HostName: "Alice"})
				return err
			},
			errors.ErrInvalidRequest,
		},
		{
			"Should fail if room code is not 4 digits",
			func() error {
				_, err := service.JoinRoom(ctx, JoinRoomRequest{RoomCode: "12a4", UserName: "Bob"})
				return err
			},
			errors.ErrInvalidRequest,
		},
		{
			"Should fail if drink type is unknown",
			func() error {
				_, err := service.AddDrink(ctx, created.Host.ID, AddDrinkRequest{DrinkType: "whisky", GlassCount: 1})
				return err
			},
			errors.ErrInvalidCategory,
		},
		{
			"Should fail if glass count is zero",
			func() error {
				_, err := service.AddDrink(ctx, created.Host.ID, AddDrinkRequest{DrinkType: "soju"})
				return err
			},
			errors.ErrInvalidQuantity,
		},
		{
			"Should fail if reaction time is negative",
			func() error {
				_, err := service.RecordReaction(ctx, created.Host.ID, ReactionRequest{ReactionTimeMs: -3})
				return err
			},
			errors.ErrInvalidLatency,
		},
		{
			"Should fail if event kind is unknown",
			func() error {
				return service.Subscribe("tv", created.Room.Code, nopSink{}, []string{"drink", "gossip"})
			},
			errors.ErrInvalidRequest,
		},
	}
	for _, tt := range tests {
		err := tt.call()
		req.ErrorIs(err, tt.expected, tt.description)
		req.ErrorIs(err, errors.ErrInvalidArgument, tt.description)
	}
}

func TestSessionService_Drink_Flow(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service := newTestService(t)

	// Given a room with two participants
	created, err := service.CreateRoom(ctx, CreateRoomRequest{RoomName: "Friday", HostName: "Alice"})
	req.NoError(err)
	joined, err := service.JoinRoom(ctx, JoinRoomRequest{RoomCode: " " + string(created.Room.Code) + " ", UserName: "Bob"})
	req.NoError(err)
	req.NoError(service.Subscribe("tv", created.Room.Code, nopSink{}, []string{" ranking ", "", "ranking"}))

	// When the guest drinks in lower case
	result, err := service.AddDrink(ctx, joined.User.ID, AddDrinkRequest{DrinkType: "beer", GlassCount: 2})

	// Then the category is parsed and the guest leads the ranking
	req.NoError(err)
	req.Equal(domain.Beer, result.Record.Category)
	req.InDelta(0.6, result.User.TotalUnits, 1e-9)
	entries, err := service.Ranking(created.Room.Code)
	req.NoError(err)
	req.Equal(joined.User.ID, entries[0].UserID)

	view, err := service.Timeline(created.Room.Code)
	req.NoError(err)
	req.Len(view.Ranking, 2)

	_, err = service.Timeline("9999")
	req.ErrorIs(err, errors.ErrRoomNotFound)
	_, err = service.JoinRoom(ctx, JoinRoomRequest{RoomCode: "9999", UserName: "Clara"})
	req.ErrorIs(err, errors.ErrRoomNotFound)
}
