package store

import (
	"context"
	"drinkspeed/domain"
	"drinkspeed/errors"
	"drinkspeed/mocks"
	"drinkspeed/scoring"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var startTime = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sequentialCodes() CodeGenerator {
	n := 1000
	return func() (domain.RoomCode, error) {
		n++
		return domain.RoomCode(fmt.Sprintf("%04d", n)), nil
	}
}

func newTestStore(opts ...Option) (*Store, *fakeClock) {
	clock := &fakeClock{now: startTime}
	base := []Option{WithClock(clock.Now), WithCodeGenerator(sequentialCodes())}
	return New(logs.GetLoggerFromLevel(slog.LevelDebug), append(base, opts...)...), clock
}

func TestStore_CreateRoom_Allocates_Distinct_Codes(t *testing.T) {
	req := require.New(t)
	s, _ := newTestStore()

	// When two rooms are created
	first, err := s.CreateRoom("first")
	req.NoError(err)
	second, err := s.CreateRoom("second")
	req.NoError(err)

	// Then both are open with distinct codes
	req.NotEqual(first.Code, second.Code)
	req.Equal(domain.RoomOpen, first.Status)
	req.Nil(first.EndedAt)
	req.Len(s.OpenRooms(), 2)
}

func TestStore_CreateRoom_Skips_Colliding_Codes(t *testing.T) {
	req := require.New(t)
	calls := 0
	codes := []domain.RoomCode{"1111", "1111", "2222"}
	s, _ := newTestStore(WithCodeGenerator(func() (domain.RoomCode, error) {
		code := codes[calls]
		calls++
		return code, nil
	}))

	// Given a room holding code 1111
	_, err := s.CreateRoom("a")
	req.NoError(err)

	// When another room is created and the generator repeats itself
	room, err := s.CreateRoom("b")

	// Then the collision is retried
	req.NoError(err)
	req.Equal(domain.RoomCode("2222"), room.Code)
	req.Equal(3, calls)
}

func TestStore_CreateRoom_Fails_After_Bounded_Attempts(t *testing.T) {
	req := require.New(t)
	calls := 0
	s, _ := newTestStore(WithCodeGenerator(func() (domain.RoomCode, error) {
		calls++
		return "0000", nil
	}))
	_, err := s.CreateRoom("taken")
	req.NoError(err)
	calls = 0

	// When every candidate collides
	_, err = s.CreateRoom("doomed")

	// Then creation gives up with ResourceExhausted
	req.ErrorIs(err, errors.ErrRoomCodeExhausted)
	req.ErrorIs(err, errors.ErrResourceExhausted)
	req.Equal(MaxCodeAttempts, calls)
}

func TestStore_CreateRoom_Checks_Persisted_Codes(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	codes := []domain.RoomCode{"4242", "4343"}
	calls := 0
	s, _ := newTestStore(WithRepository(repo), WithCodeGenerator(func() (domain.RoomCode, error) {
		code := codes[calls]
		calls++
		return code, nil
	}))

	// Given 4242 already persisted by a previous run
	repo.EXPECT().FindRoomByCode(domain.RoomCode("4242")).Return(domain.Room{Code: "4242"}, nil)
	repo.EXPECT().FindRoomByCode(domain.RoomCode("4343")).Return(domain.Room{}, errors.ErrRoomNotFound)
	repo.EXPECT().SaveRoom(gomock.Any()).Return(nil)

	// When a room is created
	room, err := s.CreateRoom("persisted")

	// Then the persisted code is skipped
	req.NoError(err)
	req.Equal(domain.RoomCode("4343"), room.Code)
}

func TestStore_CreateRoom_Does_Not_Block_Other_Rooms_On_Persistence(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	s, _ := newTestStore(WithRepository(repo))

	repo.EXPECT().FindRoomByCode(gomock.Any()).Return(domain.Room{}, errors.ErrRoomNotFound).Times(2)
	repo.EXPECT().SaveRoom(gomock.Any()).Return(nil)
	first, err := s.CreateRoom("first")
	req.NoError(err)

	// Given a second creation stuck in its repository write
	saving := make(chan struct{})
	unblock := make(chan struct{})
	repo.EXPECT().SaveRoom(gomock.Any()).DoAndReturn(func(domain.Room) error {
		close(saving)
		<-unblock
		return nil
	})
	created := make(chan error, 1)
	go func() {
		_, err := s.CreateRoom("second")
		created <- err
	}()
	<-saving

	// When the existing room is read
	read := make(chan error, 1)
	go func() {
		_, err := s.Room(first.Code)
		read <- err
	}()

	// Then the read completes while the write is pending
	select {
	case err := <-read:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("read of an existing room waited on another room's persistence")
	}
	req.Len(s.OpenRooms(), 1)

	close(unblock)
	req.NoError(<-created)
	req.Len(s.OpenRooms(), 2)
}

func TestStore_CreateRoom_Save_Failure_Releases_Code(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	s, _ := newTestStore(WithRepository(repo), WithCodeGenerator(func() (domain.RoomCode, error) {
		return "7777", nil
	}))

	// Given a failing room write
	repo.EXPECT().FindRoomByCode(domain.RoomCode("7777")).Return(domain.Room{}, errors.ErrRoomNotFound).Times(2)
	repo.EXPECT().SaveRoom(gomock.Any()).Return(fmt.Errorf("disk full"))

	// When the creation fails
	_, err := s.CreateRoom("broken")
	req.Error(err)

	// Then the code is free again and no room is registered
	_, err = s.Room("7777")
	req.ErrorIs(err, errors.ErrRoomNotFound)
	repo.EXPECT().SaveRoom(gomock.Any()).Return(nil)
	room, err := s.CreateRoom("retry")
	req.NoError(err)
	req.Equal(domain.RoomCode("7777"), room.Code)
}

func TestStore_JoinRoom(t *testing.T) {
	req := require.New(t)
	s, _ := newTestStore()
	room, err := s.CreateRoom("party")
	req.NoError(err)

	// When a participant joins
	user, err := s.JoinRoom(room.Code, "mina")
	req.NoError(err)

	// Then the participant is active with no consumption
	req.NotEmpty(user.ID)
	req.Equal(room.Code, user.RoomCode)
	req.Equal(startTime, user.JoinedAt)
	req.False(user.IsFinished())
	req.Zero(user.TotalUnits)
	active, err := s.ActiveUserCount(room.Code)
	req.NoError(err)
	req.Equal(1, active)

	// And unknown rooms are not found
	_, err = s.JoinRoom("9999", "ghost")
	req.ErrorIs(err, errors.ErrRoomNotFound)
}

func TestStore_JoinRoom_Ended_Room_Conflicts(t *testing.T) {
	req := require.New(t)
	s, _ := newTestStore()
	room, err := s.CreateRoom("closed")
	req.NoError(err)
	_, changed, err := s.EndRoom(room.Code)
	req.NoError(err)
	req.True(changed)

	// When someone joins an ended room
	_, err = s.JoinRoom(room.Code, "late")

	// Then it is a conflict
	req.ErrorIs(err, errors.ErrRoomEnded)
	req.ErrorIs(err, errors.ErrConflict)
}

func TestStore_AddConsumption_Accumulates_And_Refreshes_Tier(t *testing.T) {
	req := require.New(t)
	s, clock := newTestStore()
	room, err := s.CreateRoom("party")
	req.NoError(err)
	user, err := s.JoinRoom(room.Code, "mina")
	req.NoError(err)

	// Given 30 minutes elapsed
	clock.Advance(30 * time.Minute)

	// When 2 soju glasses are recorded
	updated, record, err := s.AddConsumption(user.ID, domain.Soju, 2)

	// Then the total is 2 units, the rate 4/h and the tier the top one
	req.NoError(err)
	req.InDelta(2.0, record.Units, 1e-9)
	req.InDelta(2.0, updated.TotalUnits, 1e-9)
	req.NotNil(updated.Tier)
	req.Equal(domain.TierHumanAlcohol, *updated.Tier)
	req.Equal(startTime.Add(30*time.Minute), record.RecordedAt)

	drinks, err := s.Drinks(user.ID)
	req.NoError(err)
	req.Len(drinks, 1)
}

func TestStore_AddConsumption_Rejects_Invalid_Input(t *testing.T) {
	req := require.New(t)
	s, _ := newTestStore()
	room, err := s.CreateRoom("party")
	req.NoError(err)
	user, err := s.JoinRoom(room.Code, "mina")
	req.NoError(err)

	_, _, err = s.AddConsumption(user.ID, domain.Beer, 0)
	req.ErrorIs(err, errors.ErrInvalidQuantity)

	_, _, err = s.AddConsumption(user.ID, domain.Category("WHISKY"), 1)
	req.ErrorIs(err, errors.ErrInvalidCategory)

	_, _, err = s.AddConsumption("nobody", domain.Beer, 1)
	req.ErrorIs(err, errors.ErrUserNotFound)

	current, err := s.User(user.ID)
	req.NoError(err)
	req.Zero(current.TotalUnits)
}

func TestStore_AddConsumption_Concurrent_Adds_Are_Not_Lost(t *testing.T) {
	req := require.New(t)
	s, _ := newTestStore()
	room, err := s.CreateRoom("crowd")
	req.NoError(err)
	user, err := s.JoinRoom(room.Code, "mina")
	req.NoError(err)

	// When 50 goroutines each add one beer
	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.AddConsumption(user.ID, domain.Beer, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	// Then every increment is kept
	current, err := s.User(user.ID)
	req.NoError(err)
	req.InDelta(15.0, current.TotalUnits, 1e-9)
	drinks, err := s.Drinks(user.ID)
	req.NoError(err)
	req.Len(drinks, 50)
}

func TestStore_RecordReaction(t *testing.T) {
	req := require.New(t)
	s, _ := newTestStore()
	room, err := s.CreateRoom("party")
	req.NoError(err)
	user, err := s.JoinRoom(room.Code, "mina")
	req.NoError(err)

	_, _, err = s.RecordReaction(user.ID, 0)
	req.ErrorIs(err, errors.ErrInvalidLatency)

	_, record, err := s.RecordReaction(user.ID, 400)
	req.NoError(err)
	req.Equal(400, record.LatencyMs)
	_, _, err = s.RecordReaction(user.ID, 600)
	req.NoError(err)

	snap, err := s.UserSnapshot(user.ID)
	req.NoError(err)
	req.NotNil(snap.AverageReactionMs)
	req.InDelta(500.0, *snap.AverageReactionMs, 1e-9)
}

func TestStore_Finish_Is_Stamped_Once(t *testing.T) {
	req := require.New(t)
	s, clock := newTestStore()
	room, err := s.CreateRoom("party")
	req.NoError(err)
	user, err := s.JoinRoom(room.Code, "mina")
	req.NoError(err)

	// Given a first finish after 10 minutes
	clock.Advance(10 * time.Minute)
	finished, err := s.Finish(user.ID)
	req.NoError(err)
	req.NotNil(finished.FinishedAt)
	first := *finished.FinishedAt

	// When finishing again later
	clock.Advance(10 * time.Minute)
	_, err = s.Finish(user.ID)

	// Then it conflicts and the stamp is unchanged
	req.ErrorIs(err, errors.ErrUserAlreadyFinished)
	current, err := s.User(user.ID)
	req.NoError(err)
	req.Equal(first, *current.FinishedAt)
	req.Equal(10*time.Minute, current.Elapsed(clock.Now()))
}

func TestStore_Events_After_Finish_Follow_Policy(t *testing.T) {
	for _, tc := range []struct {
		name   string
		reject bool
	}{
		{name: "accepted by default", reject: false},
		{name: "rejected when configured", reject: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			s, _ := newTestStore(WithRejectAfterFinish(tc.reject))
			room, err := s.CreateRoom("party")
			req.NoError(err)
			user, err := s.JoinRoom(room.Code, "mina")
			req.NoError(err)
			_, err = s.Finish(user.ID)
			req.NoError(err)

			_, _, drinkErr := s.AddConsumption(user.ID, domain.Soju, 1)
			_, _, reactionErr := s.RecordReaction(user.ID, 300)

			if tc.reject {
				req.ErrorIs(drinkErr, errors.ErrUserFinished)
				req.ErrorIs(reactionErr, errors.ErrUserFinished)
				return
			}
			req.NoError(drinkErr)
			req.NoError(reactionErr)
		})
	}
}

func TestStore_EndRoom_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	s, clock := newTestStore()
	room, err := s.CreateRoom("party")
	req.NoError(err)
	user, err := s.JoinRoom(room.Code, "mina")
	req.NoError(err)

	ended, changed, err := s.EndRoom(room.Code)
	req.NoError(err)
	req.True(changed)
	req.Equal(domain.RoomEnded, ended.Status)

	clock.Advance(time.Minute)
	again, changed, err := s.EndRoom(room.Code)
	req.NoError(err)
	req.False(changed)
	req.Equal(*ended.EndedAt, *again.EndedAt)

	// Mutations on an ended room conflict, except finishing an active user
	_, _, err = s.AddConsumption(user.ID, domain.Soju, 1)
	req.ErrorIs(err, errors.ErrRoomEnded)
	_, _, err = s.RecordReaction(user.ID, 300)
	req.ErrorIs(err, errors.ErrRoomEnded)
	_, err = s.Finish(user.ID)
	req.NoError(err)
	req.Empty(s.OpenRooms())
}

func TestStore_Snapshot_Keeps_Join_Order_And_Aggregates(t *testing.T) {
	req := require.New(t)
	s, clock := newTestStore()
	room, err := s.CreateRoom("party")
	req.NoError(err)
	a, err := s.JoinRoom(room.Code, "a")
	req.NoError(err)
	clock.Advance(time.Second)
	b, err := s.JoinRoom(room.Code, "b")
	req.NoError(err)
	_, _, err = s.AddConsumption(b.ID, domain.Beer, 2)
	req.NoError(err)
	_, _, err = s.AddConsumption(b.ID, domain.Beer, 3)
	req.NoError(err)
	_, _, err = s.AddConsumption(b.ID, domain.Soju, 1)
	req.NoError(err)

	snap, err := s.Snapshot(room.Code)
	req.NoError(err)
	req.Len(snap.Users, 2)
	req.Equal(a.ID, snap.Users[0].User.ID)
	req.Equal(b.ID, snap.Users[1].User.ID)
	req.Nil(snap.Users[0].AverageReactionMs)
	req.Equal(map[domain.Category]int{domain.Beer: 5, domain.Soju: 1}, snap.Users[1].GlassesByCategory)
}

func TestStore_Write_Backs(t *testing.T) {
	req := require.New(t)
	s, _ := newTestStore()
	room, err := s.CreateRoom("")
	req.NoError(err)
	user, err := s.JoinRoom(room.Code, "mina")
	req.NoError(err)

	req.NoError(s.SetCommentary(user.ID, "well played"))
	req.NoError(s.RenameRoom(room.Code, "Happy Hour"))
	req.NoError(s.RecordRanks(room.Code, []domain.RankEntry{{UserID: user.ID, Rank: 1}}))

	current, err := s.User(user.ID)
	req.NoError(err)
	req.Equal("well played", *current.Commentary)
	req.Equal(1, *current.Rank)
	renamed, err := s.Room(room.Code)
	req.NoError(err)
	req.Equal("Happy Hour", renamed.Name)

	_, _, err = s.EndRoom(room.Code)
	req.NoError(err)
	req.ErrorIs(s.RenameRoom(room.Code, "too late"), errors.ErrRoomEnded)
}

func TestStore_Persistence_Failure_Leaves_State_Untouched(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	s, _ := newTestStore(WithRepository(repo))

	repo.EXPECT().FindRoomByCode(gomock.Any()).Return(domain.Room{}, errors.ErrRoomNotFound)
	repo.EXPECT().SaveRoom(gomock.Any()).Return(nil)
	repo.EXPECT().SaveUser(gomock.Any()).Return(nil)
	room, err := s.CreateRoom("party")
	req.NoError(err)
	user, err := s.JoinRoom(room.Code, "mina")
	req.NoError(err)

	// Given a failing drink write
	repo.EXPECT().AppendDrink(gomock.Any()).Return(fmt.Errorf("disk full"))

	// When a drink is recorded
	_, _, err = s.AddConsumption(user.ID, domain.Soju, 3)

	// Then the error surfaces and nothing is accumulated
	req.Error(err)
	current, err := s.User(user.ID)
	req.NoError(err)
	req.Zero(current.TotalUnits)
}

func TestStore_Restore_Rebuilds_State(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	s, _ := newTestStore(WithRepository(repo))

	tier := domain.TierWhaleCadet
	room := domain.NewRoom("1234", "restored", startTime)
	user := domain.User{ID: "u1", Name: "mina", RoomCode: "1234", JoinedAt: startTime, TotalUnits: 3, Tier: &tier}
	drink := domain.DrinkRecord{UserID: "u1", Category: domain.Soju, Quantity: 3, Units: 3, RecordedAt: startTime}

	repo.EXPECT().ListRooms().Return([]domain.Room{room}, nil)
	repo.EXPECT().FindUsersByRoomCode(domain.RoomCode("1234")).Return([]domain.User{user}, nil)
	repo.EXPECT().FindDrinksByUserID(domain.UserID("u1")).Return([]domain.DrinkRecord{drink}, nil)
	repo.EXPECT().FindReactionsByUserID(domain.UserID("u1")).Return(nil, nil)

	req.NoError(s.Restore(context.Background()))

	restored, err := s.User("u1")
	req.NoError(err)
	req.InDelta(3.0, restored.TotalUnits, 1e-9)
	code, err := s.RoomOf("u1")
	req.NoError(err)
	req.Equal(domain.RoomCode("1234"), code)
	snap, err := s.Snapshot("1234")
	req.NoError(err)
	req.Equal(3, snap.Users[0].GlassesByCategory[domain.Soju])
	req.Equal(Stats{Rooms: 1, OpenRooms: 1, Users: 1, ActiveUsers: 1}, s.Stats())
}

func TestStore_Custom_Tiers(t *testing.T) {
	req := require.New(t)
	tiers, err := scoring.NewTiers(0, 5, 10, 20)
	req.NoError(err)
	s, clock := newTestStore(WithTiers(tiers))
	room, err := s.CreateRoom("party")
	req.NoError(err)
	user, err := s.JoinRoom(room.Code, "mina")
	req.NoError(err)
	clock.Advance(time.Hour)

	updated, _, err := s.AddConsumption(user.ID, domain.Soju, 6)
	req.NoError(err)
	req.Equal(domain.TierWalletKeeper, *updated.Tier)
}
