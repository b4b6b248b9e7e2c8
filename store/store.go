// Package store owns every room, participant and event of the process.
//
// Locking discipline: Store.mu only guards the two indexes (rooms by code,
// owning room by user). Each room carries its own RWMutex which serializes
// every mutation of the room and of its participants. The two locks are never
// held together, and no repository call runs under Store.mu, so rooms never
// block each other. A code being created sits in the reserved set until its
// room is persisted.
//
// Records handed out are value copies. Pointer fields of a User are replaced,
// never written through, so a copy stays stable after it leaves the store.
package store

import (
	"context"
	"drinkspeed/contract"
	"drinkspeed/domain"
	"drinkspeed/errors"
	"drinkspeed/scoring"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Option func(*Store)

// WithRepository turns on write-through persistence.
func WithRepository(repo contract.Repository) Option {
	return func(s *Store) { s.repo = repo }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithCodeGenerator(gen CodeGenerator) Option {
	return func(s *Store) { s.codes = gen }
}

func WithTiers(tiers scoring.Tiers) Option {
	return func(s *Store) { s.tiers = tiers }
}

// WithRejectAfterFinish makes drinks and reactions of a finished participant fail with a conflict.
// By default they are accepted.
func WithRejectAfterFinish(reject bool) Option {
	return func(s *Store) { s.rejectAfterFinish = reject }
}

type Store struct {
	mu    sync.RWMutex
	rooms map[domain.RoomCode]*roomState
	users map[domain.UserID]*roomState
	// codes handed out but not yet persisted
	reserved map[domain.RoomCode]struct{}

	log               *slog.Logger
	repo              contract.Repository
	now               func() time.Time
	codes             CodeGenerator
	tiers             scoring.Tiers
	rejectAfterFinish bool
}

type roomState struct {
	code  domain.RoomCode
	mu    sync.RWMutex
	room  domain.Room
	order []domain.UserID
	users map[domain.UserID]*userState
}

type userState struct {
	user      domain.User
	drinks    []domain.DrinkRecord
	reactions []domain.ReactionRecord
}

func New(log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		rooms:    make(map[domain.RoomCode]*roomState),
		users:    make(map[domain.UserID]*roomState),
		reserved: make(map[domain.RoomCode]struct{}),
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		codes:    NanoidCodes(),
		tiers:    scoring.DefaultTiers(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) Tiers() scoring.Tiers {
	return s.tiers
}

// CreateRoom allocates a fresh code and registers an open room.
func (s *Store) CreateRoom(name string) (domain.Room, error) {
	code, err := s.reserveCode()
	if err != nil {
		return domain.Room{}, err
	}
	room := domain.NewRoom(code, name, s.now())
	if s.repo != nil {
		if err := s.repo.SaveRoom(room); err != nil {
			s.release(code)
			return domain.Room{}, fmt.Errorf("save room %s: %w", code, err)
		}
	}

	s.mu.Lock()
	delete(s.reserved, code)
	s.rooms[code] = &roomState{code: code, room: room, users: make(map[domain.UserID]*userState)}
	s.mu.Unlock()
	s.log.Debug("Room created", "code", code, "name", name)
	return room, nil
}

// JoinRoom adds a new active participant to an open room.
func (s *Store) JoinRoom(code domain.RoomCode, userName string) (domain.User, error) {
	rs, err := s.roomState(code)
	if err != nil {
		return domain.User{}, err
	}

	rs.mu.Lock()
	if rs.room.IsEnded() {
		rs.mu.Unlock()
		return domain.User{}, fmt.Errorf("join %s: %w", code, errors.ErrRoomEnded)
	}
	user := domain.User{
		ID:       domain.UserID(uuid.NewString()),
		Name:     userName,
		RoomCode: code,
		JoinedAt: s.now(),
	}
	if s.repo != nil {
		if err := s.repo.SaveUser(user); err != nil {
			rs.mu.Unlock()
			return domain.User{}, fmt.Errorf("save user: %w", err)
		}
	}
	rs.users[user.ID] = &userState{user: user}
	rs.order = append(rs.order, user.ID)
	rs.mu.Unlock()

	s.mu.Lock()
	s.users[user.ID] = rs
	s.mu.Unlock()
	return user, nil
}

// AddConsumption converts and accumulates a drink as one read-modify-write.
// The participant's tier is refreshed in the same step.
func (s *Store) AddConsumption(id domain.UserID, category domain.Category, quantity int) (domain.User, domain.DrinkRecord, error) {
	units, err := domain.Normalize(category, quantity)
	if err != nil {
		return domain.User{}, domain.DrinkRecord{}, err
	}
	rs, err := s.userRoom(id)
	if err != nil {
		return domain.User{}, domain.DrinkRecord{}, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	us, err := s.acceptEvent(rs, id)
	if err != nil {
		return domain.User{}, domain.DrinkRecord{}, err
	}

	now := s.now()
	record := domain.DrinkRecord{
		ID:         uuid.New(),
		UserID:     id,
		Category:   category,
		Quantity:   quantity,
		Units:      units,
		RecordedAt: now,
	}
	updated := us.user
	updated.TotalUnits += units
	s.refreshTier(&updated, now)

	if s.repo != nil {
		if err := s.repo.AppendDrink(record); err != nil {
			return domain.User{}, domain.DrinkRecord{}, fmt.Errorf("append drink: %w", err)
		}
		if err := s.repo.SaveUser(updated); err != nil {
			return domain.User{}, domain.DrinkRecord{}, fmt.Errorf("save user: %w", err)
		}
	}
	us.user = updated
	us.drinks = append(us.drinks, record)
	return updated, record, nil
}

// RecordReaction appends a reaction-test result.
func (s *Store) RecordReaction(id domain.UserID, latencyMs int) (domain.User, domain.ReactionRecord, error) {
	if latencyMs <= 0 {
		return domain.User{}, domain.ReactionRecord{}, fmt.Errorf("%w: got %d", errors.ErrInvalidLatency, latencyMs)
	}
	rs, err := s.userRoom(id)
	if err != nil {
		return domain.User{}, domain.ReactionRecord{}, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	us, err := s.acceptEvent(rs, id)
	if err != nil {
		return domain.User{}, domain.ReactionRecord{}, err
	}

	record := domain.ReactionRecord{
		ID:         uuid.New(),
		UserID:     id,
		LatencyMs:  latencyMs,
		RecordedAt: s.now(),
	}
	if s.repo != nil {
		if err := s.repo.AppendReaction(record); err != nil {
			return domain.User{}, domain.ReactionRecord{}, fmt.Errorf("append reaction: %w", err)
		}
	}
	us.reactions = append(us.reactions, record)
	return us.user, record, nil
}

// Finish stamps the finish time of a participant.
// A second call fails with ErrUserAlreadyFinished and keeps the first stamp.
// Finishing is still allowed once the room has ended, so the participants left
// active by an automatic end can close out.
func (s *Store) Finish(id domain.UserID) (domain.User, error) {
	rs, err := s.userRoom(id)
	if err != nil {
		return domain.User{}, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	us := rs.users[id]
	if us.user.IsFinished() {
		return domain.User{}, fmt.Errorf("finish %s: %w", id, errors.ErrUserAlreadyFinished)
	}

	now := s.now()
	updated := us.user
	updated.FinishedAt = &now
	s.refreshTier(&updated, now)
	if s.repo != nil {
		if err := s.repo.SaveUser(updated); err != nil {
			return domain.User{}, fmt.Errorf("save user: %w", err)
		}
	}
	us.user = updated
	return updated, nil
}

// EndRoom ends the room once. Later calls return changed == false and keep EndedAt.
func (s *Store) EndRoom(code domain.RoomCode) (domain.Room, bool, error) {
	rs, err := s.roomState(code)
	if err != nil {
		return domain.Room{}, false, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	updated := rs.room
	if !updated.End(s.now()) {
		return rs.room, false, nil
	}
	if s.repo != nil {
		if err := s.repo.SaveRoom(updated); err != nil {
			return domain.Room{}, false, fmt.Errorf("save room %s: %w", code, err)
		}
	}
	rs.room = updated
	return updated, true, nil
}

// ActiveUserCount counts participants of the room without a finish stamp.
func (s *Store) ActiveUserCount(code domain.RoomCode) (int, error) {
	rs, err := s.roomState(code)
	if err != nil {
		return 0, err
	}
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return activeCount(rs), nil
}

// SetCommentary writes the asynchronously generated text of a participant.
func (s *Store) SetCommentary(id domain.UserID, text string) error {
	rs, err := s.userRoom(id)
	if err != nil {
		return err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	us := rs.users[id]
	updated := us.user
	updated.Commentary = &text
	if s.repo != nil {
		if err := s.repo.SaveUser(updated); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
	}
	us.user = updated
	return nil
}

// RenameRoom replaces the name of an open room.
func (s *Store) RenameRoom(code domain.RoomCode, name string) error {
	rs, err := s.roomState(code)
	if err != nil {
		return err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.room.IsEnded() {
		return fmt.Errorf("rename %s: %w", code, errors.ErrRoomEnded)
	}
	updated := rs.room
	updated.Name = name
	if s.repo != nil {
		if err := s.repo.SaveRoom(updated); err != nil {
			return fmt.Errorf("save room %s: %w", code, err)
		}
	}
	rs.room = updated
	return nil
}

// RecordRanks stores the last computed rank of each listed participant.
// Ranks are derived data and are not persisted.
func (s *Store) RecordRanks(code domain.RoomCode, entries []domain.RankEntry) error {
	rs, err := s.roomState(code)
	if err != nil {
		return err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	for _, e := range entries {
		us, ok := rs.users[e.UserID]
		if !ok {
			continue
		}
		rank := e.Rank
		us.user.Rank = &rank
	}
	return nil
}

func (s *Store) Room(code domain.RoomCode) (domain.Room, error) {
	rs, err := s.roomState(code)
	if err != nil {
		return domain.Room{}, err
	}
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.room, nil
}

func (s *Store) User(id domain.UserID) (domain.User, error) {
	rs, err := s.userRoom(id)
	if err != nil {
		return domain.User{}, err
	}
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.users[id].user, nil
}

// RoomOf returns the code of the room a participant belongs to.
func (s *Store) RoomOf(id domain.UserID) (domain.RoomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.users[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", errors.ErrUserNotFound, id)
	}
	return rs.code, nil
}

func (s *Store) Drinks(id domain.UserID) ([]domain.DrinkRecord, error) {
	rs, err := s.userRoom(id)
	if err != nil {
		return nil, err
	}
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return append([]domain.DrinkRecord(nil), rs.users[id].drinks...), nil
}

func (s *Store) Reactions(id domain.UserID) ([]domain.ReactionRecord, error) {
	rs, err := s.userRoom(id)
	if err != nil {
		return nil, err
	}
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return append([]domain.ReactionRecord(nil), rs.users[id].reactions...), nil
}

// OpenRooms lists rooms that have not ended, oldest first.
func (s *Store) OpenRooms() []domain.Room {
	var open []domain.Room
	for _, rs := range s.allRooms() {
		rs.mu.RLock()
		if !rs.room.IsEnded() {
			open = append(open, rs.room)
		}
		rs.mu.RUnlock()
	}
	return sortRooms(open)
}

type Stats struct {
	Rooms       int `json:"rooms"`
	OpenRooms   int `json:"openRooms"`
	Users       int `json:"users"`
	ActiveUsers int `json:"activeUsers"`
}

func (s *Store) Stats() Stats {
	var stats Stats
	for _, rs := range s.allRooms() {
		rs.mu.RLock()
		stats.Rooms++
		if !rs.room.IsEnded() {
			stats.OpenRooms++
		}
		stats.Users += len(rs.users)
		stats.ActiveUsers += activeCount(rs)
		rs.mu.RUnlock()
	}
	return stats
}

// Restore rebuilds the in-memory state from the repository.
// It replaces whatever the store currently holds.
func (s *Store) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	rooms, err := s.repo.ListRooms()
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}

	roomIndex := make(map[domain.RoomCode]*roomState, len(rooms))
	userIndex := make(map[domain.UserID]*roomState)
	for _, room := range rooms {
		if err := ctx.Err(); err != nil {
			return err
		}
		rs := &roomState{code: room.Code, room: room, users: make(map[domain.UserID]*userState)}
		users, err := s.repo.FindUsersByRoomCode(room.Code)
		if err != nil {
			return fmt.Errorf("users of room %s: %w", room.Code, err)
		}
		for _, user := range users {
			drinks, err := s.repo.FindDrinksByUserID(user.ID)
			if err != nil {
				return fmt.Errorf("drinks of user %s: %w", user.ID, err)
			}
			reactions, err := s.repo.FindReactionsByUserID(user.ID)
			if err != nil {
				return fmt.Errorf("reactions of user %s: %w", user.ID, err)
			}
			rs.users[user.ID] = &userState{user: user, drinks: drinks, reactions: reactions}
			rs.order = append(rs.order, user.ID)
			userIndex[user.ID] = rs
		}
		roomIndex[room.Code] = rs
	}

	s.mu.Lock()
	s.rooms = roomIndex
	s.users = userIndex
	s.mu.Unlock()
	s.log.Info("Store restored", "rooms", len(roomIndex), "users", len(userIndex))
	return nil
}

// acceptEvent checks that a drink or reaction may be recorded. Caller holds rs.mu.
func (s *Store) acceptEvent(rs *roomState, id domain.UserID) (*userState, error) {
	if rs.room.IsEnded() {
		return nil, fmt.Errorf("room %s: %w", rs.room.Code, errors.ErrRoomEnded)
	}
	us := rs.users[id]
	if s.rejectAfterFinish && us.user.IsFinished() {
		return nil, fmt.Errorf("user %s: %w", id, errors.ErrUserFinished)
	}
	return us, nil
}

func (s *Store) refreshTier(user *domain.User, now time.Time) {
	tier := s.tiers.Level(scoring.RatePerHour(user.TotalUnits, user.Elapsed(now)))
	user.Tier = &tier
}

func (s *Store) roomState(code domain.RoomCode) (*roomState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.rooms[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, code)
	}
	return rs, nil
}

func (s *Store) userRoom(id domain.UserID) (*roomState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUserNotFound, id)
	}
	return rs, nil
}

func (s *Store) allRooms() []*roomState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Values(s.rooms)
}

func activeCount(rs *roomState) int {
	return lo.CountBy(lo.Values(rs.users), func(us *userState) bool {
		return !us.user.IsFinished()
	})
}
