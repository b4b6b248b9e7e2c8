//go:generate go run go.uber.org/mock/mockgen -source=session_service.go -destination=../mocks/servicemocks/mock_session_service.go -package=servicemocks
package services

import (
	"context"
	"drinkspeed/contract"
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"drinkspeed/errors"
	"drinkspeed/runtime"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

// Quantities and latencies are left to the domain so callers get the precise sentinel.

type CreateRoomRequest struct {
	RoomName string `json:"roomName" validate:"max=40"`
	HostName string `json:"hostName" validate:"required,max=20"`
}

type JoinRoomRequest struct {
	RoomCode string `json:"roomCode" validate:"required,len=4,numeric"`
	UserName string `json:"userName" validate:"required,max=20"`
}

type AddDrinkRequest struct {
	DrinkType  string `json:"drinkType" validate:"required"`
	GlassCount int    `json:"glassCount"`
}

type ReactionRequest struct {
	ReactionTimeMs int `json:"reactionTimeMs"`
}

type TimelineView struct {
	Ranking []domain.RankEntry  `json:"ranking"`
	Events  []event.DomainEvent `json:"-"`
}

type ISessionService interface {
	CreateRoom(ctx context.Context, request CreateRoomRequest) (domain.CreateRoomResult, error)
	JoinRoom(ctx context.Context, request JoinRoomRequest) (domain.JoinRoomResult, error)
	AddDrink(ctx context.Context, id domain.UserID, request AddDrinkRequest) (domain.DrinkResult, error)
	RecordReaction(ctx context.Context, id domain.UserID, request ReactionRequest) (domain.ReactionResult, error)
	Finish(ctx context.Context, id domain.UserID) (domain.FinishResult, error)
	EndRoom(ctx context.Context, code domain.RoomCode) (domain.EndRoomResult, error)
	RoomInfo(code domain.RoomCode) (domain.RoomInfo, error)
	Ranking(code domain.RoomCode) ([]domain.RankEntry, error)
	Timeline(code domain.RoomCode) (TimelineView, error)
	UserResult(id domain.UserID) (domain.UserResult, error)
	Commentary(id domain.UserID) (*string, error)
	Subscribe(subscriberID string, code domain.RoomCode, sink contract.EventSink, kinds []string) error
	Unsubscribe(subscriberID string, code domain.RoomCode)
	Stats() runtime.Stats
}

type SessionService struct {
	orchestrator *runtime.Orchestrator
}

func NewSessionService(o *runtime.Orchestrator) *SessionService {
	return &SessionService{orchestrator: o}
}

func (s *SessionService) CreateRoom(ctx context.Context, request CreateRoomRequest) (domain.CreateRoomResult, error) {
	if err := validateRequest(request); err != nil {
		return domain.CreateRoomResult{}, err
	}
	return s.orchestrator.CreateRoom(ctx, request.RoomName, request.HostName)
}

func (s *SessionService) JoinRoom(ctx context.Context, request JoinRoomRequest) (domain.JoinRoomResult, error) {
	request.RoomCode = strings.TrimSpace(request.RoomCode)
	if err := validateRequest(request); err != nil {
		return domain.JoinRoomResult{}, err
	}
	return s.orchestrator.JoinRoom(ctx, domain.RoomCode(request.RoomCode), request.UserName)
}

func (s *SessionService) AddDrink(ctx context.Context, id domain.UserID, request AddDrinkRequest) (domain.DrinkResult, error) {
	if err := validateRequest(request); err != nil {
		return domain.DrinkResult{}, err
	}
	category, err := domain.ParseCategory(request.DrinkType)
	if err != nil {
		return domain.DrinkResult{}, err
	}
	return s.orchestrator.AddDrink(ctx, id, category, request.GlassCount)
}

func (s *SessionService) RecordReaction(ctx context.Context, id domain.UserID, request ReactionRequest) (domain.ReactionResult, error) {
	return s.orchestrator.RecordReaction(ctx, id, request.ReactionTimeMs)
}

func (s *SessionService) Finish(ctx context.Context, id domain.UserID) (domain.FinishResult, error) {
	return s.orchestrator.Finish(ctx, id)
}

func (s *SessionService) EndRoom(ctx context.Context, code domain.RoomCode) (domain.EndRoomResult, error) {
	return s.orchestrator.EndRoom(ctx, code)
}

func (s *SessionService) RoomInfo(code domain.RoomCode) (domain.RoomInfo, error) {
	return s.orchestrator.RoomInfo(code)
}

func (s *SessionService) Ranking(code domain.RoomCode) ([]domain.RankEntry, error) {
	return s.orchestrator.Ranking(code)
}

// Timeline serves the last broadcast ranking and recent events of a room.
// A room nothing was broadcast for yet falls back to a freshly computed ranking.
func (s *SessionService) Timeline(code domain.RoomCode) (TimelineView, error) {
	if _, err := s.orchestrator.RoomInfo(code); err != nil {
		return TimelineView{}, err
	}
	timeline := s.orchestrator.Timeline()
	entries, ok := timeline.LatestRanking(code)
	if !ok {
		var err error
		if entries, err = s.orchestrator.Ranking(code); err != nil {
			return TimelineView{}, err
		}
	}
	return TimelineView{Ranking: entries, Events: timeline.Recent(code)}, nil
}

func (s *SessionService) UserResult(id domain.UserID) (domain.UserResult, error) {
	return s.orchestrator.UserResult(id)
}

func (s *SessionService) Commentary(id domain.UserID) (*string, error) {
	return s.orchestrator.Commentary(id)
}

// Subscribe registers a sink on a room. Unknown kind names are rejected, an empty list means every kind.
func (s *SessionService) Subscribe(subscriberID string, code domain.RoomCode, sink contract.EventSink, kinds []string) error {
	parsed, err := parseKinds(kinds)
	if err != nil {
		return err
	}
	return s.orchestrator.Subscribe(subscriberID, code, sink, parsed...)
}

func (s *SessionService) Unsubscribe(subscriberID string, code domain.RoomCode) {
	s.orchestrator.Unsubscribe(subscriberID, code)
}

func (s *SessionService) Stats() runtime.Stats {
	return s.orchestrator.Stats()
}

func parseKinds(names []string) ([]event.Kind, error) {
	names = lo.Compact(lo.Map(names, func(n string, _ int) string { return strings.TrimSpace(n) }))
	kinds := make([]event.Kind, 0, len(names))
	for _, name := range names {
		kind, ok := event.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown event kind %q", errors.ErrInvalidRequest, name)
		}
		kinds = append(kinds, kind)
	}
	return lo.Uniq(kinds), nil
}

func validateRequest(request any) error {
	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err)
	}
	return nil
}
