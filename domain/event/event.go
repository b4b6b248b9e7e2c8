package event

import (
	"drinkspeed/domain"
	"fmt"
	"time"
)

// Kind names a broadcast channel inside a room.
type Kind string

const (
	KindJoin      Kind = "join"
	KindDrink     Kind = "drink"
	KindReaction  Kind = "reaction"
	KindFinish    Kind = "finish"
	KindRanking   Kind = "ranking"
	KindRoomEnded Kind = "room-ended"
	KindGameStart Kind = "game-start"
)

var kinds = []Kind{KindJoin, KindDrink, KindReaction, KindFinish, KindRanking, KindRoomEnded, KindGameStart}

// Kinds lists every broadcast kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

func ParseKind(s string) (Kind, bool) {
	for _, k := range kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

type DomainEvent interface {
	RoomCode() domain.RoomCode
	Kind() Kind
}

// Topic is the room-scoped channel name of an event, e.g. "room/0420/drink".
func Topic(e DomainEvent) string {
	return fmt.Sprintf("room/%s/%s", e.RoomCode(), e.Kind())
}

type UserJoined struct {
	Room     domain.RoomCode `json:"roomCode"`
	UserID   domain.UserID   `json:"userId"`
	UserName string          `json:"userName"`
	At       time.Time       `json:"at"`
}

type DrinkAdded struct {
	Room       domain.RoomCode `json:"roomCode"`
	UserID     domain.UserID   `json:"userId"`
	UserName   string          `json:"userName"`
	Category   domain.Category `json:"drinkType"`
	Quantity   int             `json:"glassCount"`
	Units      float64         `json:"sojuEquivalent"`
	TotalUnits float64         `json:"totalSojuEquivalent"`
	Tier       domain.Tier     `json:"characterLevel"`
	At         time.Time       `json:"at"`
}

type ReactionRecorded struct {
	Room      domain.RoomCode `json:"roomCode"`
	UserID    domain.UserID   `json:"userId"`
	UserName  string          `json:"userName"`
	LatencyMs int             `json:"reactionTimeMs"`
	At        time.Time       `json:"at"`
}

type UserFinished struct {
	Room        domain.RoomCode `json:"roomCode"`
	UserID      domain.UserID   `json:"userId"`
	UserName    string          `json:"userName"`
	RatePerHour float64         `json:"glassPerHour"`
	At          time.Time       `json:"at"`
}

type RankingUpdated struct {
	Room    domain.RoomCode    `json:"roomCode"`
	Entries []domain.RankEntry `json:"entries"`
	At      time.Time          `json:"at"`
}

type RoomEnded struct {
	Room domain.RoomCode `json:"roomCode"`
	Auto bool            `json:"auto"`
	At   time.Time       `json:"at"`
}

type GameStarted struct {
	Room     domain.RoomCode `json:"roomCode"`
	RoomName string          `json:"roomName"`
	Message  string          `json:"message"`
	At       time.Time       `json:"at"`
}

func (e UserJoined) RoomCode() domain.RoomCode       { return e.Room }
func (e DrinkAdded) RoomCode() domain.RoomCode       { return e.Room }
func (e ReactionRecorded) RoomCode() domain.RoomCode { return e.Room }
func (e UserFinished) RoomCode() domain.RoomCode     { return e.Room }
func (e RankingUpdated) RoomCode() domain.RoomCode   { return e.Room }
func (e RoomEnded) RoomCode() domain.RoomCode        { return e.Room }
func (e GameStarted) RoomCode() domain.RoomCode      { return e.Room }

func (UserJoined) Kind() Kind       { return KindJoin }
func (DrinkAdded) Kind() Kind       { return KindDrink }
func (ReactionRecorded) Kind() Kind { return KindReaction }
func (UserFinished) Kind() Kind     { return KindFinish }
func (RankingUpdated) Kind() Kind   { return KindRanking }
func (RoomEnded) Kind() Kind        { return KindRoomEnded }
func (GameStarted) Kind() Kind      { return KindGameStart }

// OccurredAt returns the commit time carried by the event.
func OccurredAt(e DomainEvent) time.Time {
	switch evt := e.(type) {
	case UserJoined:
		return evt.At
	case DrinkAdded:
		return evt.At
	case ReactionRecorded:
		return evt.At
	case UserFinished:
		return evt.At
	case RankingUpdated:
		return evt.At
	case RoomEnded:
		return evt.At
	case GameStarted:
		return evt.At
	default:
		return time.Time{}
	}
}
