package api

import (
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"drinkspeed/errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError answers with the status of the error kind.
// Unclassified errors are logged and hidden behind a generic message.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if errors.Kind(err) == nil {
		h.log.Error("Unhandled error", "path", c.FullPath(), "error", err)
		c.JSON(status, errorResponse{Error: "an unexpected error occurred"})
		return
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

type roomResponse struct {
	Code             domain.RoomCode `json:"roomCode"`
	Name             string          `json:"roomName"`
	CreatedAt        time.Time       `json:"createdAt"`
	EndedAt          *time.Time      `json:"endedAt,omitempty"`
	Status           string          `json:"status"`
	ParticipantCount *int            `json:"participantCount,omitempty"`
	ActiveCount      *int            `json:"activeCount,omitempty"`
}

type userResponse struct {
	ID            domain.UserID   `json:"userId"`
	Name          string          `json:"userName"`
	RoomCode      domain.RoomCode `json:"roomCode"`
	JoinedAt      time.Time       `json:"joinedAt"`
	FinishedAt    *time.Time      `json:"finishedAt,omitempty"`
	TotalUnits    float64         `json:"totalSojuEquivalent"`
	Tier          *domain.Tier    `json:"characterLevel,omitempty"`
	TierName      *string         `json:"characterName,omitempty"`
	Rank          *int            `json:"rank,omitempty"`
	IsFinished    bool            `json:"isFinished"`
	HasCommentary bool            `json:"hasCommentary"`
}

type roomWithUserResponse struct {
	Room roomResponse `json:"room"`
	User userResponse `json:"user"`
}

type drinkResponse struct {
	ID         string          `json:"id"`
	Category   domain.Category `json:"drinkType"`
	Quantity   int             `json:"glassCount"`
	Units      float64         `json:"sojuEquivalent"`
	RecordedAt time.Time       `json:"recordedAt"`
	User       userResponse    `json:"user"`
}

type reactionResponse struct {
	ID         string       `json:"id"`
	LatencyMs  int          `json:"reactionTimeMs"`
	RecordedAt time.Time    `json:"recordedAt"`
	User       userResponse `json:"user"`
}

type finishResponse struct {
	User        userResponse `json:"user"`
	RatePerHour float64      `json:"glassPerHour"`
	RoomEnded   bool         `json:"roomEnded"`
}

type endRoomResponse struct {
	Room    roomResponse `json:"room"`
	Changed bool         `json:"changed"`
}

type rankingResponse struct {
	RoomCode domain.RoomCode    `json:"roomCode"`
	Entries  []domain.RankEntry `json:"entries"`
}

type timelineResponse struct {
	RoomCode domain.RoomCode    `json:"roomCode"`
	Ranking  []domain.RankEntry `json:"ranking"`
	Events   []Envelope         `json:"events"`
}

type userResultResponse struct {
	User              userResponse            `json:"user"`
	Rank              int                     `json:"rank"`
	Score             float64                 `json:"score"`
	RatePerHour       float64                 `json:"glassPerHour"`
	Tier              domain.Tier             `json:"characterLevel"`
	TierName          string                  `json:"characterName"`
	GlassesByCategory map[domain.Category]int `json:"glassesByCategory"`
	AverageReactionMs *float64                `json:"averageReactionMs"`
	Commentary        *string                 `json:"commentary"`
}

type commentaryResponse struct {
	Commentary *string `json:"commentary"`
}

// Envelope is the wire shape of a broadcast event.
type Envelope struct {
	Topic   string            `json:"topic"`
	Kind    event.Kind        `json:"kind"`
	Room    domain.RoomCode   `json:"room"`
	At      time.Time         `json:"at"`
	Payload event.DomainEvent `json:"payload"`
}

func NewEnvelope(e event.DomainEvent) Envelope {
	return Envelope{
		Topic:   event.Topic(e),
		Kind:    e.Kind(),
		Room:    e.RoomCode(),
		At:      event.OccurredAt(e),
		Payload: e,
	}
}

func toRoomResponse(room domain.Room) roomResponse {
	return roomResponse{
		Code:      room.Code,
		Name:      room.Name,
		CreatedAt: room.CreatedAt,
		EndedAt:   room.EndedAt,
		Status:    room.Status.String(),
	}
}

func toRoomInfoResponse(info domain.RoomInfo) roomResponse {
	r := toRoomResponse(info.Room)
	r.ParticipantCount = lo.ToPtr(info.ParticipantCount)
	r.ActiveCount = lo.ToPtr(info.ActiveCount)
	return r
}

func toUserResponse(user domain.User) userResponse {
	r := userResponse{
		ID:            user.ID,
		Name:          user.Name,
		RoomCode:      user.RoomCode,
		JoinedAt:      user.JoinedAt,
		FinishedAt:    user.FinishedAt,
		TotalUnits:    user.TotalUnits,
		Tier:          user.Tier,
		Rank:          user.Rank,
		IsFinished:    user.IsFinished(),
		HasCommentary: user.Commentary != nil,
	}
	if user.Tier != nil {
		r.TierName = lo.ToPtr(user.Tier.String())
	}
	return r
}

func toUserResultResponse(result domain.UserResult) userResultResponse {
	return userResultResponse{
		User:              toUserResponse(result.User),
		Rank:              result.Rank,
		Score:             result.Score,
		RatePerHour:       result.RatePerHour,
		Tier:              result.Tier,
		TierName:          result.Tier.String(),
		GlassesByCategory: result.GlassesByCategory,
		AverageReactionMs: result.AverageReactionMs,
		Commentary:        result.User.Commentary,
	}
}
