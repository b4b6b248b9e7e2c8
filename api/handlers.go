package api

import (
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"drinkspeed/errors"
	"drinkspeed/services"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// bind decodes the JSON body, answering 400 on malformed input.
func (h *Handler) bind(c *gin.Context, request any) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		h.writeError(c, fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err))
		return false
	}
	return true
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var request services.CreateRoomRequest
	if !h.bind(c, &request) {
		return
	}
	result, err := h.service.CreateRoom(c.Request.Context(), request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, roomWithUserResponse{Room: toRoomResponse(result.Room), User: toUserResponse(result.Host)})
}

func (h *Handler) JoinRoom(c *gin.Context) {
	var request services.JoinRoomRequest
	if !h.bind(c, &request) {
		return
	}
	result, err := h.service.JoinRoom(c.Request.Context(), request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, roomWithUserResponse{Room: toRoomResponse(result.Room), User: toUserResponse(result.User)})
}

func (h *Handler) RoomInfo(c *gin.Context) {
	info, err := h.service.RoomInfo(domain.RoomCode(c.Param("code")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomInfoResponse(info))
}

func (h *Handler) EndRoom(c *gin.Context) {
	result, err := h.service.EndRoom(c.Request.Context(), domain.RoomCode(c.Param("code")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, endRoomResponse{Room: toRoomResponse(result.Room), Changed: result.Changed})
}

func (h *Handler) Ranking(c *gin.Context) {
	code := domain.RoomCode(c.Param("code"))
	entries, err := h.service.Ranking(code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rankingResponse{RoomCode: code, Entries: lo.Ternary(entries == nil, []domain.RankEntry{}, entries)})
}

func (h *Handler) Timeline(c *gin.Context) {
	code := domain.RoomCode(c.Param("code"))
	view, err := h.service.Timeline(code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, timelineResponse{
		RoomCode: code,
		Ranking:  lo.Ternary(view.Ranking == nil, []domain.RankEntry{}, view.Ranking),
		Events:   lo.Map(view.Events, func(e event.DomainEvent, _ int) Envelope { return NewEnvelope(e) }),
	})
}

func (h *Handler) AddDrink(c *gin.Context) {
	var request services.AddDrinkRequest
	if !h.bind(c, &request) {
		return
	}
	result, err := h.service.AddDrink(c.Request.Context(), domain.UserID(c.Param("id")), request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, drinkResponse{
		ID:         result.Record.ID.String(),
		Category:   result.Record.Category,
		Quantity:   result.Record.Quantity,
		Units:      result.Record.Units,
		RecordedAt: result.Record.RecordedAt,
		User:       toUserResponse(result.User),
	})
}

func (h *Handler) RecordReaction(c *gin.Context) {
	var request services.ReactionRequest
	if !h.bind(c, &request) {
		return
	}
	result, err := h.service.RecordReaction(c.Request.Context(), domain.UserID(c.Param("id")), request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reactionResponse{
		ID:         result.Record.ID.String(),
		LatencyMs:  result.Record.LatencyMs,
		RecordedAt: result.Record.RecordedAt,
		User:       toUserResponse(result.User),
	})
}

func (h *Handler) Finish(c *gin.Context) {
	result, err := h.service.Finish(c.Request.Context(), domain.UserID(c.Param("id")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, finishResponse{
		User:        toUserResponse(result.User),
		RatePerHour: result.RatePerHour,
		RoomEnded:   result.RoomEnded,
	})
}

func (h *Handler) UserResult(c *gin.Context) {
	result, err := h.service.UserResult(domain.UserID(c.Param("id")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResultResponse(result))
}

// Commentary is polled by clients until the generated text is ready.
func (h *Handler) Commentary(c *gin.Context) {
	text, err := h.service.Commentary(domain.UserID(c.Param("id")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentaryResponse{Commentary: text})
}

func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Stats())
}
