package runtime

import (
	"context"
	"drinkspeed/ai"
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"drinkspeed/errors"
	"drinkspeed/ranking"
	"drinkspeed/runtime/workers"
	"drinkspeed/scoring"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

func (o *Orchestrator) CreateRoom(ctx context.Context, roomName, hostName string) (domain.CreateRoomResult, error) {
	return submit[domain.CreateRoomResult](ctx, o, domain.CreateRoomCommand{RoomName: roomName, HostName: hostName})
}

func (o *Orchestrator) JoinRoom(ctx context.Context, code domain.RoomCode, userName string) (domain.JoinRoomResult, error) {
	return submit[domain.JoinRoomResult](ctx, o, domain.JoinRoomCommand{RoomCode: code, UserName: userName})
}

func (o *Orchestrator) AddDrink(ctx context.Context, id domain.UserID, category domain.Category, quantity int) (domain.DrinkResult, error) {
	return submit[domain.DrinkResult](ctx, o, domain.AddDrinkCommand{UserID: id, Category: category, Quantity: quantity})
}

func (o *Orchestrator) RecordReaction(ctx context.Context, id domain.UserID, latencyMs int) (domain.ReactionResult, error) {
	return submit[domain.ReactionResult](ctx, o, domain.RecordReactionCommand{UserID: id, LatencyMs: latencyMs})
}

func (o *Orchestrator) Finish(ctx context.Context, id domain.UserID) (domain.FinishResult, error) {
	return submit[domain.FinishResult](ctx, o, domain.FinishCommand{UserID: id})
}

func (o *Orchestrator) EndRoom(ctx context.Context, code domain.RoomCode) (domain.EndRoomResult, error) {
	return submit[domain.EndRoomResult](ctx, o, domain.EndRoomCommand{RoomCode: code})
}

// Handle applies one command. It runs on a pool worker.
func (o *Orchestrator) Handle(_ context.Context, cmd domain.Command) (any, error) {
	switch c := cmd.(type) {
	case domain.CreateRoomCommand:
		return o.createRoom(c)
	case domain.JoinRoomCommand:
		return o.joinRoom(c)
	case domain.AddDrinkCommand:
		return o.addDrink(c)
	case domain.RecordReactionCommand:
		return o.recordReaction(c)
	case domain.FinishCommand:
		return o.finish(c)
	case domain.EndRoomCommand:
		return o.endRoom(c)
	default:
		return nil, fmt.Errorf("%w: unknown command %s", errors.ErrInvalidRequest, cmd.Name())
	}
}

func (o *Orchestrator) createRoom(c domain.CreateRoomCommand) (domain.CreateRoomResult, error) {
	hostName, err := o.displayName(c.HostName)
	if err != nil {
		return domain.CreateRoomResult{}, err
	}
	roomName := o.moderator.Clean(strings.TrimSpace(c.RoomName))

	room, err := o.store.CreateRoom(roomName)
	if err != nil {
		return domain.CreateRoomResult{}, err
	}
	unlock := o.lockRoom(room.Code)
	defer unlock()

	generateName := roomName == ""
	if generateName {
		room.Name = ai.FallbackRoomName(room.Code)
		if err := o.store.RenameRoom(room.Code, room.Name); err != nil {
			return domain.CreateRoomResult{}, err
		}
	}
	host, err := o.store.JoinRoom(room.Code, hostName)
	if err != nil {
		return domain.CreateRoomResult{}, err
	}
	o.Publish(event.UserJoined{Room: room.Code, UserID: host.ID, UserName: host.Name, At: host.JoinedAt})
	o.publishRanking(room.Code)

	if generateName {
		o.enqueue(workers.EnrichmentTask{Kind: workers.RoomNameTask, RoomCode: room.Code, Language: ai.LanguageOf(hostName)})
	}
	o.log.Info("Room created", "code", room.Code, "host", host.ID)
	return domain.CreateRoomResult{Room: room, Host: host}, nil
}

func (o *Orchestrator) joinRoom(c domain.JoinRoomCommand) (domain.JoinRoomResult, error) {
	userName, err := o.displayName(c.UserName)
	if err != nil {
		return domain.JoinRoomResult{}, err
	}
	unlock := o.lockRoom(c.RoomCode)
	defer unlock()

	user, err := o.store.JoinRoom(c.RoomCode, userName)
	if err != nil {
		return domain.JoinRoomResult{}, err
	}
	room, err := o.store.Room(c.RoomCode)
	if err != nil {
		return domain.JoinRoomResult{}, err
	}
	o.Publish(event.UserJoined{Room: room.Code, UserID: user.ID, UserName: user.Name, At: user.JoinedAt})
	o.publishRanking(room.Code)
	return domain.JoinRoomResult{Room: room, User: user}, nil
}

func (o *Orchestrator) addDrink(c domain.AddDrinkCommand) (domain.DrinkResult, error) {
	code, err := o.store.RoomOf(c.UserID)
	if err != nil {
		return domain.DrinkResult{}, err
	}
	unlock := o.lockRoom(code)
	defer unlock()

	user, record, err := o.store.AddConsumption(c.UserID, c.Category, c.Quantity)
	if err != nil {
		return domain.DrinkResult{}, err
	}
	o.Publish(event.DrinkAdded{
		Room:       code,
		UserID:     user.ID,
		UserName:   user.Name,
		Category:   record.Category,
		Quantity:   record.Quantity,
		Units:      record.Units,
		TotalUnits: user.TotalUnits,
		Tier:       lo.FromPtr(user.Tier),
		At:         record.RecordedAt,
	})
	o.publishRanking(code)
	return domain.DrinkResult{Record: record, User: user}, nil
}

func (o *Orchestrator) recordReaction(c domain.RecordReactionCommand) (domain.ReactionResult, error) {
	code, err := o.store.RoomOf(c.UserID)
	if err != nil {
		return domain.ReactionResult{}, err
	}
	unlock := o.lockRoom(code)
	defer unlock()

	user, record, err := o.store.RecordReaction(c.UserID, c.LatencyMs)
	if err != nil {
		return domain.ReactionResult{}, err
	}
	o.Publish(event.ReactionRecorded{Room: code, UserID: user.ID, UserName: user.Name, LatencyMs: record.LatencyMs, At: record.RecordedAt})
	o.publishRanking(code)
	return domain.ReactionResult{Record: record, User: user}, nil
}

// finish closes out a participant, then ends the room automatically
// once at most one participant is still active.
func (o *Orchestrator) finish(c domain.FinishCommand) (domain.FinishResult, error) {
	code, err := o.store.RoomOf(c.UserID)
	if err != nil {
		return domain.FinishResult{}, err
	}
	unlock := o.lockRoom(code)
	defer unlock()

	user, err := o.store.Finish(c.UserID)
	if err != nil {
		return domain.FinishResult{}, err
	}
	rate := scoring.RatePerHour(user.TotalUnits, user.Elapsed(*user.FinishedAt))
	o.Publish(event.UserFinished{Room: code, UserID: user.ID, UserName: user.Name, RatePerHour: rate, At: *user.FinishedAt})
	entries := o.publishRanking(code)
	if entry, ok := ranking.Find(entries, user.ID); ok {
		rank := entry.Rank
		user.Rank = &rank
	}
	o.enqueue(workers.EnrichmentTask{Kind: workers.CommentaryTask, UserID: user.ID})

	result := domain.FinishResult{User: user, RatePerHour: rate}
	active, err := o.store.ActiveUserCount(code)
	if err != nil {
		return domain.FinishResult{}, err
	}
	if active <= 1 {
		room, changed, err := o.store.EndRoom(code)
		if err != nil {
			return domain.FinishResult{}, err
		}
		if changed {
			o.Publish(event.RoomEnded{Room: code, Auto: true, At: *room.EndedAt})
			result.RoomEnded = true
			o.log.Info("Room ended automatically", "code", code)
		}
	}
	return result, nil
}

func (o *Orchestrator) endRoom(c domain.EndRoomCommand) (domain.EndRoomResult, error) {
	unlock := o.lockRoom(c.RoomCode)
	defer unlock()

	room, changed, err := o.store.EndRoom(c.RoomCode)
	if err != nil {
		return domain.EndRoomResult{}, err
	}
	if changed {
		o.Publish(event.RoomEnded{Room: room.Code, At: *room.EndedAt})
		o.publishRanking(room.Code)
		o.log.Info("Room ended", "code", room.Code)
	}
	return domain.EndRoomResult{Room: room, Changed: changed}, nil
}

// publishRanking recomputes the ranking of a room, records the ranks and queues the update.
// Caller holds the room sequencer.
func (o *Orchestrator) publishRanking(code domain.RoomCode) []domain.RankEntry {
	snapshot, err := o.store.Snapshot(code)
	if err != nil {
		o.log.Error("Snapshot failed after a committed mutation", "code", code, "error", err)
		return nil
	}
	now := o.store.Now()
	entries := ranking.Rank(snapshot, o.store.Tiers(), now)
	if err := o.store.RecordRanks(code, entries); err != nil {
		o.log.Warn("Could not record ranks", "code", code, "error", err)
	}
	o.Publish(event.RankingUpdated{Room: code, Entries: entries, At: now})
	return entries
}

// enqueue hands a task to the enrichment workers. When their queue is full
// the fallback text is written right away.
func (o *Orchestrator) enqueue(task workers.EnrichmentTask) {
	select {
	case o.tasks <- task:
		return
	default:
	}
	o.log.Warn("Enrichment queue full, writing fallback", "user", task.UserID, "code", task.RoomCode)
	switch task.Kind {
	case workers.CommentaryTask:
		user, err := o.store.User(task.UserID)
		if err != nil {
			return
		}
		in := workers.CommentaryInputOf(user, o.store.Tiers(), o.store.Now())
		if err := o.store.SetCommentary(user.ID, ai.FallbackCommentary(ai.LanguageOf(user.Name), in)); err != nil {
			o.log.Warn("Could not store fallback commentary", "user", user.ID, "error", err)
		}
	case workers.RoomNameTask:
		// the fallback name is already in place
	}
}

func (o *Orchestrator) displayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: display name is required", errors.ErrInvalidRequest)
	}
	return o.moderator.Clean(name), nil
}
