package workers

import (
	"context"
	"drinkspeed/ai"
	"drinkspeed/contract"
	"drinkspeed/domain"
	"drinkspeed/errors"
	"drinkspeed/scoring"
	"drinkspeed/store"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

var _ contract.Worker = (*EnrichmentWorker)(nil)

type TaskKind int

const (
	CommentaryTask TaskKind = iota
	RoomNameTask
)

// EnrichmentTask asks for a text that is written back to the store once ready.
type EnrichmentTask struct {
	Kind     TaskKind
	UserID   domain.UserID
	RoomCode domain.RoomCode
	Language ai.Language
}

// EnrichmentWorker produces commentary and room names off the request path.
// No store lock is held while the generator is awaited.
type EnrichmentWorker struct {
	log    *slog.Logger
	tasks  <-chan EnrichmentTask
	writer *ai.Writer
	store  *store.Store
}

func NewEnrichmentWorker(log *slog.Logger, tasks <-chan EnrichmentTask, writer *ai.Writer, s *store.Store) *EnrichmentWorker {
	return &EnrichmentWorker{log: log, tasks: tasks, writer: writer, store: s}
}

func (w *EnrichmentWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case task, ok := <-w.tasks:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.Apply(ctx, task)
		}
	}
}

// Apply runs one task to completion. Failures end up as fallback text, never as errors.
func (w *EnrichmentWorker) Apply(ctx context.Context, task EnrichmentTask) {
	switch task.Kind {
	case CommentaryTask:
		user, err := w.store.User(task.UserID)
		if err != nil {
			w.log.Warn("Commentary for unknown user", "user", task.UserID, "error", err)
			return
		}
		text := w.writer.Commentary(ctx, CommentaryInputOf(user, w.store.Tiers(), w.store.Now()))
		if err := w.store.SetCommentary(task.UserID, text); err != nil {
			w.log.Warn("Could not store commentary", "user", task.UserID, "error", err)
		}
	case RoomNameTask:
		name := w.writer.RoomName(ctx, task.RoomCode, task.Language)
		err := w.store.RenameRoom(task.RoomCode, name)
		switch {
		case stderrors.Is(err, errors.ErrRoomEnded):
			w.log.Debug("Room ended before its name was ready", "code", task.RoomCode)
		case err != nil:
			w.log.Warn("Could not rename room", "code", task.RoomCode, "error", err)
		}
	}
}

// CommentaryInputOf gathers what the commentary of a participant is written from.
func CommentaryInputOf(user domain.User, tiers scoring.Tiers, now time.Time) ai.CommentaryInput {
	elapsed := user.Elapsed(now)
	rate := scoring.RatePerHour(user.TotalUnits, elapsed)
	return ai.CommentaryInput{
		Name:        user.Name,
		Elapsed:     elapsed,
		TotalUnits:  user.TotalUnits,
		RatePerHour: rate,
		Tier:        tiers.Level(rate),
		Rank:        lo.FromPtrOr(user.Rank, 0),
	}
}
