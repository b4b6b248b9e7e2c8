package workers

import (
	"context"
	"drinkspeed/domain"
	"drinkspeed/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestPoolUnitWorker_Replies_To_Each_Job(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	jobs := make(chan Job, 2)
	handler := func(_ context.Context, cmd domain.Command) (any, error) {
		if c, ok := cmd.(domain.EndRoomCommand); ok && c.RoomCode == "missing" {
			return nil, errors.ErrRoomNotFound
		}
		return cmd.Name(), nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewPoolUnitWorker(jobs, handler, log).Run(ctx) }()

	// When two commands are submitted
	ok := make(chan Reply, 1)
	ko := make(chan Reply, 1)
	jobs <- Job{Command: domain.FinishCommand{UserID: "u1"}, Reply: ok}
	jobs <- Job{Command: domain.EndRoomCommand{RoomCode: "missing"}, Reply: ko}

	// Then each caller gets its own answer
	req.Equal(Reply{Value: "finish"}, receive(t, ok))
	req.ErrorIs(receive(t, ko).Err, errors.ErrRoomNotFound)
}

func TestPoolUnitWorker_Panic_Answers_Caller(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	jobs := make(chan Job, 1)
	handler := func(context.Context, domain.Command) (any, error) { panic("boom") }
	reply := make(chan Reply, 1)
	jobs <- Job{Command: domain.FinishCommand{UserID: "u1"}, Reply: reply}

	// When the handler panics, the panic still reaches the supervisor
	req.Panics(func() { _ = NewPoolUnitWorker(jobs, handler, log).Run(context.Background()) })

	// And the caller is not left waiting
	req.ErrorIs(receive(t, reply).Err, errors.ErrWorkerPanic)
}

func TestPoolUnitWorker_Stops_On_Closed_Queue(t *testing.T) {
	req := require.New(t)
	jobs := make(chan Job)
	close(jobs)

	err := NewPoolUnitWorker(jobs, nil, logs.GetLoggerFromLevel(slog.LevelDebug)).Run(context.Background())

	req.NoError(err)
}

func receive(t *testing.T, replies <-chan Reply) Reply {
	t.Helper()
	select {
	case r := <-replies:
		return r
	case <-time.After(time.Second):
		t.Fatal("no reply")
		return Reply{}
	}
}
