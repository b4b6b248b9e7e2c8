package workers

import (
	"context"
	"drinkspeed/contract"
	"drinkspeed/domain"
	"drinkspeed/errors"
	"fmt"
	"log/slog"
)

var _ contract.Worker = (*PoolUnitWorker)(nil)

// CommandHandler applies one command and returns its result.
type CommandHandler func(ctx context.Context, cmd domain.Command) (any, error)

// Job is a command waiting in the pool queue. Reply must be buffered.
type Job struct {
	Command domain.Command
	Reply   chan<- Reply
}

type Reply struct {
	Value any
	Err   error
}

// PoolUnitWorker is one of the N goroutines draining the shared command queue.
type PoolUnitWorker struct {
	jobs    <-chan Job
	handler CommandHandler
	log     *slog.Logger
}

func NewPoolUnitWorker(jobs <-chan Job, handler CommandHandler, log *slog.Logger) *PoolUnitWorker {
	return &PoolUnitWorker{jobs: jobs, handler: handler, log: log}
}

func (w *PoolUnitWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case job, ok := <-w.jobs:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.execute(ctx, job)
		}
	}
}

// execute answers the caller before a panic propagates to the supervisor.
func (w *PoolUnitWorker) execute(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			job.Reply <- Reply{Err: fmt.Errorf("%w: %s: %v", errors.ErrWorkerPanic, job.Command.Name(), r)}
			panic(r)
		}
	}()
	value, err := w.handler(ctx, job.Command)
	if err != nil {
		w.log.Debug("Command rejected", "command", job.Command.Name(), "error", err)
	}
	job.Reply <- Reply{Value: value, Err: err}
}
