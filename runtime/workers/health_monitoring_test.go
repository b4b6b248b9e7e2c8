package workers

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestHealthMonitoringWorker_Samples_Current_Process(t *testing.T) {
	req := require.New(t)
	worker := NewHealthMonitoringWorker(logs.GetLoggerFromLevel(slog.LevelDebug), 10*time.Millisecond)

	// Given no sample yet
	_, ok := worker.Latest()
	req.False(ok)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// When the worker runs for a few intervals
	req.NoError(worker.Run(ctx))

	// Then the latest sample describes this process
	sample, ok := worker.Latest()
	req.True(ok)
	req.Equal(int32(os.Getpid()), sample.PID)
	req.Positive(sample.Goroutines)
	req.False(sample.SampledAt.IsZero())
}
