package workers

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelLoad is one sample of a buffered channel.
type ChannelLoad struct {
	Name     string  `json:"name"`
	Length   int     `json:"length"`
	Capacity int     `json:"capacity"`
	Ratio    float64 `json:"ratio"`
}

// ChannelCapacityWorker periodically samples the fill level of the coordinator queues
// and warns once a queue crosses the threshold ratio.
// Reading len(channel) and cap(channel) never blocks the producers or consumers.
type ChannelCapacityWorker struct {
	mu             sync.RWMutex
	log            *slog.Logger
	channels       []NamedChannel
	threshold      float64
	metricInterval time.Duration
	latest         []ChannelLoad
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel,
	threshold float64, metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:            log,
		channels:       channels,
		threshold:      threshold,
		metricInterval: metricInterval,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel capacity sampling")
			return nil
		case <-ticker.C:
			w.Sample()
		}
	}
}

// Sample reads every channel once and keeps the result.
func (w *ChannelCapacityWorker) Sample() []ChannelLoad {
	loads := make([]ChannelLoad, 0, len(w.channels))
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		load := ChannelLoad{Name: nc.Name, Length: v.Len(), Capacity: v.Cap()}
		if load.Capacity > 0 {
			load.Ratio = float64(load.Length) / float64(load.Capacity)
		}
		if load.Capacity > 0 && load.Ratio >= w.threshold {
			w.log.Warn("Queue is running low on capacity",
				"name", load.Name, "length", load.Length, "capacity", load.Capacity)
		}
		loads = append(loads, load)
	}
	w.mu.Lock()
	w.latest = loads
	w.mu.Unlock()
	return loads
}

// Latest returns the last sample, empty before the first tick.
func (w *ChannelCapacityWorker) Latest() []ChannelLoad {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]ChannelLoad(nil), w.latest...)
}
