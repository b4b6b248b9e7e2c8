package workers

import (
	"context"
	"drinkspeed/contract"
	"drinkspeed/domain"
	"log/slog"
	"os"
	goruntime "runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*HealthMonitoringWorker)(nil)

// ProcessSample is one measurement of the server process.
type ProcessSample struct {
	PID        int32            `json:"pid"`
	Status     domain.PidStatus `json:"status"`
	CPUPercent float64          `json:"cpuPercent"`
	RAMPercent float32          `json:"ramPercent"`
	RSSBytes   uint64           `json:"rssBytes"`
	Goroutines int              `json:"goroutines"`
	SampledAt  time.Time        `json:"sampledAt"`
}

// HealthMonitoringWorker samples the current process every metric interval
// and keeps the latest sample for the stats endpoint.
type HealthMonitoringWorker struct {
	mu             sync.RWMutex
	log            *slog.Logger
	metricInterval time.Duration
	pid            int32
	latest         *ProcessSample
}

func NewHealthMonitoringWorker(log *slog.Logger, metricInterval time.Duration) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		metricInterval: metricInterval,
		pid:            int32(os.Getpid()),
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(w.pid)
	if err != nil {
		return err
	}
	w.sample(p)

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			w.sample(p)
		}
	}
}

// Latest returns the most recent sample, if any was taken.
func (w *HealthMonitoringWorker) Latest() (ProcessSample, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.latest == nil {
		return ProcessSample{}, false
	}
	return *w.latest, true
}

func (w *HealthMonitoringWorker) sample(p *process.Process) {
	status, err := p.Status()
	if err != nil {
		w.log.Error("Error while finding process status", "err", err)
		return
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		w.log.Error("Error while finding process cpu usage", "err", err)
		return
	}
	ram, err := p.MemoryPercent()
	if err != nil {
		w.log.Error("Error while finding process ram usage", "err", err)
		return
	}
	var rss uint64
	if info, err := p.MemoryInfo(); err == nil {
		rss = info.RSS
	}

	w.mu.Lock()
	w.latest = &ProcessSample{
		PID:        w.pid,
		Status:     domain.ToStatus(status),
		CPUPercent: cpu,
		RAMPercent: ram,
		RSSBytes:   rss,
		Goroutines: goruntime.NumGoroutine(),
		SampledAt:  time.Now().UTC(),
	}
	w.mu.Unlock()
}
