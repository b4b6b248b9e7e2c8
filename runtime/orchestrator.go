// Package runtime coordinates the session engine: it serializes mutations per room,
// ranks after every change and hands events to the broadcast pipeline.
// Business rules live in store, scoring and ranking.
package runtime

import (
	"context"
	"drinkspeed/ai"
	"drinkspeed/contract"
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"drinkspeed/errors"
	"drinkspeed/moderation"
	"drinkspeed/projection"
	"drinkspeed/runtime/workers"
	"drinkspeed/store"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

//go:embed censored/*
var censoredFolder embed.FS

type Config struct {
	NumWorkers           int
	BufferSize           int
	SinkTimeout          time.Duration
	EnrichmentWorkers    int
	EnrichmentBufferSize int
	EnrichmentTimeout    time.Duration
	ReactionGameEnabled  bool
	ReactionGameInterval time.Duration
	MetricInterval       time.Duration
	LowCapacityThreshold float64
	CharReplacement      rune
}

type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	cfg            Config
	store          *store.Store
	supervisor     contract.ISupervisor
	registry       *Registry
	moderator      *moderation.Moderator
	writer         *ai.Writer
	timeline       *projection.Timeline
	health         *workers.HealthMonitoringWorker
	capacity       *workers.ChannelCapacityWorker
	permanentSinks []contract.EventSink
	sequencers     map[domain.RoomCode]*sequencer
	jobs           chan workers.Job
	events         chan event.DomainEvent
	tasks          chan workers.EnrichmentTask
}

// NewOrchestrator loads the censored dictionaries and wires the text writer.
// generator may be nil, every generated text then falls back.
func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, registry *Registry,
	s *store.Store, generator contract.TextGenerator, cfg Config) (*Orchestrator, error) {
	moderator, err := prepareModeration(log, cfg.CharReplacement)
	if err != nil {
		return nil, err
	}
	if cfg.LowCapacityThreshold <= 0 {
		cfg.LowCapacityThreshold = 0.8
	}
	o := &Orchestrator{
		log:        log,
		cfg:        cfg,
		store:      s,
		supervisor: supervisor,
		registry:   registry,
		moderator:  moderator,
		writer:     ai.NewWriter(log, generator, moderator, cfg.EnrichmentTimeout),
		timeline:   projection.NewTimeline(),
		health:     workers.NewHealthMonitoringWorker(log, cfg.MetricInterval),
		sequencers: make(map[domain.RoomCode]*sequencer),
		jobs:       make(chan workers.Job, cfg.BufferSize),
		events:     make(chan event.DomainEvent, cfg.BufferSize),
		tasks:      make(chan workers.EnrichmentTask, cfg.EnrichmentBufferSize),
	}
	o.capacity = workers.NewChannelCapacityWorker(log, []workers.NamedChannel{
		{Name: "jobs", Channel: o.jobs},
		{Name: "events", Channel: o.events},
		{Name: "tasks", Channel: o.tasks},
	}, cfg.LowCapacityThreshold, cfg.MetricInterval)
	return o, nil
}

// prepareModeration loads censored words and builds the Aho-Corasick automaton.
func prepareModeration(log *slog.Logger, charReplacement rune) (*moderation.Moderator, error) {
	data, err := NewCensoredLoader(censoredFolder).LoadAll("censored")
	if err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("%d censored files loaded [%s]", len(data.Languages), strings.Join(data.Languages, ",")))
	log.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))
	return moderation.NewModerator(data.Words, charReplacement, log)
}

// Add registers sinks receiving every event of every room. Call before Start.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

func (o *Orchestrator) Timeline() *projection.Timeline {
	return o.timeline
}

// Start registers every worker to the supervisor and blocks until it stops.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	sinks := append([]contract.EventSink{o.timeline}, o.permanentSinks...)
	o.mu.Unlock()

	for i := 0; i < max(o.cfg.NumWorkers, 1); i++ {
		o.supervisor.Add(workers.NewPoolUnitWorker(o.jobs, o.Handle, o.log))
	}
	o.supervisor.Add(workers.NewEventFanout(o.log, o.events, o.registry, o.cfg.SinkTimeout, sinks...))
	for i := 0; i < max(o.cfg.EnrichmentWorkers, 1); i++ {
		o.supervisor.Add(workers.NewEnrichmentWorker(o.log, o.tasks, o.writer, o.store))
	}
	if o.cfg.ReactionGameEnabled && o.cfg.ReactionGameInterval > 0 {
		o.supervisor.Add(workers.NewReactionGameWorker(o.log, o.store, o, o.cfg.ReactionGameInterval))
	}
	if o.cfg.MetricInterval > 0 {
		o.supervisor.Add(o.health, o.capacity)
	}

	o.log.Info("Starting orchestrator and all supervised workers",
		"pool", o.cfg.NumWorkers, "enrichment", o.cfg.EnrichmentWorkers)
	o.supervisor.Run(ctx)
	return nil
}

// Stop cancels the supervised workers.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}

// Publish queues an event for broadcast. A full queue drops the event, the mutation stands.
func (o *Orchestrator) Publish(evt event.DomainEvent) {
	select {
	case o.events <- evt:
	default:
		o.log.Warn("Event queue full, dropping event", "topic", event.Topic(evt))
	}
}

// Subscribe attaches a live connection to a room, filtered by kinds when given.
func (o *Orchestrator) Subscribe(subscriberID string, code domain.RoomCode, sink contract.EventSink, kinds ...event.Kind) error {
	if _, err := o.store.Room(code); err != nil {
		return err
	}
	o.registry.Subscribe(subscriberID, code, sink, kinds...)
	o.log.Debug("Subscriber attached", "code", code, "subscriber", subscriberID)
	return nil
}

func (o *Orchestrator) Unsubscribe(subscriberID string, code domain.RoomCode) {
	o.registry.Unsubscribe(subscriberID, code)
}

// sequencer serializes the mutations of one room. refs counts holders and waiters,
// the entry is dropped when it falls to zero.
type sequencer struct {
	mu   sync.Mutex
	refs int
}

// lockRoom takes the sequencer of a room: every mutation of the room and the events
// it produces go through it, so the event queue receives them in commit order.
func (o *Orchestrator) lockRoom(code domain.RoomCode) func() {
	o.mu.Lock()
	seq, ok := o.sequencers[code]
	if !ok {
		seq = &sequencer{}
		o.sequencers[code] = seq
	}
	seq.refs++
	o.mu.Unlock()

	seq.mu.Lock()
	return func() {
		seq.mu.Unlock()
		o.mu.Lock()
		seq.refs--
		if seq.refs == 0 {
			delete(o.sequencers, code)
		}
		o.mu.Unlock()
	}
}

// sequencerCount counts the rooms with a mutation in flight.
func (o *Orchestrator) sequencerCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sequencers)
}

// submit queues a command for the pool and waits for its reply.
// A full queue fails at once with ErrQueueFull.
func submit[T any](ctx context.Context, o *Orchestrator, cmd domain.Command) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	reply := make(chan workers.Reply, 1)
	select {
	case o.jobs <- workers.Job{Command: cmd, Reply: reply}:
	default:
		o.log.Warn("Command queue full, rejecting command")
		return zero, errors.ErrQueueFull
	}
	select {
	case r := <-reply:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Value.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
