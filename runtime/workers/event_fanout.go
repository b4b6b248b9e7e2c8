package workers

import (
	"context"
	"drinkspeed/contract"
	"drinkspeed/domain/event"
	"log/slog"
	"time"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout delivers room events to the permanent sinks and to the room subscribers.
//
// Delivery is best-effort: a failing or slow sink is logged and skipped once its
// timeout expires. There is a single consumer of the queue and sinks of an event
// are served one after the other, so a subscriber sees the events of a room in
// the order they were queued.
type EventFanout struct {
	log            *slog.Logger
	events         <-chan event.DomainEvent
	registry       contract.IRegistry
	permanentSinks []contract.EventSink
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent, registry contract.IRegistry,
	sinkTimeout time.Duration, permanentSinks ...contract.EventSink) *EventFanout {
	return &EventFanout{
		log:            log,
		events:         events,
		registry:       registry,
		permanentSinks: permanentSinks,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout hands one event to every interested sink.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	sinks := append(append([]contract.EventSink(nil), w.permanentSinks...),
		w.registry.GetSinksForRoom(evt.RoomCode(), evt.Kind())...)

	for _, sink := range sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		err := sink.Consume(sinkCtx, evt)
		cancel()
		if err != nil {
			w.log.Warn("Sink failed to consume event", "topic", event.Topic(evt), "error", err)
		}
	}
}
