package events

import (
	"context"
	"log/slog"
)

// ChannelEmitter decouples event producers from sinks with a buffered
// channel. Emit drops the event rather than block when the buffer is full;
// events are notifications, never control flow.
type ChannelEmitter struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewChannelEmitter(buffer int, logger *slog.Logger) *ChannelEmitter {
	return &ChannelEmitter{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

func (e *ChannelEmitter) Emit(ctx context.Context, event Event) {
	select {
	case e.inbox <- event:
	default:
		e.logger.WarnContext(ctx, "event buffer full, dropping event",
			"event_id", event.ID,
			"type", event.Type,
		)
	}
}

// Worker drains the emitter's inbox and fans each event out to every sink.
// A failing sink is logged and skipped; other sinks still receive the event.
type Worker struct {
	inbox  <-chan Event
	sinks  []Sink
	logger *slog.Logger
}

func NewWorker(emitter *ChannelEmitter, logger *slog.Logger, sinks ...Sink) *Worker {
	return &Worker{inbox: emitter.inbox, sinks: sinks, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			for _, sink := range w.sinks {
				if err := sink.Publish(ctx, event); err != nil {
					w.logger.ErrorContext(ctx, "event sink failed",
						"event_id", event.ID,
						"type", event.Type,
						"error", err,
					)
				}
			}
		}
	}
}
