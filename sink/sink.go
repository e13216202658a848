// Package sink provides the per-connection event buffer between the relay
// and a transport write loop.
package sink

import (
	"context"
	"log/slog"

	"chat-relay/domain/event"
)

// ChannelSink buffers outbound events for one connection. The transport's
// write loop drains Events; Consume is called by the relay fan-out.
type ChannelSink struct {
	Events chan event.DomainEvent
	log    *slog.Logger
}

func NewChannelSink(log *slog.Logger, bufferSize int) *ChannelSink {
	return &ChannelSink{
		Events: make(chan event.DomainEvent, bufferSize),
		log:    log,
	}
}

// Consume hands the event to the connection's write loop. A full buffer means
// a slow consumer: the frame is dropped for this connection only, never
// blocking the room fan-out.
func (s *ChannelSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.log.Debug("sink buffer full, dropping event", "kind", e.Kind())
		return nil
	}
}
