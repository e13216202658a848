package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
)

// Presence derives and pushes membership views. Every push is a full
// snapshot overwrite on the receiving side, never a diff, so repeated
// identical pushes are harmless.
type Presence struct {
	log         *slog.Logger
	registry    contract.IRegistry
	pushTimeout time.Duration
}

func NewPresence(log *slog.Logger, registry contract.IRegistry, pushTimeout time.Duration) *Presence {
	return &Presence{log: log, registry: registry, pushTimeout: pushTimeout}
}

// Refresh recomputes both views after a membership change: the user list of
// the affected room goes to its members, the room list goes to every
// connected client.
func (p *Presence) Refresh(ctx context.Context, room domain.RoomName) {
	p.BroadcastUserList(ctx, room)
	p.BroadcastRoomList(ctx)
}

func (p *Presence) BroadcastUserList(ctx context.Context, room domain.RoomName) {
	if room == "" {
		return
	}
	snapshot := event.UserList{Room: room, Members: p.registry.MembersOf(room)}
	p.push(ctx, p.registry.SinksForRoom(room), snapshot)
}

func (p *Presence) BroadcastRoomList(ctx context.Context) {
	rooms := lo.Map(p.registry.ActiveRooms(), func(room domain.RoomName, _ int) string {
		return string(room)
	})
	p.push(ctx, p.registry.AllSinks(), event.RoomList{Rooms: rooms})
}

func (p *Presence) push(ctx context.Context, sinks []contract.EventSink, e event.DomainEvent) {
	for _, s := range sinks {
		pushCtx, cancel := context.WithTimeout(ctx, p.pushTimeout)
		if err := s.Consume(pushCtx, e); err != nil {
			p.log.Debug("presence push failed", "kind", e.Kind(), "error", err)
		}
		cancel()
	}
}
