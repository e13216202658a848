package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
)

// Policy constants of the relay pipeline.
const (
	HistoryLimit      = 100
	MaxMessageLength  = 500
	MaxRoomNameLength = 64
)

// Relay drives every connection lifecycle against the registry and fans
// accepted messages out to room members. Broadcast happens before
// persistence is even attempted: relay latency never waits on storage.
type Relay struct {
	log          *slog.Logger
	registry     contract.IRegistry
	presence     *Presence
	identity     contract.IIdentityProvider
	sanitizer    contract.ISanitizer
	messages     contract.IMessageLog
	persistQueue chan domain.Message
	sinkTimeout  time.Duration

	// One mutex per active room: fan-outs of the same room are totally
	// ordered, cross-room traffic proceeds in parallel.
	roomLocks sync.Map
}

func NewRelay(
	log *slog.Logger,
	registry contract.IRegistry,
	presence *Presence,
	identity contract.IIdentityProvider,
	sanitizer contract.ISanitizer,
	messages contract.IMessageLog,
	persistBuffer int,
	sinkTimeout time.Duration,
) *Relay {
	return &Relay{
		log:          log,
		registry:     registry,
		presence:     presence,
		identity:     identity,
		sanitizer:    sanitizer,
		messages:     messages,
		persistQueue: make(chan domain.Message, persistBuffer),
		sinkTimeout:  sinkTimeout,
	}
}

// PersistQueue exposes the fire-and-forget durability channel drained by the
// persistence worker.
func (r *Relay) PersistQueue() <-chan domain.Message {
	return r.persistQueue
}

// Accept is the single authentication gate. On failure the connection is
// refused before any Membership exists; on success the Membership is created
// roomless and a welcome notice (never persisted) goes to this connection
// only.
func (r *Relay) Accept(ctx context.Context, connID, credential string, s contract.EventSink) (*Session, error) {
	identity, err := r.identity.Resolve(credential)
	if err != nil {
		return nil, err
	}

	r.registry.Attach(connID, identity, s)

	welcome := domain.AdminNotice("", fmt.Sprintf("Welcome %s!", identity.DisplayName), time.Now().UTC())
	r.deliver(ctx, s, event.MessageRelayed{Message: welcome})

	// The newcomer sees the current room directory right away.
	r.presence.BroadcastRoomList(ctx)

	return &Session{relay: r, connID: connID, identity: identity, sink: s}, nil
}

func (r *Relay) roomLock(room domain.RoomName) *sync.Mutex {
	lock, _ := r.roomLocks.LoadOrStore(room, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// enterRoom sanitizes the requested name, swaps the membership atomically,
// runs leave side effects for a previous room, then delivers history and
// join notices before refreshing presence.
func (r *Relay) enterRoom(ctx context.Context, connID string, identity domain.Identity, rawRoom string) {
	room := domain.RoomName(r.sanitizer.Clean(rawRoom, MaxRoomNameLength))
	if room == "" {
		return // malformed input is dropped, no negative-acknowledgement channel
	}

	previous, attached := r.registry.RoomOf(connID)
	if !attached {
		return
	}
	if err := r.registry.SetRoom(connID, room); err != nil {
		return
	}

	if previous != "" && previous != room {
		r.leaveRoom(ctx, identity, previous)
	}

	lock := r.roomLock(room)
	lock.Lock()

	now := time.Now().UTC()
	if s, ok := r.registry.SinkFor(connID); ok {
		history, err := r.messages.Recent(room, HistoryLimit)
		if err != nil {
			r.log.Error("history fetch failed", "room", room, "error", err)
		}
		r.deliver(ctx, s, event.MessageHistory{Room: room, Messages: history})

		private := domain.AdminNotice(room,
			fmt.Sprintf("You have joined the %s chat room", room), now)
		r.deliver(ctx, s, event.MessageRelayed{Message: private})
	}

	joined := domain.AdminNotice(room, fmt.Sprintf("%s joined", identity.DisplayName), now)
	r.fanout(ctx, r.registry.SinksForRoomExcept(room, connID), event.MessageRelayed{Message: joined})

	lock.Unlock()

	r.presence.Refresh(ctx, room)
}

// leaveRoom broadcasts the departure to the remaining members and refreshes
// presence. The caller has already moved or removed the Membership, so the
// leaver receives nothing. An emptied room disappears from the room list
// without any explicit deletion.
func (r *Relay) leaveRoom(ctx context.Context, identity domain.Identity, room domain.RoomName) {
	lock := r.roomLock(room)
	lock.Lock()
	left := domain.AdminNotice(room, fmt.Sprintf("%s left", identity.DisplayName), time.Now().UTC())
	r.fanout(ctx, r.registry.SinksForRoom(room), event.MessageRelayed{Message: left})
	lock.Unlock()

	r.presence.Refresh(ctx, room)
}

// send relays one message to every current member of the sender's room,
// sender included, in acceptance order, then queues the write.
func (r *Relay) send(ctx context.Context, connID string, identity domain.Identity, rawText string) {
	room, attached := r.registry.RoomOf(connID)
	if !attached || room == "" {
		return
	}

	text := r.sanitizer.Clean(rawText, MaxMessageLength)
	if text == "" {
		return // empty or over-length input is silently dropped
	}

	message := domain.NewMessage(identity.DisplayName, room, text,
		r.sanitizer.Lang(text), time.Now().UTC())

	lock := r.roomLock(room)
	lock.Lock()
	r.fanout(ctx, r.registry.SinksForRoom(room), event.MessageRelayed{Message: message})
	lock.Unlock()

	// Detached best-effort durability; the broadcast is never retracted.
	select {
	case r.persistQueue <- message:
	default:
		r.log.Warn("persist queue full, dropping message write", "room", room)
	}
}

// activity records liveness and pings the other members of the sender's
// room. Rate limiting is the caller's concern; recording is idempotent.
func (r *Relay) activity(ctx context.Context, connID string, identity domain.Identity) {
	r.registry.Touch(connID)

	room, attached := r.registry.RoomOf(connID)
	if !attached || room == "" {
		return
	}
	r.fanout(ctx, r.registry.SinksForRoomExcept(room, connID),
		event.ActivityPing{Name: identity.DisplayName})
}

// disconnect detaches the Membership and runs leave side effects when a room
// was present. Safe to call more than once.
func (r *Relay) disconnect(ctx context.Context, connID string, identity domain.Identity) {
	room, attached := r.registry.Detach(connID)
	if !attached {
		return // duplicate disconnect is benign
	}
	if room != "" {
		r.leaveRoom(ctx, identity, room)
	}
}

func (r *Relay) fanout(ctx context.Context, sinks []contract.EventSink, e event.DomainEvent) {
	for _, s := range sinks {
		r.deliver(ctx, s, e)
	}
}

func (r *Relay) deliver(ctx context.Context, s contract.EventSink, e event.DomainEvent) {
	deliverCtx, cancel := context.WithTimeout(ctx, r.sinkTimeout)
	defer cancel()
	if err := s.Consume(deliverCtx, e); err != nil {
		r.log.Debug("event delivery failed", "kind", e.Kind(), "error", err)
	}
}
