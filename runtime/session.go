package runtime

import (
	"context"
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
)

// Session is the relay-side handle for one accepted connection. The transport
// read loop calls it from a single goroutine; the mutex only guards against a
// concurrent Close from the connection teardown path.
type Session struct {
	relay    *Relay
	connID   string
	identity domain.Identity
	sink     contract.EventSink

	mu     sync.Mutex
	closed bool
}

func (s *Session) Identity() domain.Identity { return s.identity }

func (s *Session) ConnID() string { return s.connID }

// EnterRoom moves the connection into the named room, leaving any previous
// one. Joining the room already occupied replays history and notices again,
// which clients render as a rejoin.
func (s *Session) EnterRoom(ctx context.Context, rawRoom string) {
	if s.isClosed() {
		return
	}
	s.relay.enterRoom(ctx, s.connID, s.identity, rawRoom)
}

// Send relays one message to the current room, the sender included.
func (s *Session) Send(ctx context.Context, rawText string) {
	if s.isClosed() {
		return
	}
	s.relay.send(ctx, s.connID, s.identity, rawText)
}

// Activity records liveness and pings the rest of the room.
func (s *Session) Activity(ctx context.Context) {
	if s.isClosed() {
		return
	}
	s.relay.activity(ctx, s.connID, s.identity)
}

// Close detaches the connection and runs leave side effects once. Later calls
// and later EnterRoom/Send/Activity invocations are no-ops.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.relay.disconnect(ctx, s.connID, s.identity)
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
