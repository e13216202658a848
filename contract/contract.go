//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"chat-relay/domain"
	"chat-relay/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging and supervision, avoiding manual naming in the interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one consumer of outbound events, usually a single client
// connection. Consume must never block past ctx.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry is the single source of truth for who is connected and where.
// Rooms are a derived projection over Membership rows, never stored entities.
type IRegistry interface {
	Attach(connID string, identity domain.Identity, sink EventSink)
	SetRoom(connID string, room domain.RoomName) error
	RoomOf(connID string) (domain.RoomName, bool)
	Touch(connID string)
	Detach(connID string) (domain.RoomName, bool)
	MembersOf(room domain.RoomName) []string
	ActiveRooms() []domain.RoomName
	SinkFor(connID string) (EventSink, bool)
	SinksForRoom(room domain.RoomName) []EventSink
	SinksForRoomExcept(room domain.RoomName, exceptConnID string) []EventSink
	AllSinks() []EventSink
	ConnectionCount() int
	EvictIdleSince(threshold time.Duration, now time.Time)
}

// IIdentityProvider resolves a presented credential to an identity.
// Consumed exactly once per connection, at accept time.
type IIdentityProvider interface {
	Resolve(credential string) (domain.Identity, error)
}

// ISanitizer cleans every display-bound string before it enters a Membership
// room field or a Message text field. An empty result means "drop the input".
type ISanitizer interface {
	Clean(raw string, maxLen int) string
	Lang(text string) string
}

// IMessageLog is the append-only store keyed by room.
// Append is best-effort; the relay never retries a failed write.
type IMessageLog interface {
	Append(message domain.Message) error
	Recent(room domain.RoomName, limit int) ([]domain.Message, error)
}

// ISearchIndex is the full-text index maintained beside the message log.
type ISearchIndex interface {
	Index(message domain.Message) error
	Search(ctx context.Context, room domain.RoomName, terms string, limit int) ([]domain.Message, error)
}
