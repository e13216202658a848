package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-relay/domain"
	"chat-relay/domain/event"
)

type nullSink struct{}

func (nullSink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func alice() domain.Identity {
	return domain.Identity{UserID: uuid.NewString(), DisplayName: "Alice", Email: "alice@example.com"}
}

func bob() domain.Identity {
	return domain.Identity{UserID: uuid.NewString(), DisplayName: "Bob", Email: "bob@example.com"}
}

func TestRegistry_Attach_StartsRoomless(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	connID := uuid.NewString()

	// Given no connection is attached
	req.Zero(registry.ConnectionCount())

	// When a connection attaches
	registry.Attach(connID, alice(), nullSink{})

	// Then it is counted but belongs to no room
	req.Equal(1, registry.ConnectionCount())
	room, ok := registry.RoomOf(connID)
	req.True(ok)
	req.Empty(room)
	req.Empty(registry.ActiveRooms())
}

func TestRegistry_SetRoom_SingleRoomInvariant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	connID := uuid.NewString()
	registry.Attach(connID, alice(), nullSink{})

	// When the connection enters a room then switches
	req.NoError(registry.SetRoom(connID, "lobby"))
	req.NoError(registry.SetRoom(connID, "dev"))

	// Then it belongs only to the new room
	room, ok := registry.RoomOf(connID)
	req.True(ok)
	req.Equal(domain.RoomName("dev"), room)
	req.Empty(registry.MembersOf("lobby"))
	req.Equal([]string{"Alice"}, registry.MembersOf("dev"))

	// And the emptied room is gone from the active set
	req.Equal([]domain.RoomName{"dev"}, registry.ActiveRooms())
}

func TestRegistry_SetRoom_UnknownConnection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())

	err := registry.SetRoom(uuid.NewString(), "lobby")

	req.Error(err)
}

func TestRegistry_Detach_ReturnsPriorRoomOnce(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	connID := uuid.NewString()
	registry.Attach(connID, alice(), nullSink{})
	req.NoError(registry.SetRoom(connID, "lobby"))

	// When the connection detaches
	room, ok := registry.Detach(connID)

	// Then the prior room is reported exactly once
	req.True(ok)
	req.Equal(domain.RoomName("lobby"), room)

	_, ok = registry.Detach(connID)
	req.False(ok)
	req.Zero(registry.ConnectionCount())
}

func TestRegistry_MembersOf_SortedSnapshot(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	connA, connB := uuid.NewString(), uuid.NewString()
	registry.Attach(connB, bob(), nullSink{})
	registry.Attach(connA, alice(), nullSink{})
	req.NoError(registry.SetRoom(connB, "lobby"))
	req.NoError(registry.SetRoom(connA, "lobby"))

	req.Equal([]string{"Alice", "Bob"}, registry.MembersOf("lobby"))
}

func TestRegistry_SinksForRoomExcept_ExcludesOrigin(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	connA, connB := uuid.NewString(), uuid.NewString()
	registry.Attach(connA, alice(), nullSink{})
	registry.Attach(connB, bob(), nullSink{})
	req.NoError(registry.SetRoom(connA, "lobby"))
	req.NoError(registry.SetRoom(connB, "lobby"))

	req.Len(registry.SinksForRoom("lobby"), 2)
	req.Len(registry.SinksForRoomExcept("lobby", connA), 1)
}

func TestRegistry_AllSinks_IncludesRoomless(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	connA, connB := uuid.NewString(), uuid.NewString()
	registry.Attach(connA, alice(), nullSink{})
	registry.Attach(connB, bob(), nullSink{})
	req.NoError(registry.SetRoom(connA, "lobby"))

	// The room directory reaches every client, in a room or not
	req.Len(registry.AllSinks(), 2)
}

func TestRegistry_Attach_DuplicateOverwrites(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	connID := uuid.NewString()
	registry.Attach(connID, alice(), nullSink{})
	req.NoError(registry.SetRoom(connID, "lobby"))

	// When the same connection id attaches again
	registry.Attach(connID, bob(), nullSink{})

	// Then the stale row is replaced, not duplicated
	req.Equal(1, registry.ConnectionCount())
	room, ok := registry.RoomOf(connID)
	req.True(ok)
	req.Empty(room)
}

func TestRegistry_Touch_UnknownConnectionIsNoop(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())

	registry.Touch(uuid.NewString())

	req.Zero(registry.ConnectionCount())
}

func TestRegistry_EvictIdleSince(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(slog.Default())
	connA, connB := uuid.NewString(), uuid.NewString()
	registry.Attach(connA, alice(), nullSink{})
	registry.Attach(connB, bob(), nullSink{})
	req.NoError(registry.SetRoom(connA, "lobby"))
	req.NoError(registry.SetRoom(connB, "lobby"))

	// When the sweep runs with everything fresh, nothing is removed
	registry.EvictIdleSince(30*time.Minute, time.Now().UTC())
	req.Equal(2, registry.ConnectionCount())

	// When the sweep runs past the threshold, everything idle is removed
	// and the emptied room vanishes from the active set
	registry.EvictIdleSince(30*time.Minute, time.Now().UTC().Add(31*time.Minute))
	req.Zero(registry.ConnectionCount())
	req.Empty(registry.ActiveRooms())
}
