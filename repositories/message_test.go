package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"chat-relay/domain"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Append_And_Recent_OldestFirst(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	room := domain.RoomName("lobby")
	at := time.Now().UTC()
	authors := []string{"Alice", "Bob", "Clara"}
	for i, author := range authors {
		msg := domain.NewMessage(author, room, "hello from "+author, "en", at.Add(time.Duration(i)*time.Minute))
		req.NoError(repository.Append(msg))
	}

	fetched, err := repository.Recent(room, 100)
	req.NoError(err)
	req.Len(fetched, len(authors))

	// Oldest first
	for i, author := range authors {
		req.Equal(author, fetched[i].Author)
	}
}

func Test_Recent_LimitKeepsNewest(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	room := domain.RoomName("lobby")
	at := time.Now().UTC()
	for i := 0; i < 5; i++ {
		msg := domain.NewMessage("Alice", room, "message", "", at.Add(time.Duration(i)*time.Second))
		msg.Text = msg.Text + " " + string(rune('a'+i))
		req.NoError(repository.Append(msg))
	}

	fetched, err := repository.Recent(room, 2)
	req.NoError(err)
	req.Len(fetched, 2)

	// The two newest, still ordered oldest-first
	req.Equal("message d", fetched[0].Text)
	req.Equal("message e", fetched[1].Text)
}

func Test_Recent_RoomsAreIsolated(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	req.NoError(repository.Append(domain.NewMessage("Alice", "lobby", "in lobby", "", at)))
	req.NoError(repository.Append(domain.NewMessage("Bob", "dev", "in dev", "", at)))

	lobby, err := repository.Recent("lobby", 100)
	req.NoError(err)
	req.Len(lobby, 1)
	req.Equal("in lobby", lobby[0].Text)

	dev, err := repository.Recent("dev", 100)
	req.NoError(err)
	req.Len(dev, 1)
	req.Equal("Bob", dev[0].Author)
}

func Test_Recent_EmptyRoom(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	fetched, err := repository.Recent("ghost-town", 100)
	req.NoError(err)
	req.Empty(fetched)
}

func Test_Append_RoundTripPreservesFields(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	original := domain.NewMessage("Alice", "lobby", "bonjour tout le monde", "fr", time.Now().UTC().Truncate(time.Millisecond))
	req.NoError(repository.Append(original))

	fetched, err := repository.Recent("lobby", 1)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal(original.ID, fetched[0].ID)
	req.Equal(original.Text, fetched[0].Text)
	req.Equal(original.Lang, fetched[0].Lang)
	req.Equal(original.DisplayTime, fetched[0].DisplayTime)
	req.True(original.CreatedAt.Equal(fetched[0].CreatedAt))
}
