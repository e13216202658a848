package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-relay/domain"
)

// MessageRepository is the append-only message log on BadgerDB.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// storedMessage is the on-disk shape of a message.
type storedMessage struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Room        string    `json:"room"`
	Text        string    `json:"text"`
	Lang        string    `json:"lang,omitempty"`
	DisplayTime string    `json:"time"`
	CreatedAt   time.Time `json:"created_at"`
}

// messageKey formats "msg:{room}:{timestamp_padded}:{uuid}":
//  1. The 19-digit zero padding keeps keys in chronological order under
//     Badger's lexicographical sorting.
//  2. The UUID suffix disconnects collisions when two messages land on the
//     same nanosecond.
func messageKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", m.Room, m.CreatedAt.UnixNano(), m.ID))
}

func messagePrefix(room domain.RoomName) []byte {
	return []byte(fmt.Sprintf("msg:%s:", room))
}

// Append persists one message. The relay never retries a failed write.
func (m MessageRepository) Append(message domain.Message) error {
	value, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), value)
	})
}

// Recent returns at most limit of the newest messages of a room, reordered
// oldest-first for history delivery. The reverse iterator seeks past the
// highest possible timestamp, then walks backwards under the room prefix.
func (m MessageRepository) Recent(room domain.RoomName, limit int) ([]domain.Message, error) {
	var raw [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(room)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(raw) == limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached for room %s", limit, room))
				break
			}
			if err := it.Item().Value(func(value []byte) error {
				raw = append(raw, append([]byte{}, value...))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The scan yielded newest-first; history is delivered oldest-first.
	messages := make([]domain.Message, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var stored storedMessage
		if err := json.Unmarshal(raw[i], &stored); err != nil {
			return nil, err
		}
		message, err := toMessage(stored)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func fromMessage(message domain.Message) storedMessage {
	return storedMessage{
		ID:          message.ID.String(),
		Author:      message.Author,
		Room:        string(message.Room),
		Text:        message.Text,
		Lang:        message.Lang,
		DisplayTime: message.DisplayTime,
		CreatedAt:   message.CreatedAt.UTC(),
	}
}

func toMessage(stored storedMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:          parsedID,
		Author:      stored.Author,
		Room:        domain.RoomName(stored.Room),
		Text:        stored.Text,
		Lang:        stored.Lang,
		DisplayTime: stored.DisplayTime,
		CreatedAt:   stored.CreatedAt.UTC(),
	}, nil
}
