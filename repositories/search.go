package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"

	"chat-relay/domain"
)

// SearchIndex maintains a Bluge full-text index beside the Badger log so
// room history can be searched by content. Indexing is best-effort, exactly
// like persistence.
type SearchIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchIndex(writer *bluge.Writer, log *slog.Logger) *SearchIndex {
	return &SearchIndex{writer: writer, log: log}
}

func (s *SearchIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField("text", message.Text).StoreValue()).
		AddField(bluge.NewKeywordField("room", string(message.Room)).StoreValue()).
		AddField(bluge.NewStoredOnlyField("author", []byte(message.Author))).
		AddField(bluge.NewStoredOnlyField("created_at", []byte(message.CreatedAt.UTC().Format(time.RFC3339Nano))))
	return s.writer.Update(doc.ID(), doc)
}

// Search runs a match query on the message text, scoped to one room.
func (s *SearchIndex) Search(ctx context.Context, room domain.RoomName, terms string, limit int) ([]domain.Message, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("text")).
		AddMust(bluge.NewTermQuery(string(room)).SetField("room"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		var message domain.Message
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				if id, err := uuid.Parse(string(value)); err == nil {
					message.ID = id
				}
			case "text":
				message.Text = string(value)
			case "room":
				message.Room = domain.RoomName(string(value))
			case "author":
				message.Author = string(value)
			case "created_at":
				if at, err := time.Parse(time.RFC3339Nano, string(value)); err == nil {
					message.CreatedAt = at
					message.DisplayTime = at.Format("15:04:05")
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}
