package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminName authors every system notice (welcome, joined, left).
const AdminName = "Admin"

// Message represents an immutable chat event. Author and Text are always the
// sanitizer's output, never raw client input.
type Message struct {
	ID          uuid.UUID
	Author      string
	Room        RoomName
	Text        string
	Lang        string // ISO 639-1 code, best effort
	DisplayTime string
	CreatedAt   time.Time
}

func NewMessage(author string, room RoomName, text, lang string, at time.Time) Message {
	return Message{
		ID:          uuid.New(),
		Author:      author,
		Room:        room,
		Text:        text,
		Lang:        lang,
		DisplayTime: at.Format("15:04:05"),
		CreatedAt:   at,
	}
}

// AdminNotice builds a system message. Notices are relayed but never persisted.
func AdminNotice(room RoomName, text string, at time.Time) Message {
	return NewMessage(AdminName, room, text, "", at)
}
