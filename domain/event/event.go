// Package event defines the outbound events pushed to connected clients.
// Every event is a full snapshot or a self-contained message; the protocol is
// idempotent under repeated identical pushes.
package event

import "chat-relay/domain"

type DomainEvent interface {
	Kind() string
}

// MessageRelayed carries one chat message or admin notice.
type MessageRelayed struct {
	Message domain.Message
}

func (MessageRelayed) Kind() string { return "message" }

// MessageHistory is the single batch delivered to a joining connection,
// ordered oldest to newest.
type MessageHistory struct {
	Room     domain.RoomName
	Messages []domain.Message
}

func (MessageHistory) Kind() string { return "messageHistory" }

// UserList is the full member-name snapshot of one room.
type UserList struct {
	Room    domain.RoomName
	Members []string
}

func (UserList) Kind() string { return "userList" }

// RoomList is the full snapshot of active rooms, pushed to every client.
type RoomList struct {
	Rooms []string
}

func (RoomList) Kind() string { return "roomList" }

// ActivityPing is ephemeral typing feedback. It expires client-side and is
// never part of the server state machine.
type ActivityPing struct {
	Name string
}

func (ActivityPing) Kind() string { return "activityPing" }
