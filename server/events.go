// Package server exposes the HTTP surface of the relay: auth endpoints, the
// websocket upgrade, and message search.
package server

import (
	"encoding/json"
	"fmt"

	"chat-relay/domain"
	"chat-relay/domain/event"
)

// envelope is the wire form of every frame, inbound and outbound.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// inboundFrame is what a client may send over the websocket.
type inboundFrame struct {
	Event string `json:"event"`
	Room  string `json:"room,omitempty"`
	Text  string `json:"text,omitempty"`
}

const (
	inboundEnterRoom = "enterRoom"
	inboundMessage   = "message"
	inboundActivity  = "activity"
)

type messagePayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
	Room string `json:"room"`
	Lang string `json:"lang,omitempty"`
	Time string `json:"time"`
	At   string `json:"at"`
}

type historyPayload struct {
	Room     string           `json:"room"`
	Messages []messagePayload `json:"messages"`
}

type userListPayload struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

type roomListPayload struct {
	Rooms []string `json:"rooms"`
}

type activityPayload struct {
	Name string `json:"name"`
}

func toMessagePayload(m domain.Message) messagePayload {
	return messagePayload{
		ID:   m.ID.String(),
		Name: m.Author,
		Text: m.Text,
		Room: string(m.Room),
		Lang: m.Lang,
		Time: m.DisplayTime,
		At:   m.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// EncodeEvent turns a domain event into its wire frame.
func EncodeEvent(e event.DomainEvent) ([]byte, error) {
	var payload any

	switch evt := e.(type) {
	case event.MessageRelayed:
		payload = toMessagePayload(evt.Message)
	case event.MessageHistory:
		messages := make([]messagePayload, 0, len(evt.Messages))
		for _, m := range evt.Messages {
			messages = append(messages, toMessagePayload(m))
		}
		payload = historyPayload{Room: string(evt.Room), Messages: messages}
	case event.UserList:
		payload = userListPayload{Room: string(evt.Room), Users: evt.Members}
	case event.RoomList:
		payload = roomListPayload{Rooms: evt.Rooms}
	case event.ActivityPing:
		payload = activityPayload{Name: evt.Name}
	default:
		return nil, fmt.Errorf("unknown event kind %q", e.Kind())
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: e.Kind(), Data: data})
}

// DecodeInbound parses one client frame. Unknown events are surfaced so the
// read loop can log and skip them.
func DecodeInbound(data []byte) (inboundFrame, error) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return inboundFrame{}, err
	}
	switch frame.Event {
	case inboundEnterRoom, inboundMessage, inboundActivity:
		return frame, nil
	default:
		return inboundFrame{}, fmt.Errorf("unknown inbound event %q", frame.Event)
	}
}
