package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"chat-relay/runtime"
	"chat-relay/sink"
)

// WSHandler upgrades HTTP requests to websocket connections and bridges them
// to the relay: one read loop for inbound frames, one write pump draining the
// connection's sink.
type WSHandler struct {
	log        *slog.Logger
	relay      *runtime.Relay
	bufferSize int
}

func NewWSHandler(log *slog.Logger, relay *runtime.Relay, bufferSize int) *WSHandler {
	return &WSHandler{log: log, relay: relay, bufferSize: bufferSize}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Warn("websocket accept failed", "error", err)
		return
	}

	connID := uuid.NewString()
	connSink := sink.NewChannelSink(h.log, h.bufferSize)

	session, err := h.relay.Accept(r.Context(), connID, token, connSink)
	if err != nil {
		_ = conn.Close(websocket.StatusPolicyViolation, "authentication failed")
		return
	}

	h.log.Info("Connection accepted",
		"conn_id", connID, "user", session.Identity().DisplayName)

	ctx, cancel := context.WithCancel(context.Background())
	go h.writeLoop(ctx, conn, connSink)

	h.readLoop(ctx, conn, session)

	// The read loop ended: tear down the write pump and the membership.
	cancel()
	session.Close(context.Background())
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, session *runtime.Session) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			h.log.Debug("read loop ended", "conn_id", session.ConnID(), "error", err)
			return
		}

		frame, err := DecodeInbound(data)
		if err != nil {
			h.log.Debug("dropping malformed frame", "conn_id", session.ConnID(), "error", err)
			continue
		}

		switch frame.Event {
		case inboundEnterRoom:
			session.EnterRoom(ctx, frame.Room)
		case inboundMessage:
			session.Send(ctx, frame.Text)
		case inboundActivity:
			session.Activity(ctx)
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, connSink *sink.ChannelSink) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-connSink.Events:
			data, err := EncodeEvent(e)
			if err != nil {
				h.log.Error("event encoding failed", "kind", e.Kind(), "error", err)
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				h.log.Debug("write loop ended", "error", err)
				return
			}
		}
	}
}
