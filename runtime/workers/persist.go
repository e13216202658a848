package workers

import (
	"context"
	"log/slog"

	"chat-relay/contract"
	"chat-relay/domain"
)

// PersistWorker drains the relay's durability queue into the message log and
// the search index. Write failures are logged and swallowed: the broadcast
// already happened and is never retracted.
type PersistWorker struct {
	log      *slog.Logger
	queue    <-chan domain.Message
	messages contract.IMessageLog
	index    contract.ISearchIndex
}

func NewPersistWorker(
	log *slog.Logger,
	queue <-chan domain.Message,
	messages contract.IMessageLog,
	index contract.ISearchIndex,
) *PersistWorker {
	return &PersistWorker{log: log, queue: queue, messages: messages, index: index}
}

func (w *PersistWorker) Run(ctx context.Context) error {
	w.log.Info("Starting persist worker")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case message := <-w.queue:
			if err := w.messages.Append(message); err != nil {
				w.log.Error("Failed to append message",
					"room", message.Room, "id", message.ID, "error", err)
				continue
			}
			if w.index == nil {
				continue
			}
			if err := w.index.Index(message); err != nil {
				w.log.Warn("Failed to index message",
					"room", message.Room, "id", message.ID, "error", err)
			}
		}
	}
}
