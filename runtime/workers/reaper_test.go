package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/mocks"
)

func TestReaperWorker_SweepsOnInterval(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockIRegistry(ctrl)
	threshold := 30 * time.Minute

	swept := make(chan struct{})
	registry.EXPECT().
		EvictIdleSince(threshold, gomock.Any()).
		DoAndReturn(func(time.Duration, time.Time) {
			select {
			case swept <- struct{}{}:
			default:
			}
		}).
		MinTimes(1)

	worker := NewReaperWorker(slog.Default(), registry, 10*time.Millisecond, threshold)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	select {
	case <-swept:
		// The sweep fired with the configured threshold
	case <-time.After(time.Second):
		req.Fail("reaper never swept the registry")
	}
}

func TestReaperWorker_StopsOnCancel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockIRegistry(ctrl)
	registry.EXPECT().EvictIdleSince(gomock.Any(), gomock.Any()).AnyTimes()

	worker := NewReaperWorker(slog.Default(), registry, 10*time.Millisecond, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		req.Fail("reaper ignored the cancellation")
	}
}
