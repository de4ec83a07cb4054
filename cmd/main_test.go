package main

import (
	"context"
	"push-service/internal/event"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubConsumer struct {
	err error
}

func (s *stubConsumer) StartConsuming(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestRunConsumer_ClosedDeliveriesStopTheProcess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := false

	runConsumer(ctx, &stubConsumer{err: event.ErrDeliveriesClosed}, func() {
		stopped = true
		cancel()
	})

	assert.True(t, stopped)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestRunConsumer_ShutdownDoesNotStopAgain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stopped := false

	runConsumer(ctx, &stubConsumer{}, func() { stopped = true })

	assert.False(t, stopped)
}
