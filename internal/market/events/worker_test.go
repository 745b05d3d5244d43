package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"nftmarket/pkg/domain"
)

type WorkerSuite struct {
	suite.Suite
	logger *slog.Logger
	key    domain.AssetKey
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

func (s *WorkerSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.key = domain.AssetKey{Collection: "collection-a", Token: "0"}
}

type failingSink struct{}

func (failingSink) Publish(context.Context, Event) error {
	return errors.New("sink unavailable")
}

func (s *WorkerSuite) TestFansOutToAllSinks() {
	emitter := NewChannelEmitter(8, s.logger)
	first := NewMemorySink()
	second := NewMemorySink()
	worker := NewWorker(emitter, s.logger, first, second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	emitter.Emit(ctx, ItemListed("seller", s.key, decimal.RequireFromString("0.1")))
	emitter.Emit(ctx, ItemCancelled("seller", s.key))

	s.Require().Eventually(func() bool {
		return len(first.Events()) == 2 && len(second.Events()) == 2
	}, time.Second, 10*time.Millisecond)

	got := first.Events()
	s.Equal(TypeItemListed, got[0].Type)
	s.Equal(TypeItemCancelled, got[1].Type)
	s.NotEmpty(got[0].ID)

	cancel()
	<-done
}

func (s *WorkerSuite) TestFailingSinkDoesNotStopOthers() {
	emitter := NewChannelEmitter(8, s.logger)
	healthy := NewMemorySink()
	worker := NewWorker(emitter, s.logger, failingSink{}, healthy)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	emitter.Emit(ctx, ItemBought("buyer", s.key, decimal.RequireFromString("0.1")))

	s.Require().Eventually(func() bool {
		return len(healthy.Events()) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func (s *WorkerSuite) TestEmitDropsWhenBufferFull() {
	emitter := NewChannelEmitter(1, s.logger)
	ctx := context.Background()

	// No worker is draining; the second emit must not block.
	emitter.Emit(ctx, ItemListed("seller", s.key, decimal.RequireFromString("0.1")))
	emitter.Emit(ctx, ItemListed("seller", s.key, decimal.RequireFromString("0.2")))

	sink := NewMemorySink()
	worker := NewWorker(emitter, s.logger, sink)
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(runCtx)
	}()

	s.Require().Eventually(func() bool {
		return len(sink.Events()) == 1
	}, time.Second, 10*time.Millisecond)
	s.True(sink.Events()[0].Price.Equal(decimal.RequireFromString("0.1")))

	cancel()
	<-done
}
