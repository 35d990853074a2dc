package queue

import (
	"context"
	"time"

	"github.com/webdroid21/component-pulse-sub000/internal/logging"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

// Publisher is the broker side of the outbox drain. Satisfied by
// RabbitProducer.
type Publisher interface {
	Publish(ctx context.Context, channel string, body []byte) error
}

// OutboxPoller drains PENDING outbox entries to the broker. A failed
// publish bumps the retry count and pushes the next attempt out with a
// linear backoff; there is no retry cap, the entry just waits longer.
type OutboxPoller struct {
	source    usecase.OutboxSource
	publisher Publisher
	interval  time.Duration
	batchSize int64
	backoff   time.Duration
}

func NewOutboxPoller(source usecase.OutboxSource, publisher Publisher, interval time.Duration, batchSize int64) *OutboxPoller {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxPoller{
		source:    source,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
		backoff:   5 * time.Second,
	}
}

// Run blocks until ctx is cancelled. Call it in a goroutine.
func (p *OutboxPoller) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			p.drain(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) drain(ctx context.Context) {
	log := logging.FromCtx(ctx)

	entries, err := p.source.FetchPending(ctx, p.batchSize)
	if err != nil {
		log.Error("outbox fetch failed", "err", err)
		return
	}

	for _, e := range entries {
		if err := p.publisher.Publish(ctx, e.Channel, e.Payload); err != nil {
			log.Error("outbox publish failed", "entry_id", e.ID, "channel", e.Channel, "retry", e.RetryCount, "err", err)
			next := time.Now().Add(p.backoff * time.Duration(e.RetryCount+1))
			if err := p.source.MarkFailed(ctx, e.ID, next); err != nil {
				log.Error("outbox mark failed errored", "entry_id", e.ID, "err", err)
			}
			continue
		}
		if err := p.source.MarkSent(ctx, e.ID); err != nil {
			// The consumer must tolerate the redelivery this causes.
			log.Error("outbox mark sent errored", "entry_id", e.ID, "err", err)
		}
	}
}
