package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/megatonytrader/express-entregas-zap/internal/adapter/repo"
)

// FeedPublisher drains the outbox onto the orders topic. Events are keyed
// by order ID so updates to one order stay in partition order.
type FeedPublisher struct {
	producer sarama.SyncProducer
	outbox   *repo.MySQLOutboxRepo
	topic    string
	interval time.Duration
	log      *slog.Logger
}

func NewFeedPublisher(producer sarama.SyncProducer, outbox *repo.MySQLOutboxRepo,
	topic string, interval time.Duration, log *slog.Logger) *FeedPublisher {
	if interval <= 0 {
		interval = time.Second
	}
	return &FeedPublisher{producer: producer, outbox: outbox, topic: topic, interval: interval, log: log}
}

// Run drains until ctx is cancelled.
func (p *FeedPublisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.drainOnce(ctx)
		}
	}
}

func (p *FeedPublisher) drainOnce(ctx context.Context) {
	batch, err := p.outbox.NextBatch(ctx, 100)
	if err != nil {
		p.log.Warn("outbox read failed", "err", err)
		return
	}
	for _, row := range batch {
		_, _, err := p.producer.SendMessage(outboxMessage(p.topic, row))
		if err != nil {
			p.log.Warn("feed publish failed", "outbox_id", row.ID, "err", err)
			_ = p.outbox.MarkFailed(ctx, row.ID)
			continue
		}
		if err := p.outbox.MarkSent(ctx, row.ID); err != nil {
			// The event will be redelivered; consumers absorb duplicates.
			p.log.Warn("outbox mark-sent failed", "outbox_id", row.ID, "err", err)
		}
	}
}

// outboxMessage keys the event by order ID so all updates to one order land
// on the same partition, in order.
func outboxMessage(topic string, row repo.OutboxRow) *sarama.ProducerMessage {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(row.Payload),
	}
	if row.Key != "" {
		msg.Key = sarama.StringEncoder(row.Key)
	}
	return msg
}
