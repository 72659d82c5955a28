package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

// HandlerFunc processes one decoded change-feed event.
type HandlerFunc func(ctx context.Context, ev usecase.OrderChangedMsg) error

// FeedConsumer is one view's subscription to the order change feed. Run
// blocks until ctx is cancelled; cancellation is the unsubscribe, and it
// releases the consumer group deterministically so a remounting view never
// ends up with two live handlers.
type FeedConsumer struct {
	group    sarama.ConsumerGroup
	topics   []string
	handlers []HandlerFunc
	log      *slog.Logger
}

func NewFeedConsumer(group sarama.ConsumerGroup, topics []string, log *slog.Logger, handlers ...HandlerFunc) *FeedConsumer {
	return &FeedConsumer{group: group, topics: topics, handlers: handlers, log: log}
}

func (c *FeedConsumer) Run(ctx context.Context) error {
	h := &cgHandler{handlers: c.handlers, log: c.log}
	defer c.group.Close()
	for {
		if err := c.group.Consume(ctx, c.topics, h); err != nil {
			return err
		}
		// Consume returns on rebalance or cancellation; only the latter
		// ends the subscription.
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type cgHandler struct {
	handlers []HandlerFunc
	log      *slog.Logger
}

func (h *cgHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *cgHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev usecase.OrderChangedMsg
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			h.log.Warn("feed decode error", "err", err, "offset", msg.Offset)
			// mark to avoid reprocessing poison
			sess.MarkMessage(msg, "decode-error")
			continue
		}
		for _, handle := range h.handlers {
			if err := handle(sess.Context(), ev); err != nil {
				h.log.Warn("feed handler error", "err", err, "order_id", ev.OrderID)
			}
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
