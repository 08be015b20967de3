package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"postavka-be/internal/event"
	"postavka-be/internal/logger"
	"postavka-be/internal/metrics"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrDecode marks a payload that could not be decoded or failed its own
// validation. Such a message never reaches a handler.
var ErrDecode = errors.New("decode event")

var ErrUnknownTopic = errors.New("unknown topic")

// HandlerFunc consumes one raw message value for its topic.
type HandlerFunc func(ctx context.Context, key string, value []byte) error

// Validator is implemented by all inbound event contracts.
type Validator interface {
	Validate() error
}

// JSONHandler adapts a typed event handler into a HandlerFunc. Decode and
// validation failures are wrapped in ErrDecode so the consume loop can
// tell them apart from handler failures.
func JSONHandler[T Validator](fn func(ctx context.Context, evt T) error) HandlerFunc {
	return func(ctx context.Context, _ string, value []byte) error {
		var evt T
		if err := json.Unmarshal(value, &evt); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if err := evt.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return fn(ctx, evt)
	}
}

// inboundTopics is the closed set of topics the consumer may subscribe to.
var inboundTopics = map[string]struct{}{
	event.TopicSupplierPriceUpdates: {},
	event.TopicProductStockUpdates:  {},
	event.TopicSupplierOrderUpdates: {},
}

type outcome string

const (
	outcomeOK           outcome = "ok"
	outcomeDecodeError  outcome = "decode_error"
	outcomeHandlerError outcome = "handler_error"
)

// Consumer runs a single consume loop over the registered topics and
// dispatches each message to exactly one handler. Handler and decode
// failures are isolated per message: they are logged, counted, and the
// message is committed anyway.
type Consumer struct {
	reader   *kafka.Reader
	handlers map[string]HandlerFunc
	stats    *metrics.ConsumeStats
	log      *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewConsumer builds a consumer from a construction-time topic-to-handler
// table. Topics outside the known inbound set are rejected here, not at
// message arrival.
func NewConsumer(client *Client, groupID string, handlers map[string]HandlerFunc) (*Consumer, error) {
	if len(handlers) == 0 {
		return nil, errors.New("no handlers registered")
	}

	topics := make([]string, 0, len(handlers))
	for topic := range handlers {
		if _, ok := inboundTopics[topic]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
		}
		topics = append(topics, topic)
	}

	return &Consumer{
		reader:   client.newGroupReader(groupID, topics),
		handlers: handlers,
		stats:    &metrics.ConsumeStats{},
		log:      logger.L().Named("kafka-consumer"),
	}, nil
}

// Stats exposes per-outcome counters for the consume loop.
func (c *Consumer) Stats() *metrics.ConsumeStats {
	return c.stats
}

// Start launches the consume goroutine. Messages are dispatched
// sequentially in arrival order; there is no parallel handler execution.
func (c *Consumer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.consume(ctx)
}

// Stop cancels the consume loop, waits for it to drain, then closes the
// reader. No handler runs after Stop returns.
func (c *Consumer) Stop(ctx context.Context) error {
	if c.cancel == nil {
		return nil
	}
	c.cancel()

	select {
	case <-c.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return c.reader.Close()
}

func (c *Consumer) consume(ctx context.Context) {
	defer close(c.done)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("fetch message failed", zap.Error(err))
			return
		}

		timer := metrics.StartTimer()
		result, err := c.dispatch(ctx, msg)

		fields := []zap.Field{
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.String("outcome", string(result)),
			zap.Duration("duration", timer.Duration()),
		}
		if err != nil {
			c.log.Warn("message dropped", append(fields, zap.Error(err))...)
		} else {
			c.log.Info("message handled", fields...)
		}

		// Fire-and-forget policy: failed messages are committed too.
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("commit failed", zap.String("topic", msg.Topic), zap.Error(err))
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg kafka.Message) (outcome, error) {
	handler := c.handlers[msg.Topic]

	err := handler(ctx, string(msg.Key), msg.Value)
	switch {
	case err == nil:
		c.stats.Consumed.Inc()
		return outcomeOK, nil
	case errors.Is(err, ErrDecode):
		c.stats.DecodeErrors.Inc()
		return outcomeDecodeError, err
	default:
		c.stats.HandlerErrors.Inc()
		return outcomeHandlerError, err
	}
}
