package kafka

import (
	"context"
	"encoding/json"
	"time"

	"postavka-be/internal/event"

	"github.com/segmentio/kafka-go"
)

const defaultPublishTimeout = 10 * time.Second

// Producer publishes factory order events, keyed by supplier OGRN so one
// supplier's orders stay on one partition. Publishing is synchronous: the
// caller waits for broker acknowledgment, bounded by a per-publish timeout.
type Producer struct {
	writer  *kafka.Writer
	timeout time.Duration
}

func NewProducer(client *Client) *Producer {
	return &Producer{
		writer:  client.newWriter(event.TopicFactoryOrderUpdates),
		timeout: defaultPublishTimeout,
	}
}

func (p *Producer) PublishOrderPlaced(ctx context.Context, key string, evt event.OrderPlaced) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
