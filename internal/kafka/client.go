// Package kafka holds the broker transport: the inbound consumer that
// routes supplier events to domain handlers and the outbound producer
// for factory order events.
package kafka

import (
	"strings"

	"github.com/segmentio/kafka-go"
)

// Client carries broker addresses and builds readers and writers with
// the project defaults.
type Client struct {
	Brokers []string
}

func NewClient(brokersCSV string) *Client {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Client{Brokers: brokers}
}

func (c *Client) newWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// newGroupReader consumes topics under groupID starting from the earliest
// retained offset, so a restarted process resumes where it committed
// instead of reprocessing or skipping to now.
func (c *Client) newGroupReader(groupID string, topics []string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.Brokers,
		GroupTopics: topics,
		GroupID:     groupID,
		StartOffset: kafka.FirstOffset,
		MinBytes:    10e3,
		MaxBytes:    10e6,
	})
}
