// Package broker forwards domain events to Kafka.
package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/shashiranjanraj/bizadmin/pkg/logger"
)

// Publisher sends one message keyed by key.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
	Close() error
}

// Kafka publishes to a single topic through a sarama SyncProducer.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = "bizadmin"
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("broker: start producer: %w", err)
	}
	logger.Info("broker: kafka producer connected", "brokers", brokers, "topic", topic)
	return NewKafkaWithProducer(producer, topic), nil
}

func NewKafkaWithProducer(p sarama.SyncProducer, topic string) *Kafka {
	return &Kafka{producer: p, topic: topic}
}

func (k *Kafka) Publish(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("broker: send to %s: %w", k.topic, err)
	}
	logger.WithCtx(ctx).Debug("broker: message sent", "topic", k.topic, "key", key, "partition", partition, "offset", offset)
	return nil
}

func (k *Kafka) Close() error { return k.producer.Close() }

// Noop drops every message. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, []byte) error { return nil }
func (Noop) Close() error                                  { return nil }

// Default is the process-wide publisher.
var Default Publisher = Noop{}

// Connect replaces Default with a Kafka publisher when brokers is non-empty.
func Connect(brokers []string, topic string) error {
	if len(brokers) == 0 {
		return nil
	}
	k, err := NewKafka(brokers, topic)
	if err != nil {
		return err
	}
	Default = k
	return nil
}
