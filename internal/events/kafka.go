package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// KafkaConfig holds the producer settings
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Producer publishes events to Kafka
type Producer struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewProducer creates an idempotent producer. Delivery reports are logged in
// the background.
func NewProducer(cfg KafkaConfig, logger *slog.Logger) (*Producer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     strings.Join(cfg.Brokers, ","),
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 5,
		"linger.ms":                             10,
	})
	if err != nil {
		return nil, fmt.Errorf("events: failed to create producer: %w", err)
	}

	producer := &Producer{
		producer: p,
		topic:    cfg.Topic,
		logger:   logger,
	}
	go producer.handleDeliveryReports()

	logger.Info("Kafka producer initialized", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return producer, nil
}

// Publish queues e for delivery. It does not wait for the broker.
func (p *Producer) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("events: failed to marshal %s: %w", e.Type, err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(e.Key()),
		Value:          value,
		Headers:        []kafka.Header{{Key: "type", Value: []byte(e.Type)}},
	}
	if err := p.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("events: failed to produce %s: %w", e.Type, err)
	}
	return nil
}

func (p *Producer) handleDeliveryReports() {
	for e := range p.producer.Events() {
		msg, ok := e.(*kafka.Message)
		if !ok {
			continue
		}
		if msg.TopicPartition.Error != nil {
			p.logger.Error("Session event delivery failed",
				"topic", p.topic,
				"error", msg.TopicPartition.Error,
			)
			continue
		}
		p.logger.Debug("Session event delivered",
			"topic", p.topic,
			"partition", msg.TopicPartition.Partition,
			"offset", msg.TopicPartition.Offset,
		)
	}
}

// Close flushes queued events and closes the producer
func (p *Producer) Close() {
	if remaining := p.producer.Flush(10000); remaining > 0 {
		p.logger.Error("Some session events were not delivered", "count", remaining)
	}
	p.producer.Close()
	p.logger.Info("Kafka producer closed")
}
