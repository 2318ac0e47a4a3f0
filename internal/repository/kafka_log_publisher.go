package repository

import (
	"context"

	pkgkafka "RegimeAudit/pkg/kafka"
	"RegimeAudit/pkg/logger"
)

// KafkaLogPublisher ships aggregated error logs to Kafka.
type KafkaLogPublisher struct {
	producer *pkgkafka.Producer
	service  string
}

// NewKafkaLogPublisher creates a logger.Publisher over the producer.
func NewKafkaLogPublisher(producer *pkgkafka.Producer, service string) *KafkaLogPublisher {
	return &KafkaLogPublisher{producer: producer, service: service}
}

// PublishMessage sends aggregated entries one message each, keyed by level;
// any other payload goes out as a single message.
func (p *KafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	entries, ok := payload.([]logger.AggregatedLogEntry)
	if !ok {
		return p.producer.Publish(ctx, topic, []byte(p.service), payload)
	}
	msgs := make([]pkgkafka.Message, len(entries))
	for i, e := range entries {
		msgs[i] = pkgkafka.Message{
			Key: []byte(p.service + ":" + e.Level),
			Value: logEnvelope{
				Service:            p.service,
				AggregatedLogEntry: e,
			},
		}
	}
	return p.producer.PublishBatch(ctx, topic, msgs)
}

type logEnvelope struct {
	Service string `json:"service"`
	logger.AggregatedLogEntry
}

func (p *KafkaLogPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

var _ logger.Publisher = (*KafkaLogPublisher)(nil)
