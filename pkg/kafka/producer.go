package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON, string or raw byte payloads to Kafka topics.
type Producer struct {
	writer messageWriter
	codec  string
	stats  *producerStats
}

// Message is one keyed payload. Value is sent as-is when it is []byte or
// string and JSON-encoded otherwise.
type Message struct {
	Key   []byte
	Value interface{}
}

// NewProducer builds a producer writing to cfg.Brokers. Metrics are
// registered on reg when it is non-nil.
func NewProducer(cfg WriterConfig, reg prometheus.Registerer) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("writer defaults: %w", err)
	}
	stats := newProducerStats()
	if reg != nil {
		if err := stats.register(reg); err != nil {
			return nil, fmt.Errorf("producer metrics: %w", err)
		}
	}
	return &Producer{writer: cfg.writer(), codec: cfg.Compression, stats: stats}, nil
}

func (p *Producer) Publish(ctx context.Context, topic string, key []byte, value interface{}) error {
	return p.PublishBatch(ctx, topic, []Message{{Key: key, Value: value}})
}

// PublishBatch encodes every message before writing any of them, so an
// encoding failure sends nothing.
func (p *Producer) PublishBatch(ctx context.Context, topic string, batch []Message) error {
	if len(batch) == 0 {
		return nil
	}

	began := time.Now()
	out := make([]kafka.Message, len(batch))
	size := 0
	for i, m := range batch {
		payload, err := encodeValue(m.Value)
		if err != nil {
			return err
		}
		out[i] = kafka.Message{Topic: topic, Key: m.Key, Value: payload, Time: began.UTC()}
		size += len(payload)
	}

	err := p.writer.WriteMessages(ctx, out...)
	p.stats.observe(topic, p.codec, len(out), size, time.Since(began), err)
	return err
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func encodeValue(value interface{}) ([]byte, error) {
	if b, ok := value.([]byte); ok {
		return b, nil
	}
	if s, ok := value.(string); ok {
		return []byte(s), nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode kafka payload: %w", err)
	}
	return b, nil
}

func parseCompression(name string) kafka.Compression {
	switch name {
	case "snappy":
		return kafka.Snappy
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return kafka.Gzip
	}
}

type producerStats struct {
	messages *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func newProducerStats() *producerStats {
	const ns, sub = "regimeaudit", "kafka_producer"
	return &producerStats{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "messages_total",
			Help: "Messages handed to the Kafka writer by outcome.",
		}, []string{"topic", "compression", "result"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "bytes_total",
			Help: "Encoded payload bytes handed to the Kafka writer.",
		}, []string{"topic"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: sub, Name: "write_seconds",
			Help:    "Kafka batch write latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"topic"}),
	}
}

func (s *producerStats) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{s.messages, s.bytes, s.latency} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *producerStats) observe(topic, codec string, count, size int, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.messages.WithLabelValues(topic, codec, result).Add(float64(count))
	s.bytes.WithLabelValues(topic).Add(float64(size))
	s.latency.WithLabelValues(topic).Observe(took.Seconds())
}
