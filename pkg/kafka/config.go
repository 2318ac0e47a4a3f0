package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// WriterConfig describes how the producer talks to the brokers. Zero fields
// take the default tag value.
type WriterConfig struct {
	Brokers      []string
	RequiredAcks int           `default:"-1"`
	Compression  string        `default:"gzip"`
	MaxAttempts  int           `default:"3"`
	Linger       time.Duration `default:"1s"`
	BatchSize    int           `default:"100"`
	BatchBytes   int64         `default:"1048576"`
	WriteTimeout time.Duration `default:"10s"`
	ReadTimeout  time.Duration `default:"10s"`
	Async        bool
	// KeyedPartitioning keeps messages with equal keys on one partition.
	KeyedPartitioning bool
}

func (c WriterConfig) writer() *kafka.Writer {
	var bal kafka.Balancer = &kafka.LeastBytes{}
	if c.KeyedPartitioning {
		bal = &kafka.Hash{}
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Balancer:     bal,
		RequiredAcks: kafka.RequiredAcks(c.RequiredAcks),
		Compression:  parseCompression(c.Compression),
		MaxAttempts:  c.MaxAttempts,
		WriteTimeout: c.WriteTimeout,
		ReadTimeout:  c.ReadTimeout,
		BatchSize:    c.BatchSize,
		BatchBytes:   c.BatchBytes,
		BatchTimeout: c.Linger,
		Async:        c.Async,
	}
}
