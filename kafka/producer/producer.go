package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/userservice/kafka"
	"github.com/kbukum/userservice/logger"
	"github.com/kbukum/userservice/resilience"
)

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("producer is closed")

// messageWriter is the subset of *kafkago.Writer the producer drives.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer writes JSON messages to Kafka, retrying transient failures.
type Producer struct {
	writer messageWriter
	cfg    kafka.Config
	log    *logger.Logger
	mu     sync.RWMutex
	closed bool

	backoff func(attempt int) time.Duration
}

var defaultBackoff = resilience.ExponentialBackoff(100*time.Millisecond, 2*time.Second, 2, 0.1)

// New creates a producer. The writer connects on first use, so a broker
// that is down at startup only surfaces as failed writes.
func New(cfg kafka.Config, log *logger.Logger) (*Producer, error) {
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka producer config: %w", err)
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("kafka is disabled")
	}

	transport, err := kafka.CreateTransport(&cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer transport: %w", err)
	}

	p := &Producer{cfg: cfg, log: log.WithComponent("kafka.producer"), backoff: defaultBackoff}
	p.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Transport:    transport,
		Balancer:     &kafkago.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: kafka.ParseDuration(cfg.BatchTimeout),
		RequiredAcks: kafkago.RequiredAcks(cfg.RequiredAcks),
		Compression:  kafka.ResolveCompression(cfg.Compression),
		WriteTimeout: kafka.ParseDuration(cfg.WriteTimeout),
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			p.log.Error("writer: " + fmt.Sprintf(msg, args...))
		}),
	}

	p.log.Info("Kafka producer initialized", map[string]interface{}{
		"brokers":     cfg.Brokers,
		"compression": cfg.Compression,
	})
	return p, nil
}

func newWithWriter(cfg kafka.Config, w messageWriter, log *logger.Logger) *Producer {
	cfg.ApplyDefaults()
	return &Producer{
		writer:  w,
		cfg:     cfg,
		log:     log.WithComponent("kafka.producer"),
		backoff: func(int) time.Duration { return 0 },
	}
}

// Topic returns the configured destination topic.
func (p *Producer) Topic() string { return p.cfg.Topic }

// WriteMessages sends messages, retrying connection-level and other
// transient errors up to the configured number of attempts.
func (p *Producer) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	attempts := 0
	err := resilience.Retry(ctx, resilience.RetryPolicy{
		MaxAttempts: p.cfg.Retries,
		Backoff:     p.backoff,
		RetryIf:     kafka.IsRetryableError,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			p.log.Warn("Kafka write failed, retrying", map[string]interface{}{
				"attempt": attempt,
				"wait":    wait.String(),
				"error":   err.Error(),
			})
		},
	}, func(ctx context.Context) error {
		attempts++
		return p.writer.WriteMessages(ctx, msgs...)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ctx.Err()) {
		return err
	}
	return fmt.Errorf("write failed after %d attempt(s): %w", attempts, err)
}

// SendJSON marshals value as JSON and sends it to the producer's topic
// under key.
func (p *Producer) SendJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	msg := kafkago.Message{
		Topic: p.cfg.Topic,
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	return p.WriteMessages(ctx, msg)
}

// Close flushes pending messages and shuts down the writer. It waits for
// in-flight writes to finish.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.log.Info("Kafka producer closing")
	return p.writer.Close()
}
