package notification

import (
	"context"

	"github.com/kbukum/userservice/logger"
)

// Sender delivers one event.
type Sender interface {
	Send(ctx context.Context, msg EventMessage) error
}

// JSONProducer is satisfied by *producer.Producer.
type JSONProducer interface {
	SendJSON(ctx context.Context, key string, value interface{}) error
}

// KafkaSender writes events as JSON keyed by event id.
type KafkaSender struct {
	producer JSONProducer
}

// NewKafkaSender wraps p.
func NewKafkaSender(p JSONProducer) *KafkaSender {
	return &KafkaSender{producer: p}
}

func (s *KafkaSender) Send(ctx context.Context, msg EventMessage) error {
	return s.producer.SendJSON(ctx, msg.ID, msg)
}

// LogSender records events in the service log. Used when Kafka is disabled.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.WithComponent("notification.log")}
}

func (s *LogSender) Send(ctx context.Context, msg EventMessage) error {
	s.log.WithContext(ctx).Info("Event published to log", map[string]interface{}{
		logger.FieldEvent: string(msg.Type),
		"event_id":        msg.ID,
		"source":          msg.Source,
	})
	return nil
}
