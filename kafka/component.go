package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/userservice/component"
	"github.com/kbukum/userservice/logger"
)

// ProducerCloser is satisfied by any producer that can be closed.
type ProducerCloser interface {
	Close() error
}

// Component owns the producer's lifetime and reports broker reachability.
type Component struct {
	cfg      Config
	log      *logger.Logger
	producer ProducerCloser
	mu       sync.Mutex
	running  bool

	// probe is replaced in tests.
	probe func(ctx context.Context, cfg *Config) error
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a Kafka component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	return &Component{
		cfg:   cfg,
		log:   log.WithComponent("kafka"),
		probe: dialBroker,
	}
}

// SetProducer injects the producer closed on Stop. Must be called before Start.
func (c *Component) SetProducer(p ProducerCloser) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.producer = p
}

// Name returns the component name.
func (c *Component) Name() string { return "kafka" }

// Start marks the component running. The producer connects lazily on the
// first write, so an unreachable broker does not block startup.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}
	c.running = true
	c.log.Info("Kafka component started", map[string]interface{}{
		"brokers": c.cfg.Brokers,
		"topic":   c.cfg.Topic,
	})
	return nil
}

// Stop closes the producer, flushing buffered messages.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}
	c.log.Info("Kafka component stopping")

	var err error
	if c.producer != nil {
		err = c.producer.Close()
		c.producer = nil
	}
	c.running = false
	return err
}

// Health checks broker connectivity by dialling the first broker.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.Lock()
	running := c.running
	cfg := c.cfg
	c.mu.Unlock()

	if !running {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "kafka not started",
		}
	}
	if len(cfg.Brokers) == 0 {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "no brokers configured",
		}
	}

	// Events are best-effort, so an unreachable broker degrades the service
	// rather than taking it out of rotation.
	if err := c.probe(ctx, &cfg); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: err.Error(),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns a summary for the startup log.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Kafka",
		Type:    "kafka",
		Details: fmt.Sprintf("brokers=%v topic=%s", c.cfg.Brokers, c.cfg.Topic),
	}
}

func dialBroker(ctx context.Context, cfg *Config) error {
	dialer, err := CreateDialer(cfg)
	if err != nil {
		return fmt.Errorf("dialer: %w", err)
	}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("broker unreachable: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("broker metadata: %w", err)
	}
	return nil
}
