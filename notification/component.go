package notification

import (
	"context"

	"github.com/kbukum/userservice/component"
)

// Component drains the notifier on shutdown. Register it after the Kafka
// component so it stops first and pending events reach the producer.
type Component struct {
	notifier *Notifier
	backend  string
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent wraps n; backend names the sender for the startup log.
func NewComponent(n *Notifier, backend string) *Component {
	return &Component{notifier: n, backend: backend}
}

func (c *Component) Name() string { return "notification" }

func (c *Component) Start(context.Context) error { return nil }

func (c *Component) Stop(ctx context.Context) error { return c.notifier.Close(ctx) }

func (c *Component) Health(context.Context) component.Health {
	c.notifier.mu.Lock()
	closed := c.notifier.closed
	c.notifier.mu.Unlock()
	if closed {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "notifier closed"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	return component.Description{Name: "Notifications", Type: "notification", Details: "backend=" + c.backend}
}
