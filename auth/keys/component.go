package keys

import (
	"context"

	"github.com/kbukum/userservice/component"
)

// Component loads the keypair at startup so a missing or broken key file
// stops the service before it accepts traffic.
type Component struct {
	store *Store
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent wraps s.
func NewComponent(s *Store) *Component {
	return &Component{store: s}
}

func (c *Component) Name() string { return "keys" }

func (c *Component) Start(context.Context) error {
	_, err := c.store.Load()
	return err
}

func (c *Component) Stop(context.Context) error { return nil }

func (c *Component) Health(context.Context) component.Health {
	if _, err := c.store.Load(); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	details := "RSA keypair " + c.store.cfg.PrivateKeyPath + ", " + c.store.cfg.PublicKeyPath
	if c.store.cfg.UsingFallback() {
		details += " (development fallback)"
	}
	return component.Description{Name: "Signing keys", Type: "keys", Details: details}
}
