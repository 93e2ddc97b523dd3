package httpclient

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/userservice/resilience"
	"github.com/kbukum/userservice/security"
)

const defaultTimeout = 10 * time.Second

// Config configures an HTTP client for one downstream service.
type Config struct {
	// Name identifies the downstream service in logs, spans and metrics.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the base URL prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds each request end to end. Defaults to 10s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// TLS configures the client side of HTTPS connections (private CA, mTLS).
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Breaker stops calling a downstream that keeps failing.
	Breaker resilience.BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" {
		c.Name = "http"
	}
	if c.Breaker.Enabled {
		c.Breaker.ApplyDefaults()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient %s: timeout must be positive", c.Name)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("httpclient %s: base_url is required", c.Name)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("httpclient %s: invalid base_url %q", c.Name, c.BaseURL)
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("httpclient %s: %w", c.Name, err)
	}
	if err := c.Breaker.Validate(); err != nil {
		return fmt.Errorf("httpclient %s: %w", c.Name, err)
	}
	return nil
}
