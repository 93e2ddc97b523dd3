package notification

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config controls event publishing.
type Config struct {
	// PublishTimeout bounds one background send.
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`

	// UsersURL is the public base of the users resource. Registration events
	// link to {UsersURL}/{id}/account_status.
	UsersURL string `mapstructure:"users_url"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = 10 * time.Second
	}
	if c.UsersURL == "" {
		c.UsersURL = "http://localhost:8080/api/v1/users"
	}
	c.UsersURL = strings.TrimRight(c.UsersURL, "/")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.UsersURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("notification: users_url must be an absolute URL, got %q", c.UsersURL)
	}
	return nil
}

func (c *Config) accountStatusURL(id int64) string {
	return fmt.Sprintf("%s/%d/account_status", c.UsersURL, id)
}
