package auth

import (
	"fmt"

	"github.com/kbukum/userservice/auth/jwt"
	"github.com/kbukum/userservice/auth/keys"
	"github.com/kbukum/userservice/auth/password"
)

// Config holds all authentication configuration.
type Config struct {
	Keys     keys.Config     `yaml:"keys" mapstructure:"keys"`
	JWT      jwt.Config      `yaml:"jwt" mapstructure:"jwt"`
	Password password.Config `yaml:"password" mapstructure:"password"`
}

// ApplyDefaults applies defaults to every sub-configuration.
func (c *Config) ApplyDefaults() {
	c.Keys.ApplyDefaults()
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks every sub-configuration.
func (c *Config) Validate() error {
	if err := c.Keys.Validate(); err != nil {
		return fmt.Errorf("auth.keys: %w", err)
	}
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	return nil
}

// Describe returns a one-line summary for startup logs.
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(RS256) issuer=%s TTL=%s password=%s", c.JWT.Issuer, c.JWT.TTL, c.Password.Algorithm)
}
