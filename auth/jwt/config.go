package jwt

import (
	"errors"
	"time"
)

const (
	// DefaultIssuer is the trusted issuer stamped into and required on every token.
	DefaultIssuer = "ingesis.uniquindio.edu.co"
	// DefaultTTL is the lifetime of an issued token.
	DefaultTTL = time.Hour
)

// Config configures token issuance and verification.
type Config struct {
	// Issuer is the "iss" claim written on issue and required on verify.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// TTL is the lifetime of issued tokens.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Issuer == "" {
		c.Issuer = DefaultIssuer
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
}

// Validate validates token configuration.
func (c *Config) Validate() error {
	if c.Issuer == "" {
		return errors.New("issuer is required")
	}
	if c.TTL <= 0 {
		return errors.New("ttl must be positive")
	}
	return nil
}
