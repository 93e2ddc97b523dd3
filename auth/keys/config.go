package keys

import (
	"errors"
	"os"
)

const (
	// EnvPrivateKeyPath and EnvPublicKeyPath name the deployment-provided key files.
	EnvPrivateKeyPath = "PRIVATE_KEY_PATH"
	EnvPublicKeyPath  = "PUBLIC_KEY_PATH"

	// Local development pair used when the deployment provides no paths.
	DefaultPrivateKeyPath = "keys/private-key.pem"
	DefaultPublicKeyPath  = "keys/public-key.pem"
)

// Config locates the signing keypair on disk.
type Config struct {
	PrivateKeyPath string `yaml:"private_key_path" mapstructure:"private_key_path"`
	PublicKeyPath  string `yaml:"public_key_path" mapstructure:"public_key_path"`

	fallback bool
}

// ApplyDefaults fills missing paths from PRIVATE_KEY_PATH / PUBLIC_KEY_PATH.
// If either path is still missing, both fall back to the local development pair
// so a half-configured deployment never mixes keys from two places.
func (c *Config) ApplyDefaults() {
	if c.PrivateKeyPath == "" {
		c.PrivateKeyPath = os.Getenv(EnvPrivateKeyPath)
	}
	if c.PublicKeyPath == "" {
		c.PublicKeyPath = os.Getenv(EnvPublicKeyPath)
	}
	if c.PrivateKeyPath == "" || c.PublicKeyPath == "" {
		c.PrivateKeyPath = DefaultPrivateKeyPath
		c.PublicKeyPath = DefaultPublicKeyPath
		c.fallback = true
	}
}

// UsingFallback reports whether ApplyDefaults selected the development pair.
func (c *Config) UsingFallback() bool { return c.fallback }

// Validate validates key configuration.
func (c *Config) Validate() error {
	if c.PrivateKeyPath == "" {
		return errors.New("private_key_path is required")
	}
	if c.PublicKeyPath == "" {
		return errors.New("public_key_path is required")
	}
	return nil
}
