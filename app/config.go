package app

import (
	"fmt"

	"github.com/kbukum/userservice/auth"
	"github.com/kbukum/userservice/clients/otp"
	"github.com/kbukum/userservice/clients/userdata"
	"github.com/kbukum/userservice/config"
	"github.com/kbukum/userservice/httpclient"
	"github.com/kbukum/userservice/kafka"
	"github.com/kbukum/userservice/notification"
	"github.com/kbukum/userservice/observability"
	"github.com/kbukum/userservice/server"
)

// ServiceName names the binary, its config directory and its telemetry.
const ServiceName = "userservice"

// Config is the complete user service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	DataService   httpclient.Config    `yaml:"data_service" mapstructure:"data_service"`
	OtpService    httpclient.Config    `yaml:"otp_service" mapstructure:"otp_service"`
	Kafka         kafka.Config         `yaml:"kafka" mapstructure:"kafka"`
	Notification  notification.Config  `yaml:"notification" mapstructure:"notification"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section. Downstream base URLs fall back to the
// DATA_SERVICE_URL and AUTH_SERVICE_URL variables the service has always
// been deployed with.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()

	if c.DataService.Name == "" {
		c.DataService.Name = "user-data"
	}
	if c.DataService.BaseURL == "" {
		c.DataService.BaseURL = config.Getenv(userdata.DefaultBaseURL, "DATA_SERVICE_URL")
	}
	c.DataService.ApplyDefaults()

	if c.OtpService.Name == "" {
		c.OtpService.Name = "otp"
	}
	if c.OtpService.BaseURL == "" {
		c.OtpService.BaseURL = config.Getenv(otp.DefaultBaseURL, "AUTH_SERVICE_URL")
	}
	c.OtpService.ApplyDefaults()

	c.Kafka.ApplyDefaults()
	c.Notification.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.DataService.Validate(); err != nil {
		return fmt.Errorf("data_service: %w", err)
	}
	if err := c.OtpService.Validate(); err != nil {
		return fmt.Errorf("otp_service: %w", err)
	}
	if err := c.Kafka.Validate(); err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	if err := c.Notification.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	return nil
}
