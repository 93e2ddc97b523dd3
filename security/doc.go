// Package security builds client TLS settings for outbound connections: the
// Kafka brokers and the downstream HTTP services.
//
//	cfg := security.TLSConfig{Enabled: true, CAFile: "/etc/ssl/internal-ca.pem"}
//	tc, err := cfg.Build() // nil when TLS is disabled
package security
