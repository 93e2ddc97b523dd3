// Package logger provides structured logging on top of zerolog.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg.Logging, "userservice").WithComponent("auth")
//	log.Info("token issued", logger.Fields("user_id", 42))
package logger
