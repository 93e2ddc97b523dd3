// Package kafka holds the broker configuration and connection plumbing for
// publishing user lifecycle events.
//
// The producer subpackage writes JSON messages to the configured topic and
// Component ties the producer's shutdown and a broker reachability probe
// into the component registry.
//
//	kafka:
//	  enabled: true
//	  brokers: ["localhost:9092"]
//	  topic: "user-events"
package kafka
