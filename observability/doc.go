// Package observability wires OpenTelemetry tracing and metrics.
//
// When enabled, InitTracer and InitMeter install OTLP/HTTP exporters as the
// global providers. Instrumented code always goes through StartSpan and
// *Metrics, which fall back to no-ops when nothing is installed.
package observability
