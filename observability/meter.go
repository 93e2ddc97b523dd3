package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter installs a global meter provider exporting to cfg.Endpoint.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg Config, info ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(info)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the service meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(tracerName)
}

// Metrics holds the service's instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	authDecisions   metric.Int64Counter
	tokensIssued    metric.Int64Counter
	outboundTotal   metric.Int64Counter
	outboundLatency metric.Float64Histogram
	notifications   metric.Int64Counter
}

// NewMetrics creates instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	authDecisions, err := meter.Int64Counter("auth.decisions",
		metric.WithDescription("Authentication gate decisions by outcome and reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.decisions counter: %w", err)
	}

	tokensIssued, err := meter.Int64Counter("auth.tokens_issued",
		metric.WithDescription("Bearer tokens issued"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.tokens_issued counter: %w", err)
	}

	outboundTotal, err := meter.Int64Counter("outbound.requests",
		metric.WithDescription("Calls to downstream services by service and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating outbound.requests counter: %w", err)
	}

	outboundLatency, err := meter.Float64Histogram("outbound.duration",
		metric.WithDescription("Duration of downstream calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating outbound.duration histogram: %w", err)
	}

	notifications, err := meter.Int64Counter("notifications.published",
		metric.WithDescription("Notification events by type and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating notifications.published counter: %w", err)
	}

	return &Metrics{
		authDecisions:   authDecisions,
		tokensIssued:    tokensIssued,
		outboundTotal:   outboundTotal,
		outboundLatency: outboundLatency,
		notifications:   notifications,
	}, nil
}

// RecordAuthDecision counts one gate decision, e.g. ("rejected", "expired").
func (m *Metrics) RecordAuthDecision(ctx context.Context, outcome, reason string) {
	if m == nil {
		return
	}
	m.authDecisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("reason", reason),
	))
}

// RecordTokenIssued counts one issued token.
func (m *Metrics) RecordTokenIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.tokensIssued.Add(ctx, 1)
}

// RecordOutbound records one downstream call.
func (m *Metrics) RecordOutbound(ctx context.Context, service string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.outboundTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.Int("status", status),
	))
	m.outboundLatency.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
	))
}

// RecordNotification counts one published (or failed) event.
func (m *Metrics) RecordNotification(ctx context.Context, eventType string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", eventType),
		attribute.String("outcome", outcome),
	))
}
