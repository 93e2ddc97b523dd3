package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/kbukum/userservice/logger"
	"github.com/kbukum/userservice/observability"
	"github.com/kbukum/userservice/resilience"
)

// OutboundRecorder records downstream call metrics. *observability.Metrics
// implements it.
type OutboundRecorder interface {
	RecordOutbound(ctx context.Context, service string, status int, d time.Duration)
}

// Client is a JSON HTTP client for one downstream service. Every call is a
// single attempt bounded by the configured timeout and the caller's context.
type Client struct {
	httpClient *http.Client
	config     Config
	metrics    OutboundRecorder
	log        *logger.Logger
	breaker    *resilience.Breaker
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records each call on m.
func WithMetrics(m OutboundRecorder) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("httpclient %s: %w", cfg.Name, err)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.GetGlobalLogger()
	}
	c.log = c.log.WithComponent("httpclient." + cfg.Name)

	if cfg.Breaker.Enabled {
		c.breaker = resilience.NewBreaker(cfg.Name, cfg.Breaker,
			resilience.WithFailurePredicate(IsOutage),
			resilience.WithStateChange(func(name string, from, to resilience.State) {
				c.log.Warn("Circuit breaker state changed", map[string]interface{}{
					"service": name,
					"from":    from.String(),
					"to":      to.String(),
				})
			}),
		)
	}
	return c, nil
}

// Name returns the downstream service name.
func (c *Client) Name() string {
	return c.config.Name
}

// BreakerState returns the circuit position, or Closed when no breaker is
// configured.
func (c *Client) BreakerState() resilience.State {
	if c.breaker == nil {
		return resilience.StateClosed
	}
	return c.breaker.State()
}

// Do executes req. Non-2xx answers are returned as *Error together with the
// response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanOutboundCall,
		attribute.String("peer.service", c.config.Name),
		attribute.String("http.method", req.Method),
	)
	start := time.Now()

	resp, err := c.guarded(ctx, req)

	status := 0
	if resp != nil {
		status = resp.StatusCode
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	observability.EndSpan(span, err)
	if c.metrics != nil {
		c.metrics.RecordOutbound(ctx, c.config.Name, status, time.Since(start))
	}

	c.log.WithContext(ctx).Debug("Downstream call", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldPath, req.Path,
		logger.FieldStatus, status,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return resp, err
}

func (c *Client) guarded(ctx context.Context, req Request) (*Response, error) {
	if c.breaker == nil {
		return c.execute(ctx, req)
	}
	var resp *Response
	err := c.breaker.Execute(func() error {
		var err error
		resp, err = c.execute(ctx, req)
		return err
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil, newCircuitOpenError(c.config.Name, err)
	}
	return resp, err
}

func (c *Client) execute(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, newTimeoutError(c.config.Name, err)
		}
		return nil, newConnectionError(c.config.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newConnectionError(c.config.Name, fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}
	if classErr := classifyStatus(c.config.Name, resp.StatusCode, body); classErr != nil {
		return result, classErr
	}
	return result, nil
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := strings.TrimRight(c.config.BaseURL, "/")
	if p := strings.TrimLeft(req.Path, "/"); p != "" {
		url += "/" + p
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, newRequestError(c.config.Name, fmt.Errorf("encode body: %w", err))
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, newRequestError(c.config.Name, fmt.Errorf("create request: %w", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if id := logger.RequestIDFrom(ctx); id != "" {
		httpReq.Header.Set("X-Request-Id", id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	return httpReq, nil
}

func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
