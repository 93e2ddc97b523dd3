package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/userservice/logger"
	"github.com/kbukum/userservice/observability"
)

// Recorder counts publish outcomes. *observability.Metrics satisfies it.
type Recorder interface {
	RecordNotification(ctx context.Context, eventType string, err error)
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithMetrics records each publish outcome.
func WithMetrics(r Recorder) Option {
	return func(n *Notifier) { n.metrics = r }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(n *Notifier) { n.log = l.WithComponent("notification") }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// Notifier emits lifecycle events without blocking the caller.
type Notifier struct {
	cfg     Config
	sender  Sender
	metrics Recorder
	log     *logger.Logger
	now     func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a Notifier delivering through sender.
func New(cfg Config, sender Sender, opts ...Option) *Notifier {
	cfg.ApplyDefaults()
	n := &Notifier{
		cfg:    cfg,
		sender: sender,
		log:    logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Emit publishes an event in the background. The request's values (request
// id, trace) are kept but its cancellation is not, so a finished request does
// not abort the send. Events emitted after Close are dropped.
func (n *Notifier) Emit(ctx context.Context, eventType EventType, source string, payload map[string]interface{}) {
	msg := EventMessage{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Timestamp: n.now().UTC(),
		Payload:   payload,
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		n.log.Warn("Notifier closed, event dropped", map[string]interface{}{
			logger.FieldEvent: string(eventType),
		})
		return
	}
	n.wg.Add(1)
	n.mu.Unlock()

	sendCtx := context.WithoutCancel(ctx)
	go func() {
		defer n.wg.Done()
		n.publish(sendCtx, msg)
	}()
}

func (n *Notifier) publish(ctx context.Context, msg EventMessage) {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.PublishTimeout)
	defer cancel()

	ctx, span := observability.StartSpan(ctx, observability.SpanPublish,
		attribute.String("event.type", string(msg.Type)),
		attribute.String("event.id", msg.ID),
	)
	err := n.sender.Send(ctx, msg)
	observability.EndSpan(span, err)

	if n.metrics != nil {
		n.metrics.RecordNotification(ctx, string(msg.Type), err)
	}
	if err != nil {
		n.log.WithContext(ctx).Error("Event publish failed", map[string]interface{}{
			logger.FieldEvent: string(msg.Type),
			"event_id":        msg.ID,
			logger.FieldError: err.Error(),
		})
	}
}

// Close stops accepting events and waits for in-flight sends, or for ctx.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UserLogin emits USER_LOGIN.
func (n *Notifier) UserLogin(ctx context.Context, c Contact) {
	n.Emit(ctx, EventUserLogin, SourceAuth, c.payload())
}

// OtpRequested emits OTP_REQUESTED with the link the user follows to reset
// their password.
func (n *Notifier) OtpRequested(ctx context.Context, c Contact, recoveryURL string) {
	p := c.payload()
	p["url-recovery"] = recoveryURL
	n.Emit(ctx, EventOtpRequested, SourceAuth, p)
}

// UserRegistered emits USER_REGISTERED with the account activation link.
func (n *Notifier) UserRegistered(ctx context.Context, c Contact) {
	p := c.payload()
	p["url"] = n.cfg.accountStatusURL(c.ID)
	n.Emit(ctx, EventUserRegistered, SourceUser, p)
}

// PasswordChanged emits PASSWORD_CHANGED.
func (n *Notifier) PasswordChanged(ctx context.Context, c Contact) {
	n.Emit(ctx, EventPasswordChanged, SourceUser, c.payload())
}

// UserVerified emits USER_VERIFIED. The payload carries no phone.
func (n *Notifier) UserVerified(ctx context.Context, c Contact) {
	p := c.payload()
	delete(p, "phone")
	n.Emit(ctx, EventUserVerified, SourceUser, p)
}
