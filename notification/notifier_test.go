package notification

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/userservice/logger"
)

type captureSender struct {
	mu   sync.Mutex
	msgs []EventMessage
	err  error
	gate chan struct{}
}

func (s *captureSender) Send(ctx context.Context, msg EventMessage) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.err
}

func (s *captureSender) sent() []EventMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EventMessage(nil), s.msgs...)
}

type outcome struct {
	eventType string
	err       error
}

type fakeRecorder struct {
	mu  sync.Mutex
	got []outcome
}

func (r *fakeRecorder) RecordNotification(_ context.Context, eventType string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, outcome{eventType, err})
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("COT", -5*3600))

func newNotifier(s Sender, opts ...Option) *Notifier {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(Config{UsersURL: "http://users.test/api/v1/users/"}, s, opts...)
}

func drain(t *testing.T, n *Notifier) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := n.Close(ctx); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

var contact = Contact{ID: 42, Name: "Ana Maria Lopez", Email: "ana@example.com", Phone: "3001234567"}

func TestEvents(t *testing.T) {
	tests := []struct {
		name       string
		emit       func(*Notifier, context.Context)
		wantType   EventType
		wantSource string
		wantKeys   []string
		check      func(t *testing.T, p map[string]interface{})
	}{
		{
			name:       "login",
			emit:       func(n *Notifier, ctx context.Context) { n.UserLogin(ctx, contact) },
			wantType:   EventUserLogin,
			wantSource: SourceAuth,
			wantKeys:   []string{"id", "name", "email", "phone"},
		},
		{
			name: "otp requested",
			emit: func(n *Notifier, ctx context.Context) {
				n.OtpRequested(ctx, contact, "http://localhost:8080/api/v1/users/42/password")
			},
			wantType:   EventOtpRequested,
			wantSource: SourceAuth,
			wantKeys:   []string{"id", "name", "email", "phone", "url-recovery"},
		},
		{
			name:       "registered",
			emit:       func(n *Notifier, ctx context.Context) { n.UserRegistered(ctx, contact) },
			wantType:   EventUserRegistered,
			wantSource: SourceUser,
			wantKeys:   []string{"id", "name", "email", "phone", "url"},
			check: func(t *testing.T, p map[string]interface{}) {
				if p["url"] != "http://users.test/api/v1/users/42/account_status" {
					t.Errorf("url = %v", p["url"])
				}
			},
		},
		{
			name:       "password changed",
			emit:       func(n *Notifier, ctx context.Context) { n.PasswordChanged(ctx, contact) },
			wantType:   EventPasswordChanged,
			wantSource: SourceUser,
			wantKeys:   []string{"id", "name", "email", "phone"},
		},
		{
			name:       "verified",
			emit:       func(n *Notifier, ctx context.Context) { n.UserVerified(ctx, contact) },
			wantType:   EventUserVerified,
			wantSource: SourceUser,
			wantKeys:   []string{"id", "name", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &captureSender{}
			n := newNotifier(s)
			tt.emit(n, context.Background())
			drain(t, n)

			msgs := s.sent()
			if len(msgs) != 1 {
				t.Fatalf("sent %d events, want 1", len(msgs))
			}
			msg := msgs[0]
			if msg.Type != tt.wantType || msg.Source != tt.wantSource {
				t.Errorf("type/source = %s/%s, want %s/%s", msg.Type, msg.Source, tt.wantType, tt.wantSource)
			}
			if msg.ID == "" {
				t.Error("expected event id")
			}
			if !msg.Timestamp.Equal(fixedNow) || msg.Timestamp.Location() != time.UTC {
				t.Errorf("Timestamp = %v, want %v in UTC", msg.Timestamp, fixedNow)
			}
			if len(msg.Payload) != len(tt.wantKeys) {
				t.Errorf("payload = %v, want keys %v", msg.Payload, tt.wantKeys)
			}
			for _, k := range tt.wantKeys {
				if _, ok := msg.Payload[k]; !ok {
					t.Errorf("payload missing %q", k)
				}
			}
			if tt.check != nil {
				tt.check(t, msg.Payload)
			}
		})
	}
}

func TestEmit_SurvivesCancelledRequest(t *testing.T) {
	s := &captureSender{}
	n := newNotifier(s)

	ctx, cancel := context.WithCancel(context.Background())
	n.UserLogin(ctx, contact)
	cancel()
	drain(t, n)

	if len(s.sent()) != 1 {
		t.Fatal("event lost after request context was cancelled")
	}
}

func TestEmit_FailureIsRecordedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	rec := &fakeRecorder{}
	s := &captureSender{err: errors.New("broker down")}
	n := newNotifier(s, WithMetrics(rec), WithLogger(log))

	n.PasswordChanged(context.Background(), contact)
	drain(t, n)

	if len(rec.got) != 1 || rec.got[0].eventType != "PASSWORD_CHANGED" || rec.got[0].err == nil {
		t.Errorf("recorded = %+v", rec.got)
	}
	if !strings.Contains(buf.String(), "broker down") {
		t.Errorf("expected failure in log, got %s", buf.String())
	}
}

func TestClose_WaitsForInFlight(t *testing.T) {
	s := &captureSender{gate: make(chan struct{})}
	n := newNotifier(s)
	n.UserLogin(context.Background(), contact)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := n.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Close() = %v, want deadline exceeded while send is blocked", err)
	}

	close(s.gate)
	drain(t, n)
	if len(s.sent()) != 1 {
		t.Fatal("in-flight event not delivered")
	}
}

func TestEmit_AfterCloseDropped(t *testing.T) {
	s := &captureSender{}
	n := newNotifier(s)
	drain(t, n)

	n.UserLogin(context.Background(), contact)
	drain(t, n)
	if len(s.sent()) != 0 {
		t.Fatal("event sent after Close")
	}
}

type fakeProducer struct {
	key   string
	value interface{}
}

func (p *fakeProducer) SendJSON(_ context.Context, key string, value interface{}) error {
	p.key, p.value = key, value
	return nil
}

func TestKafkaSender_KeysByEventID(t *testing.T) {
	p := &fakeProducer{}
	msg := EventMessage{ID: "evt-9", Type: EventUserVerified}
	if err := NewKafkaSender(p).Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if p.key != "evt-9" {
		t.Errorf("key = %q, want evt-9", p.key)
	}
	if got, ok := p.value.(EventMessage); !ok || got.ID != "evt-9" {
		t.Errorf("value = %#v", p.value)
	}
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "test", &buf)
	msg := EventMessage{ID: "evt-1", Type: EventUserLogin, Source: SourceAuth}
	if err := NewLogSender(log).Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if !strings.Contains(buf.String(), "USER_LOGIN") || !strings.Contains(buf.String(), "evt-1") {
		t.Errorf("log = %s", buf.String())
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.PublishTimeout != 10*time.Second {
		t.Errorf("PublishTimeout = %v", cfg.PublishTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	bad := Config{UsersURL: "/relative"}
	bad.ApplyDefaults()
	if err := bad.Validate(); err == nil {
		t.Error("expected error for relative users_url")
	}
}

func TestComponent(t *testing.T) {
	n := newNotifier(&captureSender{})
	c := NewComponent(n, "log")

	if h := c.Health(context.Background()); h.Status != "healthy" {
		t.Errorf("status = %s", h.Status)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != "unhealthy" {
		t.Errorf("status after stop = %s", h.Status)
	}
}
