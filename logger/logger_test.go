package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newBufferLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg := &Config{Level: level, Format: FormatJSON}
	return NewWithWriter(cfg, "test-svc", buf), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid json log line %q: %v", line, err)
	}
	return m
}

func TestNew_ServiceField(t *testing.T) {
	l, buf := newBufferLogger(t, "info")
	l.Info("hello")

	m := decodeLine(t, buf)
	if m[FieldService] != "test-svc" {
		t.Errorf("expected service 'test-svc', got %v", m[FieldService])
	}
	if m["message"] != "hello" {
		t.Errorf("expected message 'hello', got %v", m["message"])
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := newBufferLogger(t, "invalid-level")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be suppressed at info level, got %q", buf.String())
	}
	l.Info("shown")
	if buf.Len() == 0 {
		t.Error("info should be written")
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := newBufferLogger(t, "info")
	l.WithComponent("auth").Warn("rejected")

	m := decodeLine(t, buf)
	if m[FieldComponent] != "auth" {
		t.Errorf("expected component 'auth', got %v", m[FieldComponent])
	}
	if m["level"] != "warn" {
		t.Errorf("expected level warn, got %v", m["level"])
	}
}

func TestWithContext(t *testing.T) {
	l, buf := newBufferLogger(t, "info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, 42)
	l.WithContext(ctx).Info("call")

	m := decodeLine(t, buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id req-1, got %v", m[FieldRequestID])
	}
	if m[FieldUserID] != "42" {
		t.Errorf("expected user_id 42, got %v", m[FieldUserID])
	}
	if RequestIDFrom(ctx) != "req-1" {
		t.Errorf("RequestIDFrom = %q", RequestIDFrom(ctx))
	}
}

func TestWithFieldsAndError(t *testing.T) {
	l, buf := newBufferLogger(t, "info")
	l.WithFields(Fields("a", 1)).WithError(errors.New("boom")).Error("failed", Fields("b", "x"))

	m := decodeLine(t, buf)
	if m["a"] != float64(1) {
		t.Errorf("expected a=1, got %v", m["a"])
	}
	if m["b"] != "x" {
		t.Errorf("expected b=x, got %v", m["b"])
	}
	if m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing")
	l.WithComponent("x").Error("still nothing")
}

func TestFields(t *testing.T) {
	m := Fields("k1", "v1", "k2", 2, "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(m))
	}
	if m["k2"] != 2 {
		t.Errorf("expected k2=2, got %v", m["k2"])
	}

	ef := ErrorFields("save", errors.New("bad"))
	if ef[FieldOperation] != "save" || ef[FieldError] != "bad" {
		t.Errorf("unexpected error fields: %v", ef)
	}

	df := DurationFields("call", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
}

func TestConfig_ApplyDefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != FormatJSON || cfg.Output != "stdout" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	bad := Config{Level: "loud", Format: FormatJSON}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
	bad = Config{Level: "info", Format: "xml"}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}
