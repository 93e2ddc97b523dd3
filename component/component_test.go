package component

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/userservice/logger"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.events != nil {
		*m.events = append(*m.events, "start:"+m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.events != nil {
		*m.events = append(*m.events, "stop:"+m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health { return m.health }

type describedComponent struct{ mockComponent }

func (d *describedComponent) Describe() Description {
	return Description{Type: "kafka", Details: "localhost:9092"}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry(logger.Nop())
	if err := r.Register(&mockComponent{name: "keys"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "keys"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry(logger.Nop())
	_ = r.Register(&mockComponent{name: "keys"})

	if got := r.Get("keys"); got == nil || got.Name() != "keys" {
		t.Fatalf("expected registered component, got %v", got)
	}
	if got := r.Get("missing"); got != nil {
		t.Errorf("expected nil for missing component, got %v", got)
	}
}

func TestStartStopOrder(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	_ = r.Register(&mockComponent{name: "keys", events: &events})
	_ = r.Register(&describedComponent{mockComponent{name: "kafka", events: &events}})
	_ = r.Register(&mockComponent{name: "http-server", events: &events})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{
		"start:keys", "start:kafka", "start:http-server",
		"stop:http-server", "stop:kafka", "stop:keys",
	}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], events[i])
		}
	}
}

func TestStartFailureStopsOnlyStarted(t *testing.T) {
	var events []string
	r := NewRegistry(logger.Nop())
	_ = r.Register(&mockComponent{name: "a", events: &events})
	_ = r.Register(&mockComponent{name: "b", events: &events, startErr: errors.New("boom")})
	_ = r.Register(&mockComponent{name: "c", events: &events})

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	events = nil
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if len(events) != 1 || events[0] != "stop:a" {
		t.Fatalf("expected only a to be stopped, got %v", events)
	}
}

func TestStopAllCollectsErrors(t *testing.T) {
	r := NewRegistry(logger.Nop())
	stopErr := errors.New("close failed")
	_ = r.Register(&mockComponent{name: "a", stopErr: stopErr})
	_ = r.Register(&mockComponent{name: "b"})

	_ = r.StartAll(context.Background())
	err := r.StopAll(context.Background())
	if !errors.Is(err, stopErr) {
		t.Fatalf("expected joined stop error, got %v", err)
	}
}

func TestHealthAllAndOverall(t *testing.T) {
	r := NewRegistry(logger.Nop())
	_ = r.Register(&mockComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	_ = r.Register(&mockComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded}})

	health := r.HealthAll(context.Background())
	if len(health) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(health))
	}
	if got := Overall(health); got != StatusDegraded {
		t.Errorf("expected degraded, got %s", got)
	}

	health = append(health, Health{Name: "c", Status: StatusUnhealthy})
	if got := Overall(health); got != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", got)
	}
	if got := Overall(nil); got != StatusHealthy {
		t.Errorf("expected healthy for no components, got %s", got)
	}
}
