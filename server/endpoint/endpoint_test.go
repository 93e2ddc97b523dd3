package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userservice/component"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(p *Probes, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	r := gin.New()
	p.Register(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	var body map[string]interface{}
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	return rr, body
}

func TestProbes_Statuses(t *testing.T) {
	p := NewProbes("1.0.0", nil)
	started := p.started
	p.now = func() time.Time { return started.Add(90 * time.Second) }

	for path, want := range map[string]string{
		"/health":       "UP",
		"/health/ready": "READY",
		"/health/live":  "LIVE",
	} {
		rr, body := serve(p, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
		if body["status"] != want {
			t.Errorf("%s: expected status %s, got %v", path, want, body["status"])
		}
		if body["version"] != "1.0.0" {
			t.Errorf("%s: expected version 1.0.0, got %v", path, body["version"])
		}
		if body["uptime"] != "1m 30s" {
			t.Errorf("%s: expected uptime '1m 30s', got %v", path, body["uptime"])
		}
		if body["uptimeSeconds"].(float64) != 90 {
			t.Errorf("%s: expected 90 uptime seconds, got %v", path, body["uptimeSeconds"])
		}
	}
}

func TestReady_UnhealthyComponent(t *testing.T) {
	p := NewProbes("1.0.0", func(context.Context) []component.Health {
		return []component.Health{
			{Name: "keys", Status: component.StatusHealthy},
			{Name: "kafka", Status: component.StatusUnhealthy, Message: "broker unreachable"},
		}
	})

	rr, body := serve(p, "/health/ready")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if body["status"] != "NOT_READY" {
		t.Errorf("expected NOT_READY, got %v", body["status"])
	}
	if comps, ok := body["components"].([]interface{}); !ok || len(comps) != 2 {
		t.Errorf("expected 2 components, got %v", body["components"])
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{3*time.Minute + 2*time.Second, "3m 2s"},
		{2*time.Hour + 5*time.Second, "2h 0m 5s"},
		{26*time.Hour + 61*time.Second, "1d 2h 1m 1s"},
	}
	for _, tt := range tests {
		if got := FormatUptime(tt.d); got != tt.want {
			t.Errorf("FormatUptime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
