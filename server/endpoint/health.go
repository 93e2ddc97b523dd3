package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userservice/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Probes serves the /health family of endpoints.
type Probes struct {
	version string
	checker HealthChecker
	started time.Time
	now     func() time.Time
}

// NewProbes creates probes reporting version and uptime since now. checker
// may be nil.
func NewProbes(version string, checker HealthChecker) *Probes {
	return &Probes{
		version: version,
		checker: checker,
		started: time.Now(),
		now:     time.Now,
	}
}

// Register mounts /health, /health/ready and /health/live on r.
func (p *Probes) Register(r gin.IRoutes) {
	r.GET("/health", p.Health())
	r.GET("/health/ready", p.Ready())
	r.GET("/health/live", p.Live())
}

// Health reports the service as up.
func (p *Probes) Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, p.body("UP"))
	}
}

func (p *Probes) body(status string) gin.H {
	uptime := p.now().Sub(p.started)
	return gin.H{
		"status":        status,
		"version":       p.version,
		"uptime":        FormatUptime(uptime),
		"uptimeSeconds": int64(uptime / time.Second),
	}
}

// FormatUptime renders d as "1d 2h 3m 4s", dropping leading zero units.
func FormatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	days := secs / 86400
	hours := (secs % 86400) / 3600
	minutes := (secs % 3600) / 60
	secs %= 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, secs)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
