package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userservice/component"
)

// Ready reports READY, or NOT_READY with 503 when a component is unhealthy.
// Component health is included when a checker is configured.
func (p *Probes) Ready() gin.HandlerFunc {
	return func(c *gin.Context) {
		if p.checker == nil {
			c.JSON(http.StatusOK, p.body("READY"))
			return
		}

		components := p.checker(c.Request.Context())
		status, httpStatus := "READY", http.StatusOK
		if component.Overall(components) == component.StatusUnhealthy {
			status, httpStatus = "NOT_READY", http.StatusServiceUnavailable
		}
		body := p.body(status)
		body["components"] = components
		c.JSON(httpStatus, body)
	}
}
