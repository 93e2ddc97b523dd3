package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Live confirms the process is able to serve HTTP.
func (p *Probes) Live() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, p.body("LIVE"))
	}
}
