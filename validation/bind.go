package validation

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/userservice/errors"
)

// BindJSON decodes the request body into dst and validates it. A body that
// is not valid JSON for dst is reported against the "body" field.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.InvalidInput("body", "must be a valid JSON document").WithCause(err)
	}
	return Validate(dst)
}
