package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/userservice/errors"
	"github.com/kbukum/userservice/server/respond"
)

// OwnerChecker verifies the caller owns a resource. *authz.OwnershipGuard
// implements it.
type OwnerChecker interface {
	Check(ctx context.Context, resourceID int64) error
}

// RequireOwner restricts the route to the user whose id is in the named path
// parameter. A non-integer id is rejected as InvalidID; any other id goes
// through the ownership check first, so a non-positive id that passes it is
// still reported as InvalidID.
func RequireOwner(guard OwnerChecker, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(param)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond.Error(c, apperrors.InvalidID(raw))
			return
		}
		if err := guard.Check(c.Request.Context(), id); err != nil {
			respond.Error(c, err)
			return
		}
		if id <= 0 {
			respond.Error(c, apperrors.InvalidID(raw))
			return
		}
		c.Next()
	}
}

// ParseID parses a positive resource id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidID(raw)
	}
	return id, nil
}
