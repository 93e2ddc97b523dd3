package authz

import (
	"context"

	apperrors "github.com/kbukum/userservice/errors"

	"github.com/kbukum/userservice/auth"
	"github.com/kbukum/userservice/auth/authctx"
)

// OwnershipGuard restricts an operation to the user the resource belongs to.
// It holds no state; every check is derived from the request's own token.
type OwnershipGuard struct {
	claims auth.ClaimsReader
}

// NewOwnershipGuard creates a guard that re-reads claims through reader.
func NewOwnershipGuard(reader auth.ClaimsReader) *OwnershipGuard {
	return &OwnershipGuard{claims: reader}
}

// Check returns nil when the caller's userId equals resourceID.
//
// The claims are re-derived from the raw token on the principal rather than
// trusted from the principal itself.
func (g *OwnershipGuard) Check(ctx context.Context, resourceID int64) error {
	p, ok := authctx.PrincipalFrom(ctx)
	if !ok || p.Token == "" {
		return apperrors.MissingToken()
	}
	claims, err := g.claims.Claims(p.Token)
	if err != nil {
		return auth.Failure(err)
	}
	if claims.UserID != resourceID {
		return apperrors.UnauthorizedOwnerAccess().
			WithDetail("user_id", claims.UserID).
			WithDetail("resource_id", resourceID)
	}
	return nil
}
