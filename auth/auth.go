package auth

import (
	"errors"

	apperrors "github.com/kbukum/userservice/errors"

	"github.com/kbukum/userservice/auth/authctx"
	"github.com/kbukum/userservice/auth/jwt"
)

// TokenIssuer signs tokens for an authenticated identity.
type TokenIssuer interface {
	Issue(id jwt.Identity) (string, error)
}

// TokenVerifier turns a raw bearer token into a Principal.
type TokenVerifier interface {
	Verify(raw string) (*authctx.Principal, error)
}

// ClaimsReader re-derives the claim set from a raw token.
type ClaimsReader interface {
	Claims(raw string) (*jwt.Claims, error)
}

// Failure maps a verification error onto the client-facing error taxonomy.
// Expired and wrong-issuer tokens are the caller's problem (403); anything
// else, including bad signatures, is reported as an internal validation
// failure (500) without detail.
func Failure(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return apperrors.TokenExpired().WithCause(err)
	case errors.Is(err, jwt.ErrInvalidIssuer):
		return apperrors.InvalidIssuer().WithCause(err)
	default:
		return apperrors.TokenValidation(err)
	}
}
