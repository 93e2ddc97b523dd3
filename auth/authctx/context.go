// Package authctx carries the verified caller identity through a request context.
//
// Only the token verifier builds a Principal; the authentication middleware
// attaches it with WithPrincipal and handlers read it with PrincipalFrom.
package authctx

import (
	"context"
	"errors"
	"time"
)

// Principal is the identity extracted from a verified bearer token.
// It lives only as long as the request it was attached to.
type Principal struct {
	UserID    int64
	Email     string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Token is the raw bearer token, kept so ownership checks can re-derive claims.
	Token string
}

type contextKey struct{}

var claimsKey = contextKey{}

// Set stores a value under the auth key.
func Set(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Get retrieves the value under the auth key as T.
func Get[T any](ctx context.Context) (T, bool) {
	val := ctx.Value(claimsKey)
	if val == nil {
		var zero T
		return zero, false
	}
	claims, ok := val.(T)
	return claims, ok
}

// ErrNoPrincipal is returned when no principal is attached to the context.
var ErrNoPrincipal = errors.New("authctx: no principal in context")

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return Set(ctx, p)
}

// PrincipalFrom returns the principal attached to ctx.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := Get[*Principal](ctx)
	return p, ok && p != nil
}

// MustPrincipal returns the principal or ErrNoPrincipal.
func MustPrincipal(ctx context.Context) (*Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return nil, ErrNoPrincipal
	}
	return p, nil
}
