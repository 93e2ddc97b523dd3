// Package jwt issues and verifies RS256 bearer tokens.
//
//	issuer := jwt.NewIssuer(cfg, store)
//	token, err := issuer.Issue(jwt.Identity{UserID: 5, Email: "ana@example.com"})
//
//	verifier := jwt.NewVerifier(cfg, store)
//	principal, err := verifier.Verify(token)
package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PrivateKeyProvider supplies the signing key.
type PrivateKeyProvider interface {
	PrivateKey() (*rsa.PrivateKey, error)
}

// Issuer creates signed tokens. Safe for concurrent use.
type Issuer struct {
	cfg  Config
	keys PrivateKeyProvider
	now  func() time.Time
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithIssuerClock overrides the clock used for iat/exp.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer creates a token issuer.
func NewIssuer(cfg Config, keys PrivateKeyProvider, opts ...IssuerOption) *Issuer {
	cfg.ApplyDefaults()
	i := &Issuer{cfg: cfg, keys: keys, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue signs a new token for id. Every token gets a fresh random jti and
// expires TTL after issue.
func (i *Issuer) Issue(id Identity) (string, error) {
	key, err := i.keys.PrivateKey()
	if err != nil {
		return "", fmt.Errorf("jwt: signing key unavailable: %w", err)
	}

	issuedAt := i.now().Truncate(time.Second)
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.Email,
			Issuer:    i.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(issuedAt),
			ExpiresAt: gojwt.NewNumericDate(issuedAt.Add(i.cfg.TTL)),
		},
		UserID: id.UserID,
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}
