package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/userservice/auth/authctx"
)

// PublicKeyProvider supplies the verification key.
type PublicKeyProvider interface {
	PublicKey() (*rsa.PublicKey, error)
}

// Verifier checks bearer tokens. Safe for concurrent use.
type Verifier struct {
	cfg  Config
	keys PublicKeyProvider
	now  func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithVerifierClock overrides the clock used for expiry checks.
func WithVerifierClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier creates a token verifier.
func NewVerifier(cfg Config, keys PublicKeyProvider, opts ...VerifierOption) *Verifier {
	cfg.ApplyDefaults()
	v := &Verifier{cfg: cfg, keys: keys, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks raw and returns the identity it carries. Failures are, in
// order: ErrMalformedToken, ErrInvalidSignature, ErrExpiredToken,
// ErrInvalidIssuer.
func (v *Verifier) Verify(raw string) (*authctx.Principal, error) {
	claims, err := v.Claims(raw)
	if err != nil {
		return nil, err
	}
	return &authctx.Principal{
		UserID:    claims.UserID,
		Email:     claims.Subject,
		Issuer:    claims.Issuer,
		IssuedAt:  timeOf(claims.IssuedAt),
		ExpiresAt: timeOf(claims.ExpiresAt),
		Token:     raw,
	}, nil
}

// Claims applies the same checks as Verify and returns the raw claim set.
func (v *Verifier) Claims(raw string) (*Claims, error) {
	key, err := v.keys.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("jwt: verification key unavailable: %w", err)
	}

	claims := &Claims{}
	_, err = gojwt.ParseWithClaims(raw, claims,
		func(*gojwt.Token) (interface{}, error) { return key, nil },
		gojwt.WithValidMethods([]string{gojwt.SigningMethodRS256.Alg()}),
		gojwt.WithIssuer(v.cfg.Issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing userId claim", ErrMalformedToken)
	}
	return claims, nil
}

// classify maps golang-jwt errors onto the verification taxonomy. The parser
// checks signature before claims, and expiry before issuer, which is the
// order callers see.
func classify(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid), errors.Is(err, gojwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	case errors.Is(err, gojwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %w", ErrInvalidIssuer, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
}

func timeOf(d *gojwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
