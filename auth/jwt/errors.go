package jwt

import "errors"

// Verification failures, checked in this order.
var (
	ErrMalformedToken   = errors.New("jwt: malformed token")
	ErrInvalidSignature = errors.New("jwt: invalid signature")
	ErrExpiredToken     = errors.New("jwt: token expired")
	ErrInvalidIssuer    = errors.New("jwt: invalid issuer")
)
