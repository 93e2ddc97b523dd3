package jwt

import (
	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set carried by every bearer token.
//
//	{jti, sub (email), iat, iss, userId, exp}
type Claims struct {
	gojwt.RegisteredClaims
	UserID int64 `json:"userId"`
}

// Identity is what a token is issued for.
type Identity struct {
	UserID int64
	Email  string
}
