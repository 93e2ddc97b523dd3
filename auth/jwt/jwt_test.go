package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/userservice/auth/keys"
)

func newStore(t *testing.T) *keys.Store {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return keys.NewStaticStore(&keys.Pair{Private: key, Public: &key.PublicKey})
}

type failingKeys struct{}

func (failingKeys) PrivateKey() (*rsa.PrivateKey, error) { return nil, keys.ErrKeyLoad }
func (failingKeys) PublicKey() (*rsa.PublicKey, error)   { return nil, keys.ErrKeyLoad }

var ana = Identity{UserID: 5, Email: "ana@example.com"}

func TestIssueVerify_RoundTrip(t *testing.T) {
	store := newStore(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	issuer := NewIssuer(Config{}, store, WithIssuerClock(func() time.Time { return now }))
	verifier := NewVerifier(Config{}, store, WithVerifierClock(func() time.Time { return now.Add(30 * time.Minute) }))

	token, err := issuer.Issue(ana)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	p, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.UserID != 5 {
		t.Errorf("expected userId 5, got %d", p.UserID)
	}
	if p.Email != "ana@example.com" {
		t.Errorf("expected subject ana@example.com, got %q", p.Email)
	}
	if p.Issuer != DefaultIssuer {
		t.Errorf("expected issuer %q, got %q", DefaultIssuer, p.Issuer)
	}
	if !p.IssuedAt.Equal(now) {
		t.Errorf("expected iat %v, got %v", now, p.IssuedAt)
	}
	if got := p.ExpiresAt.Sub(p.IssuedAt); got != time.Hour {
		t.Errorf("expected 1h lifetime, got %v", got)
	}
	if p.Token != token {
		t.Error("principal should carry the raw token")
	}
}

func TestIssue_HeaderAndJTI(t *testing.T) {
	store := newStore(t)
	issuer := NewIssuer(Config{}, store)

	first, err := issuer.Issue(ana)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	second, err := issuer.Issue(ana)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var c1, c2 Claims
	tok, _, err := gojwt.NewParser().ParseUnverified(first, &c1)
	if err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if tok.Header["alg"] != "RS256" {
		t.Errorf("expected alg RS256, got %v", tok.Header["alg"])
	}
	if tok.Header["typ"] != "JWT" {
		t.Errorf("expected typ JWT, got %v", tok.Header["typ"])
	}
	if _, _, err := gojwt.NewParser().ParseUnverified(second, &c2); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if c1.ID == "" || c1.ID == c2.ID {
		t.Errorf("expected fresh jti per token, got %q and %q", c1.ID, c2.ID)
	}
}

func TestVerify_Expired(t *testing.T) {
	store := newStore(t)
	past := time.Now().Add(-2 * time.Hour)
	issuer := NewIssuer(Config{}, store, WithIssuerClock(func() time.Time { return past }))

	token, err := issuer.Issue(ana)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, err = NewVerifier(Config{}, store).Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerify_ForeignKeypair(t *testing.T) {
	token, err := NewIssuer(Config{}, newStore(t)).Issue(ana)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, err = NewVerifier(Config{}, newStore(t)).Verify(token)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	store := newStore(t)
	token, err := NewIssuer(Config{Issuer: "someone-else.example"}, store).Issue(ana)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, err = NewVerifier(Config{}, store).Verify(token)
	if !errors.Is(err, ErrInvalidIssuer) {
		t.Fatalf("expected ErrInvalidIssuer, got %v", err)
	}
}

func TestVerify_ExpiredBeatsIssuer(t *testing.T) {
	store := newStore(t)
	past := time.Now().Add(-3 * time.Hour)
	token, err := NewIssuer(Config{Issuer: "someone-else.example"}, store,
		WithIssuerClock(func() time.Time { return past })).Issue(ana)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, err = NewVerifier(Config{}, store).Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken first, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	verifier := NewVerifier(Config{}, newStore(t))
	for _, raw := range []string{"", "not-a-token", "a.b.c", "eyJhbGciOiJSUzI1NiJ9.e30"} {
		t.Run(raw, func(t *testing.T) {
			_, err := verifier.Verify(raw)
			if !errors.Is(err, ErrMalformedToken) {
				t.Fatalf("expected ErrMalformedToken, got %v", err)
			}
		})
	}
}

func TestVerify_RejectsHMAC(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "ana@example.com",
			Issuer:    DefaultIssuer,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 5,
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewVerifier(Config{}, newStore(t)).Verify(token)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerify_MissingClaims(t *testing.T) {
	store := newStore(t)
	key, _ := store.PrivateKey()
	verifier := NewVerifier(Config{}, store)

	noUser := &Claims{RegisteredClaims: gojwt.RegisteredClaims{
		Issuer:    DefaultIssuer,
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodRS256, noUser).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("missing userId: expected ErrMalformedToken, got %v", err)
	}

	noExp := &Claims{RegisteredClaims: gojwt.RegisteredClaims{Issuer: DefaultIssuer}, UserID: 5}
	token, err = gojwt.NewWithClaims(gojwt.SigningMethodRS256, noExp).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("missing exp: expected ErrMalformedToken, got %v", err)
	}
}

func TestClaims_MatchesVerify(t *testing.T) {
	store := newStore(t)
	token, err := NewIssuer(Config{}, store).Issue(Identity{UserID: 9, Email: "bo@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	claims, err := NewVerifier(Config{}, store).Claims(token)
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	if claims.UserID != 9 || claims.Subject != "bo@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestKeysUnavailable(t *testing.T) {
	if _, err := NewIssuer(Config{}, failingKeys{}).Issue(ana); !errors.Is(err, keys.ErrKeyLoad) {
		t.Errorf("Issue: expected ErrKeyLoad, got %v", err)
	}
	if _, err := NewVerifier(Config{}, failingKeys{}).Verify("x.y.z"); !errors.Is(err, keys.ErrKeyLoad) {
		t.Errorf("Verify: expected ErrKeyLoad, got %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Issuer != DefaultIssuer || cfg.TTL != time.Hour {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := (&Config{Issuer: "x", TTL: -time.Second}).Validate(); err == nil {
		t.Error("expected error for negative ttl")
	}
}
