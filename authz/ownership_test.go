package authz

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"net/http"
	"testing"
	"time"

	apperrors "github.com/kbukum/userservice/errors"

	"github.com/kbukum/userservice/auth/authctx"
	"github.com/kbukum/userservice/auth/jwt"
	"github.com/kbukum/userservice/auth/keys"
)

type tokenKit struct {
	issuer   *jwt.Issuer
	verifier *jwt.Verifier
}

func newTokenKit(t *testing.T, opts ...jwt.IssuerOption) *tokenKit {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	store := keys.NewStaticStore(&keys.Pair{Private: key, Public: &key.PublicKey})
	return &tokenKit{
		issuer:   jwt.NewIssuer(jwt.Config{}, store, opts...),
		verifier: jwt.NewVerifier(jwt.Config{}, store),
	}
}

func (k *tokenKit) ctxFor(t *testing.T, userID int64) context.Context {
	t.Helper()
	token, err := k.issuer.Issue(jwt.Identity{UserID: userID, Email: "owner@example.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	p, err := k.verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	return authctx.WithPrincipal(context.Background(), p)
}

func TestOwnershipGuard_Owner(t *testing.T) {
	kit := newTokenKit(t)
	guard := NewOwnershipGuard(kit.verifier)

	if err := guard.Check(kit.ctxFor(t, 7), 7); err != nil {
		t.Fatalf("owner should pass, got %v", err)
	}
}

func TestOwnershipGuard_NotOwner(t *testing.T) {
	kit := newTokenKit(t)
	guard := NewOwnershipGuard(kit.verifier)

	err := guard.Check(kit.ctxFor(t, 7), 9)
	if apperrors.CodeOf(err) != apperrors.ErrCodeUnauthorizedOwner {
		t.Fatalf("expected UNAUTHORIZED_OWNER_ACCESS, got %v", err)
	}
	appErr, _ := apperrors.AsAppError(err)
	if appErr.HTTPStatus != http.StatusForbidden {
		t.Errorf("expected 403, got %d", appErr.HTTPStatus)
	}
}

func TestOwnershipGuard_NoPrincipal(t *testing.T) {
	guard := NewOwnershipGuard(newTokenKit(t).verifier)
	err := guard.Check(context.Background(), 1)
	if apperrors.CodeOf(err) != apperrors.ErrCodeMissingToken {
		t.Fatalf("expected MISSING_TOKEN, got %v", err)
	}
}

func TestOwnershipGuard_RederivesClaims(t *testing.T) {
	kit := newTokenKit(t)
	guard := NewOwnershipGuard(kit.verifier)

	// A principal whose fields were tampered with after verification: the
	// token still says user 7, so acting on 9 must fail.
	ctx := kit.ctxFor(t, 7)
	p, _ := authctx.PrincipalFrom(ctx)
	forged := *p
	forged.UserID = 9
	ctx = authctx.WithPrincipal(context.Background(), &forged)

	if err := guard.Check(ctx, 9); apperrors.CodeOf(err) != apperrors.ErrCodeUnauthorizedOwner {
		t.Fatalf("expected UNAUTHORIZED_OWNER_ACCESS, got %v", err)
	}
}

func TestOwnershipGuard_ExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	kit := newTokenKit(t, jwt.WithIssuerClock(func() time.Time { return past }))
	token, err := kit.issuer.Issue(jwt.Identity{UserID: 7, Email: "owner@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	ctx := authctx.WithPrincipal(context.Background(), &authctx.Principal{UserID: 7, Token: token})

	err = NewOwnershipGuard(kit.verifier).Check(ctx, 7)
	if apperrors.CodeOf(err) != apperrors.ErrCodeTokenExpired {
		t.Fatalf("expected TOKEN_EXPIRED, got %v", err)
	}
	if !errors.Is(err, jwt.ErrExpiredToken) {
		t.Error("expected jwt.ErrExpiredToken in the chain")
	}
}
