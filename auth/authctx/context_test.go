package authctx

import (
	"context"
	"errors"
	"testing"
)

func TestPrincipalRoundTrip(t *testing.T) {
	p := &Principal{UserID: 7, Email: "ana@example.com"}
	ctx := WithPrincipal(context.Background(), p)

	got, ok := PrincipalFrom(ctx)
	if !ok {
		t.Fatal("expected principal in context")
	}
	if got != p {
		t.Errorf("expected the same principal back")
	}

	must, err := MustPrincipal(ctx)
	if err != nil || must.UserID != 7 {
		t.Errorf("MustPrincipal = %+v, %v", must, err)
	}
}

func TestPrincipalMissing(t *testing.T) {
	if _, ok := PrincipalFrom(context.Background()); ok {
		t.Error("expected no principal in empty context")
	}
	if _, err := MustPrincipal(context.Background()); !errors.Is(err, ErrNoPrincipal) {
		t.Errorf("expected ErrNoPrincipal, got %v", err)
	}

	// A nil principal is the same as none.
	ctx := WithPrincipal(context.Background(), nil)
	if _, ok := PrincipalFrom(ctx); ok {
		t.Error("nil principal should not be reported as present")
	}

	// A value of another type under the same key is ignored.
	ctx = Set(context.Background(), "not a principal")
	if _, ok := PrincipalFrom(ctx); ok {
		t.Error("wrong type should not be reported as a principal")
	}
}
