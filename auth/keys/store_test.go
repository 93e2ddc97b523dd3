package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/userservice/logger"
)

func writeKeyPair(t *testing.T, dir string, key *rsa.PrivateKey) (string, string) {
	t.Helper()
	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal private key: %v", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	privPath := filepath.Join(dir, "private-key.pem")
	pubPath := filepath.Join(dir, "public-key.pem")
	if err := os.WriteFile(privPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER}), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}), 0o644); err != nil {
		t.Fatal(err)
	}
	return privPath, pubPath
}

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func TestStore_Load(t *testing.T) {
	key := newKey(t)
	priv, pub := writeKeyPair(t, t.TempDir(), key)

	s := NewStore(Config{PrivateKeyPath: priv, PublicKeyPath: pub}, logger.Nop())
	pair, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !pair.Private.Equal(key) {
		t.Error("loaded private key differs from the written one")
	}
	if !pair.Public.Equal(&key.PublicKey) {
		t.Error("loaded public key differs from the written one")
	}
}

func TestStore_LoadsOnce(t *testing.T) {
	dir := t.TempDir()
	priv, pub := writeKeyPair(t, dir, newKey(t))

	s := NewStore(Config{PrivateKeyPath: priv, PublicKeyPath: pub}, logger.Nop())
	first, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Files vanish after the first load; the cached pair must still be served.
	if err := os.Remove(priv); err != nil {
		t.Fatal(err)
	}
	second, err := s.Load()
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if first != second {
		t.Error("expected the same cached pair on every call")
	}
	if k, _ := s.PrivateKey(); k != first.Private {
		t.Error("PrivateKey should return the cached key")
	}
	if k, _ := s.PublicKey(); k != first.Public {
		t.Error("PublicKey should return the cached key")
	}
}

func TestStore_Errors(t *testing.T) {
	dir := t.TempDir()
	priv, pub := writeKeyPair(t, dir, newKey(t))
	garbage := filepath.Join(dir, "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not a pem"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, otherPub := writeKeyPair(t, t.TempDir(), newKey(t))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing private file", Config{PrivateKeyPath: filepath.Join(dir, "nope.pem"), PublicKeyPath: pub}},
		{"missing public file", Config{PrivateKeyPath: priv, PublicKeyPath: filepath.Join(dir, "nope.pem")}},
		{"garbage private key", Config{PrivateKeyPath: garbage, PublicKeyPath: pub}},
		{"garbage public key", Config{PrivateKeyPath: priv, PublicKeyPath: garbage}},
		{"mismatched pair", Config{PrivateKeyPath: priv, PublicKeyPath: otherPub}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore(tc.cfg, logger.Nop())
			_, err := s.Load()
			if !errors.Is(err, ErrKeyLoad) {
				t.Fatalf("expected ErrKeyLoad, got %v", err)
			}
			// The failure is cached as well.
			if _, err2 := s.PrivateKey(); !errors.Is(err2, ErrKeyLoad) {
				t.Errorf("expected cached ErrKeyLoad, got %v", err2)
			}
		})
	}
}

func TestConfig_EnvAndFallback(t *testing.T) {
	t.Run("env paths", func(t *testing.T) {
		t.Setenv(EnvPrivateKeyPath, "/run/secrets/private.pem")
		t.Setenv(EnvPublicKeyPath, "/run/secrets/public.pem")
		var cfg Config
		cfg.ApplyDefaults()
		if cfg.PrivateKeyPath != "/run/secrets/private.pem" || cfg.PublicKeyPath != "/run/secrets/public.pem" {
			t.Errorf("unexpected paths: %+v", cfg)
		}
		if cfg.UsingFallback() {
			t.Error("should not use fallback when both env vars are set")
		}
	})

	t.Run("partial env falls back for both", func(t *testing.T) {
		t.Setenv(EnvPrivateKeyPath, "/run/secrets/private.pem")
		t.Setenv(EnvPublicKeyPath, "")
		var cfg Config
		cfg.ApplyDefaults()
		if cfg.PrivateKeyPath != DefaultPrivateKeyPath || cfg.PublicKeyPath != DefaultPublicKeyPath {
			t.Errorf("expected development pair, got %+v", cfg)
		}
		if !cfg.UsingFallback() {
			t.Error("expected fallback flag")
		}
	})

	t.Run("explicit config wins", func(t *testing.T) {
		t.Setenv(EnvPrivateKeyPath, "/env/private.pem")
		t.Setenv(EnvPublicKeyPath, "/env/public.pem")
		cfg := Config{PrivateKeyPath: "a.pem", PublicKeyPath: "b.pem"}
		cfg.ApplyDefaults()
		if cfg.PrivateKeyPath != "a.pem" || cfg.PublicKeyPath != "b.pem" {
			t.Errorf("config paths should not be overridden: %+v", cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})
}

func TestNewStaticStore(t *testing.T) {
	key := newKey(t)
	s := NewStaticStore(&Pair{Private: key, Public: &key.PublicKey})
	got, err := s.PrivateKey()
	if err != nil || got != key {
		t.Fatalf("PrivateKey = %v, %v", got, err)
	}
}

func TestComponent(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()
	priv, pub := writeKeyPair(t, dir, newKey(t))

	c := NewComponent(NewStore(Config{PrivateKeyPath: priv, PublicKeyPath: pub}, logger.Nop()))
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if h := c.Health(ctx); h.Status != "healthy" {
		t.Errorf("status = %s, message = %s", h.Status, h.Message)
	}

	broken := NewComponent(NewStore(Config{PrivateKeyPath: filepath.Join(dir, "missing.pem"), PublicKeyPath: pub}, logger.Nop()))
	if err := broken.Start(ctx); !errors.Is(err, ErrKeyLoad) {
		t.Fatalf("Start() = %v, want ErrKeyLoad", err)
	}
	if h := broken.Health(ctx); h.Status != "unhealthy" {
		t.Errorf("status = %s", h.Status)
	}
}
