// Package keys loads the RSA keypair used to sign and verify bearer tokens.
//
// The pair is read from two PEM files exactly once per process. A Store is
// constructed at startup and injected into the token issuer and verifier; a
// load failure is fatal because no token can be issued or verified without it.
package keys

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"sync"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/userservice/logger"
)

// ErrKeyLoad is wrapped by every key loading failure.
var ErrKeyLoad = errors.New("keys: load failed")

// Pair is an immutable RSA signing keypair.
type Pair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// Store lazily loads and caches the keypair. Safe for concurrent use.
type Store struct {
	cfg Config
	log *logger.Logger

	once sync.Once
	pair *Pair
	err  error
}

// NewStore creates a Store reading the files named in cfg.
func NewStore(cfg Config, log *logger.Logger) *Store {
	cfg.ApplyDefaults()
	return &Store{cfg: cfg, log: log.WithComponent("keys")}
}

// NewStaticStore wraps an already loaded pair.
func NewStaticStore(pair *Pair) *Store {
	s := &Store{log: logger.Nop()}
	s.once.Do(func() { s.pair = pair })
	return s
}

// Load reads both key files on first call and returns the cached pair, or the
// cached error, on every later call.
func (s *Store) Load() (*Pair, error) {
	s.once.Do(func() {
		if s.cfg.UsingFallback() {
			s.log.Warn("key paths not configured, using local development keypair", logger.Fields(
				"private_key_path", s.cfg.PrivateKeyPath,
				"public_key_path", s.cfg.PublicKeyPath,
			))
		}
		s.pair, s.err = loadPair(s.cfg.PrivateKeyPath, s.cfg.PublicKeyPath)
		if s.err == nil {
			s.log.Info("signing keypair loaded", logger.Fields("bits", s.pair.Private.N.BitLen()))
		}
	})
	return s.pair, s.err
}

// PrivateKey returns the signing key.
func (s *Store) PrivateKey() (*rsa.PrivateKey, error) {
	p, err := s.Load()
	if err != nil {
		return nil, err
	}
	return p.Private, nil
}

// PublicKey returns the verification key.
func (s *Store) PublicKey() (*rsa.PublicKey, error) {
	p, err := s.Load()
	if err != nil {
		return nil, err
	}
	return p.Public, nil
}

func loadPair(privatePath, publicPath string) (*Pair, error) {
	privPEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read private key: %w", ErrKeyLoad, err)
	}
	pubPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read public key: %w", ErrKeyLoad, err)
	}

	priv, err := ParsePrivateKeyPEM(privPEM)
	if err != nil {
		return nil, err
	}
	pub, err := ParsePublicKeyPEM(pubPEM)
	if err != nil {
		return nil, err
	}
	if !priv.PublicKey.Equal(pub) {
		return nil, fmt.Errorf("%w: public key does not match private key", ErrKeyLoad)
	}
	return &Pair{Private: priv, Public: pub}, nil
}

// ParsePrivateKeyPEM decodes a PKCS#8 (or PKCS#1) RSA private key.
func ParsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	key, err := gojwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %w", ErrKeyLoad, err)
	}
	return key, nil
}

// ParsePublicKeyPEM decodes an X.509 SubjectPublicKeyInfo RSA public key.
func ParsePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	key, err := gojwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse public key: %w", ErrKeyLoad, err)
	}
	return key, nil
}
