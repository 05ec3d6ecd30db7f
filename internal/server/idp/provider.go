// Package idp is a development identity provider. It signs delegations for
// per-user keys derived from a single seed and hands them back to the caller
// via a redirect, the way a production delegated-identity provider would.
package idp

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/common"
	"github.com/dmitrijs2005/merchantdash/internal/logging"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/hkdf"
)

const (
	Issuer      = "merchantdash-dev-idp"
	DefaultUser = "default"

	userKeyInfo = "merchantdash user key:"
)

var ErrInvalidSeed = fmt.Errorf("provider seed must be %d bytes", ed25519.SeedSize)

type Provider struct {
	address string
	seed    []byte
	key     ed25519.PrivateKey
	ttl     time.Duration
	logger  logging.Logger
	now     func() time.Time
}

// New builds a provider whose signing key is derived from seed.
func New(address string, seed []byte, ttl time.Duration, l logging.Logger) (*Provider, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, ErrInvalidSeed
	}

	s := make([]byte, len(seed))
	copy(s, seed)

	return &Provider{
		address: address,
		seed:    s,
		key:     ed25519.NewKeyFromSeed(s),
		ttl:     ttl,
		logger:  l.With("module", "idp"),
		now:     time.Now,
	}, nil
}

// PublicKey is the key delegations are verified against.
func (p *Provider) PublicKey() ed25519.PublicKey {
	return p.key.Public().(ed25519.PublicKey)
}

// UserKey derives the stable key pair of user from the provider seed.
func (p *Provider) UserKey(user string) (ed25519.PublicKey, error) {
	r := hkdf.New(sha256.New, p.seed, nil, []byte(userKeyInfo+user))

	userSeed := make([]byte, ed25519.SeedSize)
	defer common.WipeByteArray(userSeed)

	if _, err := io.ReadFull(r, userSeed); err != nil {
		return nil, fmt.Errorf("derive user key: %w", err)
	}
	return ed25519.NewKeyFromSeed(userSeed).Public().(ed25519.PublicKey), nil
}

// PublicKeyDER returns the provider key in PKIX DER form.
func (p *Provider) PublicKeyDER() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(p.PublicKey())
}

// Handler returns the provider's HTTP routes.
func (p *Provider) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/authorize", p.authorize)
	r.GET("/.well-known/provider-key", p.providerKey)

	return r
}

// Run serves the provider until ctx is done.
func (p *Provider) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              p.address,
		Handler:           p.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		p.logger.Info(ctx, "Stopping identity provider...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	p.logger.Info(ctx, "Starting identity provider", "address", p.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
