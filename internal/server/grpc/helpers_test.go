package grpc

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/delegation"
	"github.com/dmitrijs2005/merchantdash/internal/logging"
	"github.com/dmitrijs2005/merchantdash/internal/merchant"
	"github.com/dmitrijs2005/merchantdash/internal/principal"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeService struct {
	lastOwner  principal.Principal
	lastUpdate merchant.Merchant

	resp *merchant.Response
	logs []string
	err  error
}

func (f *fakeService) Get(ctx context.Context, owner principal.Principal) (*merchant.Response, error) {
	f.lastOwner = owner
	return f.resp, f.err
}

func (f *fakeService) Update(ctx context.Context, owner principal.Principal, m merchant.Merchant) (*merchant.Response, error) {
	f.lastOwner = owner
	f.lastUpdate = m
	return f.resp, f.err
}

func (f *fakeService) Logs(ctx context.Context, owner principal.Principal) ([]string, error) {
	f.lastOwner = owner
	return f.logs, f.err
}

type provider struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

func newProvider(t *testing.T) provider {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return provider{pub: pub, priv: priv}
}

// issue returns a delegation for a fresh user key and the principal it maps to.
func (p provider) issue(t *testing.T, ttl time.Duration, now time.Time) (string, principal.Principal) {
	t.Helper()
	userPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	token, err := delegation.Issue(p.priv, "test-idp", userPub, ttl, now)
	require.NoError(t, err)

	owner, err := principal.FromPublicKey(userPub)
	require.NoError(t, err)
	return token, owner
}
