// Package identity is the dashboard's auth client. It keeps a delegated
// identity in the local session store and obtains new ones from the identity
// provider through a browser redirect to a loopback callback.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/client/repositories/session"
	"github.com/dmitrijs2005/merchantdash/internal/delegation"
	"github.com/dmitrijs2005/merchantdash/internal/logging"
	"github.com/dmitrijs2005/merchantdash/internal/principal"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrLoginCancelled   = errors.New("login cancelled")
	ErrInvalidState     = errors.New("login state mismatch")
)

const delegationKey = "delegation"

// Identity is an authenticated delegated identity.
type Identity struct {
	Delegation string
	Principal  principal.Principal
	Expiration time.Time
}

// Options configure the login flow.
type Options struct {
	// AuthorizeURL is the identity provider's authorize endpoint.
	AuthorizeURL string
	// CallbackAddr is where the loopback callback listens, e.g. 127.0.0.1:0.
	CallbackAddr string
	// Timeout bounds a single Login call.
	Timeout time.Duration
	// OpenURL hands the authorize URL to the user (or a browser).
	OpenURL func(ctx context.Context, url string) error
	Logger  logging.Logger
}

type AuthClient struct {
	store  session.Repository
	opts   Options
	logger logging.Logger
	now    func() time.Time

	mu       sync.RWMutex
	identity *Identity
}

// Create builds an auth client and restores a stored identity. An expired or
// malformed stored delegation is discarded.
func Create(ctx context.Context, store session.Repository, opts Options) (*AuthClient, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	c := &AuthClient{
		store:  store,
		opts:   opts,
		logger: logger.With("module", "identity"),
		now:    time.Now,
	}

	if err := c.restore(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *AuthClient) restore(ctx context.Context) error {
	raw, err := c.store.Get(ctx, delegationKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if raw == nil {
		return nil
	}

	id, err := c.inspect(string(raw))
	if err != nil {
		c.logger.Info(ctx, "discarding stored delegation", "err", err)
		if err := c.store.Delete(ctx, delegationKey); err != nil {
			return fmt.Errorf("discard session: %w", err)
		}
		return nil
	}

	c.mu.Lock()
	c.identity = id
	c.mu.Unlock()
	return nil
}

func (c *AuthClient) inspect(token string) (*Identity, error) {
	p, claims, err := delegation.Inspect(token, c.now())
	if err != nil {
		return nil, err
	}
	return &Identity{Delegation: token, Principal: p, Expiration: claims.ExpiresAt.Time}, nil
}

// IsAuthenticated reports whether an unexpired identity is held.
func (c *AuthClient) IsAuthenticated() bool {
	_, err := c.Identity()
	return err == nil
}

// Identity returns the current identity or ErrNotAuthenticated.
func (c *AuthClient) Identity() (*Identity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.identity == nil || !c.now().Before(c.identity.Expiration) {
		return nil, ErrNotAuthenticated
	}
	id := *c.identity
	return &id, nil
}

// Logout forgets the identity and deletes the stored session.
func (c *AuthClient) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.identity = nil
	c.mu.Unlock()

	if err := c.store.Delete(ctx, delegationKey); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (c *AuthClient) save(ctx context.Context, id *Identity) error {
	if err := c.store.Set(ctx, delegationKey, []byte(id.Delegation)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	c.mu.Lock()
	c.identity = id
	c.mu.Unlock()
	return nil
}
