package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/common"
	"github.com/gin-gonic/gin"
)

const callbackPath = "/callback"

type callbackResult struct {
	identity *Identity
	err      error
}

// Login runs the redirect flow: it listens on the loopback callback, hands
// the authorize URL to the opener and waits for the provider to redirect
// back with a delegation. The result is persisted before it is returned.
func (c *AuthClient) Login(ctx context.Context) (*Identity, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	state, err := common.MakeRandHexString(common.StateSize)
	if err != nil {
		return nil, fmt.Errorf("login state: %w", err)
	}

	lis, err := net.Listen("tcp", c.opts.CallbackAddr)
	if err != nil {
		return nil, fmt.Errorf("callback listener: %w", err)
	}

	results := make(chan callbackResult, 1)

	srv := &http.Server{
		Handler:           c.callbackHandler(state, results),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() { _ = srv.Serve(lis) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL, err := authorizeURL(c.opts.AuthorizeURL, "http://"+lis.Addr().String()+callbackPath, state)
	if err != nil {
		return nil, err
	}

	if c.opts.OpenURL != nil {
		if err := c.opts.OpenURL(ctx, authURL); err != nil {
			return nil, fmt.Errorf("open authorize url: %w", err)
		}
	}

	select {
	case r := <-results:
		if r.err != nil {
			c.logger.Warn(ctx, "login failed", "err", r.err)
			return nil, r.err
		}
		if err := c.save(ctx, r.identity); err != nil {
			return nil, err
		}
		c.logger.Info(ctx, "logged in", "principal", r.identity.Principal.String())
		return r.identity, nil

	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrLoginCancelled, ctx.Err())
	}
}

func (c *AuthClient) callbackHandler(state string, results chan<- callbackResult) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	deliver := func(res callbackResult) {
		select {
		case results <- res:
		default:
		}
	}

	r.GET(callbackPath, func(ctx *gin.Context) {
		// a stray request must not end the login that is still waiting
		if ctx.Query("state") != state {
			c.logger.Warn(ctx.Request.Context(), "callback rejected", "err", ErrInvalidState)
			ctx.String(http.StatusBadRequest, "Login failed: state mismatch.")
			return
		}

		if e := ctx.Query("error"); e != "" {
			deliver(callbackResult{err: fmt.Errorf("%w: %s", ErrLoginCancelled, e)})
			ctx.String(http.StatusOK, "Login cancelled. You can close this window.")
			return
		}

		id, err := c.inspect(ctx.Query("delegation"))
		if err != nil {
			deliver(callbackResult{err: err})
			ctx.String(http.StatusBadRequest, "Login failed: invalid delegation.")
			return
		}

		deliver(callbackResult{identity: id})
		ctx.String(http.StatusOK, "Login complete. You can close this window.")
	})

	return r
}

func authorizeURL(base, redirectURI, state string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("identity provider url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("identity provider url must be absolute")
	}

	q := u.Query()
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
