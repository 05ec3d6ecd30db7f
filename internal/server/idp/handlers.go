package idp

import (
	"encoding/base64"
	"net"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/merchantdash/internal/delegation"
	"github.com/gin-gonic/gin"
)

// authorize signs a delegation for the requested user and redirects back to
// redirect_uri with delegation and state. deny=1 simulates the user refusing.
func (p *Provider) authorize(c *gin.Context) {
	ctx := c.Request.Context()

	redirect, err := parseRedirect(c.Query("redirect_uri"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := c.Query("state")
	if state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state is required"})
		return
	}

	q := redirect.Query()
	q.Set("state", state)

	if c.Query("deny") == "1" {
		q.Set("error", "access_denied")
		redirect.RawQuery = q.Encode()
		c.Redirect(http.StatusFound, redirect.String())
		return
	}

	user := c.DefaultQuery("user", DefaultUser)

	userKey, err := p.UserKey(user)
	if err != nil {
		p.logger.Error(ctx, "user key", "user", user, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := delegation.Issue(p.key, Issuer, userKey, p.ttl, p.now())
	if err != nil {
		p.logger.Error(ctx, "issue delegation", "user", user, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	p.logger.Info(ctx, "delegation issued", "user", user, "ttl", p.ttl.String())

	q.Set("delegation", token)
	redirect.RawQuery = q.Encode()
	c.Redirect(http.StatusFound, redirect.String())
}

func (p *Provider) providerKey(c *gin.Context) {
	der, err := p.PublicKeyDER()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issuer":     Issuer,
		"algorithm":  "Ed25519",
		"public_key": base64.StdEncoding.EncodeToString(der),
	})
}

type redirectError string

func (e redirectError) Error() string { return string(e) }

// parseRedirect accepts only absolute http URLs pointing at a loopback host.
func parseRedirect(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, redirectError("redirect_uri is required")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "http" || u.Host == "" {
		return nil, redirectError("redirect_uri must be an absolute http URL")
	}

	host := u.Hostname()
	if host == "localhost" {
		return u, nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return u, nil
	}

	return nil, redirectError("redirect_uri must point to a loopback address")
}
