package idp

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/delegation"
	"github.com/dmitrijs2005/merchantdash/internal/logging"
	"github.com/dmitrijs2005/merchantdash/internal/principal"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New("127.0.0.1:0", bytes.Repeat([]byte{7}, 32), time.Hour, logging.Discard())
	require.NoError(t, err)
	return p
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNew_RejectsShortSeed(t *testing.T) {
	_, err := New(":0", []byte{1, 2, 3}, time.Hour, logging.Discard())
	require.ErrorIs(t, err, ErrInvalidSeed)
}

func TestUserKey_DeterministicAndDistinct(t *testing.T) {
	p := newProvider(t)

	a1, err := p.UserKey("alice")
	require.NoError(t, err)
	a2, err := p.UserKey("alice")
	require.NoError(t, err)
	b, err := p.UserKey("bob")
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
}

func TestAuthorize_RedirectsWithVerifiableDelegation(t *testing.T) {
	p := newProvider(t)

	q := url.Values{}
	q.Set("redirect_uri", "http://127.0.0.1:5555/callback")
	q.Set("state", "abc")
	q.Set("user", "alice")

	rec := get(t, p.Handler(), "/authorize?"+q.Encode())
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5555", loc.Host)
	assert.Equal(t, "/callback", loc.Path)
	assert.Equal(t, "abc", loc.Query().Get("state"))

	owner, claims, err := delegation.Verify(loc.Query().Get("delegation"), p.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, Issuer, claims.Issuer)

	aliceKey, err := p.UserKey("alice")
	require.NoError(t, err)
	want, err := principal.FromPublicKey(aliceKey)
	require.NoError(t, err)
	assert.Equal(t, want.String(), owner.String())
}

func TestAuthorize_DefaultUserIsStable(t *testing.T) {
	p := newProvider(t)
	target := "/authorize?redirect_uri=" + url.QueryEscape("http://localhost:1/cb") + "&state=s"

	first, err := url.Parse(get(t, p.Handler(), target).Header().Get("Location"))
	require.NoError(t, err)
	second, err := url.Parse(get(t, p.Handler(), target).Header().Get("Location"))
	require.NoError(t, err)

	p1, _, err := delegation.Verify(first.Query().Get("delegation"), p.PublicKey())
	require.NoError(t, err)
	p2, _, err := delegation.Verify(second.Query().Get("delegation"), p.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, p1.String(), p2.String())
}

func TestAuthorize_Deny(t *testing.T) {
	p := newProvider(t)

	rec := get(t, p.Handler(), "/authorize?redirect_uri="+url.QueryEscape("http://127.0.0.1:9/cb")+"&state=s&deny=1")
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "access_denied", loc.Query().Get("error"))
	assert.Equal(t, "s", loc.Query().Get("state"))
	assert.Empty(t, loc.Query().Get("delegation"))
}

func TestAuthorize_BadRequests(t *testing.T) {
	p := newProvider(t)

	tests := []struct {
		name   string
		target string
	}{
		{"missing redirect", "/authorize?state=s"},
		{"relative redirect", "/authorize?state=s&redirect_uri=%2Fcb"},
		{"https redirect", "/authorize?state=s&redirect_uri=" + url.QueryEscape("https://127.0.0.1/cb")},
		{"remote redirect", "/authorize?state=s&redirect_uri=" + url.QueryEscape("http://evil.example.com/cb")},
		{"missing state", "/authorize?redirect_uri=" + url.QueryEscape("http://127.0.0.1/cb")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, p.Handler(), tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestProviderKey(t *testing.T) {
	p := newProvider(t)

	rec := get(t, p.Handler(), "/.well-known/provider-key")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Issuer    string `json:"issuer"`
		PublicKey string `json:"public_key"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, Issuer, body.Issuer)

	der, err := base64.StdEncoding.DecodeString(body.PublicKey)
	require.NoError(t, err)
	key, err := x509.ParsePKIXPublicKey(der)
	require.NoError(t, err)
	assert.Equal(t, p.PublicKey(), key)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	p := newProvider(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("provider did not stop after context cancel")
	}
}
