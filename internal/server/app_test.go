package server

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.GRPCAddr = "127.0.0.1:0"
	c.IdentityAddr = "127.0.0.1:0"
	return c
}

func TestNewApp_BadSeed(t *testing.T) {
	c := testConfig()

	c.ProviderSeed = "zz"
	_, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.Error(t, err)

	c.ProviderSeed = "abcd"
	_, err = NewApp(context.Background(), c, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNewApp_BadLogLevel(t *testing.T) {
	c := testConfig()
	c.LogLevel = "chatty"

	_, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	c := testConfig()
	c.ProviderSeed = strings.Repeat("01", 32)

	var out bytes.Buffer
	app, err := NewApp(context.Background(), c, &out)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestApp_RunFailsOnBadAddress(t *testing.T) {
	c := testConfig()
	c.GRPCAddr = "127.0.0.1:99999"

	var out bytes.Buffer
	app, err := NewApp(context.Background(), c, &out)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app should fail on a bad gRPC address")
	}
	assert.Contains(t, out.String(), "no provider seed configured")
}
