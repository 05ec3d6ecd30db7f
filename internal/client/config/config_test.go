package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "127.0.0.1:50051", c.CanisterAddr)
	assert.Equal(t, "http://127.0.0.1:8081/authorize", c.IdentityProviderURL)
	assert.Equal(t, "127.0.0.1:0", c.CallbackAddr)
	assert.Equal(t, 10*time.Second, c.PollInterval)
	assert.Equal(t, LoginManual, c.LoginPolicy)
	assert.Equal(t, 2*time.Minute, c.LoginTimeout)
	assert.Equal(t, "session.db", c.SessionDB)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_NoArgs(t *testing.T) {
	c, err := LoadConfig(nil)
	require.NoError(t, err)

	if diff := cmp.Diff(defaults(), c); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Flags(t *testing.T) {
	c, err := LoadConfig([]string{
		"-a", "10.0.0.1:50051",
		"-p", "http://idp.local/authorize",
		"-b", "127.0.0.1:9999",
		"-i", "3",
		"-m", "auto",
		"-t", "30",
		"-s", "/tmp/s.db",
		"-l", "debug",
		"-x", "ignored",
	})
	require.NoError(t, err)

	want := &Config{
		CanisterAddr:        "10.0.0.1:50051",
		IdentityProviderURL: "http://idp.local/authorize",
		CallbackAddr:        "127.0.0.1:9999",
		PollInterval:        3 * time.Second,
		LoginPolicy:         LoginAuto,
		LoginTimeout:        30 * time.Second,
		SessionDB:           "/tmp/s.db",
		LogLevel:            "debug",
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad int", []string{"-i", "often"}},
		{"unknown policy", []string{"-m", "sometimes"}},
		{"zero interval", []string{"-i", "0"}},
		{"negative timeout", []string{"-t", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := writeFile(t, "client.json", `{"canister_addr":"h:1","poll_interval":"5s","login_policy":"auto","login_timeout":60}`)

	c, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)

	want := defaults()
	want.CanisterAddr = "h:1"
	want.PollInterval = 5 * time.Second
	want.LoginPolicy = LoginAuto
	want.LoginTimeout = time.Minute
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_SubSecondFileDurations(t *testing.T) {
	path := writeFile(t, "client.yaml", "poll_interval: 500ms\nlogin_timeout: 1500ms\n")

	c, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, c.PollInterval)
	assert.Equal(t, 1500*time.Millisecond, c.LoginTimeout)

	c, err = LoadConfig([]string{"-c", path, "-i", "2"})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, c.PollInterval, "flags win over the file")
	assert.Equal(t, 1500*time.Millisecond, c.LoginTimeout)
}

func TestLoadConfig_YAMLFileThenFlags(t *testing.T) {
	path := writeFile(t, "client.yml", "session_db: file.db\nlog_level: warn\ncallback_addr: \"127.0.0.1:7000\"\n")

	c, err := LoadConfig([]string{"-config", path, "-s", "flag.db"})
	require.NoError(t, err)

	assert.Equal(t, "flag.db", c.SessionDB, "flags win over the file")
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, "127.0.0.1:7000", c.CallbackAddr)
}

func TestLoadConfig_FileErrors(t *testing.T) {
	_, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-c", writeFile(t, "bad.json", "{")})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-c", writeFile(t, "bad.yaml", "poll_interval: -5")})
	require.Error(t, err)
}
