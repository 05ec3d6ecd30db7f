package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/common"
)

// Login policies.
const (
	LoginManual = "manual"
	LoginAuto   = "auto"
)

// Config holds runtime settings for the dashboard client.
//
// Units: PollInterval and LoginTimeout are time.Duration values.
type Config struct {
	CanisterAddr        string
	IdentityProviderURL string
	CallbackAddr        string
	PollInterval        time.Duration
	LoginPolicy         string
	LoginTimeout        time.Duration
	SessionDB           string
	LogLevel            string
}

// LoadDefaults populates c with defaults matching the development canister.
func (c *Config) LoadDefaults() {
	c.CanisterAddr = "127.0.0.1:50051"
	c.IdentityProviderURL = "http://127.0.0.1:8081/authorize"
	c.CallbackAddr = "127.0.0.1:0"
	c.PollInterval = common.DefaultPollInterval * time.Second
	c.LoginPolicy = LoginManual
	c.LoginTimeout = 120 * time.Second
	c.SessionDB = "session.db"
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the file named by -c/-config, then flags.
// args are the command-line arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.LoginPolicy != LoginManual && c.LoginPolicy != LoginAuto {
		return fmt.Errorf("unknown login policy %q", c.LoginPolicy)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.LoginTimeout <= 0 {
		return fmt.Errorf("login timeout must be positive, got %s", c.LoginTimeout)
	}
	return nil
}
