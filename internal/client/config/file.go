package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/merchantdash/internal/flagx"
	"github.com/dmitrijs2005/merchantdash/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config.
type FileConfig struct {
	CanisterAddr        string         `json:"canister_addr" yaml:"canister_addr"`
	IdentityProviderURL string         `json:"identity_provider_url" yaml:"identity_provider_url"`
	CallbackAddr        string         `json:"callback_addr" yaml:"callback_addr"`
	PollInterval        timex.Duration `json:"poll_interval" yaml:"poll_interval"`
	LoginPolicy         string         `json:"login_policy" yaml:"login_policy"`
	LoginTimeout        timex.Duration `json:"login_timeout" yaml:"login_timeout"`
	SessionDB           string         `json:"session_db" yaml:"session_db"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
}

func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(cfg)
	return nil
}

// apply copies the non-zero fields of c onto cfg.
func (c *FileConfig) apply(cfg *Config) {
	if c.CanisterAddr != "" {
		cfg.CanisterAddr = c.CanisterAddr
	}
	if c.IdentityProviderURL != "" {
		cfg.IdentityProviderURL = c.IdentityProviderURL
	}
	if c.CallbackAddr != "" {
		cfg.CallbackAddr = c.CallbackAddr
	}
	if c.PollInterval.Duration != 0 {
		cfg.PollInterval = c.PollInterval.Duration
	}
	if c.LoginPolicy != "" {
		cfg.LoginPolicy = c.LoginPolicy
	}
	if c.LoginTimeout.Duration != 0 {
		cfg.LoginTimeout = c.LoginTimeout.Duration
	}
	if c.SessionDB != "" {
		cfg.SessionDB = c.SessionDB
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
}
