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

// FileConfig is the on-disk form of Config. Zero values leave the current
// setting untouched.
type FileConfig struct {
	GRPCAddr      string         `json:"grpc_addr" yaml:"grpc_addr"`
	IdentityAddr  string         `json:"identity_addr" yaml:"identity_addr"`
	DatabaseDSN   string         `json:"database_dsn" yaml:"database_dsn"`
	ProviderSeed  string         `json:"provider_seed" yaml:"provider_seed"`
	DelegationTTL timex.Duration `json:"delegation_ttl" yaml:"delegation_ttl"`
	LogCap        int            `json:"log_cap" yaml:"log_cap"`
	LogLevel      string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays the file named by -c/-config, if any. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON.
func parseFile(config *Config, args []string) error {
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

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	if c.GRPCAddr != "" {
		config.GRPCAddr = c.GRPCAddr
	}
	if c.IdentityAddr != "" {
		config.IdentityAddr = c.IdentityAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.ProviderSeed != "" {
		config.ProviderSeed = c.ProviderSeed
	}
	if c.DelegationTTL.Duration != 0 {
		config.DelegationTTL = c.DelegationTTL.Duration
	}
	if c.LogCap != 0 {
		config.LogCap = c.LogCap
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
