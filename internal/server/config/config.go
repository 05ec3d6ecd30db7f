// Package config handles configuration for the development canister:
// defaults, an optional JSON or YAML file, then command-line flags.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the development canister.
//
//   - GRPCAddr: bind address of the canister gRPC endpoint.
//   - IdentityAddr: bind address of the development identity provider.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects in-memory storage.
//   - ProviderSeed: hex-encoded 32-byte seed for provider and user keys.
//     Empty means a random seed per run.
//   - DelegationTTL: lifetime of issued delegations.
//   - LogCap: maximum number of log lines returned per merchant.
type Config struct {
	GRPCAddr      string
	IdentityAddr  string
	DatabaseDSN   string
	ProviderSeed  string
	DelegationTTL time.Duration
	LogCap        int
	LogLevel      string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.GRPCAddr = ":50051"
	c.IdentityAddr = ":8081"
	c.DatabaseDSN = ""
	c.ProviderSeed = ""
	c.DelegationTTL = 60 * time.Minute
	c.LogCap = 100
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
	if c.LogCap <= 0 {
		return fmt.Errorf("log cap must be positive, got %d", c.LogCap)
	}
	if c.DelegationTTL <= 0 {
		return fmt.Errorf("delegation TTL must be positive, got %s", c.DelegationTTL)
	}
	return nil
}
