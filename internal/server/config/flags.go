package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/flagx"
)

// parseFlags overlays command-line flags:
//
//	-a string   gRPC bind address
//	-i string   identity provider bind address
//	-d string   PostgreSQL DSN
//	-k string   provider seed, hex
//	-t int      delegation TTL, minutes
//	-n int      log lines per merchant
//	-l string   log level
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-d", "-k", "-t", "-n", "-l"})

	fs := flag.NewFlagSet("canister", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.GRPCAddr, "a", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.IdentityAddr, "i", config.IdentityAddr, "identity provider address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN (empty for in-memory storage)")
	fs.StringVar(&config.ProviderSeed, "k", config.ProviderSeed, "provider seed, 32 bytes hex")
	ttl := fs.Int("t", int(config.DelegationTTL.Minutes()), "delegation TTL (in minutes)")
	fs.IntVar(&config.LogCap, "n", config.LogCap, "log lines kept per merchant")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.DelegationTTL = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
