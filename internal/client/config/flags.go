package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/flagx"
)

// parseFlags overlays the flags listed in the package doc. Arguments it does
// not know are filtered out with flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-p", "-b", "-i", "-m", "-t", "-s", "-l"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.CanisterAddr, "a", cfg.CanisterAddr, "address and port of the canister")
	fs.StringVar(&cfg.IdentityProviderURL, "p", cfg.IdentityProviderURL, "identity provider authorize URL")
	fs.StringVar(&cfg.CallbackAddr, "b", cfg.CallbackAddr, "login callback address")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "transaction poll interval (in seconds)")
	fs.StringVar(&cfg.LoginPolicy, "m", cfg.LoginPolicy, "login policy: manual or auto")
	loginTimeout := fs.Int("t", int(cfg.LoginTimeout.Seconds()), "login timeout (in seconds)")
	fs.StringVar(&cfg.SessionDB, "s", cfg.SessionDB, "session database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// file values may be sub-second, so seconds flags only apply when given
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.PollInterval = time.Duration(*pollInterval) * time.Second
		case "t":
			cfg.LoginTimeout = time.Duration(*loginTimeout) * time.Second
		}
	})
	return nil
}
