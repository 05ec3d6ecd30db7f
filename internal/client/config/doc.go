// Package config loads runtime configuration for the merchant dashboard
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the canister gRPC endpoint
//	-p string   identity provider authorize URL
//	-b string   loopback address for the login callback
//	-i int      transaction poll interval (seconds)
//	-m string   login policy: manual or auto
//	-t int      login timeout (seconds)
//	-s string   session database path
//	-l string   log level
//
// # File schema
//
// Intervals use timex.Duration, so values can be strings like "10s" or
// integer seconds:
//
//	{
//	  "canister_addr": "127.0.0.1:50051",
//	  "identity_provider_url": "http://127.0.0.1:8081/authorize",
//	  "poll_interval": "10s",
//	  "login_policy": "auto"
//	}
//
// The same keys are accepted in YAML when the file ends in .yaml or .yml.
package config
