// Package config provides loading and environment overlay for the flakeid
// command configuration. It exposes a Default() baseline and helpers that turn
// it into generator configs.
//
// Example:
//
//	cfg := config.Default()
//	// Optionally load from file and overlay env vars
//	if fileCfg, err := config.Load("/etc/flakeid.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	gcfg, err := cfg.Snowflake()
package config
