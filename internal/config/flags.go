package config

import (
	"flag"
	"fmt"
)

// parseFlags parses apisignd command-line flags.
//
//	-config    YAML config file path
//	-env-file  dotenv file path (default .env)
//	-address   listen address host:port
//	-log-level zerolog level name
func parseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("apisignd", flag.ContinueOnError)

	cfg := &Config{}
	fs.StringVar(&cfg.FilePath, "config", "", "YAML config file path")
	fs.StringVar(&cfg.EnvFile, "env-file", "", "dotenv file path (default .env)")
	fs.StringVar(&cfg.Server.Address, "address", "", "listen address host:port")
	fs.StringVar(&cfg.Log.Level, "log-level", "", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	return cfg, nil
}
