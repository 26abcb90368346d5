package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vitalvas/apisign/paramsig"
)

func (c *Config) validate() error {
	s := c.Server
	if s.Address == "" || s.ReadTimeout <= 0 || s.ShutdownTimeout <= 0 || s.MaxBodyBytes <= 0 {
		return ErrInvalidServerConfig
	}

	if _, err := paramsig.New(c.ParamsigConfig()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSigningConfig, err)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogConfig, err)
	}

	return nil
}
