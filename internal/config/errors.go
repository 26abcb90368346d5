package config

import "errors"

// Validation errors returned by Load.
var (
	// ErrInvalidServerConfig indicates missing or non-positive listener
	// settings.
	ErrInvalidServerConfig = errors.New("invalid server configuration")
	// ErrInvalidSigningConfig indicates settings rejected by paramsig.
	ErrInvalidSigningConfig = errors.New("invalid signing configuration")
	// ErrInvalidLogConfig indicates an unknown log level.
	ErrInvalidLogConfig = errors.New("invalid log configuration")
)
