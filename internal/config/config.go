// Package config loads apisignd settings from command-line flags, APISIGN_*
// environment variables (optionally seeded from a .env file) and an
// optional YAML file, in that order of precedence, on top of defaults.
package config

import (
	"time"

	"github.com/vitalvas/apisign/paramsig"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "APISIGN_"

// DefaultBodyDigestParam names the synthetic parameter that carries the
// SHA-256 of non-form request bodies, so JSON and other raw bodies are
// covered by the signature.
const DefaultBodyDigestParam = "body_sha256"

// Config is the top-level apisignd configuration.
type Config struct {
	Server  Server  `envPrefix:"SERVER_" yaml:"server"`
	Signing Signing `envPrefix:"SIGNING_" yaml:"signing"`
	Log     Log     `envPrefix:"LOG_" yaml:"log"`

	// FilePath is the optional YAML file merged below flags and env.
	// Populated via APISIGN_CONFIG or the -config flag.
	FilePath string `env:"CONFIG" yaml:"-"`

	// EnvFile is the dotenv file loaded before the environment is read.
	// Populated via the -env-file flag only.
	EnvFile string `yaml:"-"`
}

// Server holds listener settings.
type Server struct {
	Address         string        `env:"ADDRESS" yaml:"address"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" yaml:"read_timeout"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout"`

	// MaxBodyBytes bounds request bodies, both for the size limit
	// middleware and for the body reads done during verification.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" yaml:"max_body_bytes"`
}

// Signing mirrors paramsig.Config in a form that env and YAML can carry.
type Signing struct {
	SecretKey           string        `env:"SECRET_KEY" yaml:"secret_key"`
	ExpiryWindow        time.Duration `env:"EXPIRY_WINDOW" yaml:"expiry_window"`
	ClockSkew           time.Duration `env:"CLOCK_SKEW" yaml:"clock_skew"`
	SignatureParam      string        `env:"SIGNATURE_PARAM" yaml:"signature_param"`
	TimestampParam      string        `env:"TIMESTAMP_PARAM" yaml:"timestamp_param"`
	ExcludedParams      []string      `env:"EXCLUDED_PARAMS" envSeparator:"," yaml:"excluded_params"`
	Algorithm           string        `env:"ALGORITHM" yaml:"algorithm"`
	Encoding            string        `env:"ENCODING" yaml:"encoding"`
	TimestampFormat     string        `env:"TIMESTAMP_FORMAT" yaml:"timestamp_format"`
	Duplicates          string        `env:"DUPLICATES" yaml:"duplicates"`
	BodyDigestParam     string        `env:"BODY_DIGEST_PARAM" yaml:"body_digest_param"`
	DisableHeaderFields bool          `env:"DISABLE_HEADER_FIELDS" yaml:"disable_header_fields"`
}

// Log holds logging settings.
type Log struct {
	Level string `env:"LEVEL" yaml:"level"`
}

// Defaults returns the values used for anything left unset.
func Defaults() *Config {
	return &Config{
		Server: Server{
			Address:         ":8080",
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxBodyBytes:    paramsig.DefaultMaxBodyBytes,
		},
		Signing: Signing{
			ExpiryWindow:    5 * time.Minute,
			BodyDigestParam: DefaultBodyDigestParam,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load builds the configuration from args (without the program name), the
// environment and the optional YAML file, then validates it.
func Load(args []string) (*Config, error) {
	return newConfigBuilder().
		withFlags(args).
		withDotEnv().
		withEnv().
		withYAML().
		withDefaults().
		build()
}

// ParamsigConfig converts the signing section into a paramsig.Config.
func (c *Config) ParamsigConfig() paramsig.Config {
	s := c.Signing

	return paramsig.Config{
		SecretKey:           []byte(s.SecretKey),
		Algorithm:           paramsig.Algorithm(s.Algorithm),
		Encoding:            paramsig.Encoding(s.Encoding),
		ExpiryWindow:        s.ExpiryWindow,
		ClockSkew:           s.ClockSkew,
		SignatureParam:      s.SignatureParam,
		TimestampParam:      s.TimestampParam,
		TimestampFormat:     paramsig.TimestampFormat(s.TimestampFormat),
		ExcludedParams:      s.ExcludedParams,
		Duplicates:          paramsig.DuplicatePolicy(s.Duplicates),
		DisableHeaderFields: s.DisableHeaderFields,
		BodyDigestParam:     s.BodyDigestParam,
		MaxBodyBytes:        c.Server.MaxBodyBytes,
	}
}
