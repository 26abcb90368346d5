package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/apisign/paramsig"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults with secret from env", func(t *testing.T) {
		t.Setenv("APISIGN_SIGNING_SECRET_KEY", testSecret)

		cfg, err := Load(nil)
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Address)
		assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, paramsig.DefaultMaxBodyBytes, cfg.Server.MaxBodyBytes)
		assert.Equal(t, 5*time.Minute, cfg.Signing.ExpiryWindow)
		assert.Equal(t, DefaultBodyDigestParam, cfg.Signing.BodyDigestParam)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, testSecret, cfg.Signing.SecretKey)
	})

	t.Run("env values", func(t *testing.T) {
		t.Setenv("APISIGN_SIGNING_SECRET_KEY", testSecret)
		t.Setenv("APISIGN_SIGNING_EXPIRY_WINDOW", "90s")
		t.Setenv("APISIGN_SIGNING_CLOCK_SKEW", "2s")
		t.Setenv("APISIGN_SIGNING_EXCLUDED_PARAMS", "callback,debug")
		t.Setenv("APISIGN_SIGNING_ALGORITHM", "hmac-sha512")
		t.Setenv("APISIGN_SIGNING_ENCODING", "hex")
		t.Setenv("APISIGN_SIGNING_DISABLE_HEADER_FIELDS", "true")
		t.Setenv("APISIGN_SERVER_ADDRESS", "127.0.0.1:9000")
		t.Setenv("APISIGN_LOG_LEVEL", "debug")

		cfg, err := Load(nil)
		require.NoError(t, err)

		assert.Equal(t, 90*time.Second, cfg.Signing.ExpiryWindow)
		assert.Equal(t, 2*time.Second, cfg.Signing.ClockSkew)
		assert.Equal(t, []string{"callback", "debug"}, cfg.Signing.ExcludedParams)
		assert.Equal(t, "hmac-sha512", cfg.Signing.Algorithm)
		assert.Equal(t, "hex", cfg.Signing.Encoding)
		assert.True(t, cfg.Signing.DisableHeaderFields)
		assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("APISIGN_SIGNING_SECRET_KEY", testSecret)
		t.Setenv("APISIGN_SERVER_ADDRESS", "127.0.0.1:9000")

		cfg, err := Load([]string{"-address", ":7000", "-log-level", "warn"})
		require.NoError(t, err)

		assert.Equal(t, ":7000", cfg.Server.Address)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("yaml file below env", func(t *testing.T) {
		path := writeTempFile(t, "apisign.yaml", `
server:
  address: ":6000"
  max_body_bytes: 4096
signing:
  secret_key: "`+testSecret+`"
  expiry_window: 2m
  signature_param: sign
  timestamp_param: ts
  body_digest_param: body_sha256
`)
		t.Setenv("APISIGN_CONFIG", path)
		t.Setenv("APISIGN_SIGNING_EXPIRY_WINDOW", "30s")

		cfg, err := Load(nil)
		require.NoError(t, err)

		assert.Equal(t, path, cfg.FilePath)
		assert.Equal(t, ":6000", cfg.Server.Address)
		assert.Equal(t, int64(4096), cfg.Server.MaxBodyBytes)
		assert.Equal(t, 30*time.Second, cfg.Signing.ExpiryWindow)
		assert.Equal(t, "sign", cfg.Signing.SignatureParam)
		assert.Equal(t, "ts", cfg.Signing.TimestampParam)
		assert.Equal(t, "body_sha256", cfg.Signing.BodyDigestParam)
	})

	t.Run("config flag", func(t *testing.T) {
		path := writeTempFile(t, "apisign.yaml", "signing:\n  secret_key: \""+testSecret+"\"\n")

		cfg, err := Load([]string{"-config", path})
		require.NoError(t, err)
		assert.Equal(t, testSecret, cfg.Signing.SecretKey)
	})

	t.Run("unknown yaml key", func(t *testing.T) {
		path := writeTempFile(t, "apisign.yaml", "signing:\n  secret: nope\n")

		_, err := Load([]string{"-config", path})
		assert.Error(t, err)
	})

	t.Run("missing yaml file", func(t *testing.T) {
		_, err := Load([]string{"-config", filepath.Join(t.TempDir(), "absent.yaml")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("dotenv file", func(t *testing.T) {
		path := writeTempFile(t, "test.env", "APISIGN_SIGNING_SECRET_KEY="+testSecret+"\nAPISIGN_SIGNING_TIMESTAMP_FORMAT=unix_ms\n")
		t.Cleanup(func() {
			os.Unsetenv("APISIGN_SIGNING_SECRET_KEY")
			os.Unsetenv("APISIGN_SIGNING_TIMESTAMP_FORMAT")
		})

		cfg, err := Load([]string{"-env-file", path})
		require.NoError(t, err)

		assert.Equal(t, testSecret, cfg.Signing.SecretKey)
		assert.Equal(t, "unix_ms", cfg.Signing.TimestampFormat)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := Load([]string{"-verbose"})
		assert.Error(t, err)
	})

	t.Run("invalid env value", func(t *testing.T) {
		t.Setenv("APISIGN_SIGNING_EXPIRY_WINDOW", "soon")

		_, err := Load(nil)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Defaults()
		cfg.Signing.SecretKey = testSecret

		return cfg
	}

	require.NoError(t, valid().validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "empty address", mutate: func(c *Config) { c.Server.Address = "" }, want: ErrInvalidServerConfig},
		{name: "zero read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = 0 }, want: ErrInvalidServerConfig},
		{name: "zero body limit", mutate: func(c *Config) { c.Server.MaxBodyBytes = 0 }, want: ErrInvalidServerConfig},
		{name: "missing secret", mutate: func(c *Config) { c.Signing.SecretKey = "" }, want: paramsig.ErrNoSecretKey},
		{name: "short secret", mutate: func(c *Config) { c.Signing.SecretKey = "short" }, want: ErrInvalidSigningConfig},
		{name: "bad algorithm", mutate: func(c *Config) { c.Signing.Algorithm = "hmac-md5" }, want: paramsig.ErrUnsupportedAlgorithm},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, want: ErrInvalidLogConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			assert.ErrorIs(t, cfg.validate(), tt.want)
		})
	}
}

func TestParamsigConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Signing = Signing{
		SecretKey:       testSecret,
		ExpiryWindow:    time.Minute,
		Algorithm:       "hmac-sha512",
		Encoding:        "base64url",
		TimestampFormat: "unix_ms",
		Duplicates:      "last",
		ExcludedParams:  []string{"callback"},
	}

	pc := cfg.ParamsigConfig()

	assert.Equal(t, []byte(testSecret), pc.SecretKey)
	assert.Equal(t, paramsig.AlgorithmHMACSHA512, pc.Algorithm)
	assert.Equal(t, paramsig.EncodingBase64URL, pc.Encoding)
	assert.Equal(t, paramsig.TimestampUnixMilli, pc.TimestampFormat)
	assert.Equal(t, paramsig.DuplicateLast, pc.Duplicates)
	assert.Equal(t, []string{"callback"}, pc.ExcludedParams)
	assert.Equal(t, paramsig.DefaultMaxBodyBytes, pc.MaxBodyBytes)

	_, err := paramsig.New(pc)
	assert.NoError(t, err)
}
