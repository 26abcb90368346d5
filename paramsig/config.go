package paramsig

import (
	"fmt"
	"slices"
	"time"

	"golang.org/x/net/http/httpguts"
)

// Default field names.
const (
	DefaultSignatureParam = "apiSig"
	DefaultTimestampParam = "timestamp"
)

// MinSecretKeyBytes is the shortest secret key accepted by New and
// NewSigner.
const MinSecretKeyBytes = 32

// Config describes how requests are signed and verified. It is read once by
// New or NewSigner; later changes to the value have no effect.
type Config struct {
	// SecretKey is the shared HMAC key. Required; at least
	// MinSecretKeyBytes long.
	SecretKey []byte

	// Algorithm selects the keyed hash. Defaults to AlgorithmHMACSHA256.
	Algorithm Algorithm

	// Encoding selects the signature wire encoding. Defaults to
	// EncodingBase64.
	Encoding Encoding

	// ExpiryWindow is the maximum accepted age of the timestamp. Required.
	ExpiryWindow time.Duration

	// ClockSkew is how far in the future a timestamp may lie. Defaults to
	// zero: any forward-dated timestamp is rejected as expired.
	ClockSkew time.Duration

	// SignatureParam names the signature field. Defaults to
	// DefaultSignatureParam. It is never part of the canonical string.
	SignatureParam string

	// TimestampParam names the timestamp field. Defaults to
	// DefaultTimestampParam. It is always part of the canonical string.
	TimestampParam string

	// TimestampFormat selects the timestamp encoding. Defaults to
	// TimestampUnix.
	TimestampFormat TimestampFormat

	// ExcludedParams lists further names left out of the canonical string.
	ExcludedParams []string

	// Delimiter joins canonical name=value pairs. Defaults to
	// DefaultDelimiter.
	Delimiter string

	// Duplicates selects the policy for repeated names. Defaults to
	// DuplicateReject.
	Duplicates DuplicatePolicy

	// Sources lists where signed parameters are read from, in order.
	// Defaults to QuerySource followed by FormSource.
	Sources []ParamSource

	// DisableHeaderFields stops the signature and timestamp fields from
	// being read from (or, when signing, written to) request headers.
	DisableHeaderFields bool

	// BodyDigestParam, when set, adds the hex SHA-256 of a non-form request
	// body to the signed parameters under this name. Clients must not send
	// a parameter with this name.
	BodyDigestParam string

	// MaxBodyBytes bounds body reads. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// settings is the validated, defaulted form of Config shared by Verifier
// and Signer. It is never mutated after compile returns.
type settings struct {
	key             []byte
	alg             Algorithm
	encoding        Encoding
	window          time.Duration
	skew            time.Duration
	sigParam        string
	tsParam         string
	tsFormat        TimestampFormat
	canonical       CanonicalOptions
	sources         []ParamSource
	headerFields    bool
	bodyDigestParam string
	maxBodyBytes    int64
	now             func() time.Time
}

func compile(cfg Config) (*settings, error) {
	if len(cfg.SecretKey) == 0 {
		return nil, ErrNoSecretKey
	}

	if len(cfg.SecretKey) < MinSecretKeyBytes {
		return nil, fmt.Errorf("%w: need at least %d bytes", ErrShortSecretKey, MinSecretKeyBytes)
	}

	if cfg.ExpiryWindow <= 0 {
		return nil, ErrInvalidWindow
	}

	if cfg.ClockSkew < 0 {
		return nil, ErrInvalidSkew
	}

	s := &settings{
		alg:             cfg.Algorithm,
		encoding:        cfg.Encoding,
		window:          cfg.ExpiryWindow,
		skew:            cfg.ClockSkew,
		sigParam:        cfg.SignatureParam,
		tsParam:         cfg.TimestampParam,
		tsFormat:        cfg.TimestampFormat,
		headerFields:    !cfg.DisableHeaderFields,
		bodyDigestParam: cfg.BodyDigestParam,
		maxBodyBytes:    cfg.MaxBodyBytes,
		now:             cfg.Now,
	}

	if s.alg == "" {
		s.alg = AlgorithmHMACSHA256
	}

	if _, err := s.alg.hashFunc(); err != nil {
		return nil, err
	}

	if s.encoding == "" {
		s.encoding = EncodingBase64
	}

	if !s.encoding.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, string(s.encoding))
	}

	if s.tsFormat == "" {
		s.tsFormat = TimestampUnix
	}

	if !s.tsFormat.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTimestampFormat, string(s.tsFormat))
	}

	if s.sigParam == "" {
		s.sigParam = DefaultSignatureParam
	}

	if s.tsParam == "" {
		s.tsParam = DefaultTimestampParam
	}

	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = DefaultMaxBodyBytes
	}

	if s.now == nil {
		s.now = time.Now
	}

	if err := s.validateNames(cfg.ExcludedParams); err != nil {
		return nil, err
	}

	delim := cfg.Delimiter
	if delim == "" {
		delim = DefaultDelimiter
	}

	if !validDelimiter(delim) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelimiter, delim)
	}

	duplicates := cfg.Duplicates
	if duplicates == "" {
		duplicates = DuplicateReject
	}

	if !duplicates.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDuplicatePolicy, string(duplicates))
	}

	excluded := make([]string, 0, len(cfg.ExcludedParams)+1)
	excluded = append(excluded, s.sigParam)
	for _, name := range cfg.ExcludedParams {
		if !slices.Contains(excluded, name) {
			excluded = append(excluded, name)
		}
	}

	s.canonical = CanonicalOptions{
		Excluded:   excluded,
		Delimiter:  delim,
		Duplicates: duplicates,
	}

	s.key = make([]byte, len(cfg.SecretKey))
	copy(s.key, cfg.SecretKey)

	if len(cfg.Sources) > 0 {
		s.sources = slices.Clone(cfg.Sources)
	} else {
		s.sources = []ParamSource{QuerySource{}, FormSource{MaxBytes: s.maxBodyBytes}}
	}

	return s, nil
}

func (s *settings) validateNames(excluded []string) error {
	if s.sigParam == s.tsParam {
		return fmt.Errorf("%w: signature and timestamp share the name %q", ErrInvalidParamName, s.sigParam)
	}

	if s.headerFields {
		for _, name := range []string{s.sigParam, s.tsParam} {
			if !httpguts.ValidHeaderFieldName(name) {
				return fmt.Errorf("%w: %q is not a valid header field name", ErrInvalidParamName, name)
			}
		}
	}

	if slices.Contains(excluded, s.tsParam) {
		return fmt.Errorf("%w: timestamp %q cannot be excluded from signing", ErrInvalidParamName, s.tsParam)
	}

	if s.bodyDigestParam != "" {
		if s.bodyDigestParam == s.sigParam || s.bodyDigestParam == s.tsParam {
			return fmt.Errorf("%w: body digest reuses the name %q", ErrInvalidParamName, s.bodyDigestParam)
		}

		if slices.Contains(excluded, s.bodyDigestParam) {
			return fmt.Errorf("%w: body digest %q cannot be excluded from signing", ErrInvalidParamName, s.bodyDigestParam)
		}
	}

	return nil
}
