package paramsig

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"
)

// Verifier checks request signatures. It holds only immutable settings and
// is safe for concurrent use.
type Verifier struct {
	s *settings
}

// New validates cfg and returns a Verifier for it.
func New(cfg Config) (*Verifier, error) {
	s, err := compile(cfg)
	if err != nil {
		return nil, err
	}

	return &Verifier{s: s}, nil
}

// SignatureParam returns the configured signature field name.
func (v *Verifier) SignatureParam() string { return v.s.sigParam }

// TimestampParam returns the configured timestamp field name.
func (v *Verifier) TimestampParam() string { return v.s.tsParam }

// VerifyRequest extracts the request parameters and verifies them at the
// current time. The request body, when read, is restored.
func (v *Verifier) VerifyRequest(r *http.Request) error {
	params, err := v.s.collect(r)
	if err != nil {
		return err
	}

	return v.VerifyParams(params, v.s.now())
}

// VerifyParams verifies already extracted parameters at time now. params
// must contain the signature and timestamp fields.
//
// Checks run in a fixed order: field presence and format, then the
// signature, then the timestamp window. A correctly signed but stale request
// is therefore reported as ErrSignatureExpired, and a forged request as
// ErrSignatureInvalid whatever its timestamp.
func (v *Verifier) VerifyParams(params url.Values, now time.Time) error {
	s := v.s

	sigValue, err := s.field(params, s.sigParam)
	if err != nil {
		return err
	}

	tsValue, err := s.field(params, s.tsParam)
	if err != nil {
		return err
	}

	ts, err := ParseTimestamp(tsValue, s.tsFormat)
	if err != nil {
		return fieldError(s.tsParam, err)
	}

	canonical, err := Canonicalize(params, s.canonical)
	if err != nil {
		return err
	}

	candidate, err := s.encoding.Decode(sigValue)
	if err != nil || len(candidate) != s.alg.Size() {
		return ErrSignatureInvalid
	}

	if !VerifySignature(s.alg, s.key, canonical, candidate) {
		return ErrSignatureInvalid
	}

	return CheckExpiry(ts, s.window, s.skew, now)
}

// field returns the single value of a distinguished field.
func (s *settings) field(params url.Values, name string) (string, error) {
	values, ok := params[name]
	if !ok || len(values) == 0 {
		return "", fieldError(name, ErrMissingField)
	}

	value, err := pickValue(name, values, s.canonical.Duplicates)
	if err != nil {
		return "", err
	}

	if value == "" {
		return "", fieldError(name, ErrMissingField)
	}

	return value, nil
}

// collect gathers the parameters of r in precedence order: header fields,
// then each configured source, then the body digest.
func (s *settings) collect(r *http.Request) (url.Values, error) {
	params := url.Values{}

	if s.headerFields {
		hv, _ := HeaderSource{Names: []string{s.sigParam, s.tsParam}}.Params(r)
		merge(params, hv)
	}

	for _, src := range s.sources {
		values, err := src.Params(r)
		if err != nil {
			return nil, err
		}

		merge(params, values)
	}

	if s.bodyDigestParam != "" {
		if params.Has(s.bodyDigestParam) {
			return nil, fieldError(s.bodyDigestParam, fmt.Errorf("%w: reserved parameter", ErrMalformedField))
		}

		digest, err := s.bodyDigest(r)
		if err != nil {
			return nil, err
		}

		if digest != "" {
			params.Set(s.bodyDigestParam, digest)
		}
	}

	return params, nil
}

// bodyDigest returns the hex SHA-256 of a non-empty, non-form body.
func (s *settings) bodyDigest(r *http.Request) (string, error) {
	if isForm(r) {
		return "", nil
	}

	body, err := readAndRestoreBody(r, s.maxBodyBytes)
	if err != nil {
		return "", err
	}

	if len(body) == 0 {
		return "", nil
	}

	sum := sha256.Sum256(body)

	return hex.EncodeToString(sum[:]), nil
}

// signedParams returns one value per signed name, resolved with the
// duplicate policy exactly as Canonicalize resolves it. Excluded names,
// including the signature field, are dropped.
func (s *settings) signedParams(params url.Values) url.Values {
	signed := make(url.Values, len(params))

	for name, values := range params {
		if slices.Contains(s.canonical.Excluded, name) {
			continue
		}

		value, err := pickValue(name, values, s.canonical.Duplicates)
		if err != nil {
			continue
		}

		signed[name] = []string{value}
	}

	return signed
}

func merge(dst, src url.Values) {
	for name, values := range src {
		dst[name] = append(dst[name], values...)
	}
}
