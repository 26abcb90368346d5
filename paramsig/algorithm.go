package paramsig

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
)

// Algorithm identifies the keyed hash used to sign the canonical string.
type Algorithm string

const (
	// AlgorithmHMACSHA256 is HMAC using SHA-256.
	AlgorithmHMACSHA256 Algorithm = "hmac-sha256"

	// AlgorithmHMACSHA512 is HMAC using SHA-512.
	AlgorithmHMACSHA512 Algorithm = "hmac-sha512"
)

// String returns the configuration name of the algorithm.
func (a Algorithm) String() string {
	return string(a)
}

func (a Algorithm) hashFunc() (func() hash.Hash, error) {
	switch a {
	case AlgorithmHMACSHA256:
		return sha256.New, nil
	case AlgorithmHMACSHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(a))
	}
}

// Size returns the length in bytes of signatures produced by the algorithm,
// or zero for an unknown algorithm.
func (a Algorithm) Size() int {
	switch a {
	case AlgorithmHMACSHA256:
		return sha256.Size
	case AlgorithmHMACSHA512:
		return sha512.Size
	default:
		return 0
	}
}

// Encoding identifies how signature bytes are carried on the wire.
type Encoding string

const (
	// EncodingBase64 is standard padded base64 (RFC 4648 Section 4).
	EncodingBase64 Encoding = "base64"

	// EncodingBase64URL is unpadded URL-safe base64 (RFC 4648 Section 5).
	EncodingBase64URL Encoding = "base64url"

	// EncodingHex is lowercase hexadecimal.
	EncodingHex Encoding = "hex"
)

// Encode renders signature bytes as text.
func (e Encoding) Encode(sig []byte) (string, error) {
	switch e {
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(sig), nil
	case EncodingBase64URL:
		return base64.RawURLEncoding.EncodeToString(sig), nil
	case EncodingHex:
		return hex.EncodeToString(sig), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, string(e))
	}
}

// Decode parses a textual signature.
func (e Encoding) Decode(s string) ([]byte, error) {
	switch e {
	case EncodingBase64:
		return base64.StdEncoding.DecodeString(s)
	case EncodingBase64URL:
		return base64.RawURLEncoding.DecodeString(s)
	case EncodingHex:
		return hex.DecodeString(s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, string(e))
	}
}

func (e Encoding) valid() bool {
	switch e {
	case EncodingBase64, EncodingBase64URL, EncodingHex:
		return true
	default:
		return false
	}
}

// Sign computes the keyed hash of canonical under key.
func Sign(alg Algorithm, key []byte, canonical string) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrNoSecretKey
	}

	newHash, err := alg.hashFunc()
	if err != nil {
		return nil, err
	}

	h := hmac.New(newHash, key)
	h.Write([]byte(canonical))

	return h.Sum(nil), nil
}

// VerifySignature recomputes the signature of canonical and compares it with
// candidate in constant time. Candidates of the wrong length never match.
func VerifySignature(alg Algorithm, key []byte, canonical string, candidate []byte) bool {
	expected, err := Sign(alg, key, canonical)
	if err != nil {
		return false
	}

	return hmac.Equal(expected, candidate)
}
