package paramsig

import "errors"

// Configuration errors.
var (
	// ErrNoSecretKey is returned when Config has an empty SecretKey.
	ErrNoSecretKey = errors.New("paramsig: secret key must not be empty")

	// ErrShortSecretKey is returned when Config.SecretKey is shorter than
	// MinSecretKeyBytes.
	ErrShortSecretKey = errors.New("paramsig: secret key too short")

	// ErrInvalidWindow is returned when Config.ExpiryWindow is not greater
	// than zero.
	ErrInvalidWindow = errors.New("paramsig: expiry window must be greater than zero")

	// ErrInvalidSkew is returned when Config.ClockSkew is negative.
	ErrInvalidSkew = errors.New("paramsig: clock skew must not be negative")

	// ErrInvalidParamName is returned when a configured parameter name is
	// empty, collides with another configured name, or cannot be carried in
	// an HTTP header.
	ErrInvalidParamName = errors.New("paramsig: invalid parameter name")

	// ErrInvalidDelimiter is returned when Config.Delimiter contains
	// characters that survive query escaping.
	ErrInvalidDelimiter = errors.New("paramsig: invalid delimiter")

	// ErrUnsupportedAlgorithm is returned for an unknown Algorithm.
	ErrUnsupportedAlgorithm = errors.New("paramsig: unsupported algorithm")

	// ErrUnsupportedEncoding is returned for an unknown Encoding.
	ErrUnsupportedEncoding = errors.New("paramsig: unsupported signature encoding")

	// ErrUnsupportedTimestampFormat is returned for an unknown
	// TimestampFormat.
	ErrUnsupportedTimestampFormat = errors.New("paramsig: unsupported timestamp format")

	// ErrUnsupportedDuplicatePolicy is returned for an unknown
	// DuplicatePolicy.
	ErrUnsupportedDuplicatePolicy = errors.New("paramsig: unsupported duplicate policy")

	// ErrNoVerifier is returned when MiddlewareConfig has no Verifier.
	ErrNoVerifier = errors.New("paramsig: verifier must not be nil")

	// ErrNoSigner is returned when a Transport is created without a Signer.
	ErrNoSigner = errors.New("paramsig: signer must not be nil")

	// ErrBodyNotReplayable is returned by Transport for a request with a
	// body but no GetBody, whose body cannot be read without consuming it.
	ErrBodyNotReplayable = errors.New("paramsig: request body cannot be replayed without GetBody")
)

// Verification errors.
var (
	// ErrMissingField is returned when the signature or timestamp field is
	// absent from the request.
	ErrMissingField = errors.New("paramsig: required field missing")

	// ErrMalformedField is returned when a field is present but cannot be
	// parsed, or when a reserved parameter name is supplied by the client.
	ErrMalformedField = errors.New("paramsig: malformed field")

	// ErrDuplicateParam is returned when a parameter occurs more than once
	// and the duplicate policy is DuplicateReject.
	ErrDuplicateParam = errors.New("paramsig: duplicate parameter")

	// ErrBodyTooLarge is returned when a body that must be read for
	// verification exceeds Config.MaxBodyBytes, or a limit set upstream
	// with http.MaxBytesReader.
	ErrBodyTooLarge = errors.New("paramsig: request body too large")

	// ErrSignatureInvalid is returned when the supplied signature does not
	// match the recomputed one, including undecodable signatures.
	ErrSignatureInvalid = errors.New("paramsig: signature verification failed")

	// ErrSignatureExpired is returned when the timestamp lies outside the
	// accepted window.
	ErrSignatureExpired = errors.New("paramsig: signature expired")
)

// FieldError ties a verification error to the parameter that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Err.Error() + ": " + e.Field
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
