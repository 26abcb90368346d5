package paramsig

import "errors"

// Result is the outcome of verifying a single request.
type Result int

const (
	// Valid means the signature matched and the timestamp is fresh.
	Valid Result = iota

	// MissingField means the request is malformed: the signature or
	// timestamp is absent or unparseable, a parameter is duplicated, or
	// the body could not be read or exceeds the size limit (ErrBodyTooLarge,
	// which WriteError reports as 413 rather than 401).
	MissingField

	// InvalidSignature means the recomputed signature differs from the
	// supplied one.
	InvalidSignature

	// Expired means the signature is correct but the timestamp is outside
	// the expiry window or too far in the future.
	Expired

	// Internal means verification failed for a reason unrelated to the
	// request content. It is never produced by a correctly configured
	// Verifier with the built-in parameter sources.
	Internal
)

// String returns the machine-readable name used in rejection responses.
func (r Result) String() string {
	switch r {
	case Valid:
		return "valid"
	case MissingField:
		return "missing_field"
	case InvalidSignature:
		return "invalid_signature"
	case Expired:
		return "expired"
	default:
		return "internal_error"
	}
}

// Classify maps an error returned by VerifyRequest or VerifyParams to a
// Result. A nil error is Valid.
func Classify(err error) Result {
	switch {
	case err == nil:
		return Valid
	case errors.Is(err, ErrMissingField),
		errors.Is(err, ErrMalformedField),
		errors.Is(err, ErrDuplicateParam),
		errors.Is(err, ErrBodyTooLarge):
		return MissingField
	case errors.Is(err, ErrSignatureInvalid):
		return InvalidSignature
	case errors.Is(err, ErrSignatureExpired):
		return Expired
	default:
		return Internal
	}
}

// FieldOf returns the parameter name attached to err, or an empty string
// when err carries no field.
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}

	return ""
}
