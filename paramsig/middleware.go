package paramsig

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
)

type paramsKey struct{}

// ParamsFromContext returns the parameters covered by the signature, as
// stored by Middleware. Each name carries the single value that was signed;
// the signature field and excluded names are absent. Returns nil when the
// request was not verified.
func ParamsFromContext(ctx context.Context) url.Values {
	if params, ok := ctx.Value(paramsKey{}).(url.Values); ok {
		return params
	}

	return nil
}

// MiddlewareConfig configures the server-side verification middleware.
type MiddlewareConfig struct {
	// Verifier checks each request. Required.
	Verifier *Verifier

	// OnError is called when verification fails. When nil, WriteError is
	// used.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware returns a mux.MiddlewareFunc that verifies the signature of
// every request. Verified requests are passed to the next handler with
// their method, URL, headers and body unchanged; the verified parameters
// are available through ParamsFromContext. Rejected requests never reach
// the next handler.
//
// It returns ErrNoVerifier if Verifier is nil.
func Middleware(cfg MiddlewareConfig) (mux.MiddlewareFunc, error) {
	if cfg.Verifier == nil {
		return nil, ErrNoVerifier
	}

	onError := cfg.OnError
	if onError == nil {
		onError = WriteError
	}

	v := cfg.Verifier

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params, err := v.s.collect(r)
			if err == nil {
				err = v.VerifyParams(params, v.s.now())
			}

			if err != nil {
				onError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), paramsKey{}, v.s.signedParams(params))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}

// ErrorResponse is the JSON body written by WriteError.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// WriteError writes the rejection response for err. Client-caused failures
// produce 401 Unauthorized with the failure kind in the body, except bodies
// over the size limit, which produce 413 Request Entity Too Large with the
// error "body_too_large". Anything else produces a generic 500 Internal
// Server Error. The body never contains signature or key material.
func WriteError(w http.ResponseWriter, _ *http.Request, err error) {
	result := Classify(err)

	resp := ErrorResponse{Error: result.String()}
	status := http.StatusUnauthorized

	switch {
	case errors.Is(err, ErrBodyTooLarge):
		status = http.StatusRequestEntityTooLarge
		resp.Error = "body_too_large"
		resp.Message = "request body exceeds the size limit"
	case result == MissingField:
		resp.Field = FieldOf(err)
		resp.Message = "request is missing a required field or is malformed"
	case result == InvalidSignature:
		resp.Message = "signature does not match"
	case result == Expired:
		resp.Message = "request timestamp is outside the accepted window"
	default:
		status = http.StatusInternalServerError
		resp.Message = http.StatusText(http.StatusInternalServerError)
	}

	body, _ := json.Marshal(resp)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
