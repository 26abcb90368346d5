package paramsig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// DefaultMaxBodyBytes bounds how much of a request body is read when form
// parameters or a body digest are part of the signature.
const DefaultMaxBodyBytes int64 = 1 << 20

// ParamSource provides named parameters from one part of a request.
type ParamSource interface {
	// Params returns the parameters found in r. Implementations that
	// consume r.Body must restore it before returning.
	Params(r *http.Request) (url.Values, error)
}

// QuerySource reads parameters from the URL query string.
type QuerySource struct{}

// Params parses r.URL.RawQuery. Unlike url.URL.Query, malformed pairs are
// reported instead of silently dropped.
func (QuerySource) Params(r *http.Request) (url.Values, error) {
	if r.URL == nil || r.URL.RawQuery == "" {
		return url.Values{}, nil
	}

	values, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query string: %v", ErrMalformedField, err)
	}

	return values, nil
}

// FormSource reads parameters from an application/x-www-form-urlencoded
// body. Requests with any other content type yield no parameters.
type FormSource struct {
	// MaxBytes bounds the body read. Defaults to DefaultMaxBodyBytes.
	MaxBytes int64
}

// Params reads and restores the body so downstream handlers can read it
// again or call r.ParseForm themselves.
func (s FormSource) Params(r *http.Request) (url.Values, error) {
	if !isForm(r) {
		return url.Values{}, nil
	}

	body, err := readAndRestoreBody(r, s.MaxBytes)
	if err != nil {
		return nil, err
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: form body: %v", ErrMalformedField, err)
	}

	return values, nil
}

// HeaderSource reads the listed names from request headers. Header lookup
// is case-insensitive; values are returned under the configured name.
type HeaderSource struct {
	Names []string
}

// Params returns the values of the listed headers that are present. It
// never fails and never touches the body.
func (s HeaderSource) Params(r *http.Request) (url.Values, error) {
	values := url.Values{}

	for _, name := range s.Names {
		if v := r.Header.Values(name); len(v) > 0 {
			values[name] = append([]string(nil), v...)
		}
	}

	return values, nil
}

// isForm reports whether the request carries a urlencoded form body.
func isForm(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}

	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}

	return mediaType == "application/x-www-form-urlencoded"
}

// readAndRestoreBody reads up to limit bytes of the request body and
// replaces it with a new reader so the body can be consumed again by
// downstream handlers.
func readAndRestoreBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return nil, fmt.Errorf("%w: %w", ErrBodyTooLarge, err)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedField, err)
	}

	if int64(len(body)) > limit {
		return nil, ErrBodyTooLarge
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
