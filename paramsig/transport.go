package paramsig

import "net/http"

// Transport is an http.RoundTripper that signs outgoing requests with a
// Signer.
type Transport struct {
	base   http.RoundTripper
	signer *Signer
}

// NewTransport creates a signing Transport that delegates to base after
// signing each request. When base is nil, a clone of http.DefaultTransport
// is used.
//
// It returns ErrNoSigner if signer is nil.
func NewTransport(base *http.Transport, signer *Signer) (*Transport, error) {
	if signer == nil {
		return nil, ErrNoSigner
	}

	var rt http.RoundTripper
	if base != nil {
		rt = base
	} else {
		rt = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &Transport{
		base:   rt,
		signer: signer,
	}, nil
}

// RoundTrip signs a clone of req and hands it to the base transport. The
// caller's request is never modified. A request with a body must provide
// GetBody (http.NewRequest sets it for bytes, strings and bytes.Buffer
// readers) so the clone reads its own copy; otherwise RoundTrip fails with
// ErrBodyNotReplayable. As the RoundTripper contract requires, req.Body is
// always closed.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			req.Body.Close()
			return nil, ErrBodyNotReplayable
		}

		body, err := req.GetBody()
		req.Body.Close()

		if err != nil {
			return nil, err
		}

		clone.Body = body
	}

	if err := t.signer.SignRequest(clone); err != nil {
		if clone.Body != nil {
			clone.Body.Close()
		}

		return nil, err
	}

	return t.base.RoundTrip(clone)
}
