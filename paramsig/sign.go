package paramsig

import (
	"net/http"
	"net/url"
	"time"
)

// Signer produces signatures that a Verifier built from the same Config
// accepts. It is safe for concurrent use.
type Signer struct {
	s *settings
}

// NewSigner validates cfg and returns a Signer for it.
func NewSigner(cfg Config) (*Signer, error) {
	s, err := compile(cfg)
	if err != nil {
		return nil, err
	}

	return &Signer{s: s}, nil
}

// SignParams sets the timestamp field of params to ts and returns the
// encoded signature over the resulting canonical string. params is
// modified in place; any signature field in it is ignored.
func (sg *Signer) SignParams(params url.Values, ts time.Time) (string, error) {
	s := sg.s

	params.Set(s.tsParam, FormatTimestamp(ts, s.tsFormat))

	canonical, err := Canonicalize(params, s.canonical)
	if err != nil {
		return "", err
	}

	sig, err := Sign(s.alg, s.key, canonical)
	if err != nil {
		return "", err
	}

	return s.encoding.Encode(sig)
}

// SignRequest signs r in place at the current time. Existing signature and
// timestamp fields in the headers and query are replaced. The fields are
// written as headers unless header fields are disabled, in which case they
// are appended to the query string.
//
// Form bodies and the body digest are read and restored, so r can still be
// sent afterwards.
func (sg *Signer) SignRequest(r *http.Request) error {
	return sg.SignRequestAt(r, sg.s.now())
}

// SignRequestAt is SignRequest with an explicit timestamp.
func (sg *Signer) SignRequestAt(r *http.Request, ts time.Time) error {
	s := sg.s

	r.Header.Del(s.sigParam)
	r.Header.Del(s.tsParam)

	query, err := QuerySource{}.Params(r)
	if err != nil {
		return err
	}

	if query.Has(s.sigParam) || query.Has(s.tsParam) {
		query.Del(s.sigParam)
		query.Del(s.tsParam)
		r.URL.RawQuery = query.Encode()
	}

	params, err := s.collect(r)
	if err != nil {
		return err
	}

	sig, err := sg.SignParams(params, ts)
	if err != nil {
		return err
	}

	stamp := params.Get(s.tsParam)

	if s.headerFields {
		r.Header.Set(s.tsParam, stamp)
		r.Header.Set(s.sigParam, sig)

		return nil
	}

	query.Set(s.tsParam, stamp)
	query.Set(s.sigParam, sig)
	r.URL.RawQuery = query.Encode()

	return nil
}
