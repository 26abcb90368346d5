// Package paramsig authenticates HTTP requests by an HMAC signature computed
// over their parameters.
//
// A client collects the request parameters (query string and urlencoded
// form body), adds a timestamp, renders them as a canonical string and signs
// it with a shared secret. The server repeats the computation, compares the
// result in constant time and rejects requests whose timestamp falls outside
// the expiry window.
//
// # Canonical String
//
// Parameter names are sorted by byte value and rendered as
// name=value pairs joined by a delimiter ("&" by default). Names and values
// are query-escaped. The signature field and any excluded names are left
// out; the timestamp is always included; empty values are kept:
//
//	s, err := paramsig.Canonicalize(url.Values{"b": {"2"}, "a": {"1"}}, paramsig.CanonicalOptions{})
//	// s == "a=1&b=2"
//
// A name that occurs more than once is rejected with ErrDuplicateParam
// unless DuplicateFirst or DuplicateLast is configured.
//
// # Verifying Requests
//
// Build one Verifier at startup and share it:
//
//	v, err := paramsig.New(paramsig.Config{
//	    SecretKey:    key,
//	    ExpiryWindow: 5 * time.Minute,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mw, err := paramsig.Middleware(paramsig.MiddlewareConfig{Verifier: v})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	router.Use(mw)
//
// The signature and timestamp are looked up in headers first (apiSig and
// timestamp by default), then in the query string and form body. Checks run
// in a fixed order: missing or malformed fields, then the signature, then
// the expiry window. Classify maps the returned error to a Result.
//
// # Signing Requests
//
// Signer is the client-side counterpart; NewTransport wraps it as an
// http.RoundTripper:
//
//	signer, err := paramsig.NewSigner(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	transport, err := paramsig.NewTransport(nil, signer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client := &http.Client{Transport: transport}
package paramsig
