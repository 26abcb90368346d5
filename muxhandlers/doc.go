// Package muxhandlers provides HTTP middleware for gorilla/mux routers.
//
// # No-Cache Middleware
//
// NoCacheMiddleware marks every response as uncacheable by setting
// Cache-Control, Pragma and Expires. It is applied to signed API routes so
// intermediaries never store or replay authenticated responses.
//
//	r.Use(muxhandlers.NoCacheMiddleware())
//
// # Recovery Middleware
//
// RecoveryMiddleware turns panics in downstream handlers into 500
// responses. Without a LogFunc the panic is logged through the
// request-scoped zerolog logger.
//
//	r.Use(muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{}))
//
// # Request ID Middleware
//
// RequestIDMiddleware generates a UUID v7 per request (or reuses a valid
// incoming UUID when TrustIncoming is set) and exposes it in the
// X-Request-ID header and through RequestIDFromContext.
//
// # Access Log Middleware
//
// AccessLogMiddleware attaches a zerolog logger carrying the request ID to
// the request context and logs method, URI, status, size and duration once
// the handler returns. Place it after RequestIDMiddleware.
//
//	r.Use(
//	    muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}),
//	    muxhandlers.AccessLogMiddleware(muxhandlers.AccessLogConfig{Logger: log}),
//	)
//
// # Request Size Limit Middleware
//
// RequestSizeLimitMiddleware bounds request bodies, rejecting oversized
// declared lengths with 413 and capping streamed bodies with
// http.MaxBytesReader.
//
//	mw, err := muxhandlers.RequestSizeLimitMiddleware(muxhandlers.RequestSizeLimitConfig{
//	    MaxBytes: 1 << 20,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Use(mw)
package muxhandlers
