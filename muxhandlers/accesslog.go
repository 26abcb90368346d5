package muxhandlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// AccessLogConfig configures the access log middleware.
type AccessLogConfig struct {
	// Logger receives one entry per request. Required; use zerolog.Nop()
	// to discard.
	Logger zerolog.Logger
}

// AccessLogMiddleware returns a middleware that attaches a request-scoped
// logger to the request context and writes an access log entry once the
// downstream handler returns. The scoped logger carries the request ID when
// RequestIDMiddleware runs earlier in the chain; handlers reach it through
// zerolog.Ctx.
func AccessLogMiddleware(cfg AccessLogConfig) mux.MiddlewareFunc {
	base := cfg.Logger

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lc := base.With()
			if id := RequestIDFromContext(r.Context()); id != "" {
				lc = lc.Str("request_id", id)
			}

			log := lc.Logger()
			r = r.WithContext(log.WithContext(r.Context()))

			lw := &accessLogResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lw, r)

			status := lw.status
			if status == 0 {
				status = http.StatusOK
			}

			log.Info().
				Str("method", r.Method).
				Str("uri", r.RequestURI).
				Int("status", status).
				Int("size", lw.size).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// accessLogResponseWriter records the status code and body size.
type accessLogResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lw *accessLogResponseWriter) WriteHeader(statusCode int) {
	if lw.status != 0 {
		return
	}

	lw.status = statusCode
	lw.ResponseWriter.WriteHeader(statusCode)
}

func (lw *accessLogResponseWriter) Write(b []byte) (int, error) {
	if lw.status == 0 {
		lw.WriteHeader(http.StatusOK)
	}

	n, err := lw.ResponseWriter.Write(b)
	lw.size += n

	return n, err
}

// Unwrap returns the underlying ResponseWriter for middleware compatibility.
func (lw *accessLogResponseWriter) Unwrap() http.ResponseWriter {
	return lw.ResponseWriter
}
