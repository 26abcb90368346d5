package muxhandlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// LogFunc is an optional callback invoked with the request and the
	// recovered value when a panic occurs. When nil, the panic is logged
	// at error level through the request-scoped zerolog logger, if any.
	LogFunc func(r *http.Request, err any)
}

// RecoveryMiddleware returns a middleware that recovers from panics in
// downstream handlers. When a panic occurs it returns 500 Internal Server
// Error to the client and reports the panic through LogFunc.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	logFunc := cfg.LogFunc
	if logFunc == nil {
		logFunc = logPanic
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logFunc(r, err)

					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func logPanic(r *http.Request, err any) {
	zerolog.Ctx(r.Context()).Error().
		Interface("panic", err).
		Str("method", r.Method).
		Str("uri", r.RequestURI).
		Msg("recovered from panic")
}
