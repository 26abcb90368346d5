package muxhandlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Values written by NoCacheMiddleware.
const (
	NoCacheControl = "no-store, no-cache, must-revalidate, max-age=0"
	NoCachePragma  = "no-cache"
	NoCacheExpires = "0"
)

// NoCacheMiddleware returns a middleware that forbids caching of every
// response: Cache-Control, Pragma (for HTTP/1.0 caches) and Expires are
// set on all responses, including rejections produced further down the
// chain. Values set by downstream handlers are overwritten.
func NoCacheMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			setNoCacheHeaders(w.Header())

			next.ServeHTTP(&noCacheResponseWriter{ResponseWriter: w}, r)
		})
	}
}

func setNoCacheHeaders(h http.Header) {
	h.Set("Cache-Control", NoCacheControl)
	h.Set("Pragma", NoCachePragma)
	h.Set("Expires", NoCacheExpires)
}

// noCacheResponseWriter reapplies the headers right before they are
// flushed, so handlers cannot re-enable caching.
type noCacheResponseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (nw *noCacheResponseWriter) WriteHeader(statusCode int) {
	if nw.wroteHeader {
		return
	}

	nw.wroteHeader = true
	setNoCacheHeaders(nw.Header())

	nw.ResponseWriter.WriteHeader(statusCode)
}

func (nw *noCacheResponseWriter) Write(b []byte) (int, error) {
	if !nw.wroteHeader {
		nw.WriteHeader(http.StatusOK)
	}

	return nw.ResponseWriter.Write(b)
}

// Unwrap returns the underlying ResponseWriter for middleware compatibility.
func (nw *noCacheResponseWriter) Unwrap() http.ResponseWriter {
	return nw.ResponseWriter
}
