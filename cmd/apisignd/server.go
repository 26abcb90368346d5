package main

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/vitalvas/apisign/internal/config"
	"github.com/vitalvas/apisign/internal/logger"
	"github.com/vitalvas/apisign/muxhandlers"
	"github.com/vitalvas/apisign/paramsig"
)

type echoResponse struct {
	RequestID string     `json:"request_id,omitempty"`
	Params    url.Values `json:"params"`
}

func newRouter(cfg *config.Config, log *logger.Logger) (*mux.Router, error) {
	verifier, err := paramsig.New(cfg.ParamsigConfig())
	if err != nil {
		return nil, err
	}

	signature, err := paramsig.Middleware(paramsig.MiddlewareConfig{
		Verifier: verifier,
		OnError:  rejectRequest,
	})
	if err != nil {
		return nil, err
	}

	sizeLimit, err := muxhandlers.RequestSizeLimitMiddleware(muxhandlers.RequestSizeLimitConfig{
		MaxBytes: cfg.Server.MaxBodyBytes,
	})
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.Use(
		muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}),
		muxhandlers.AccessLogMiddleware(muxhandlers.AccessLogConfig{Logger: log.Logger}),
		muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{}),
		muxhandlers.NoCacheMiddleware(),
	)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(sizeLimit, signature)
	api.HandleFunc("/echo", handleEcho).Methods(http.MethodGet, http.MethodPost)

	return r, nil
}

// rejectRequest logs the failure kind and writes the standard rejection.
func rejectRequest(w http.ResponseWriter, r *http.Request, err error) {
	result := paramsig.Classify(err)
	log := logger.FromRequest(r)

	if result == paramsig.Internal {
		log.Error().Err(err).Msg("signature verification failed")
	} else {
		log.Warn().
			Str("result", result.String()).
			Str("field", paramsig.FieldOf(err)).
			Msg("request rejected")
	}

	paramsig.WriteError(w, r, err)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func handleEcho(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, echoResponse{
		RequestID: muxhandlers.RequestIDFromContext(r.Context()),
		Params:    paramsig.ParamsFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("writing response")
	}
}
