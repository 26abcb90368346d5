package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/apisign/internal/config"
	"github.com/vitalvas/apisign/internal/logger"
	"github.com/vitalvas/apisign/muxhandlers"
	"github.com/vitalvas/apisign/paramsig"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Signing.SecretKey = "0123456789abcdef0123456789abcdef"

	return cfg
}

func TestNewRouter(t *testing.T) {
	cfg := testConfig()

	var logs bytes.Buffer
	router, err := newRouter(cfg, logger.New(&logs, "test"))
	require.NoError(t, err)

	signer, err := paramsig.NewSigner(cfg.ParamsigConfig())
	require.NoError(t, err)

	assertNoCache := func(t *testing.T, w *httptest.ResponseRecorder) {
		t.Helper()

		assert.Equal(t, muxhandlers.NoCacheControl, w.Header().Get("Cache-Control"))
		assert.Equal(t, muxhandlers.NoCachePragma, w.Header().Get("Pragma"))
		assert.Equal(t, muxhandlers.NoCacheExpires, w.Header().Get("Expires"))
	}

	t.Run("health is unsigned", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get(muxhandlers.DefaultRequestIDHeader))
		assertNoCache(t, w)
	})

	t.Run("signed echo", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/echo?page=1", strings.NewReader("name=alice"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		require.NoError(t, signer.SignRequest(req))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assertNoCache(t, w)

		var resp echoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "alice", resp.Params.Get("name"))
		assert.Equal(t, "1", resp.Params.Get("page"))
		assert.NotEmpty(t, resp.Params.Get(paramsig.DefaultTimestampParam))
		assert.False(t, resp.Params.Has(paramsig.DefaultSignatureParam))
		assert.Equal(t, w.Header().Get(muxhandlers.DefaultRequestIDHeader), resp.RequestID)
	})

	t.Run("unsigned echo is rejected and logged", func(t *testing.T) {
		logs.Reset()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/echo?page=1", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assertNoCache(t, w)

		var resp paramsig.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "missing_field", resp.Error)
		assert.Equal(t, paramsig.DefaultSignatureParam, resp.Field)

		assert.Contains(t, logs.String(), `"message":"request rejected"`)
		assert.Contains(t, logs.String(), `"result":"missing_field"`)
		assert.Contains(t, logs.String(), `"status":401`)
	})

	t.Run("tampered echo is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/echo?page=1", nil)
		require.NoError(t, signer.SignRequest(req))
		req.URL.RawQuery = "page=2"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, logs.String(), req.Header.Get(paramsig.DefaultSignatureParam))
	})

	t.Run("signed json body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/echo?a=1", strings.NewReader(`{"amount":1}`))
		req.Header.Set("Content-Type", "application/json")
		require.NoError(t, signer.SignRequest(req))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp echoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Params.Get(config.DefaultBodyDigestParam), 64)
	})

	t.Run("tampered json body is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/echo?a=1", strings.NewReader(`{"amount":1}`))
		req.Header.Set("Content-Type", "application/json")
		require.NoError(t, signer.SignRequest(req))

		tampered := httptest.NewRequest(http.MethodPost, "/api/echo?a=1", strings.NewReader(`{"amount":999999}`))
		tampered.Header = req.Header.Clone()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, tampered)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp paramsig.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid_signature", resp.Error)
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		small := testConfig()
		small.Server.MaxBodyBytes = 16

		r, err := newRouter(small, logger.Nop())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader(strings.Repeat("a", 64)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("invalid signing config", func(t *testing.T) {
		bad := testConfig()
		bad.Signing.SecretKey = ""

		_, err := newRouter(bad, logger.Nop())
		assert.ErrorIs(t, err, paramsig.ErrNoSecretKey)
	})
}
