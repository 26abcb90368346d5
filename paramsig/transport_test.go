package paramsig

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestNewTransport(t *testing.T) {
	signer, verifier := newPair(t, testConfig())

	newServer := func(t *testing.T) *httptest.Server {
		t.Helper()

		r := mux.NewRouter()
		r.HandleFunc("/api/echo", func(w http.ResponseWriter, req *http.Request) {
			body, _ := io.ReadAll(req.Body)
			w.Header().Set("X-Params", ParamsFromContext(req.Context()).Encode())
			w.Write(body)
		})

		mw, err := Middleware(MiddlewareConfig{Verifier: verifier})
		require.NoError(t, err)
		r.Use(mw)

		server := httptest.NewServer(r)
		t.Cleanup(server.Close)

		return server
	}

	t.Run("nil signer returns error", func(t *testing.T) {
		_, err := NewTransport(nil, nil)
		assert.ErrorIs(t, err, ErrNoSigner)
	})

	t.Run("nil base clones default transport", func(t *testing.T) {
		transport, err := NewTransport(nil, signer)
		require.NoError(t, err)

		assert.NotNil(t, transport.base)
		assert.NotSame(t, http.DefaultTransport, transport.base)
	})

	t.Run("custom base is used", func(t *testing.T) {
		base := &http.Transport{IdleConnTimeout: 42 * time.Second}

		transport, err := NewTransport(base, signer)
		require.NoError(t, err)
		assert.Same(t, base, transport.base)
	})

	t.Run("signs requests automatically", func(t *testing.T) {
		server := newServer(t)

		transport, err := NewTransport(nil, signer)
		require.NoError(t, err)

		client := &http.Client{Transport: transport}

		resp, err := client.Get(server.URL + "/api/echo?item=42")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "item=42&timestamp=1700000000", resp.Header.Get("X-Params"))
	})

	t.Run("unsigned client is rejected", func(t *testing.T) {
		server := newServer(t)

		resp, err := http.Get(server.URL + "/api/echo?item=42")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("form body reaches the handler", func(t *testing.T) {
		server := newServer(t)

		transport, err := NewTransport(nil, signer)
		require.NoError(t, err)

		client := &http.Client{Transport: transport}

		resp, err := client.Post(server.URL+"/api/echo", "application/x-www-form-urlencoded", strings.NewReader("name=alice"))
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "name=alice", string(body))
		assert.Equal(t, "name=alice&timestamp=1700000000", resp.Header.Get("X-Params"))
	})

	t.Run("does not mutate original request", func(t *testing.T) {
		server := newServer(t)

		transport, err := NewTransport(nil, signer)
		require.NoError(t, err)

		client := &http.Client{Transport: transport}

		req, err := http.NewRequest(http.MethodPost, server.URL+"/api/echo", strings.NewReader("a=1"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, req.Header.Get(DefaultSignatureParam))
		assert.Empty(t, req.Header.Get(DefaultTimestampParam))
	})

	t.Run("body without GetBody is refused", func(t *testing.T) {
		transport, err := NewTransport(nil, signer)
		require.NoError(t, err)

		body := &trackingBody{Reader: strings.NewReader("a=1")}
		req, err := http.NewRequest(http.MethodPost, "http://localhost/api/echo", body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		require.Nil(t, req.GetBody)

		_, err = transport.RoundTrip(req)
		assert.ErrorIs(t, err, ErrBodyNotReplayable)
		assert.True(t, body.closed)
		assert.Empty(t, req.Header.Get(DefaultSignatureParam))
	})

	t.Run("caller body stays readable through GetBody", func(t *testing.T) {
		server := newServer(t)

		transport, err := NewTransport(nil, signer)
		require.NoError(t, err)

		req, err := http.NewRequest(http.MethodPost, server.URL+"/api/echo", strings.NewReader("a=1"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := transport.RoundTrip(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		replay, err := req.GetBody()
		require.NoError(t, err)

		body, err := io.ReadAll(replay)
		require.NoError(t, err)
		assert.Equal(t, "a=1", string(body))
	})

	t.Run("signing failure is returned", func(t *testing.T) {
		transport, err := NewTransport(nil, signer)
		require.NoError(t, err)

		client := &http.Client{Transport: transport}

		_, err = client.Get("http://localhost/api?a=1&a=2")
		assert.ErrorIs(t, err, ErrDuplicateParam)
	})
}
