package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestForwarder_RoundTripFidelity(t *testing.T) {
	type seen struct {
		method string
		path   string
		query  string
		host   string
		xff    string
		proto  string
		xTest  string
	}
	var got seen

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = seen{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			host:   r.Host,
			xff:    r.Header.Get("X-Forwarded-For"),
			proto:  r.Header.Get("X-Forwarded-Proto"),
			xTest:  r.Header.Get("X-Test"),
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Test", r.Header.Get("X-Test"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	}))
	defer backend.Close()

	f := NewForwarder(mustParse(t, backend.URL), 5*time.Second, ClientIP(false), nil)

	r := httptest.NewRequest(http.MethodPost, "http://gateway.local/orders?x=1&y=2", strings.NewReader(`{"a":1}`))
	r.RemoteAddr = "10.1.2.3:5555"
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Test", "abc")
	w := httptest.NewRecorder()

	f.ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"a":1}`, w.Body.String())
	assert.Equal(t, "abc", w.Header().Get("X-Test"), "custom header must round-trip unchanged")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/orders", got.path)
	assert.Equal(t, "x=1&y=2", got.query)
	assert.Equal(t, "abc", got.xTest)
	assert.Equal(t, "10.1.2.3", got.xff)
	assert.Equal(t, "http", got.proto)
	assert.NotEqual(t, "gateway.local", got.host, "the gateway's own host must not leak to the backend")
}

func TestForwarder_BackendDownReturns503(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := mustParse(t, backend.URL)
	backend.Close() // connection refused a partir daqui

	f := NewForwarder(base, time.Second, ClientIP(false), nil)

	r := httptest.NewRequest(http.MethodGet, "http://gateway.local/", nil)
	w := httptest.NewRecorder()
	f.ServeHTTP(w, r)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Backend service unavailable", body.Detail)
}

func TestForwarder_SlowBackendReturns504(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	f := NewForwarder(mustParse(t, backend.URL), 50*time.Millisecond, ClientIP(false), nil)

	r := httptest.NewRequest(http.MethodGet, "http://gateway.local/slow", nil)
	w := httptest.NewRecorder()
	f.ServeHTTP(w, r)

	require.Equal(t, http.StatusGatewayTimeout, w.Code)
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Gateway timeout", body.Detail)
}

func TestForwarder_StatusCodePassesThrough(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer backend.Close()

	f := NewForwarder(mustParse(t, backend.URL), time.Second, ClientIP(false), nil)

	r := httptest.NewRequest(http.MethodGet, "http://gateway.local/tea", nil)
	w := httptest.NewRecorder()
	f.ServeHTTP(w, r)

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestForwarder_DefaultsContentTypeWhenBackendOmitsIt(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// suprime o sniffing do net/http para a resposta sair sem Content-Type
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("raw"))
	}))
	defer backend.Close()

	f := NewForwarder(mustParse(t, backend.URL), time.Second, ClientIP(false), nil)

	r := httptest.NewRequest(http.MethodGet, "http://gateway.local/raw", nil)
	w := httptest.NewRecorder()
	f.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "raw", w.Body.String())
}

func TestForwarder_PreservesBackendBasePath(t *testing.T) {
	var gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	f := NewForwarder(mustParse(t, backend.URL+"/api/"), time.Second, ClientIP(false), nil)

	r := httptest.NewRequest(http.MethodGet, "http://gateway.local/users", nil)
	w := httptest.NewRecorder()
	f.ServeHTTP(w, r)

	assert.Equal(t, "/api/users", gotPath)
}
