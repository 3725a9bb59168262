package restclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, retries int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Options{
		BaseURL:  srv.URL + "/",
		Username: "user",
		Password: "secret",
		Retries:  retries,
		Headers:  map[string]string{"X-Test": "1"},
		Query:    url.Values{"format": {"json"}},
	})
	c.SetRetryWait(time.Millisecond, 2*time.Millisecond)
	return c
}

func TestClient_GetJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "1", r.Header.Get("X-Test"))
		assert.Equal(t, "/api/items", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "owned", r.URL.Query().Get("type"))
		_, _ = w.Write([]byte(`{"name":"x"}`))
	}, 0)

	var out struct {
		Name string `json:"name"`
	}
	err := c.GetJSON(context.Background(), "/api/items", url.Values{"type": {"owned"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "x", out.Name)
}

func TestClient_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}, 0)

	err := c.GetJSON(context.Background(), "x", nil, &struct{}{})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "missing", string(statusErr.Body))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}, 3)

	require.NoError(t, c.GetJSON(context.Background(), "x", nil, &struct{}{}))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, 2)

	err := c.GetJSON(context.Background(), "x", nil, &struct{}{})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"not a number"}`))
	}, 0)

	var out struct {
		ID int `json:"id"`
	}
	err := c.GetJSON(context.Background(), "x", nil, &out)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, http.StatusOK, decodeErr.StatusCode)
	assert.Contains(t, string(decodeErr.Body), "not a number")
	assert.Contains(t, err.Error(), "failed to parse API response")
}

func TestClient_PostJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["content"])
		_, _ = w.Write([]byte(`{"id":5}`))
	}, 0)

	var out struct {
		ID int `json:"id"`
	}
	require.NoError(t, c.PostJSON(context.Background(), "pages/5", map[string]string{"content": "hello"}, &out))
	assert.Equal(t, 5, out.ID)
}

func TestClient_URL(t *testing.T) {
	c := New(Options{BaseURL: "https://cloud.example.org/"})
	assert.Equal(t, "https://cloud.example.org/a/b", c.URL("/a/b", nil))
	assert.Equal(t, "https://cloud.example.org/a?x=1", c.URL("a", url.Values{"x": {"1"}}))
}
