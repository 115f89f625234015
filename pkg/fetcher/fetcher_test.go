package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDocsServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_Defaults(t *testing.T) {
	f := New(Config{}, nil)

	assert.Equal(t, DefaultURL, f.URL())
	assert.Equal(t, DefaultTimeout, f.timeout)
	assert.Equal(t, http.DefaultClient, f.client)
}

func TestFetch_Success(t *testing.T) {
	srv := newDocsServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v3/api-docs/all", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"openapi":"3.0.1","paths":{"/ping":{"get":{"summary":"ping"}}}}`))
	})

	f := New(Config{URL: srv.URL + "/v3/api-docs/all", Timeout: time.Second}, zap.NewNop())
	doc, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "3.0.1", doc.OpenAPI)
	assert.Equal(t, 1, doc.CountOperations())
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := newDocsServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	f := New(Config{URL: srv.URL}, nil)
	_, err := f.Fetch(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
	assert.Equal(t, srv.URL, fetchErr.URL)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "500")
}

func TestFetch_Timeout(t *testing.T) {
	srv := newDocsServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	f := New(Config{URL: srv.URL, Timeout: 20 * time.Millisecond}, nil)
	_, err := f.Fetch(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := New(Config{URL: url, Timeout: time.Second}, nil)
	_, err := f.Fetch(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestFetch_InvalidBody(t *testing.T) {
	srv := newDocsServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	f := New(Config{URL: srv.URL}, nil)
	_, err := f.Fetch(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusOK, fetchErr.StatusCode)
}

func TestFetchRaw_ReturnsBody(t *testing.T) {
	body := `{"swagger":"2.0"}`
	srv := newDocsServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(body))
	})

	data, err := New(Config{URL: srv.URL}, nil).FetchRaw(context.Background())
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}
