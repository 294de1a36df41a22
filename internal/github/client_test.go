package github

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURLs(srv.URL, srv.URL))
}

func TestListTree(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/ehylla93/had2-cmp/git/trees/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"sha": "abc123",
			"truncated": false,
			"tree": [
				{"path": "level.dta", "type": "blob", "sha": "h1", "size": 10},
				{"path": "town", "type": "tree", "sha": "t1"},
				{"path": "town/street.dta", "type": "blob", "sha": "h2", "size": 20}
			]
		}`))
	})

	c := newTestClient(t, mux)
	entries, err := c.ListTree(context.Background(), "ehylla93/had2-cmp", "main", "Maps")
	require.NoError(t, err)

	require.Len(t, entries, 2, "tree entries must be filtered out")
	assert.Equal(t, "Maps/level.dta", entries[0].Path)
	assert.Equal(t, "h1", entries[0].Hash)
	assert.Equal(t, int64(10), entries[0].Size)
	assert.Equal(t, "Maps/town/street.dta", entries[1].Path)
}

func TestListTree_NotFound(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	_, err := c.ListTree(context.Background(), "ehylla93/had2-cmp", "main", "Nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestListTree_Truncated(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sha": "abc", "truncated": true, "tree": []}`))
	}))

	_, err := c.ListTree(context.Background(), "o/r", "main", "Maps")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestListTree_ServerError(t *testing.T) {
	var calls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.ListTree(context.Background(), "o/r", "main", "Maps")
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
}

func TestListTree_RateLimitRetry(t *testing.T) {
	var calls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"sha": "abc", "tree": [{"path": "a", "type": "blob", "sha": "h1", "size": 1}]}`))
	}))

	entries, err := c.ListTree(context.Background(), "o/r", "main", "Maps")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 2, calls, "expected one retry after rate limit")
}

func TestFetchFile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ehylla93/had2-cmp/main/Maps/level.dta", r.URL.Path)
		_, _ = w.Write([]byte("map bytes"))
	}))

	var buf bytes.Buffer
	err := c.FetchFile(context.Background(), "ehylla93/had2-cmp", "main", "Maps/level.dta", &buf)
	require.NoError(t, err)
	assert.Equal(t, "map bytes", buf.String())
}

func TestFetchFile_NotFound(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	var buf bytes.Buffer
	err := c.FetchFile(context.Background(), "o/r", "main", "Maps/missing.dta", &buf)
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestFetchVersion(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ehylla93/had2-cmp/main/README.md", r.URL.Path)
		_, _ = w.Write([]byte("# Coop Map Package\n\nCurrent release: v1.4.2\n"))
	}))

	got, err := c.FetchVersion(context.Background(), "ehylla93/had2-cmp", "main")
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", got)
}

func TestFetchVersion_NoMarker(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("no semantic marker here"))
	}))

	_, err := c.FetchVersion(context.Background(), "o/r", "main")
	require.Error(t, err)
}
