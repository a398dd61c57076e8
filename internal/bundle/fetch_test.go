package bundle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loader.js")
	require.NoError(t, os.WriteFile(path, []byte("boot();"), 0o644))

	f := NewFetcher()
	data, err := f.Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "boot();", string(data))
}

func TestFetchLocalMissingIsFatal(t *testing.T) {
	f := NewFetcher()
	_, err := f.Fetch(context.Background(), "file:///does/not/exist.js")
	require.ErrorIs(t, err, ErrBootstrapFetch)
}

func TestFetchNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("boot();"))
	}))
	defer srv.Close()

	f := NewFetcher()
	data, err := f.Fetch(context.Background(), srv.URL+"/loader.js")
	require.NoError(t, err)
	assert.Equal(t, "boot();", string(data))
}

func TestFetchNonSuccessStatusIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher()
	_, err := f.Fetch(context.Background(), srv.URL+"/loader.js")
	require.ErrorIs(t, err, ErrBootstrapFetch)
}
