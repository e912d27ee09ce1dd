package specfetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpec = `{
  "swagger": "2.0",
  "info": {"title": "Hyblock Capital API", "version": "1.0"},
  "paths": {
    "/catalog": {"get": {}},
    "/liquidationLevels": {"get": {}}
  }
}`

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(sampleSpec))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "specs", "swagger.json")
	doc, err := New(server.Client()).Fetch(context.Background(), server.URL, dest)
	require.NoError(t, err)

	assert.Equal(t, "2.0", doc.Version)
	assert.Equal(t, "Hyblock Capital API", doc.Title)
	assert.Equal(t, 2, doc.Paths)
	assert.Equal(t, dest, doc.Path)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, sampleSpec, string(data))
}

func TestFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "swagger.json")
	_, err := New(nil).Fetch(context.Background(), server.URL, dest)

	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.NoFileExists(t, dest)
}

func TestFetchInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "swagger.json")
	_, err := New(nil).Fetch(context.Background(), server.URL, dest)
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.NoFileExists(t, dest)
}

func TestFetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(nil).Fetch(context.Background(), url, filepath.Join(t.TempDir(), "x.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing request")
}

func TestInspectOpenAPI3(t *testing.T) {
	doc, err := Inspect([]byte(`{"openapi":"3.0.1","info":{"title":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, "3.0.1", doc.Version)
	assert.Zero(t, doc.Paths)
}
