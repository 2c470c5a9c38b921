package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/vmunix/vaultimg/internal/api/v1"
	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/importer"
	"github.com/vmunix/vaultimg/internal/vault"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAPI(t *testing.T) *v1.Server {
	t.Helper()
	store := vault.New(afero.NewMemMapFs())
	api, err := v1.NewWithDeps(v1.ServerDeps{
		Importer: importer.New(store, nil, testLogger()),
		Config:   &config.Config{Folders: []config.Folder{{Name: "a", Path: "a"}}},
	}, testLogger())
	require.NoError(t, err)
	return api
}

func TestRouter_Health(t *testing.T) {
	h := NewRouter(newTestAPI(t), nil, testLogger())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Content-Type"))
}

func TestRouter_MetricsOptional(t *testing.T) {
	w := httptest.NewRecorder()
	NewRouter(newTestAPI(t), nil, testLogger()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	NewRouter(newTestAPI(t), NewMetrics(), testLogger()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MountsAPI(t *testing.T) {
	h := NewRouter(newTestAPI(t), nil, testLogger())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/folders", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"path":"a"`)
}

func TestStatusRecorder_FirstWriteWins(t *testing.T) {
	w := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: w, status: 200}

	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusTeapot, rec.status)
}
