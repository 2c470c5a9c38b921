// internal/api/v1/api_test.go
package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/vaultimg/internal/api/v1/mocks"
	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/events"
	"github.com/vmunix/vaultimg/internal/fetch"
	"github.com/vmunix/vaultimg/internal/importer"
	"github.com/vmunix/vaultimg/internal/migrations"
	"github.com/vmunix/vaultimg/internal/vault"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Vault: config.VaultConfig{Root: "/vault"},
		Defaults: config.DefaultsConfig{
			Extension:      "jpg",
			ImportBehavior: "copy",
			Conflict:       "postfix",
			FolderMode:     "manual",
		},
		Folders: []config.Folder{
			{Name: "attachments", Path: "attachments"},
			{Name: "photos", Path: "photos", CreateNote: true, NoteTemplate: "{{imagename}} notes"},
		},
		Import: config.ImportConfig{Concurrency: 2},
	}
}

func newTestRouter(t *testing.T, deps ServerDeps) http.Handler {
	t.Helper()
	srv, err := NewWithDeps(deps, testLogger())
	require.NoError(t, err)
	r := chi.NewRouter()
	srv.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServerDeps_Validate(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, err := NewWithDeps(ServerDeps{Config: testConfig()}, nil)
	assert.ErrorIs(t, err, ErrMissingDependency)

	_, err = NewWithDeps(ServerDeps{Importer: mocks.NewMockImageImporter(ctrl)}, nil)
	assert.ErrorIs(t, err, ErrMissingDependency)

	_, err = NewWithDeps(ServerDeps{Importer: mocks.NewMockImageImporter(ctrl), Config: testConfig()}, nil)
	assert.NoError(t, err)
}

func TestCreateImport_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	imp := mocks.NewMockImageImporter(ctrl)

	imp.EXPECT().
		Import(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s importer.Settings, req importer.Request) *importer.Outcome {
			assert.Len(t, s.Folders, 2)
			assert.Equal(t, importer.RemoteURL{URL: "https://example.com/cat.png"}, req.Source)
			assert.Equal(t, "cat", req.BaseName)
			assert.Equal(t, importer.ExtPNG, req.Extension)
			assert.Equal(t, "photos", req.DestFolder)
			assert.True(t, req.CreateNote, "photos folder creates notes")
			return &importer.Outcome{
				ID:         "abc",
				Status:     importer.StatusSucceeded,
				SourceKind: importer.KindRemoteURL,
				Path:       "photos/cat.png",
				SizeBytes:  42,
				NotePath:   "photos/cat notes.md",
			}
		})

	h := newTestRouter(t, ServerDeps{Importer: imp, Config: testConfig()})
	w := doJSON(t, h, http.MethodPost, "/api/v1/imports", map[string]any{
		"url":    "https://example.com/cat.png",
		"folder": "photos",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp importResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "succeeded", resp.Status)
	assert.Equal(t, "photos/cat.png", resp.Path)
	assert.Equal(t, "photos/cat notes.md", resp.NotePath)
	assert.Equal(t, "Image Import Succeeded: cat.png", resp.Message)
	assert.Empty(t, resp.Code)
}

func TestCreateImport_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		outcome  *importer.Outcome
		wantCode int
		wantErr  string
	}{
		{"canceled", &importer.Outcome{Status: importer.StatusCanceled, FileName: "a.jpg"}, http.StatusConflict, "CANCELED"},
		{"invalid", &importer.Outcome{Status: importer.StatusFailed, Err: importer.ErrInvalidRequest}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"network", &importer.Outcome{Status: importer.StatusFailed, Err: importer.ErrNetwork}, http.StatusBadGateway, "NETWORK_ERROR"},
		{"storage", &importer.Outcome{Status: importer.StatusFailed, Err: importer.ErrStorage}, http.StatusInternalServerError, "STORAGE_ERROR"},
		{"exhausted", &importer.Outcome{Status: importer.StatusFailed, Err: importer.ErrExhausted}, http.StatusConflict, "NAME_EXHAUSTED"},
		{"unknown", &importer.Outcome{Status: importer.StatusFailed, Err: errors.New("boom")}, http.StatusInternalServerError, "IMPORT_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			imp := mocks.NewMockImageImporter(ctrl)
			imp.EXPECT().Import(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.outcome)

			h := newTestRouter(t, ServerDeps{Importer: imp, Config: testConfig()})
			w := doJSON(t, h, http.MethodPost, "/api/v1/imports", map[string]any{
				"url":    "https://example.com/a.jpg",
				"folder": "attachments",
			})

			assert.Equal(t, tt.wantCode, w.Code)
			var resp importResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantErr, resp.Code)
		})
	}
}

func TestCreateImport_BadInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	imp := mocks.NewMockImageImporter(ctrl) // no calls expected
	h := newTestRouter(t, ServerDeps{Importer: imp, Config: testConfig()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_BODY")

	w = doJSON(t, h, http.MethodPost, "/api/v1/imports", map[string]any{
		"url":      "https://example.com/a.jpg",
		"data_uri": "data:image/png;base64,AA==",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "more than one image source")
}

func TestCreateImport_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	imp := mocks.NewMockImageImporter(ctrl)
	imp.EXPECT().
		Import(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ importer.Settings, req importer.Request) *importer.Outcome {
			drop, ok := req.Source.(importer.ExternalDrop)
			require.True(t, ok, "upload becomes an external drop")
			assert.Empty(t, drop.Path)
			assert.Equal(t, pngBytes, drop.Data)
			assert.Equal(t, "holiday", req.BaseName)
			assert.Equal(t, importer.ExtPNG, req.Extension, "sniffed from content")
			assert.False(t, req.CreateNote)
			return &importer.Outcome{Status: importer.StatusSucceeded, Path: "attachments/holiday.png"}
		})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "holiday.jpg")
	require.NoError(t, err)
	_, err = fw.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("folder", "attachments"))
	require.NoError(t, mw.WriteField("create_note", "false"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newTestRouter(t, ServerDeps{Importer: imp, Config: testConfig()}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	imp := mocks.NewMockImageImporter(ctrl)
	imp.EXPECT().
		ImportAll(gomock.Any(), gomock.Any(), gomock.Len(2), 3).
		DoAndReturn(func(_ context.Context, _ importer.Settings, reqs []importer.Request, _ int) []*importer.Outcome {
			assert.Equal(t, "a", reqs[0].BaseName)
			assert.Equal(t, "c", reqs[1].BaseName)
			return []*importer.Outcome{
				{Status: importer.StatusSucceeded, Path: "attachments/a.jpg"},
				{Status: importer.StatusCanceled, FileName: "c.jpg"},
			}
		})

	h := newTestRouter(t, ServerDeps{Importer: imp, Config: testConfig()})
	w := doJSON(t, h, http.MethodPost, "/api/v1/imports/batch", map[string]any{
		"concurrency": 3,
		"items": []map[string]any{
			{"url": "https://example.com/a.jpg", "folder": "attachments"},
			{"folder": "attachments"},
			{"url": "https://example.com/c.jpg", "folder": "attachments"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp batchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "succeeded", resp.Items[0].Status)
	assert.Equal(t, "failed", resp.Items[1].Status)
	assert.Equal(t, "INVALID_REQUEST", resp.Items[1].Code)
	assert.Equal(t, "canceled", resp.Items[2].Status)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Canceled)
	assert.Equal(t, 1, resp.Failed)
}

func TestCreateBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newTestRouter(t, ServerDeps{Importer: mocks.NewMockImageImporter(ctrl), Config: testConfig()})

	w := doJSON(t, h, http.MethodPost, "/api/v1/imports/batch", map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateImport_ChecksRemoteImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	imp := mocks.NewMockImageImporter(ctrl)
	prober := mocks.NewMockProber(ctrl)

	prober.EXPECT().
		Probe(gomock.Any(), "https://example.com/render").
		Return(&fetch.ProbeResult{ContentType: "image/png", Extension: "png"}, nil)
	imp.EXPECT().
		Import(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ importer.Settings, req importer.Request) *importer.Outcome {
			assert.Equal(t, importer.ExtPNG, req.Extension, "detected type fills the extension")
			return &importer.Outcome{Status: importer.StatusSucceeded, Path: "attachments/render.png"}
		})

	h := newTestRouter(t, ServerDeps{Importer: imp, Config: testConfig(), Prober: prober})
	w := doJSON(t, h, http.MethodPost, "/api/v1/imports", map[string]any{
		"url":    "https://example.com/render",
		"name":   "render",
		"folder": "attachments",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateImport_RemoteNotImage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"not image", fetch.ErrNotImage, http.StatusBadRequest, "NOT_IMAGE"},
		{"upstream status", &fetch.StatusError{URL: "https://example.com/a.jpg", Code: 404}, http.StatusBadGateway, "UPSTREAM_STATUS"},
		{"network", errors.New("dial tcp: refused"), http.StatusBadGateway, "NETWORK_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			imp := mocks.NewMockImageImporter(ctrl) // never reached
			prober := mocks.NewMockProber(ctrl)
			prober.EXPECT().Probe(gomock.Any(), "https://example.com/a.jpg").Return(&fetch.ProbeResult{}, tt.err)

			h := newTestRouter(t, ServerDeps{Importer: imp, Config: testConfig(), Prober: prober})
			w := doJSON(t, h, http.MethodPost, "/api/v1/imports", map[string]any{
				"url":    "https://example.com/a.jpg",
				"folder": "attachments",
			})

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantErr)
		})
	}
}

func TestCreateImport_ExplicitExtensionWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	imp := mocks.NewMockImageImporter(ctrl)
	prober := mocks.NewMockProber(ctrl)

	prober.EXPECT().
		Probe(gomock.Any(), gomock.Any()).
		Return(&fetch.ProbeResult{ContentType: "image/png", Extension: "png"}, nil)
	imp.EXPECT().
		Import(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ importer.Settings, req importer.Request) *importer.Outcome {
			assert.Equal(t, importer.ExtJPG, req.Extension)
			return &importer.Outcome{Status: importer.StatusSucceeded, Path: "attachments/a.jpg"}
		})

	h := newTestRouter(t, ServerDeps{Importer: imp, Config: testConfig(), Prober: prober})
	w := doJSON(t, h, http.MethodPost, "/api/v1/imports", map[string]any{
		"url":       "https://example.com/a",
		"extension": "jpg",
		"folder":    "attachments",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateBatch_ChecksRemoteImages(t *testing.T) {
	ctrl := gomock.NewController(t)
	imp := mocks.NewMockImageImporter(ctrl)
	prober := mocks.NewMockProber(ctrl)

	prober.EXPECT().
		Probe(gomock.Any(), "https://example.com/a").
		Return(&fetch.ProbeResult{ContentType: "image/png", Extension: "png"}, nil)
	prober.EXPECT().
		Probe(gomock.Any(), "https://example.com/page.html").
		Return(&fetch.ProbeResult{}, fetch.ErrNotImage)
	imp.EXPECT().
		ImportAll(gomock.Any(), gomock.Any(), gomock.Len(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ importer.Settings, reqs []importer.Request, _ int) []*importer.Outcome {
			assert.Equal(t, importer.ExtPNG, reqs[0].Extension)
			return []*importer.Outcome{{Status: importer.StatusSucceeded, Path: "attachments/a.png"}}
		})

	h := newTestRouter(t, ServerDeps{Importer: imp, Config: testConfig(), Prober: prober})
	w := doJSON(t, h, http.MethodPost, "/api/v1/imports/batch", map[string]any{
		"items": []map[string]any{
			{"url": "https://example.com/a", "folder": "attachments"},
			{"url": "https://example.com/page.html", "folder": "attachments"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp batchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "succeeded", resp.Items[0].Status)
	assert.Equal(t, "failed", resp.Items[1].Status)
	assert.Equal(t, "NOT_IMAGE", resp.Items[1].Code)
	assert.Equal(t, "https://example.com/page.html", resp.Items[1].Source)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
}

func TestListFolders(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockFolderLister(ctrl)
	lister.EXPECT().Folders().Return([]string{"attachments", "daily"}, nil)

	h := newTestRouter(t, ServerDeps{Importer: mocks.NewMockImageImporter(ctrl), Config: testConfig(), Vault: lister})

	w := doJSON(t, h, http.MethodGet, "/api/v1/folders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var configured listFoldersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &configured))
	require.Len(t, configured.Items, 2)
	assert.Equal(t, "photos", configured.Items[1].Path)
	assert.True(t, configured.Items[1].CreateNote)

	w = doJSON(t, h, http.MethodGet, "/api/v1/folders?source=vault", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inVault listVaultFoldersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inVault))
	assert.Equal(t, []string{"attachments", "daily"}, inVault.Items)
}

func TestOptionalDependencies_Unavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newTestRouter(t, ServerDeps{Importer: mocks.NewMockImageImporter(ctrl), Config: testConfig()})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/history"},
		{http.MethodGet, "/api/v1/events"},
		{http.MethodGet, "/api/v1/imports/abc/events"},
		{http.MethodPost, "/api/v1/probe"},
		{http.MethodGet, "/api/v1/folders?source=vault"},
	} {
		w := doJSON(t, h, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, tc.path)
		assert.Contains(t, w.Body.String(), "SERVICE_UNAVAILABLE", tc.path)
	}
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name     string
		result   *fetch.ProbeResult
		err      error
		wantCode int
	}{
		{"image", &fetch.ProbeResult{ContentType: "image/png", Extension: "png"}, nil, http.StatusOK},
		{"not image", nil, fetch.ErrNotImage, http.StatusUnprocessableEntity},
		{"upstream 404", nil, &fetch.StatusError{URL: "https://example.com/a", Code: 404}, http.StatusBadGateway},
		{"network", nil, errors.New("dial tcp: refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			prober := mocks.NewMockProber(ctrl)
			prober.EXPECT().Probe(gomock.Any(), "https://example.com/a").Return(tt.result, tt.err)

			h := newTestRouter(t, ServerDeps{Importer: mocks.NewMockImageImporter(ctrl), Config: testConfig(), Prober: prober})
			w := doJSON(t, h, http.MethodPost, "/api/v1/probe", probeRequest{URL: "https://example.com/a"})
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestProbe_InvalidURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newTestRouter(t, ServerDeps{
		Importer: mocks.NewMockImageImporter(ctrl),
		Config:   testConfig(),
		Prober:   mocks.NewMockProber(ctrl),
	})

	for _, u := range []string{"", "ftp://example.com/a.png", "/relative.png"} {
		w := doJSON(t, h, http.MethodPost, "/api/v1/probe", probeRequest{URL: u})
		assert.Equal(t, http.StatusBadRequest, w.Code, u)
	}
}

func TestGetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newTestRouter(t, ServerDeps{Importer: mocks.NewMockImageImporter(ctrl), Config: testConfig()})

	w := doJSON(t, h, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp statusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/vault", resp.VaultRoot)
	assert.Equal(t, 2, resp.Folders)
}

// TestImportFlow drives a real importer against an in-memory vault and
// reads the result back through history and events.
func TestImportFlow(t *testing.T) {
	db, err := migrations.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes)
	}))
	t.Cleanup(upstream.Close)

	store := vault.New(afero.NewMemMapFs())
	require.NoError(t, store.CreateBinary("photos/cat.png", []byte("old")))

	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, testLogger())
	t.Cleanup(func() { _ = bus.Close() })

	history := importer.NewHistoryStore(db)
	imp := importer.New(store, fetch.NewClient(), testLogger())
	imp.SetHistory(history)
	imp.SetPublisher(bus)

	h := newTestRouter(t, ServerDeps{
		Importer: imp,
		Config:   testConfig(),
		History:  history,
		EventLog: eventLog,
		Vault:    store,
	})

	w := doJSON(t, h, http.MethodPost, "/api/v1/imports", map[string]any{
		"url":    upstream.URL + "/cat.png",
		"folder": "photos",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created importResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "photos/cat (1).png", created.Path, "postfixed next to the existing image")
	assert.Equal(t, "photos/cat notes.md", created.NotePath)
	assert.True(t, store.Exists("photos/cat notes.md"))

	w = doJSON(t, h, http.MethodGet, "/api/v1/history?status=succeeded", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hist listHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
	require.Len(t, hist.Items, 1)
	assert.Equal(t, created.ID, hist.Items[0].ID)
	assert.Equal(t, "photos/cat (1).png", hist.Items[0].DestPath)

	w = doJSON(t, h, http.MethodGet, "/api/v1/history?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/imports/"+created.ID+"/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var evs listEventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &evs))
	require.Len(t, evs.Items, 2)
	assert.Equal(t, events.EventImportStarted, evs.Items[0].EventType)
	assert.Equal(t, events.EventImportCompleted, evs.Items[1].EventType)

	w = doJSON(t, h, http.MethodGet, "/api/v1/imports/missing/events", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/events?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &evs))
	require.Len(t, evs.Items, 1)
	assert.Equal(t, events.EventImportCompleted, evs.Items[0].EventType)

	w = doJSON(t, h, http.MethodGet, "/api/v1/events?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
