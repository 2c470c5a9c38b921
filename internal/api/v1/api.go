// Package v1 implements the native REST API.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/vaultimg/internal/fetch"
	"github.com/vmunix/vaultimg/internal/importer"
)

const (
	// maxUploadBytes bounds multipart uploads and JSON bodies carrying data URIs.
	maxUploadBytes = 64 << 20
	maxBatchItems  = 100
)

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	log  *slog.Logger
	now  func() time.Time
}

// NewWithDeps creates a new v1 API server with explicit dependencies.
func NewWithDeps(deps ServerDeps, log *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDependency, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{deps: deps, log: log, now: time.Now}, nil
}

// RegisterRoutes registers API routes on r under /api/v1.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(limitBody(maxUploadBytes))

		// Imports
		api.Post("/imports", s.createImport)
		api.Post("/imports/batch", s.createBatch)
		api.Get("/imports/{id}/events", s.requireEventLog(s.listImportEvents))

		// Folders
		api.Get("/folders", s.listFolders)

		// History & events
		api.Get("/history", s.requireHistory(s.listHistory))
		api.Get("/events", s.requireEventLog(s.listEvents))

		// Remote URLs
		api.Post("/probe", s.requireProber(s.probe))

		api.Get("/status", s.getStatus)
	})
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// outcomeStatus maps an outcome to its HTTP status and error code.
func outcomeStatus(o *importer.Outcome) (int, string) {
	switch o.Status {
	case importer.StatusSucceeded:
		return http.StatusCreated, ""
	case importer.StatusCanceled:
		return http.StatusConflict, "CANCELED"
	}
	switch importer.Kind(o.Err) {
	case "invalid_request":
		return http.StatusBadRequest, "INVALID_REQUEST"
	case "network":
		return http.StatusBadGateway, "NETWORK_ERROR"
	case "storage":
		return http.StatusInternalServerError, "STORAGE_ERROR"
	case "exhausted":
		return http.StatusConflict, "NAME_EXHAUSTED"
	default:
		return http.StatusInternalServerError, "IMPORT_FAILED"
	}
}

func (s *Server) settings() importer.Settings {
	return importer.SettingsFromConfig(s.deps.Config)
}

func (s *Server) createImport(w http.ResponseWriter, r *http.Request) {
	form, err := s.decodeForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	if err := s.checkRemote(r.Context(), &form); err != nil {
		code, errCode := probeFailure(err, http.StatusBadRequest)
		writeError(w, code, errCode, err.Error())
		return
	}

	req, err := form.Request(s.deps.Config.Defaults, s.deps.Config.Folders, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	out := s.deps.Importer.Import(r.Context(), s.settings(), req)
	code, _ := outcomeStatus(out)
	writeJSON(w, code, outcomeToResponse(out))
}

// checkRemote makes sure a remote URL serves an image before a request is
// built from form. The detected extension fills in a missing one.
func (s *Server) checkRemote(ctx context.Context, form *importer.Form) error {
	if s.deps.Prober == nil {
		return nil
	}
	src, err := form.Payload.Source()
	if err != nil {
		return nil // reported when the request is built
	}
	remote, ok := src.(importer.RemoteURL)
	if !ok {
		return nil
	}
	res, err := s.deps.Prober.Probe(ctx, remote.URL)
	if err != nil {
		return err
	}
	if form.Extension == "" {
		form.Extension = res.Extension
	}
	return nil
}

// probeFailure maps a probe error to an HTTP status and error code.
func probeFailure(err error, notImage int) (int, string) {
	var se *fetch.StatusError
	switch {
	case errors.Is(err, fetch.ErrNotImage):
		return notImage, "NOT_IMAGE"
	case errors.As(err, &se):
		return http.StatusBadGateway, "UPSTREAM_STATUS"
	default:
		return http.StatusBadGateway, "NETWORK_ERROR"
	}
}

// decodeForm reads a JSON form or a multipart upload with a "file" part.
func (s *Server) decodeForm(r *http.Request) (importer.Form, error) {
	var form importer.Form

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return form, fmt.Errorf("decode body: %w", err)
		}
		return form, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return form, fmt.Errorf("parse upload: %w", err)
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		return form, fmt.Errorf("read upload: %w", err)
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(file)
	if err != nil {
		return form, fmt.Errorf("read upload: %w", err)
	}

	// Uploads have no path on this host, so cut never removes anything.
	form.Drop = &importer.ExternalDrop{Data: data}
	form.Name = r.FormValue("name")
	if form.Name == "" {
		form.Name = importer.SanitizeBaseName(importer.StemOf(hdr.Filename))
	}
	form.Extension = r.FormValue("extension")
	if form.Extension == "" {
		form.Extension = importer.InferExtension(importer.ExternalDrop{Path: hdr.Filename, Data: data})
	}
	form.Folder = r.FormValue("folder")
	form.Behavior = r.FormValue("behavior")
	form.Conflict = r.FormValue("conflict")
	form.NoteName = r.FormValue("note_name")
	if v := r.FormValue("create_note"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return form, fmt.Errorf("create_note: %w", err)
		}
		form.CreateNote = &b
	}
	return form, nil
}

func (s *Server) createBatch(w http.ResponseWriter, r *http.Request) {
	var body batchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if len(body.Items) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "items must not be empty")
		return
	}
	if len(body.Items) > maxBatchItems {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", fmt.Sprintf("at most %d items per batch", maxBatchItems))
		return
	}

	concurrency := body.Concurrency
	if concurrency <= 0 {
		concurrency = s.deps.Config.Import.Concurrency
	}

	s.log.Info("batch import", "items", len(body.Items), "concurrency", concurrency)

	resp := batchResponse{Items: make([]importResponse, len(body.Items))}
	now := s.now()

	checks := make([]error, len(body.Items))
	var g errgroup.Group
	g.SetLimit(max(concurrency, 1))
	for n := range body.Items {
		g.Go(func() error {
			checks[n] = s.checkRemote(r.Context(), &body.Items[n])
			return nil
		})
	}
	_ = g.Wait()

	// Invalid forms are answered directly; the rest run together.
	var reqs []importer.Request
	var slots []int
	for n, form := range body.Items {
		if err := checks[n]; err != nil {
			_, errCode := probeFailure(err, http.StatusBadRequest)
			resp.Items[n] = importResponse{
				Status:  string(importer.StatusFailed),
				Source:  form.URL,
				Message: "Image Import Failed: " + err.Error(),
				Error:   err.Error(),
				Code:    errCode,
			}
			continue
		}
		req, err := form.Request(s.deps.Config.Defaults, s.deps.Config.Folders, now)
		if err != nil {
			resp.Items[n] = importResponse{
				Status:  string(importer.StatusFailed),
				Message: "Image Import Failed: " + err.Error(),
				Error:   err.Error(),
				Code:    "INVALID_REQUEST",
			}
			continue
		}
		reqs = append(reqs, req)
		slots = append(slots, n)
	}

	outcomes := s.deps.Importer.ImportAll(r.Context(), s.settings(), reqs, concurrency)
	for n, out := range outcomes {
		resp.Items[slots[n]] = outcomeToResponse(out)
	}

	for _, item := range resp.Items {
		switch importer.Status(item.Status) {
		case importer.StatusSucceeded:
			resp.Succeeded++
		case importer.StatusCanceled:
			resp.Canceled++
		default:
			resp.Failed++
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listFolders(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("source") == "vault" {
		if s.deps.Vault == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Vault not configured")
			return
		}
		folders, err := s.deps.Vault.Folders()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "VAULT_ERROR", err.Error())
			return
		}
		if folders == nil {
			folders = []string{}
		}
		writeJSON(w, http.StatusOK, listVaultFoldersResponse{Items: folders})
		return
	}

	resp := listFoldersResponse{Items: make([]folderResponse, len(s.deps.Config.Folders))}
	for i, f := range s.deps.Config.Folders {
		resp.Items[i] = folderResponse{
			Name:                 f.Name,
			Path:                 f.Path,
			CreateNote:           f.CreateNote,
			CreateNoteSubfolders: f.CreateNoteSubfolders,
			NoteTemplate:         f.NoteTemplate,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	filter := importer.HistoryFilter{
		Folder: r.URL.Query().Get("folder"),
		Limit:  queryInt(r, "limit", 50),
	}
	if filter.Limit <= 0 || filter.Limit > 1000 {
		filter.Limit = 1000
	}
	if v := r.URL.Query().Get("status"); v != "" {
		st := importer.Status(v)
		switch st {
		case importer.StatusSucceeded, importer.StatusCanceled, importer.StatusFailed:
		default:
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", "status must be succeeded, canceled or failed")
			return
		}
		filter.Status = &st
	}

	entries, err := s.deps.History.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listHistoryResponse{Items: make([]historyResponse, len(entries)), Total: len(entries)}
	for i, h := range entries {
		resp.Items[i] = historyResponse{
			ID:         h.ID,
			Status:     string(h.Status),
			SourceKind: string(h.SourceKind),
			Source:     h.Source,
			DestPath:   h.DestPath,
			NotePath:   h.NotePath,
			SizeBytes:  h.SizeBytes,
			ErrorKind:  h.ErrorKind,
			Error:      h.Error,
			Warnings:   h.Warnings,
			CreatedAt:  h.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) probe(w http.ResponseWriter, r *http.Request) {
	var body probeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	u, err := url.Parse(body.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		writeError(w, http.StatusBadRequest, "INVALID_URL", "url must be an absolute http(s) URL")
		return
	}

	res, err := s.deps.Prober.Probe(r.Context(), body.URL)
	if err != nil {
		code, errCode := probeFailure(err, http.StatusUnprocessableEntity)
		writeError(w, code, errCode, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, probeResponse{
		URL:         body.URL,
		ContentType: res.ContentType,
		Extension:   res.Extension,
	})
}

type statusResponse struct {
	Status           string `json:"status"`
	VaultRoot        string `json:"vault_root"`
	FolderMode       string `json:"folder_mode"`
	PredefinedFolder string `json:"predefined_folder,omitempty"`
	Folders          int    `json:"folders"`
	Watching         bool   `json:"watching"`
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	cfg := s.deps.Config
	writeJSON(w, http.StatusOK, statusResponse{
		Status:           "ok",
		VaultRoot:        cfg.Vault.Root,
		FolderMode:       cfg.Defaults.FolderMode,
		PredefinedFolder: cfg.Defaults.PredefinedFolder,
		Folders:          len(cfg.Folders),
		Watching:         cfg.Watch.Enabled,
	})
}
