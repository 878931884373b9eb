package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/cdlist/internal/domain/commands"
	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

const (
	maxBodySize    = 8 << 20
	maxFormMemory  = 32 << 20
	filesFormField = "files"
)

// Dependencies are the collaborators the HTTP surface drives.
type Dependencies struct {
	Workspace   *entities.Workspace
	Definitions commands.Definitions
	Lists       commands.Lists
	Import      commands.Import
	Share       commands.Share
	Hub         *EventHub
	Registry    prometheus.Gatherer
}

// ListResponse is the body of GET /api/list.
type ListResponse struct {
	Entries           []entities.Entry `json:"entries"`
	Total             int              `json:"total"`
	Filter            entities.Filter  `json:"filter,omitempty"`
	SortBy            *entities.SortBy `json:"sortBy,omitempty"`
	ContinuationToken string           `json:"continuationToken,omitempty"`
	HasChanges        bool             `json:"hasChanges"`
}

// TransformRequest is the body of POST /api/list/transform.
type TransformRequest struct {
	SortBy *entities.SortBy `json:"sortBy"`
	Filter entities.Filter  `json:"filter"`
}

// ShareResponse is the body of GET /api/share.
type ShareResponse struct {
	URL     string                `json:"url"`
	Payload entities.SharePayload `json:"payload"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter builds the chi router of `cdlist serve`.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	h := &handlers{deps: deps}
	r.Route("/api", func(r chi.Router) {
		r.Get("/list", h.getList)
		r.Delete("/list", h.clearList)
		r.Post("/list/import", h.importContent)
		r.Post("/list/files", h.importFiles)
		r.Post("/list/transform", h.transform)
		r.Delete("/list/*", h.removeEntry)
		r.Get("/share", h.share)
		r.Get("/definitions/*", h.getDefinition)
		r.Get("/events", deps.Hub.HandleWebSocket)
	})
	r.Get("/share/{token}", h.loadShared)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	return r
}

type handlers struct {
	deps Dependencies
}

func (h *handlers) getList(w http.ResponseWriter, _ *http.Request) {
	list := h.deps.Workspace.List
	writeJSON(w, http.StatusOK, ListResponse{
		Entries:           list.View(),
		Total:             list.Len(),
		Filter:            list.Filter(),
		SortBy:            list.SortBy(),
		ContinuationToken: list.ContinuationToken(),
		HasChanges:        list.HasChanges(),
	})
}

func (h *handlers) clearList(w http.ResponseWriter, _ *http.Request) {
	h.deps.Lists.RemoveAll()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) importContent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.deps.Import.Import(r.Context(), string(body))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) importFiles(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	headers := r.MultipartForm.File[filesFormField]
	files := make([]entities.DroppedFile, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		content, err := io.ReadAll(io.LimitReader(file, maxBodySize))
		_ = file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		files = append(files, entities.DroppedFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     content,
		})
	}

	result, err := h.deps.Import.ImportFiles(r.Context(), files)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) transform(w http.ResponseWriter, r *http.Request) {
	var request TransformRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.deps.Lists.Transform(request.SortBy, request.Filter)
	h.getList(w, r)
}

func (h *handlers) removeEntry(w http.ResponseWriter, r *http.Request) {
	if !h.deps.Lists.Remove(chi.URLParam(r, "*")) {
		writeError(w, http.StatusNotFound, errors.New("entry not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) share(w http.ResponseWriter, _ *http.Request) {
	payload := h.deps.Share.BuildPayload()
	link, err := h.deps.Share.ShareURL(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ShareResponse{URL: link, Payload: payload})
}

func (h *handlers) loadShared(w http.ResponseWriter, r *http.Request) {
	added, err := h.deps.Share.LoadSharedList(r.Context(), chi.URLParam(r, "token"))
	if err != nil && errors.Is(err, entities.ErrSharedListLoad) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		logger.Warnf("Shared list loaded with errors: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

func (h *handlers) getDefinition(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if definition, ok := h.deps.Workspace.Cache.Get(key); ok {
		writeJSON(w, http.StatusOK, definition)
		return
	}

	coordinate, err := entities.FromPath(key)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	definition, err := h.deps.Definitions.FetchDefinition(r.Context(), coordinate)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, definition)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrUnrecognizedContent),
		errors.Is(err, entities.ErrMissingRevision),
		errors.Is(err, entities.ErrInvalidPath),
		errors.Is(err, entities.ErrMalformedBundleURL),
		errors.Is(err, entities.ErrEmptyBundle):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entities.ErrBundlePermission):
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debugf("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
