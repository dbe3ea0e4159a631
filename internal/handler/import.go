// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP API for running and inspecting imports.
package handler

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"blogport/internal/config"
	"blogport/internal/importer"
	"blogport/internal/store"
)

// maxUploadBytes caps the size of an uploaded CSV file.
const maxUploadBytes = 64 * 1024 * 1024 // 64MB

// Handler holds shared dependencies for the import API.
type Handler struct {
	cfg    *config.Config
	posts  *store.PostStore
	terms  *store.TermStore
	media  *store.MediaStore
	fields *store.FieldStore
	logger *slog.Logger
}

// NewHandler creates the import API handler.
func NewHandler(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		posts:  store.NewPostStore(db),
		terms:  store.NewTermStore(db),
		media:  store.NewMediaStore(db, cfg.UploadsDir),
		fields: store.NewFieldStore(db),
		logger: logger,
	}
}

// Routes returns the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/import", h.runImport)
	r.Get("/imports", h.listImports)
	return r
}

// runImport accepts a multipart CSV upload and runs one import batch. The
// batch result is returned even when rows failed; only a malformed request
// or an unreadable file is an HTTP error.
func (h *Handler) runImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing csv file upload")
		return
	}
	defer func() { _ = file.Close() }()

	opts := h.optionsFromForm(r)

	im := importer.NewImporter(h.posts, h.terms, h.media, h.fields, h.logger)
	result, err := im.ProcessCSV(r.Context(), file, opts)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.logger.Info("import batch finished",
		"filename", header.Filename,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", len(result.Errors))

	writeJSON(w, http.StatusOK, result)
}

// listImports returns the most recently imported posts with their source
// identifiers.
func (h *Handler) listImports(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			writeJSONError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	imported, err := h.posts.ListImported(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing imported posts failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "listing imported posts failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"imports": imported})
}

// optionsFromForm reads batch options from the multipart form, falling back
// to the configured defaults.
func (h *Handler) optionsFromForm(r *http.Request) importer.ImportOptions {
	opts := importer.DefaultImportOptions()
	opts.ImportImages = h.cfg.ImportImages
	opts.PreserveDates = h.cfg.PreserveDates
	if h.cfg.GalleryFieldKey != "" {
		opts.GalleryFieldKey = h.cfg.GalleryFieldKey
	}

	if v := r.FormValue("import_images"); v != "" {
		opts.ImportImages = parseBool(v)
	}
	if v := r.FormValue("preserve_dates"); v != "" {
		opts.PreserveDates = parseBool(v)
	}
	if v := r.FormValue("force_publish"); v != "" {
		opts.ForcePublish = parseBool(v)
	}
	if v := r.FormValue("update_existing"); v != "" {
		opts.UpdateExisting = parseBool(v)
	}
	if v := r.FormValue("gallery_field_key"); v != "" {
		opts.GalleryFieldKey = v
	}
	return opts
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"error":   message,
	})
}
