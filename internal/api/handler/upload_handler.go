package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"service-order-pipeline/internal/model"
	"service-order-pipeline/internal/pipeline"
	"service-order-pipeline/internal/store"
	"service-order-pipeline/pkg/utils"
)

const uploadsPrefix = "/api/v1/uploads/"

// Uploader runs one upload end to end.
type Uploader interface {
	Run(ctx context.Context, up pipeline.Upload) (*model.UploadReport, error)
}

// SessionReader reads back recorded upload sessions.
type SessionReader interface {
	ListSessions(ctx context.Context, limit int) ([]model.UploadSession, error)
	GetSession(ctx context.Context, id string) (*model.UploadSession, error)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UploadHandler serves the upload endpoints.
type UploadHandler struct {
	uploader Uploader
	sessions SessionReader
	maxBytes int64
	outputs  *utils.OutputManager
	logger   *slog.Logger
}

// NewUploadHandler wires the handler. outputs may be nil to skip saving
// report files.
func NewUploadHandler(u Uploader, s SessionReader, maxBytes int64, outputs *utils.OutputManager, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{uploader: u, sessions: s, maxBytes: maxBytes, outputs: outputs, logger: logger}
}

// CreateUpload ingests an uploaded spreadsheet
// @Summary Upload a spreadsheet
// @Description Ingest a service-order spreadsheet: validate every row, insert new orders and report what happened to each row
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx export with a Tabela sheet"
// @Param dry_run query bool false "Validate only, write nothing"
// @Success 200 {object} model.UploadReport "Upload report"
// @Failure 400 {object} ErrorResponse "Missing or invalid file"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 422 {object} ErrorResponse "Spreadsheet cannot be processed"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /uploads [post]
func (h *UploadHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		writeError(w, http.StatusBadRequest, "only .xlsx files are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))
	report, err := h.uploader.Run(r.Context(), pipeline.Upload{
		FileName: filepath.Base(header.Filename),
		Data:     data,
		DryRun:   dryRun,
	})
	if err != nil {
		if pipeline.IsFatal(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error("upload failed", "file", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	if h.outputs != nil {
		if _, err := pipeline.SaveReport(h.outputs, report); err != nil {
			h.logger.Warn("could not save report files", "upload_id", report.UploadID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, report)
}

// ListUploads retrieves recent upload sessions
// @Summary List upload sessions
// @Description List the most recent upload sessions, newest first
// @Tags uploads
// @Produce json
// @Param limit query int false "Maximum sessions to return"
// @Success 200 {array} model.UploadSession "Upload sessions"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /uploads [get]
func (h *UploadHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sessions, err := h.sessions.ListSessions(r.Context(), limit)
	if err != nil {
		h.logger.Error("list sessions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch uploads")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// GetUpload retrieves one upload session
// @Summary Get upload session
// @Description Retrieve one upload session with its summary and reconciliation
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} model.UploadSession "Upload session"
// @Failure 404 {object} ErrorResponse "Upload not found"
// @Router /uploads/{id} [get]
func (h *UploadHandler) GetUpload(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, uploadsPrefix)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "upload ID is required")
		return
	}

	session, err := h.sessions.GetSession(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "upload not found")
		return
	}
	if err != nil {
		h.logger.Error("get session failed", "upload_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch upload")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
