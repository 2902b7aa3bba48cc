// Package handler provides HTTP handlers for the API.
package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/felipebrgs1/PDFReactView/internal/domain"
)

// Blob identity never changes once a storage key is written, so responses
// can be cached indefinitely.
const cacheControlImmutable = "public, max-age=31536000, immutable"

// PdfHandler handles pdf-related HTTP requests
type PdfHandler struct {
	pdfService domain.PdfService
	maxUpload  int64
	logger     domain.Logger
}

// NewPdfHandler creates a new pdf handler
func NewPdfHandler(pdfService domain.PdfService, maxUpload int64, logger domain.Logger) *PdfHandler {
	return &PdfHandler{
		pdfService: pdfService,
		maxUpload:  maxUpload,
		logger:     logger,
	}
}

type uploadResponse struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
}

// UploadPdf handles a multipart pdf upload
func (h *PdfHandler) UploadPdf(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	record, err := h.pdfService.Upload(r.Context(), header.Filename, contentType, data)
	if err != nil {
		h.logger.Error("Upload failed", err, "filename", header.Filename)
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		ID:       record.ID,
		Filename: record.Filename,
	})
}

// GetPdf serves the binary body for a stored pdf
func (h *PdfHandler) GetPdf(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	record, blob, err := h.pdfService.Fetch(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}

	contentType := blob.ContentType
	if contentType == "" {
		contentType = record.MimeType
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", contentDisposition(record.Filename))
	w.Header().Set("Cache-Control", cacheControlImmutable)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob.Data)
}

// ListPdfs returns all metadata rows newest first
func (h *PdfHandler) ListPdfs(w http.ResponseWriter, r *http.Request) {
	items, err := h.pdfService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list pdfs", err)
		writeAppError(w, err)
		return
	}

	// Ensure JSON is [] not null when there are no rows.
	if items == nil {
		items = make([]domain.PdfListItem, 0)
	}

	writeJSON(w, http.StatusOK, items)
}
