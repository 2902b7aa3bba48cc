package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/felipebrgs1/PDFReactView/internal/domain"
	"github.com/felipebrgs1/PDFReactView/internal/service"
)

// In-memory fakes backing the handler tests.

type fakeObjectStore struct {
	blobs  map[string]*domain.Blob
	putErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{blobs: make(map[string]*domain.Blob)}
}

func (s *fakeObjectStore) EnsureBucket(ctx context.Context) error { return nil }

func (s *fakeObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.blobs[key] = &domain.Blob{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

func (s *fakeObjectStore) Get(ctx context.Context, key string) (*domain.Blob, error) {
	blob, ok := s.blobs[key]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return blob, nil
}

type fakePdfRepository struct {
	rows      []domain.PdfRecord
	nextID    int64
	clock     time.Time
	insertErr error
}

func newFakePdfRepository() *fakePdfRepository {
	return &fakePdfRepository{
		nextID: 1,
		clock:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *fakePdfRepository) EnsureSchema(ctx context.Context) error { return nil }

func (r *fakePdfRepository) Insert(ctx context.Context, filename, mimeType, storageKey string) (*domain.PdfRecord, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.clock = r.clock.Add(time.Second)
	record := domain.PdfRecord{
		ID:         r.nextID,
		Filename:   filename,
		MimeType:   mimeType,
		StorageKey: storageKey,
		CreatedAt:  r.clock,
	}
	r.nextID++
	r.rows = append(r.rows, record)
	return &record, nil
}

func (r *fakePdfRepository) GetByID(ctx context.Context, id int64) (*domain.PdfRecord, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			record := r.rows[i]
			return &record, nil
		}
	}
	return nil, domain.ErrPdfNotFound
}

func (r *fakePdfRepository) ListAll(ctx context.Context) ([]domain.PdfListItem, error) {
	items := make([]domain.PdfListItem, 0, len(r.rows))
	for i := len(r.rows) - 1; i >= 0; i-- {
		items = append(items, domain.PdfListItem{
			ID:        r.rows[i].ID,
			Filename:  r.rows[i].Filename,
			CreatedAt: r.rows[i].CreatedAt,
		})
	}
	return items, nil
}

func newTestRouter(repo *fakePdfRepository, store *fakeObjectStore) http.Handler {
	logger := NewMockHandlerLogger()
	pdfService := service.NewPdfService(repo, store, logger)
	pdfHandler := NewPdfHandler(pdfService, 50*1024*1024, logger)
	return NewRouter(pdfHandler, newTestConfig())
}

func newUploadRequest(t *testing.T, filename, contentType string, body []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create multipart part: %v", err)
	}
	if _, err := part.Write(body); err != nil {
		t.Fatalf("write multipart body: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadPdf_RoundTrip(t *testing.T) {
	repo := newFakePdfRepository()
	store := newFakeObjectStore()
	router := newTestRouter(repo, store)

	body := []byte("%PDF-1.7 test bytes")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newUploadRequest(t, "report.pdf", "application/pdf", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var uploaded struct {
		ID       int64  `json:"id"`
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if uploaded.ID != 1 || uploaded.Filename != "report.pdf" {
		t.Fatalf("unexpected upload response: %+v", uploaded)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/pdf/%d", uploaded.ID), nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !bytes.Equal(rr.Body.Bytes(), body) {
		t.Fatalf("retrieved bytes differ from uploaded bytes")
	}
	if got := rr.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected content type application/pdf, got %q", got)
	}
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=31536000, immutable" {
		t.Fatalf("unexpected cache control header: %q", got)
	}
	if got := rr.Header().Get("Content-Disposition"); !strings.HasPrefix(got, "inline;") {
		t.Fatalf("expected inline disposition, got %q", got)
	}
}

func TestUploadPdf_MissingFile(t *testing.T) {
	repo := newFakePdfRepository()
	router := newTestRouter(repo, newFakeObjectStore())

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("other", "value")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "file is required") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
	if len(repo.rows) != 0 {
		t.Fatalf("expected no metadata rows, got %d", len(repo.rows))
	}
}

func TestUploadPdf_RejectsWrongContentType(t *testing.T) {
	repo := newFakePdfRepository()
	store := newFakeObjectStore()
	router := newTestRouter(repo, store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newUploadRequest(t, "notes.txt", "text/plain", []byte("plain text")))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "unsupported media type") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
	if len(repo.rows) != 0 {
		t.Fatalf("expected no metadata rows after rejection, got %d", len(repo.rows))
	}
	if len(store.blobs) != 0 {
		t.Fatalf("expected no blobs after rejection, got %d", len(store.blobs))
	}
}

func TestUploadPdf_StoreFailure(t *testing.T) {
	repo := newFakePdfRepository()
	store := newFakeObjectStore()
	store.putErr = errors.New("connection refused")
	router := newTestRouter(repo, store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newUploadRequest(t, "report.pdf", "application/pdf", []byte("%PDF-1.7")))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("expected no metadata row after blob failure, got %d", len(repo.rows))
	}
	if strings.Contains(rr.Body.String(), "connection refused") {
		t.Fatalf("internal error detail leaked to client: %s", rr.Body.String())
	}
}

func TestGetPdf_UnknownID(t *testing.T) {
	router := newTestRouter(newFakePdfRepository(), newFakeObjectStore())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pdf/42", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"error":"Not found"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestGetPdf_InvalidID(t *testing.T) {
	router := newTestRouter(newFakePdfRepository(), newFakeObjectStore())

	for _, id := range []string{"abc", "-1", "0"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pdf/"+id, nil))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected status %d, got %d", id, http.StatusBadRequest, rr.Code)
		}
	}
}

func TestGetPdf_OrphanMetadata(t *testing.T) {
	repo := newFakePdfRepository()
	store := newFakeObjectStore()
	router := newTestRouter(repo, store)

	// Row exists but its blob was never written.
	if _, err := repo.Insert(context.Background(), "ghost.pdf", "application/pdf", "missing-key.pdf"); err != nil {
		t.Fatalf("seed row: %v", err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pdf/1", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestGetPdf_DispositionForUnicodeFilename(t *testing.T) {
	repo := newFakePdfRepository()
	store := newFakeObjectStore()
	router := newTestRouter(repo, store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newUploadRequest(t, "Relatório (2024).pdf", "application/pdf", []byte("%PDF-1.7")))
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pdf/1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	disposition := rr.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, `filename="Relatorio (2024).pdf"`) {
		t.Fatalf("unexpected fallback filename in %q", disposition)
	}
	if !strings.Contains(disposition, "filename*=UTF-8''Relat%C3%B3rio%20%282024%29.pdf") {
		t.Fatalf("unexpected encoded filename in %q", disposition)
	}
}

func TestListPdfs_OrderingNewestFirst(t *testing.T) {
	repo := newFakePdfRepository()
	store := newFakeObjectStore()
	router := newTestRouter(repo, store)

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newUploadRequest(t, name, "application/pdf", []byte("%PDF-1.7")))
		if rr.Code != http.StatusCreated {
			t.Fatalf("upload %s failed: %d", name, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pdfs", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var items []domain.PdfListItem
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"c.pdf", "b.pdf", "a.pdf"} {
		if items[i].Filename != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, items[i].Filename)
		}
	}
}

func TestListPdfs_Idempotent(t *testing.T) {
	repo := newFakePdfRepository()
	store := newFakeObjectStore()
	router := newTestRouter(repo, store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newUploadRequest(t, "only.pdf", "application/pdf", []byte("%PDF-1.7")))
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d", rr.Code)
	}

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/pdfs", nil))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/pdfs", nil))

	if first.Body.String() != second.Body.String() {
		t.Fatalf("listing changed between calls:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}

func TestListPdfs_EmptyIsArray(t *testing.T) {
	router := newTestRouter(newFakePdfRepository(), newFakeObjectStore())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pdfs", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rr.Body.String())
	}
}
