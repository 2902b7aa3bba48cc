package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felipebrgs1/PDFReactView/internal/domain"
	apperrors "github.com/felipebrgs1/PDFReactView/pkg/errors"
)

const pdfMimeType = "application/pdf"

// PdfStoreService implements domain.PdfService over the object store and
// the metadata repository.
type PdfStoreService struct {
	store  domain.ObjectStore
	repo   domain.PdfRepository
	logger domain.Logger
}

// NewPdfService creates a new pdf service
func NewPdfService(
	repo domain.PdfRepository,
	store domain.ObjectStore,
	logger domain.Logger,
) *PdfStoreService {
	return &PdfStoreService{
		store:  store,
		repo:   repo,
		logger: logger,
	}
}

// Upload validates the declared content type, writes the blob, then inserts
// the metadata row. The two writes are not transactional: an insert failure
// leaves an orphan blob behind, which is accepted and logged.
func (s *PdfStoreService) Upload(ctx context.Context, filename, contentType string, data []byte) (*domain.PdfRecord, error) {
	if contentType != pdfMimeType {
		return nil, apperrors.NewValidationError("unsupported media type", "expected "+pdfMimeType)
	}

	key := newStorageKey()

	if err := s.store.Put(ctx, key, data, contentType); err != nil {
		s.logger.Error("Blob write failed", err, "key", key)
		return nil, apperrors.NewStorageError("failed to store file", err)
	}

	record, err := s.repo.Insert(ctx, filename, contentType, key)
	if err != nil {
		s.logger.Warn("Metadata insert failed after blob write, blob orphaned", "key", key, "error", err)
		return nil, apperrors.NewStorageError("failed to save metadata", err)
	}

	s.logger.Info("Pdf uploaded", "id", record.ID, "filename", filename, "size", len(data))
	return record, nil
}

// Fetch looks up the metadata row and loads its blob.
func (s *PdfStoreService) Fetch(ctx context.Context, id int64) (*domain.PdfRecord, *domain.Blob, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPdfNotFound) {
			return nil, nil, apperrors.NewNotFoundError("Not found")
		}
		return nil, nil, apperrors.NewStorageError("failed to load metadata", err)
	}

	blob, err := s.store.Get(ctx, record.StorageKey)
	if err != nil {
		if errors.Is(err, domain.ErrBlobNotFound) {
			// Orphan metadata: the row survived but its blob is gone.
			s.logger.Warn("Blob missing for metadata row", "id", id, "key", record.StorageKey)
			return nil, nil, apperrors.NewNotFoundError("Not found")
		}
		return nil, nil, apperrors.NewStorageError("failed to load file", err)
	}

	return record, blob, nil
}

// List returns all metadata rows newest first.
func (s *PdfStoreService) List(ctx context.Context) ([]domain.PdfListItem, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list pdfs", err)
	}
	return items, nil
}

// newStorageKey builds a blob key from a high-resolution timestamp and a
// random component. Concurrent uploads never contend: the uuid makes
// collisions effectively impossible, so no retry loop exists.
func newStorageKey() string {
	return fmt.Sprintf("%d-%s.pdf", time.Now().UnixNano(), uuid.NewString())
}
