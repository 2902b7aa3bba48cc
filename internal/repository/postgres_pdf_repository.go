package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/felipebrgs1/PDFReactView/internal/domain"
)

const createPdfsTable = `
create table if not exists pdfs (
	id bigserial primary key,
	filename varchar(512) not null,
	mime_type varchar(128) not null,
	storage_key text not null,
	created_at timestamptz not null default now()
)`

// PostgresPdfRepository implements the domain.PdfRepository interface
type PostgresPdfRepository struct {
	db     *sql.DB
	logger domain.Logger
}

// NewPostgresPdfRepository creates a new Postgres pdf repository
func NewPostgresPdfRepository(db *sql.DB, logger domain.Logger) domain.PdfRepository {
	return &PostgresPdfRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the pdfs table if it does not exist yet
func (r *PostgresPdfRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPdfsTable); err != nil {
		return fmt.Errorf("ensure pdfs table: %w", err)
	}
	return nil
}

// Insert appends one metadata row and returns the stored record with its
// generated id. Callers only reach this after the blob write succeeded.
func (r *PostgresPdfRepository) Insert(ctx context.Context, filename, mimeType, storageKey string) (*domain.PdfRecord, error) {
	record := &domain.PdfRecord{
		Filename:   filename,
		MimeType:   mimeType,
		StorageKey: storageKey,
	}

	err := r.db.QueryRowContext(ctx, `
		insert into pdfs (filename, mime_type, storage_key)
		values ($1, $2, $3)
		returning id, created_at
	`, filename, mimeType, storageKey).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert pdf row: %w", err)
	}

	r.logger.Info("Pdf metadata created", "id", record.ID, "filename", filename)
	return record, nil
}

// GetByID returns the record for id, or domain.ErrPdfNotFound.
func (r *PostgresPdfRepository) GetByID(ctx context.Context, id int64) (*domain.PdfRecord, error) {
	var record domain.PdfRecord
	err := r.db.QueryRowContext(ctx, `
		select id, filename, mime_type, storage_key, created_at
		from pdfs
		where id = $1
	`, id).Scan(&record.ID, &record.Filename, &record.MimeType, &record.StorageKey, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPdfNotFound
		}
		return nil, fmt.Errorf("select pdf %d: %w", id, err)
	}
	return &record, nil
}

// ListAll returns every metadata row newest first. The id tiebreak keeps
// rows inserted in the same timestamp tick in a stable order.
func (r *PostgresPdfRepository) ListAll(ctx context.Context) ([]domain.PdfListItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		select id, filename, created_at
		from pdfs
		order by created_at desc, id desc
	`)
	if err != nil {
		return nil, fmt.Errorf("list pdfs: %w", err)
	}
	defer rows.Close()

	var items []domain.PdfListItem
	for rows.Next() {
		var item domain.PdfListItem
		if err := rows.Scan(&item.ID, &item.Filename, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pdf row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
