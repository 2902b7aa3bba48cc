package domain

import (
	"context"
	"time"
)

// PdfRecord mirrors one row of the pdfs table. The storage key is the only
// link to the blob in the object store and is never serialized to clients.
type PdfRecord struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimeType"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PdfListItem is the listing projection of a record: no bytes, no storage key.
type PdfListItem struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"createdAt"`
}

// Blob is a fully materialized object from the store plus the content type
// the store reported for it. Adapters return bytes, never raw streams.
type Blob struct {
	Data        []byte
	ContentType string
}

// ObjectStore defines the interface for blob storage operations
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (*Blob, error)
}

// PdfRepository defines the interface for pdf metadata storage operations
type PdfRepository interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, filename, mimeType, storageKey string) (*PdfRecord, error)
	GetByID(ctx context.Context, id int64) (*PdfRecord, error)
	ListAll(ctx context.Context) ([]PdfListItem, error)
}

// PdfService orchestrates uploads and retrievals across the two stores
type PdfService interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (*PdfRecord, error)
	Fetch(ctx context.Context, id int64) (*PdfRecord, *Blob, error)
	List(ctx context.Context) ([]PdfListItem, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetEnvironment() string
	GetLogLevel() string
	GetMaxFileSize() int64
	GetDatabaseURL() string
	GetMinioEndpoint() string
	GetMinioPort() int
	GetMinioAccessKey() string
	GetMinioSecretKey() string
	GetMinioBucket() string
	GetMinioUseSSL() bool
}
