package config

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/felipebrgs1/PDFReactView/internal/domain"
	"github.com/felipebrgs1/PDFReactView/internal/repository"
	"github.com/felipebrgs1/PDFReactView/internal/service"
	"github.com/felipebrgs1/PDFReactView/internal/storage"
	"github.com/felipebrgs1/PDFReactView/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config        domain.Config
	Logger        domain.Logger
	DB            *sql.DB
	ObjectStore   domain.ObjectStore
	PdfRepository domain.PdfRepository
	PdfService    domain.PdfService
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context) (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	db, err := repository.NewPostgresDB(ctx, config.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	objectStore, err := storage.NewS3Store(ctx, config, appLogger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("build object store client: %w", err)
	}

	pdfRepo := repository.NewPostgresPdfRepository(db, appLogger)
	pdfService := service.NewPdfService(pdfRepo, objectStore, appLogger)

	return &Container{
		Config:        config,
		Logger:        appLogger,
		DB:            db,
		ObjectStore:   objectStore,
		PdfRepository: pdfRepo,
		PdfService:    pdfService,
	}, nil
}

// Close releases the container's database handle
func (c *Container) Close() error {
	return c.DB.Close()
}
