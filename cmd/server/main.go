package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/felipebrgs1/PDFReactView/internal/config"
	"github.com/felipebrgs1/PDFReactView/internal/handler"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx := context.Background()

	// Wiring
	container, err := config.NewContainer(ctx)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}
	defer container.Close()

	// Startup checks are best-effort: if either store is unreachable the
	// process still serves, and the affected operations fail per request.
	if err := container.ObjectStore.EnsureBucket(ctx); err != nil {
		container.Logger.Warn("Bucket check failed", "error", err)
	}
	if err := container.PdfRepository.EnsureSchema(ctx); err != nil {
		container.Logger.Warn("Schema check failed", "error", err)
	}

	// Handlers
	pdfHandler := handler.NewPdfHandler(
		container.PdfService,
		container.Config.GetMaxFileSize(),
		container.Logger,
	)

	// Router
	router := handler.NewRouter(pdfHandler, container.Config)

	// start server
	server := &http.Server{
		Addr:    ":" + container.Config.GetServerPort(),
		Handler: router,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr, "env", container.Config.GetEnvironment())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	_ = server.Close()

	container.Logger.Info("Server exited")
}
