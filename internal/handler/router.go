package handler

import (
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/felipebrgs1/PDFReactView/internal/domain"
	"github.com/felipebrgs1/PDFReactView/web"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(pdfHandler *PdfHandler, cfg domain.Config) http.Handler {
	router := mux.NewRouter()

	// Liveness endpoint
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pdf store up"))
	}).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		port, _ := strconv.Atoi(cfg.GetServerPort())
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"port":   port,
			"env":    cfg.GetEnvironment(),
		})
	}).Methods("GET")

	// Pdf routes
	router.HandleFunc("/upload", pdfHandler.UploadPdf).Methods("POST")
	router.HandleFunc("/pdf/{id}", pdfHandler.GetPdf).Methods("GET")
	router.HandleFunc("/pdfs", pdfHandler.ListPdfs).Methods("GET")

	// Embedded frontend (dashboard, upload form, viewer)
	static, err := fs.Sub(web.Static, "static")
	if err == nil {
		router.PathPrefix("/app/").Handler(
			http.StripPrefix("/app/", http.FileServer(http.FS(static))))
	}

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // Vite dev server
			"http://localhost:4173", // Vite preview
			"http://localhost:3000", // Alternative dev port
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
