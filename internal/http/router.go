// Package http wires the API routes and middleware.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mediarag/internal/handlers"
	"mediarag/internal/ingest"
	"mediarag/internal/pipeline"
	"mediarag/internal/rag"
	"mediarag/internal/storage"
	"mediarag/internal/tts"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Orchestrator *ingest.Orchestrator
	Engine       *rag.Engine
	Readers      *pipeline.ReaderManager
	Chunkers     *pipeline.ChunkerManager
	Retrievers   *pipeline.RetrieverManager
	Generators   *pipeline.GeneratorManager
	Resolver     *tts.Resolver
	Store        storage.DocumentStore
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	ingestHandler := handlers.NewIngestHandler(deps.Orchestrator, deps.Readers, deps.Chunkers)
	queryHandler := handlers.NewQueryHandler(deps.Engine, deps.Retrievers)
	generateHandler := handlers.NewGenerateHandler(deps.Engine, deps.Generators)
	timelineHandler := handlers.NewTimelineHandler(deps.Resolver)
	documentsHandler := handlers.NewDocumentsHandler(deps.Store)
	healthHandler := handlers.NewHealthHandler()

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ingest", ingestHandler)
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Method(http.MethodPost, "/generate", generateHandler)
		r.Method(http.MethodPost, "/timeline", timelineHandler)
		r.Get("/documents", documentsHandler.List)
		r.Get("/documents/{id}", documentsHandler.Get)
		r.Delete("/documents/{id}", documentsHandler.Delete)
	})
	r.Method(http.MethodGet, "/health", healthHandler)

	return r
}
