package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"strings"

	"mediarag/internal/chunker"
	"mediarag/internal/config"
	"mediarag/internal/embedder"
	"mediarag/internal/http"
	"mediarag/internal/ingest"
	"mediarag/internal/llm"
	"mediarag/internal/pipeline"
	"mediarag/internal/planner"
	"mediarag/internal/rag"
	"mediarag/internal/reader"
	"mediarag/internal/retriever"
	"mediarag/internal/storage"
	"mediarag/internal/transcript"
	"mediarag/internal/tts"
	"mediarag/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	docRepo := storage.NewDocumentRepo(db)

	ctx := context.Background()
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	embeddings := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	readers := pipeline.NewManager[pipeline.Reader]()
	readers.Register("MemeReader", reader.NewMemeReader())
	readers.Register("TranscriptionReader", reader.NewTranscriptionReader())
	readers.Register("VideoReader", reader.NewVideoReader())
	readers.Register("MarkdownReader", reader.NewMarkdownReader())

	chunkers := pipeline.NewManager[pipeline.Chunker]()
	chunkers.Register("MemeChunker", chunker.NewMemeChunker())
	chunkers.Register("TranscriptionChunker", chunker.NewTranscriptionChunker())
	chunkers.Register("VideoChunker", chunker.NewVideoChunker())
	chunkers.Register("MarkdownChunker", chunker.NewMarkdownChunker())

	embedders := pipeline.NewManager[pipeline.Embedder]()
	embedders.Register("DocumentEmbedder", embedder.NewDocumentEmbedder(embeddings, vectorStore, docRepo, cfg.QdrantCollection))

	retrievers := pipeline.NewManager[pipeline.Retriever]()
	retrievers.Register("SimilarityRetriever", retriever.NewSimilarityRetriever(embeddings, vectorStore, cfg.QdrantCollection))

	generators := pipeline.NewManager[pipeline.Generator]()
	machine := planner.NewMachine(llmClient, planner.NewEditExecutor())
	generators.Register("PlanningGenerator", planner.NewGenerator(machine))
	generators.Register("TranscriptionFinder", transcript.NewFinder())

	orchestrator := ingest.NewOrchestrator(readers, chunkers, embedders, docRepo)
	engine := rag.NewEngine(retrievers, docRepo)

	var resolver *tts.Resolver
	if cfg.TTSBaseURL != "" {
		ttsClient := tts.NewClient(cfg.TTSBaseURL, cfg.TTSAPIKey)
		resolver = tts.NewResolver(ttsClient, ttsClient, slog.Default())
		slog.Info("TTS resolver configured", "base_url", cfg.TTSBaseURL)
	}

	router := http.NewRouter(&http.Deps{
		Orchestrator: orchestrator,
		Engine:       engine,
		Readers:      readers,
		Chunkers:     chunkers,
		Retrievers:   retrievers,
		Generators:   generators,
		Resolver:     resolver,
		Store:        docRepo,
	})

	addr := ":" + cfg.APIPort
	slog.Info("API server listening", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
