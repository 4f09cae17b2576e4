// Package embedder holds the Embedder strategy that vectorizes chunks and
// persists documents to the document store and vector store.
package embedder

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mediarag/internal/contextutil"
	"mediarag/internal/document"
	"mediarag/internal/pipeline"
	"mediarag/internal/storage"
	"mediarag/internal/vectorstore"
)

// Embeddings generates one vector per input text.
type Embeddings interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// DocumentEmbedder embeds every chunk of every document, upserts the vectors
// with their retrieval payload, and persists the document. After this stage
// documents are never mutated again.
type DocumentEmbedder struct {
	embeddings Embeddings
	vectors    vectorstore.VectorStore
	store      storage.DocumentStore
	collection string
}

// NewDocumentEmbedder creates a new DocumentEmbedder.
func NewDocumentEmbedder(embeddings Embeddings, vectors vectorstore.VectorStore, store storage.DocumentStore, collection string) *DocumentEmbedder {
	return &DocumentEmbedder{
		embeddings: embeddings,
		vectors:    vectors,
		store:      store,
		collection: collection,
	}
}

// Embed processes each document independently: a failing document is logged
// as ERROR and its siblings still complete.
func (e *DocumentEmbedder) Embed(ctx context.Context, docs []*document.Document, log *pipeline.Log) error {
	logger := contextutil.LoggerFromContext(ctx)

	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := e.embedDocument(ctx, doc); err != nil {
			log.Error(fmt.Sprintf("error embedding document %s: %v", doc.Name, err))
			logger.ErrorContext(ctx, "failed to embed document", "name", doc.Name, "error", err)
			continue
		}
		logger.InfoContext(ctx, "embedded document", "name", doc.Name, "chunks", len(doc.Chunks))
	}
	return nil
}

func (e *DocumentEmbedder) embedDocument(ctx context.Context, doc *document.Document) error {
	if len(doc.Chunks) == 0 {
		return fmt.Errorf("document has no chunks")
	}

	doc.UUID = uuid.New().String()

	texts := make([]string, len(doc.Chunks))
	for i, chunk := range doc.Chunks {
		texts[i] = chunk.Text
	}

	vectors, err := e.embeddings.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vectors) != len(doc.Chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(doc.Chunks), len(vectors))
	}

	points := make([]vectorstore.Point, len(doc.Chunks))
	for i := range doc.Chunks {
		chunk := &doc.Chunks[i]
		chunk.DocUUID = doc.UUID
		chunk.Vector = vectors[i]
		chunk.Tokens = len(strings.Fields(chunk.Text))

		points[i] = vectorstore.Point{
			ID:  uuid.New().String(),
			Vec: vectors[i],
			Meta: map[string]any{
				"text":        chunk.Text,
				"doc_name":    chunk.DocName,
				"doc_type":    chunk.DocType,
				"doc_uuid":    chunk.DocUUID,
				"chunk_id":    chunk.ChunkID,
				"public_id":   chunk.PublicID,
				"tags":        chunk.Tags,
				"start":       chunk.Start,
				"end":         chunk.End,
				"speaker":     chunk.Speaker,
				"original_id": chunk.OriginalID,
			},
		}
	}

	if err := e.vectors.Upsert(ctx, e.collection, points); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}

	doc.Metadata["chunks_count"] = len(doc.Chunks)
	if err := e.store.Insert(ctx, doc); err != nil {
		return fmt.Errorf("failed to persist document: %w", err)
	}
	return nil
}
