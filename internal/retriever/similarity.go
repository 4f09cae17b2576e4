// Package retriever holds the Retriever strategy that answers queries from
// the vector store.
package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"mediarag/internal/contextutil"
	"mediarag/internal/document"
	"mediarag/internal/vectorstore"
)

// Embeddings generates one vector per input text.
type Embeddings interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// DefaultLimit is the per-query hit limit when the caller passes none.
const DefaultLimit = 5

// SimilarityRetriever retrieves chunks by vector similarity, optionally
// filtered by document type. Returned chunks are sorted by descending score;
// ties keep their arrival order.
type SimilarityRetriever struct {
	embeddings Embeddings
	vectors    vectorstore.VectorStore
	collection string
}

// NewSimilarityRetriever creates a new SimilarityRetriever.
func NewSimilarityRetriever(embeddings Embeddings, vectors vectorstore.VectorStore, collection string) *SimilarityRetriever {
	return &SimilarityRetriever{
		embeddings: embeddings,
		vectors:    vectors,
		collection: collection,
	}
}

// Retrieve runs every query against the store and returns the combined hits
// plus a context text assembled from them.
func (r *SimilarityRetriever) Retrieve(ctx context.Context, queries []string, docType string, limit int) ([]document.Chunk, string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(queries) == 0 {
		return nil, "", fmt.Errorf("no queries provided")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	queryVectors, err := r.embeddings.EmbedTexts(ctx, queries)
	if err != nil {
		return nil, "", fmt.Errorf("failed to embed queries: %w", err)
	}

	var chunks []document.Chunk
	for i, vec := range queryVectors {
		results, err := r.vectors.Search(ctx, r.collection, vec, limit, docType)
		if err != nil {
			return nil, "", fmt.Errorf("failed to search for query %q: %w", queries[i], err)
		}
		for _, result := range results {
			chunk := chunkFromPayload(result.Meta)
			chunk.Score = float64(result.Score)
			chunks = append(chunks, chunk)
		}
		logger.DebugContext(ctx, "query searched", "query", queries[i], "hits", len(results))
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})

	logger.InfoContext(ctx, "retrieval completed", "queries", len(queries), "chunks", len(chunks), "doc_type", docType)
	return chunks, combineContext(chunks), nil
}

// chunkFromPayload rebuilds a chunk from the payload stored at embedding
// time.
func chunkFromPayload(meta map[string]any) document.Chunk {
	return document.ChunkFromMap(meta)
}

// combineContext assembles the retrieved chunks into one context text for
// generators.
func combineContext(chunks []document.Chunk) string {
	var sb strings.Builder
	for _, chunk := range chunks {
		sb.WriteString(fmt.Sprintf("--- Document: %s ---\n\n", chunk.DocName))
		sb.WriteString(fmt.Sprintf("Chunk %s\n\n%s\n\n", chunk.ChunkID, chunk.Text))
	}
	return sb.String()
}
