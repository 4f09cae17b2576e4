// Package pipeline defines the stage contracts of the ingestion/retrieval
// pipeline and the named-strategy registries that hold their implementations.
package pipeline

import (
	"context"

	"mediarag/internal/document"
)

// Reader loads raw inputs into Documents. A single bad input must never fail
// the call; the reader appends a WARNING to the log and omits that input's
// document. The returned error is reserved for failures that invalidate the
// whole batch.
type Reader interface {
	Load(ctx context.Context, files []document.FileData, log *Log) ([]*document.Document, error)
}

// Chunker populates each document's Chunks. Per-document failures are
// recorded in the log as ERROR entries; the remaining documents are still
// processed.
type Chunker interface {
	Chunk(ctx context.Context, docs []*document.Document, log *Log) []*document.Document
}

// Embedder assigns vectors to every chunk of every document and persists the
// documents and their chunks. Per-document failures are recorded in the log.
type Embedder interface {
	Embed(ctx context.Context, docs []*document.Document, log *Log) error
}

// Retriever returns the chunks most relevant to the queries, sorted by
// descending score, together with a combined context text.
type Retriever interface {
	Retrieve(ctx context.Context, queries []string, docType string, limit int) ([]document.Chunk, string, error)
}

// GenerateRequest is one conversation turn handed to a generator. Context is
// the combined context text produced by retrieval.
type GenerateRequest struct {
	ConversationID string
	Queries        []string
	Context        string
	ChunkInfo      []document.FragmentInfo
}

// GenerateResult is a generator's reply to one turn.
type GenerateResult struct {
	Message      string `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// Generator produces an answer or derived artifact from a conversation turn
// and retrieved context.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}
