package rag

import (
	"context"
	"fmt"

	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

// QueryResult is everything a query turn produces before generation: the
// retrieved chunks in relevance order, the combined context text, the
// reconciled per-fragment metadata, and the first template image pointer.
type QueryResult struct {
	Chunks          []document.Chunk        `json:"chunks"`
	Context         string                  `json:"context"`
	ChunkInfo       []document.FragmentInfo `json:"chunk_info"`
	FirstTemplateID string                  `json:"first_template_public_id"`
}

// Engine runs the retrieval side of a query: the selected retriever followed
// by reconciliation against the document store.
type Engine struct {
	retrievers *pipeline.RetrieverManager
	store      DocumentFetcher
}

// NewEngine creates a new Engine.
func NewEngine(retrievers *pipeline.RetrieverManager, store DocumentFetcher) *Engine {
	return &Engine{retrievers: retrievers, store: store}
}

// Query retrieves and reconciles chunks for the given queries. retrieverName
// overrides the manager's selection for this query only; an empty name uses
// the current selection.
func (e *Engine) Query(ctx context.Context, queries []string, docType string, limit int, retrieverName string) (QueryResult, error) {
	retriever, _, err := e.retrievers.Resolve(retrieverName)
	if err != nil {
		return QueryResult{}, fmt.Errorf("retriever: %w", err)
	}

	chunks, contextText, err := retriever.Retrieve(ctx, queries, docType, limit)
	if err != nil {
		return QueryResult{}, fmt.Errorf("retrieval failed: %w", err)
	}

	reconciled, err := Reconcile(ctx, chunks, e.store)
	if err != nil {
		return QueryResult{}, fmt.Errorf("reconciliation failed: %w", err)
	}

	return QueryResult{
		Chunks:          reconciled.Chunks,
		Context:         contextText,
		ChunkInfo:       reconciled.ChunkInfo,
		FirstTemplateID: reconciled.FirstTemplateID,
	}, nil
}
