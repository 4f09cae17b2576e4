// Package ingest runs the ordered ingestion pipeline: Read, duplicate
// filter, Chunk, Embed.
package ingest

import (
	"context"
	"fmt"

	"mediarag/internal/contextutil"
	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

// Store answers the duplicate-name check before chunking proceeds.
type Store interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// Orchestrator executes the ingestion stages in fixed order over a batch of
// inputs, threading one run log through every stage. A malformed document
// never prevents its siblings from being processed.
type Orchestrator struct {
	readers   *pipeline.ReaderManager
	chunkers  *pipeline.ChunkerManager
	embedders *pipeline.EmbedderManager
	store     Store
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(readers *pipeline.ReaderManager, chunkers *pipeline.ChunkerManager, embedders *pipeline.EmbedderManager, store Store) *Orchestrator {
	return &Orchestrator{
		readers:   readers,
		chunkers:  chunkers,
		embedders: embedders,
		store:     store,
	}
}

// Run ingests the batch and returns the newly created documents plus the
// complete run log. readerName and chunkerName override the managers'
// selections for this run only; an empty name uses the current selection.
// Documents whose name already exists in the store are dropped with a
// WARNING and excluded from all later stages.
func (o *Orchestrator) Run(ctx context.Context, files []document.FileData, readerName, chunkerName string) ([]*document.Document, *pipeline.Log, error) {
	logger := contextutil.LoggerFromContext(ctx)
	log := pipeline.NewLog()

	reader, readerName, err := o.readers.Resolve(readerName)
	if err != nil {
		return nil, log, fmt.Errorf("reader: %w", err)
	}
	chunker, chunkerName, err := o.chunkers.Resolve(chunkerName)
	if err != nil {
		return nil, log, fmt.Errorf("chunker: %w", err)
	}
	embedder, embedderName, err := o.embedders.Resolve("")
	if err != nil {
		return nil, log, fmt.Errorf("embedder: %w", err)
	}

	logger.InfoContext(ctx, "ingestion started",
		"files", len(files),
		"reader", readerName,
		"chunker", chunkerName,
		"embedder", embedderName,
	)

	loaded, err := reader.Load(ctx, files, log)
	if err != nil {
		return nil, log, fmt.Errorf("reader failed: %w", err)
	}

	filtered, err := o.filterDuplicates(ctx, loaded, log)
	if err != nil {
		return nil, log, err
	}

	chunked := chunker.Chunk(ctx, filtered, log)

	if err := embedder.Embed(ctx, chunked, log); err != nil {
		return nil, log, fmt.Errorf("embedder failed: %w", err)
	}

	logger.InfoContext(ctx, "ingestion completed",
		"documents", len(chunked),
		"warnings", log.Count(pipeline.SeverityWarning),
		"errors", log.Count(pipeline.SeverityError),
	)
	return chunked, log, nil
}

// filterDuplicates drops documents whose name already exists in the store.
// A dropped document is a WARNING, not a failure of the batch.
func (o *Orchestrator) filterDuplicates(ctx context.Context, docs []*document.Document, log *pipeline.Log) ([]*document.Document, error) {
	filtered := make([]*document.Document, 0, len(docs))
	for _, doc := range docs {
		exists, err := o.store.ExistsByName(ctx, doc.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check existence of %q: %w", doc.Name, err)
		}
		if exists {
			log.Warning(fmt.Sprintf("%s already exists.", doc.Name))
			continue
		}
		filtered = append(filtered, doc)
	}
	return filtered, nil
}
