// Package rag maps retrieved chunks back to their parent document's richer
// per-fragment metadata.
package rag

import (
	"context"
	"errors"
	"fmt"

	"mediarag/internal/contextutil"
	"mediarag/internal/document"
	"mediarag/internal/storage"
)

// DocumentFetcher fetches persisted documents by id.
type DocumentFetcher interface {
	FetchByID(ctx context.Context, id string) (*document.Document, error)
}

// Result is the reconciled output for one retrieval. ChunkInfo has the same
// length and order as the input chunks. FirstTemplateID is the first chunk's
// first template image id when present, as a convenience pointer for
// downstream renderers.
type Result struct {
	Chunks          []document.Chunk
	ChunkInfo       []document.FragmentInfo
	FirstTemplateID string
}

// Reconcile looks up each chunk's parent document and returns the fragment
// metadata record whose chunk_id matches the chunk's (string-compared). When
// no record matches, as happens for chunk strategies that produce no parallel
// fragment metadata, a fallback record is synthesized from the chunk's own
// fields. Output ordering follows the input ordering.
func Reconcile(ctx context.Context, chunks []document.Chunk, store DocumentFetcher) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	result := Result{
		Chunks:    make([]document.Chunk, 0, len(chunks)),
		ChunkInfo: make([]document.FragmentInfo, 0, len(chunks)),
	}

	for _, chunk := range chunks {
		info, err := fragmentFor(ctx, chunk, store)
		if err != nil {
			return Result{}, err
		}
		result.Chunks = append(result.Chunks, chunk)
		result.ChunkInfo = append(result.ChunkInfo, info)
	}

	if len(result.Chunks) > 0 {
		if templates, ok := result.Chunks[0].Meta["template_images"]; ok {
			result.FirstTemplateID = firstString(templates)
		}
	}

	logger.InfoContext(ctx, "reconciled chunks", "count", len(result.Chunks), "first_template", result.FirstTemplateID)
	return result, nil
}

func fragmentFor(ctx context.Context, chunk document.Chunk, store DocumentFetcher) (document.FragmentInfo, error) {
	if chunk.DocUUID != "" {
		doc, err := store.FetchByID(ctx, chunk.DocUUID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return document.FragmentInfo{}, fmt.Errorf("failed to fetch document %q: %w", chunk.DocUUID, err)
		}
		if doc != nil {
			for _, info := range doc.ChunkInfo {
				if info.ChunkID == chunk.ChunkID {
					return info, nil
				}
			}
		}
	}
	return fallbackFragment(chunk), nil
}

// fallbackFragment synthesizes a fragment record from the chunk itself.
func fallbackFragment(chunk document.Chunk) document.FragmentInfo {
	return document.FragmentInfo{
		ChunkID:    chunk.ChunkID,
		Text:       chunk.Text,
		PublicID:   chunk.PublicID,
		Tags:       chunk.Tags,
		DocName:    chunk.DocName,
		DocType:    chunk.DocType,
		DocUUID:    chunk.DocUUID,
		Start:      chunk.Start,
		End:        chunk.End,
		Confidence: chunk.Confidence,
		Channel:    chunk.Channel,
		Speaker:    chunk.Speaker,
		OriginalID: chunk.OriginalID,
		Words:      chunk.Words,
		Meta:       chunk.Meta,
	}
}

func firstString(v any) string {
	switch list := v.(type) {
	case []string:
		if len(list) > 0 {
			return list[0]
		}
	case []any:
		if len(list) > 0 {
			if s, ok := list[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
