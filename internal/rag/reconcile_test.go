package rag

import (
	"context"
	"reflect"
	"testing"

	"mediarag/internal/document"
	"mediarag/internal/storage"
)

type fakeFetcher struct {
	docs map[string]*document.Document
}

func (f fakeFetcher) FetchByID(ctx context.Context, id string) (*document.Document, error) {
	if doc, ok := f.docs[id]; ok {
		return doc, nil
	}
	return nil, storage.ErrNotFound
}

func retrievedChunk(docUUID, chunkID string, score float64) document.Chunk {
	chunk := document.NewChunk()
	chunk.DocUUID = docUUID
	chunk.ChunkID = chunkID
	chunk.Score = score
	chunk.Text = "chunk " + chunkID
	chunk.PublicID = "pub-" + chunkID
	chunk.Tags = "tag-" + chunkID
	chunk.DocName = "doc"
	chunk.DocType = "transcription"
	return chunk
}

func TestReconcile_PreservesLengthAndOrder(t *testing.T) {
	doc := document.New()
	doc.UUID = "doc-1"
	doc.ChunkInfo = []document.FragmentInfo{
		{ChunkID: "0", Transcript: "first utterance", Start: 0, End: 1.5},
		{ChunkID: "1", Transcript: "second utterance", Start: 1.5, End: 3.0},
	}

	chunks := []document.Chunk{
		retrievedChunk("doc-1", "1", 0.9),
		retrievedChunk("doc-1", "0", 0.7),
	}

	result, err := Reconcile(context.Background(), chunks, fakeFetcher{docs: map[string]*document.Document{"doc-1": doc}})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if len(result.ChunkInfo) != len(chunks) {
		t.Fatalf("chunk info length = %d, want %d", len(result.ChunkInfo), len(chunks))
	}
	if result.ChunkInfo[0].Transcript != "second utterance" {
		t.Errorf("first record = %+v, want the chunk_id 1 fragment", result.ChunkInfo[0])
	}
	if result.ChunkInfo[1].Transcript != "first utterance" {
		t.Errorf("second record = %+v, want the chunk_id 0 fragment", result.ChunkInfo[1])
	}
	if !reflect.DeepEqual(result.Chunks, chunks) {
		t.Error("chunk ordering changed during reconciliation")
	}
}

func TestReconcile_FallbackCopiesChunkFields(t *testing.T) {
	chunk := retrievedChunk("missing-doc", "7", 0.5)

	result, err := Reconcile(context.Background(), []document.Chunk{chunk}, fakeFetcher{docs: map[string]*document.Document{}})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	info := result.ChunkInfo[0]
	if info.Text != chunk.Text {
		t.Errorf("text = %q, want %q", info.Text, chunk.Text)
	}
	if info.PublicID != chunk.PublicID {
		t.Errorf("public_id = %q, want %q", info.PublicID, chunk.PublicID)
	}
	if info.Tags != chunk.Tags {
		t.Errorf("tags = %q, want %q", info.Tags, chunk.Tags)
	}
	if info.ChunkID != chunk.ChunkID {
		t.Errorf("chunk_id = %q, want %q", info.ChunkID, chunk.ChunkID)
	}
}

func TestReconcile_UnmatchedChunkIDFallsBack(t *testing.T) {
	doc := document.New()
	doc.UUID = "doc-1"
	doc.ChunkInfo = []document.FragmentInfo{{ChunkID: "0", Transcript: "only fragment"}}

	chunk := retrievedChunk("doc-1", "99", 0.5)
	result, err := Reconcile(context.Background(), []document.Chunk{chunk}, fakeFetcher{docs: map[string]*document.Document{"doc-1": doc}})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if result.ChunkInfo[0].Transcript != "" || result.ChunkInfo[0].Text != chunk.Text {
		t.Errorf("expected fallback record, got %+v", result.ChunkInfo[0])
	}
}

func TestReconcile_FirstTemplateID(t *testing.T) {
	tests := []struct {
		name      string
		templates any
		want      string
	}{
		{name: "string slice", templates: []string{"tmpl-a", "tmpl-b"}, want: "tmpl-a"},
		{name: "decoded JSON slice", templates: []any{"tmpl-x"}, want: "tmpl-x"},
		{name: "empty slice", templates: []string{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := retrievedChunk("", "0", 0.9)
			chunk.Meta["template_images"] = tt.templates

			result, err := Reconcile(context.Background(), []document.Chunk{chunk}, fakeFetcher{})
			if err != nil {
				t.Fatalf("Reconcile failed: %v", err)
			}
			if result.FirstTemplateID != tt.want {
				t.Errorf("first template id = %q, want %q", result.FirstTemplateID, tt.want)
			}
		})
	}
}

func TestReconcile_EmptyInput(t *testing.T) {
	result, err := Reconcile(context.Background(), nil, fakeFetcher{})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(result.Chunks) != 0 || len(result.ChunkInfo) != 0 || result.FirstTemplateID != "" {
		t.Errorf("expected empty result, got %+v", result)
	}
}
