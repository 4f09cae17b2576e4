package ingest

import (
	"context"
	"testing"

	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

type fakeReader struct {
	docs []*document.Document
}

func (f fakeReader) Load(ctx context.Context, files []document.FileData, log *pipeline.Log) ([]*document.Document, error) {
	return f.docs, nil
}

type fakeChunker struct{}

func (fakeChunker) Chunk(ctx context.Context, docs []*document.Document, log *pipeline.Log) []*document.Document {
	for _, doc := range docs {
		chunk := document.NewChunk()
		chunk.Text = doc.Text
		chunk.DocName = doc.Name
		doc.Chunks = append(doc.Chunks, chunk)
	}
	return docs
}

type fakeEmbedder struct {
	embedded []*document.Document
}

func (f *fakeEmbedder) Embed(ctx context.Context, docs []*document.Document, log *pipeline.Log) error {
	f.embedded = docs
	return nil
}

type fakeStore struct {
	existing map[string]bool
}

func (f fakeStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	return f.existing[name], nil
}

func newManagers(r pipeline.Reader, c pipeline.Chunker, e pipeline.Embedder) (*pipeline.ReaderManager, *pipeline.ChunkerManager, *pipeline.EmbedderManager) {
	readers := pipeline.NewManager[pipeline.Reader]()
	readers.Register("fake", r)
	chunkers := pipeline.NewManager[pipeline.Chunker]()
	chunkers.Register("fake", c)
	embedders := pipeline.NewManager[pipeline.Embedder]()
	embedders.Register("fake", e)
	return readers, chunkers, embedders
}

func namedDoc(name string) *document.Document {
	doc := document.New()
	doc.Name = name
	doc.Type = "meme"
	doc.Text = "text of " + name
	return doc
}

func TestOrchestrator_Run(t *testing.T) {
	embedder := &fakeEmbedder{}
	readers, chunkers, embedders := newManagers(
		fakeReader{docs: []*document.Document{namedDoc("a"), namedDoc("b")}},
		fakeChunker{},
		embedder,
	)
	o := NewOrchestrator(readers, chunkers, embedders, fakeStore{existing: map[string]bool{}})

	docs, log, err := o.Run(context.Background(), []document.FileData{{Filename: "a.json"}}, "", "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	for _, doc := range docs {
		if len(doc.Chunks) != 1 {
			t.Errorf("document %q has %d chunks, want 1", doc.Name, len(doc.Chunks))
		}
	}
	if len(embedder.embedded) != 2 {
		t.Errorf("embedder received %d documents, want 2", len(embedder.embedded))
	}
	if log.Count(pipeline.SeverityError) != 0 {
		t.Errorf("unexpected errors in run log: %+v", log.Entries())
	}
}

func TestOrchestrator_DuplicateIsWarningNotError(t *testing.T) {
	embedder := &fakeEmbedder{}
	readers, chunkers, embedders := newManagers(
		fakeReader{docs: []*document.Document{namedDoc("existing"), namedDoc("new")}},
		fakeChunker{},
		embedder,
	)
	o := NewOrchestrator(readers, chunkers, embedders, fakeStore{existing: map[string]bool{"existing": true}})

	docs, log, err := o.Run(context.Background(), []document.FileData{{Filename: "batch.json"}}, "", "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(docs) != 1 || docs[0].Name != "new" {
		t.Fatalf("got documents %+v, want only the new one", docs)
	}
	if n := log.Count(pipeline.SeverityWarning); n != 1 {
		t.Errorf("warning count = %d, want exactly 1", n)
	}
	if n := log.Count(pipeline.SeverityError); n != 0 {
		t.Errorf("error count = %d, want 0", n)
	}
	for _, doc := range embedder.embedded {
		if doc.Name == "existing" {
			t.Error("duplicate document reached the embedder")
		}
	}
}

func TestOrchestrator_NoReaderRegistered(t *testing.T) {
	readers := pipeline.NewManager[pipeline.Reader]()
	chunkers := pipeline.NewManager[pipeline.Chunker]()
	chunkers.Register("fake", fakeChunker{})
	embedders := pipeline.NewManager[pipeline.Embedder]()
	embedders.Register("fake", &fakeEmbedder{})
	o := NewOrchestrator(readers, chunkers, embedders, fakeStore{})

	if _, _, err := o.Run(context.Background(), nil, "", ""); err == nil {
		t.Fatal("expected error when no reader is registered")
	}
}
