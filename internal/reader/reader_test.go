package reader

import (
	"context"
	"encoding/base64"
	"testing"

	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

func TestMemeReader_Load(t *testing.T) {
	content := `{
		"meme_id": "Distracted Boyfriend",
		"about": "A meme about shifting attention.",
		"tags": ["reaction", "classic"],
		"example_images": ["https://cdn.example.com/ex1.jpg"],
		"template_images": ["https://cdn.example.com/tmpl1.jpg"],
		"views": 10234,
		"comments": 87,
		"type": ["image-macro"],
		"status": "confirmed"
	}`

	log := pipeline.NewLog()
	docs, err := NewMemeReader().Load(context.Background(), []document.FileData{
		{Filename: "distracted.json", Extension: "json", Content: []byte(content)},
	}, log)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}

	doc := docs[0]
	if doc.Name != "Distracted Boyfriend" {
		t.Errorf("name = %q", doc.Name)
	}
	if doc.Type != "meme" {
		t.Errorf("type = %q, want meme", doc.Type)
	}
	if doc.Text != "A meme about shifting attention." {
		t.Errorf("text = %q", doc.Text)
	}
	if len(doc.TemplateImages) != 1 || doc.TemplateImages[0] != "https://cdn.example.com/tmpl1.jpg" {
		t.Errorf("template images = %v", doc.TemplateImages)
	}
	if doc.Metadata["views"] != 10234 {
		t.Errorf("views = %v", doc.Metadata["views"])
	}
}

func TestMemeReader_BadFileIsWarningNotError(t *testing.T) {
	log := pipeline.NewLog()
	docs, err := NewMemeReader().Load(context.Background(), []document.FileData{
		{Filename: "broken.json", Extension: "json", Content: []byte(`{not json`)},
		{Filename: "no-id.json", Extension: "json", Content: []byte(`{"about": "missing id"}`)},
		{Filename: "good.json", Extension: "json", Content: []byte(`{"meme_id": "ok"}`)},
	}, log)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "ok" {
		t.Fatalf("got %+v, want only the good document", docs)
	}
	if n := log.Count(pipeline.SeverityWarning); n != 2 {
		t.Errorf("warning count = %d, want 2", n)
	}
}

func TestMemeReader_SkipsNonJSON(t *testing.T) {
	log := pipeline.NewLog()
	docs, err := NewMemeReader().Load(context.Background(), []document.FileData{
		{Filename: "readme.txt", Extension: "txt", Content: []byte("hello")},
	}, log)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("got %d documents, want 0", len(docs))
	}
}

func TestMemeReader_Base64Content(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"meme_id": "encoded"}`))

	log := pipeline.NewLog()
	docs, err := NewMemeReader().Load(context.Background(), []document.FileData{
		{Filename: "meme.json", Extension: "json", Content: []byte(encoded)},
	}, log)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "encoded" {
		t.Fatalf("got %+v, want the decoded document", docs)
	}
}

func TestTranscriptionReader_Load(t *testing.T) {
	content := `{
		"video_id": "vid-42",
		"sha256": "abc123",
		"utterances": [
			{"transcript": "hello there", "start": 0, "end": 1.5, "confidence": 0.97, "channel": 1, "speaker": 0, "utterance_id": "utt-1", "duration": 1.5},
			{"transcript": "general kenobi", "start": 1.5, "end": 3.2, "confidence": 0.95, "channel": 1, "speaker": "narrator", "utterance_id": "utt-2", "duration": 1.7}
		]
	}`

	log := pipeline.NewLog()
	docs, err := NewTranscriptionReader().Load(context.Background(), []document.FileData{
		{Filename: "vid-42.json", Extension: "json", Content: []byte(content)},
	}, log)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}

	doc := docs[0]
	if doc.Name != "Transcription_vid-42" {
		t.Errorf("name = %q", doc.Name)
	}
	if doc.Text != "hello there general kenobi" {
		t.Errorf("text = %q", doc.Text)
	}
	if len(doc.ChunkInfo) != 2 {
		t.Fatalf("got %d fragments, want 2", len(doc.ChunkInfo))
	}
	if doc.ChunkInfo[0].ChunkID != "0" || doc.ChunkInfo[1].ChunkID != "1" {
		t.Errorf("chunk ids = %q, %q, want positional strings", doc.ChunkInfo[0].ChunkID, doc.ChunkInfo[1].ChunkID)
	}
	// Numeric and string speaker ids both normalize to strings.
	if doc.ChunkInfo[0].Speaker != "0" {
		t.Errorf("speaker = %q, want 0", doc.ChunkInfo[0].Speaker)
	}
	if doc.ChunkInfo[1].Speaker != "narrator" {
		t.Errorf("speaker = %q, want narrator", doc.ChunkInfo[1].Speaker)
	}
	if doc.Metadata["utterances_count"] != 2 {
		t.Errorf("utterances_count = %v", doc.Metadata["utterances_count"])
	}
}

func TestTranscriptionReader_MissingVideoID(t *testing.T) {
	log := pipeline.NewLog()
	docs, err := NewTranscriptionReader().Load(context.Background(), []document.FileData{
		{Filename: "anon.json", Extension: "json", Content: []byte(`{"utterances": []}`)},
	}, log)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "Transcription_unknown" {
		t.Fatalf("got %+v, want Transcription_unknown", docs)
	}
}

func TestVideoReader_Load(t *testing.T) {
	content := `[
		{"original_filename": "cat.mp4", "description": "a cat jumps", "exposed_frames": [0], "timestamp": 0.0, "total_frames": 2, "video_length": 4.0, "fps": 30},
		{"original_filename": "cat.mp4", "description": "the cat lands", "exposed_frames": [60], "timestamp": 2.0, "total_frames": 2, "video_length": 4.0, "fps": 30}
	]`

	log := pipeline.NewLog()
	docs, err := NewVideoReader().Load(context.Background(), []document.FileData{
		{Filename: "cat.json", Extension: "json", Content: []byte(content)},
	}, log)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	doc := docs[0]
	if doc.Name != "cat.mp4" {
		t.Errorf("name = %q, want cat.mp4", doc.Name)
	}
	if doc.Type != "video" {
		t.Errorf("type = %q, want video", doc.Type)
	}
	if doc.Metadata["total_frames"] != 2 {
		t.Errorf("total_frames = %v", doc.Metadata["total_frames"])
	}
}

func TestMarkdownReader_Load(t *testing.T) {
	content := "# Editing Notes\n\nSome notes about editing.\n"

	log := pipeline.NewLog()
	docs, err := NewMarkdownReader().Load(context.Background(), []document.FileData{
		{Filename: "notes.md", Extension: "md", Content: []byte(content)},
	}, log)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	if docs[0].Name != "Editing Notes" {
		t.Errorf("name = %q, want the first heading", docs[0].Name)
	}
	if docs[0].Type != "markdown" {
		t.Errorf("type = %q, want markdown", docs[0].Type)
	}
}
