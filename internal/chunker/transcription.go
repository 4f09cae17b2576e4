package chunker

import (
	"context"
	"fmt"

	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

// TranscriptionChunker turns each utterance of a transcription document into
// one chunk, copying the timing metadata the reader recorded as
// FragmentInfo.
type TranscriptionChunker struct{}

// NewTranscriptionChunker creates a new TranscriptionChunker.
func NewTranscriptionChunker() *TranscriptionChunker {
	return &TranscriptionChunker{}
}

// Chunk populates documents with per-utterance chunks. Documents of other
// types are skipped with a WARNING; a document without fragment metadata is
// an ERROR for that document only.
func (c *TranscriptionChunker) Chunk(ctx context.Context, docs []*document.Document, log *pipeline.Log) []*document.Document {
	for _, doc := range docs {
		if doc.Type != "transcription" {
			log.Warning(fmt.Sprintf("skipping document %s: not a transcription (type: %s)", doc.Name, doc.Type))
			continue
		}
		if len(doc.ChunkInfo) == 0 {
			log.Error(fmt.Sprintf("error processing document %s: no utterance metadata", doc.Name))
			continue
		}

		chunks := make([]document.Chunk, 0, len(doc.ChunkInfo))
		for _, info := range doc.ChunkInfo {
			chunk := document.NewChunk()
			chunk.Text = info.Transcript
			chunk.DocName = doc.Name
			chunk.DocType = doc.Type
			chunk.ChunkID = info.ChunkID
			chunk.Start = info.Start
			chunk.End = info.End
			chunk.Confidence = info.Confidence
			chunk.Channel = info.Channel
			chunk.Speaker = info.Speaker
			chunk.OriginalID = info.OriginalID
			chunk.Words = append(chunk.Words, info.Words...)
			chunks = append(chunks, chunk)
		}

		doc.Chunks = chunks
		doc.Metadata["chunks_count"] = len(chunks)
		doc.Metadata["text_processed"] = true
	}
	return docs
}
