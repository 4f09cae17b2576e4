// Package chunker holds the Chunker strategies that split documents into
// retrievable chunks, one strategy per document kind.
package chunker

import (
	"context"
	"strings"

	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

// MemeChunker turns each meme document into a single chunk carrying the
// template/example image ids in its meta.
type MemeChunker struct{}

// NewMemeChunker creates a new MemeChunker.
func NewMemeChunker() *MemeChunker {
	return &MemeChunker{}
}

// Chunk populates each document with one chunk.
func (c *MemeChunker) Chunk(ctx context.Context, docs []*document.Document, log *pipeline.Log) []*document.Document {
	for _, doc := range docs {
		chunk := document.NewChunk()
		chunk.Text = doc.Text
		chunk.DocName = doc.Name
		chunk.DocType = doc.Type
		chunk.ChunkID = "0"
		chunk.Tags = strings.Join(doc.Tags, ", ")
		if len(doc.TemplateImages) > 0 {
			chunk.PublicID = doc.TemplateImages[0]
		}

		for k, v := range doc.Metadata {
			chunk.Meta[k] = v
		}
		chunk.Meta["example_images"] = doc.ExampleImages
		chunk.Meta["template_images"] = doc.TemplateImages

		doc.Chunks = []document.Chunk{chunk}
	}
	return docs
}
