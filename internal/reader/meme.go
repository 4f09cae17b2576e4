package reader

import (
	"context"
	"encoding/json"
	"fmt"

	"mediarag/internal/contextutil"
	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

// memeFile is the JSON export shape of one meme entry.
type memeFile struct {
	MemeID         string   `json:"meme_id"`
	About          string   `json:"about"`
	Tags           []string `json:"tags"`
	ExampleImages  []string `json:"example_images"`
	TemplateImages []string `json:"template_images"`
	Views          int      `json:"views"`
	Comments       int      `json:"comments"`
	Type           []string `json:"type"`
	Status         string   `json:"status"`
}

// MemeReader imports meme JSON files as "meme" documents.
type MemeReader struct{}

// NewMemeReader creates a new MemeReader.
func NewMemeReader() *MemeReader {
	return &MemeReader{}
}

// Load converts each JSON file into one meme document. Files that fail to
// parse are logged as WARNING and skipped.
func (r *MemeReader) Load(ctx context.Context, files []document.FileData, log *pipeline.Log) ([]*document.Document, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "meme reader processing files", "count", len(files))

	var documents []*document.Document
	for _, file := range files {
		if file.Extension != "json" {
			continue
		}

		var meme memeFile
		if err := json.Unmarshal(decodeContent(file.Content), &meme); err != nil {
			log.Warning(fmt.Sprintf("failed to load %s: %v", file.Filename, err))
			continue
		}
		if meme.MemeID == "" {
			log.Warning(fmt.Sprintf("failed to load %s: missing meme_id", file.Filename))
			continue
		}

		doc := document.New()
		doc.Name = meme.MemeID
		doc.Text = meme.About
		doc.Type = "meme"
		doc.Timestamp = timestamp()
		doc.Reader = "MemeReader"
		doc.Tags = append(doc.Tags, meme.Tags...)
		doc.ExampleImages = append(doc.ExampleImages, meme.ExampleImages...)
		doc.TemplateImages = append(doc.TemplateImages, meme.TemplateImages...)
		doc.Metadata["views"] = meme.Views
		doc.Metadata["comments"] = meme.Comments
		doc.Metadata["type"] = meme.Type
		doc.Metadata["status"] = meme.Status

		documents = append(documents, doc)
		logger.InfoContext(ctx, "processed meme file", "filename", file.Filename, "name", doc.Name)
	}
	return documents, nil
}
