package reader

import (
	"context"
	"strings"

	"mediarag/internal/contextutil"
	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

// MarkdownReader imports markdown production notes as "markdown" documents.
// The document name is the first heading, falling back to the filename.
type MarkdownReader struct{}

// NewMarkdownReader creates a new MarkdownReader.
func NewMarkdownReader() *MarkdownReader {
	return &MarkdownReader{}
}

// Load converts each markdown file into one document. Chunking happens in
// the markdown chunker; the reader only extracts the title.
func (r *MarkdownReader) Load(ctx context.Context, files []document.FileData, log *pipeline.Log) ([]*document.Document, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "markdown reader processing files", "count", len(files))

	var documents []*document.Document
	for _, file := range files {
		if file.Extension != "md" && file.Extension != "markdown" {
			continue
		}

		content := decodeContent(file.Content)
		text := string(content)
		if strings.TrimSpace(text) == "" {
			log.Warning("failed to load " + file.Filename + ": empty file")
			continue
		}

		doc := document.New()
		doc.Name = titleOf(text, file.Filename)
		doc.Text = text
		doc.Type = "markdown"
		doc.Timestamp = timestamp()
		doc.Reader = "MarkdownReader"
		doc.Path = file.Filename

		documents = append(documents, doc)
		logger.InfoContext(ctx, "processed markdown file", "filename", file.Filename, "name", doc.Name)
	}
	return documents, nil
}

func titleOf(text, filename string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}
	name := filename
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}
