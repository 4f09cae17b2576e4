package chunker

import (
	"context"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

// MarkdownChunker splits markdown documents into one chunk per heading
// section using goldmark AST parsing. Content before the first heading
// becomes its own chunk.
type MarkdownChunker struct {
	parser goldmark.Markdown
}

// NewMarkdownChunker creates a new MarkdownChunker.
func NewMarkdownChunker() *MarkdownChunker {
	return &MarkdownChunker{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Chunk populates each markdown document with per-section chunks. Sections
// with no body text are dropped.
func (c *MarkdownChunker) Chunk(ctx context.Context, docs []*document.Document, log *pipeline.Log) []*document.Document {
	for _, doc := range docs {
		sections := c.split([]byte(doc.Text))

		chunks := make([]document.Chunk, 0, len(sections))
		for i, section := range sections {
			chunk := document.NewChunk()
			chunk.Text = section.text
			chunk.DocName = doc.Name
			chunk.DocType = doc.Type
			chunk.ChunkID = strconv.Itoa(i)
			chunk.Meta["heading"] = section.heading
			chunks = append(chunks, chunk)
		}

		doc.Chunks = chunks
		doc.Metadata["chunks_count"] = len(chunks)
	}
	return docs
}

type section struct {
	heading string
	text    string
}

// split walks the markdown AST and collects heading-delimited sections.
func (c *MarkdownChunker) split(content []byte) []section {
	reader := text.NewReader(content)
	root := c.parser.Parser().Parse(reader)

	var sections []section
	current := section{}

	flush := func() {
		if strings.TrimSpace(current.text) != "" {
			current.text = strings.TrimSpace(current.text)
			sections = append(sections, current)
		}
	}

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok {
			flush()
			current = section{heading: nodeText(heading, content)}
			continue
		}
		current.text += nodeText(node, content) + "\n"
	}
	flush()

	return sections
}

func nodeText(node ast.Node, content []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if textNode, ok := n.(*ast.Text); ok {
			sb.Write(textNode.Segment.Value(content))
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
