package chunker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

type frameData struct {
	Description   string  `json:"description"`
	ExposedFrames []int   `json:"exposed_frames"`
	Length        float64 `json:"length"`
	TotalFrames   int     `json:"total_frames"`
	VideoLength   float64 `json:"video_length"`
	FPS           float64 `json:"fps"`
}

// VideoChunker turns each frame description of a video document into one
// chunk. Chunks carry doc_type "video_frame" so frame-level retrieval can be
// filtered separately from whole-video documents.
type VideoChunker struct{}

// NewVideoChunker creates a new VideoChunker.
func NewVideoChunker() *VideoChunker {
	return &VideoChunker{}
}

// Chunk populates documents with per-frame chunks. A document whose text is
// not a frame export is an ERROR for that document only.
func (c *VideoChunker) Chunk(ctx context.Context, docs []*document.Document, log *pipeline.Log) []*document.Document {
	for _, doc := range docs {
		if len(doc.Chunks) > 0 {
			continue
		}

		var frames []frameData
		if err := json.Unmarshal([]byte(doc.Text), &frames); err != nil {
			log.Error(fmt.Sprintf("error processing document %s: invalid frame data: %v", doc.Name, err))
			continue
		}

		for _, frame := range frames {
			frameNumber := 0
			if len(frame.ExposedFrames) > 0 {
				frameNumber = frame.ExposedFrames[0]
			}

			chunk := document.NewChunk()
			chunk.Text = frame.Description
			chunk.DocName = doc.Name
			chunk.DocType = "video_frame"
			chunk.ChunkID = strconv.Itoa(frameNumber)
			chunk.Meta["frame_number"] = frameNumber
			chunk.Meta["timestamp"] = frame.Length
			chunk.Meta["total_frames"] = frame.TotalFrames
			chunk.Meta["video_length"] = frame.VideoLength
			chunk.Meta["fps"] = frame.FPS

			doc.Chunks = append(doc.Chunks, chunk)
		}
	}
	return docs
}
