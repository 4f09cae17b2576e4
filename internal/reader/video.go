package reader

import (
	"context"
	"encoding/json"
	"fmt"

	"mediarag/internal/contextutil"
	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

// frameData is one entry of a video frame-description export.
type frameData struct {
	OriginalFilename string  `json:"original_filename"`
	TotalFrames      int     `json:"total_frames"`
	VideoLength      float64 `json:"video_length"`
	FPS              float64 `json:"fps"`
	Description      string  `json:"description"`
	ExposedFrames    []int   `json:"exposed_frames"`
	Length           float64 `json:"length"`
}

// VideoReader imports video frame-description JSON files as "video"
// documents. The whole export is kept as the document text; the video
// chunker later splits it per frame.
type VideoReader struct{}

// NewVideoReader creates a new VideoReader.
func NewVideoReader() *VideoReader {
	return &VideoReader{}
}

// Load converts each JSON file into one video document.
func (r *VideoReader) Load(ctx context.Context, files []document.FileData, log *pipeline.Log) ([]*document.Document, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "video reader processing files", "count", len(files))

	var documents []*document.Document
	for _, file := range files {
		if file.Extension != "json" {
			continue
		}

		content := decodeContent(file.Content)
		var frames []frameData
		if err := json.Unmarshal(content, &frames); err != nil {
			log.Warning(fmt.Sprintf("failed to load %s: %v", file.Filename, err))
			continue
		}
		if len(frames) == 0 {
			log.Warning(fmt.Sprintf("failed to load %s: no frames", file.Filename))
			continue
		}

		doc := document.New()
		doc.Name = frames[0].OriginalFilename
		doc.Text = string(content)
		doc.Type = "video"
		doc.Timestamp = timestamp()
		doc.Reader = "VideoReader"
		doc.Metadata["total_frames"] = frames[0].TotalFrames
		doc.Metadata["video_length"] = frames[0].VideoLength
		doc.Metadata["fps"] = frames[0].FPS

		documents = append(documents, doc)
		logger.InfoContext(ctx, "processed video file", "filename", file.Filename, "name", doc.Name, "frames", len(frames))
	}
	return documents, nil
}
