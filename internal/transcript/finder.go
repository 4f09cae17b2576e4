// Package transcript contains the generator that returns reconciled
// transcription fragments as typed results instead of calling a model.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"

	"mediarag/internal/contextutil"
	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

// FragmentResult is one processed transcription fragment.
type FragmentResult struct {
	Content   string  `json:"content"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Speaker   string  `json:"speaker"`
}

// Finder formats the reconciled fragment metadata of a query into typed
// results. Fragments without timing metadata get zero values, never an
// error.
type Finder struct{}

// NewFinder creates a new Finder.
func NewFinder() *Finder {
	return &Finder{}
}

// Generate returns the reconciled fragments as a JSON message.
func (f *Finder) Generate(ctx context.Context, req pipeline.GenerateRequest) (pipeline.GenerateResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Context == "" && len(req.ChunkInfo) == 0 {
		logger.WarnContext(ctx, "no context for transcription finder")
		message, _ := json.Marshal(map[string]string{
			"error": "No context provided for transcription finder.",
		})
		return pipeline.GenerateResult{
			Message:      string(message),
			FinishReason: "error",
		}, nil
	}

	results := make([]FragmentResult, 0, len(req.ChunkInfo))
	for _, info := range req.ChunkInfo {
		results = append(results, fragmentResult(info))
	}

	message, err := json.Marshal(map[string][]FragmentResult{"chunks": results})
	if err != nil {
		return pipeline.GenerateResult{}, fmt.Errorf("failed to marshal results: %w", err)
	}
	return pipeline.GenerateResult{
		Message:      string(message),
		FinishReason: "stop",
	}, nil
}

func fragmentResult(info document.FragmentInfo) FragmentResult {
	content := info.Transcript
	if content == "" {
		content = info.Text
	}
	return FragmentResult{
		Content:   content,
		StartTime: info.Start,
		EndTime:   info.End,
		Speaker:   info.Speaker,
	}
}
