package tts

import (
	"context"
	"log/slog"

	"mediarag/internal/timeline"
)

// Resolver voices the dialogue lines of a shot schema. A line that fails to
// synthesize or upload is left unresolved and later skipped by timeline
// synthesis; one bad line never fails the schema.
type Resolver struct {
	synthesizer Synthesizer
	uploader    Uploader
	logger      *slog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(synthesizer Synthesizer, uploader Uploader, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		synthesizer: synthesizer,
		uploader:    uploader,
		logger:      logger,
	}
}

// Resolve fills AudioURL and Duration for every dialogue line it can voice
// and returns the updated schema. The input schema is not modified.
func (r *Resolver) Resolve(ctx context.Context, schema timeline.Schema) (timeline.Schema, error) {
	resolved := schema
	resolved.Shots = make([]timeline.Shot, len(schema.Shots))
	copy(resolved.Shots, schema.Shots)

	for si := range resolved.Shots {
		shot := &resolved.Shots[si]
		if len(shot.Dialogue) == 0 {
			continue
		}
		lines := make([]timeline.DialogueLine, len(shot.Dialogue))
		copy(lines, shot.Dialogue)
		shot.Dialogue = lines

		for li := range shot.Dialogue {
			if err := ctx.Err(); err != nil {
				return timeline.Schema{}, err
			}
			line := &shot.Dialogue[li]
			if line.Text == "" || line.AudioURL != "" {
				continue
			}

			audio, duration, err := r.synthesizer.Synthesize(ctx, line.Text, line.Character)
			if err != nil {
				r.logger.Error("failed to synthesize dialogue line",
					"shot", shot.ShotNumber, "character", line.Character, "error", err)
				continue
			}
			url, err := r.uploader.Upload(ctx, audio)
			if err != nil {
				r.logger.Error("failed to upload dialogue audio",
					"shot", shot.ShotNumber, "character", line.Character, "error", err)
				continue
			}

			line.AudioURL = url
			line.Duration = duration
		}
	}
	return resolved, nil
}
