package tts

import (
	"context"
	"errors"
	"testing"

	"mediarag/internal/timeline"
)

type fakeSynthesizer struct {
	failFor map[string]bool
}

func (f fakeSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, float64, error) {
	if f.failFor[text] {
		return nil, 0, errors.New("synthesis unavailable")
	}
	return []byte("audio:" + text), 1.5, nil
}

type fakeUploader struct {
	failAll bool
}

func (f fakeUploader) Upload(ctx context.Context, audio []byte) (string, error) {
	if f.failAll {
		return "", errors.New("upload unavailable")
	}
	return "https://cdn.example.com/" + string(audio), nil
}

func TestResolver_FillsAudioFields(t *testing.T) {
	schema := timeline.Schema{Shots: []timeline.Shot{
		{
			ShotNumber: 1,
			Duration:   4.0,
			Dialogue: []timeline.DialogueLine{
				{Character: "a", Text: "first line"},
				{Character: "b", Text: "second line"},
			},
		},
	}}

	resolver := NewResolver(fakeSynthesizer{}, fakeUploader{}, nil)
	resolved, err := resolver.Resolve(context.Background(), schema)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	for i, line := range resolved.Shots[0].Dialogue {
		if line.AudioURL == "" || line.Duration != 1.5 {
			t.Errorf("line %d not resolved: %+v", i, line)
		}
	}
	// The input schema is untouched.
	if schema.Shots[0].Dialogue[0].AudioURL != "" {
		t.Error("input schema was mutated")
	}
}

func TestResolver_PerLineFailureIsRecoverable(t *testing.T) {
	schema := timeline.Schema{Shots: []timeline.Shot{
		{
			ShotNumber: 1,
			Duration:   4.0,
			Dialogue: []timeline.DialogueLine{
				{Character: "a", Text: "bad line"},
				{Character: "b", Text: "good line"},
			},
		},
	}}

	resolver := NewResolver(fakeSynthesizer{failFor: map[string]bool{"bad line": true}}, fakeUploader{}, nil)
	resolved, err := resolver.Resolve(context.Background(), schema)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	lines := resolved.Shots[0].Dialogue
	if lines[0].AudioURL != "" {
		t.Errorf("failed line should stay unresolved: %+v", lines[0])
	}
	if lines[1].AudioURL == "" {
		t.Errorf("sibling line should still resolve: %+v", lines[1])
	}
}

func TestResolver_UploadFailureLeavesLineUnresolved(t *testing.T) {
	schema := timeline.Schema{Shots: []timeline.Shot{
		{
			ShotNumber: 1,
			Duration:   2.0,
			Dialogue:   []timeline.DialogueLine{{Character: "a", Text: "line"}},
		},
	}}

	resolver := NewResolver(fakeSynthesizer{}, fakeUploader{failAll: true}, nil)
	resolved, err := resolver.Resolve(context.Background(), schema)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.Shots[0].Dialogue[0].AudioURL != "" {
		t.Error("line resolved despite upload failure")
	}
}

func TestResolver_SkipsAlreadyResolvedLines(t *testing.T) {
	schema := timeline.Schema{Shots: []timeline.Shot{
		{
			ShotNumber: 1,
			Duration:   2.0,
			Dialogue: []timeline.DialogueLine{
				{Character: "a", Text: "line", AudioURL: "https://cdn.example.com/keep.wav", Duration: 9},
			},
		},
	}}

	resolver := NewResolver(fakeSynthesizer{}, fakeUploader{}, nil)
	resolved, err := resolver.Resolve(context.Background(), schema)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	line := resolved.Shots[0].Dialogue[0]
	if line.AudioURL != "https://cdn.example.com/keep.wav" || line.Duration != 9 {
		t.Errorf("resolved line was overwritten: %+v", line)
	}
}
