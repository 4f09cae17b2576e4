package timeline

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// epsilon absorbs float drift when comparing clip boundaries; two clips
// meeting end-to-start on the same track do not overlap.
const epsilon = 1e-9

// trackAllocator hands out audio tracks greedily in arrival order. A track
// is reusable once its last clip has ended at or before the requested start.
type trackAllocator struct {
	freeAt map[int]float64
	next   int
}

func newTrackAllocator() *trackAllocator {
	return &trackAllocator{
		freeAt: map[int]float64{},
		next:   firstAudioTrack,
	}
}

// allocate returns the lowest-numbered track free at start, creating a new
// track when every existing one is still busy. The track is marked busy
// until start+length.
func (a *trackAllocator) allocate(start, length float64) int {
	ids := make([]int, 0, len(a.freeAt))
	for id := range a.freeAt {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if a.freeAt[id] <= start+epsilon {
			a.freeAt[id] = start + length
			return id
		}
	}

	id := a.next
	a.next++
	a.freeAt[id] = start + length
	return id
}

// Synthesize converts a shot schema into the ordered command set and returns
// the total timeline duration. Placement is deterministic: shots are laid
// back to back, image layers occupy fixed tracks, and audio tracks are
// allocated greedily as clips arrive.
func Synthesize(schema Schema, logger *slog.Logger) (CommandSet, float64, error) {
	if logger == nil {
		logger = slog.Default()
	}

	commands := CommandSet{Message: Actions{Actions: []Action{}}}
	allocator := newTrackAllocator()
	currentTime := 0.0

	for i, shot := range schema.Shots {
		if shot.Duration <= 0 {
			return CommandSet{}, 0, fmt.Errorf("shot %d has no duration", i+1)
		}
		label := shotLabel(shot, i)

		for _, role := range []string{LayerBackground, LayerSubject, LayerForeground} {
			for _, layer := range shot.Images {
				if layer.Layer != role {
					continue
				}
				commands.Message.Actions = append(commands.Message.Actions, Action{
					Action: "insert_clip",
					Clip: Clip{
						ClipPath: fmt.Sprintf("/path/to/%s_%s.png",
							strings.ToLower(role), label),
						Length: layer.Duration,
						Track:  videoTracks[role],
						Start:  currentTime,
						Speed:  1,
					},
				})
			}
		}
		for _, layer := range shot.Images {
			if _, ok := videoTracks[layer.Layer]; !ok {
				logger.Warn("skipping image layer with unknown role",
					"shot", label, "layer", layer.Layer)
			}
		}

		for _, effect := range shot.SoundEffects {
			track := allocator.allocate(currentTime, effect.Duration)
			commands.Message.Actions = append(commands.Message.Actions, Action{
				Action: "insert_clip",
				Clip: Clip{
					ClipPath: fmt.Sprintf("/path/to/foley_%s_%s.wav",
						slugify(effect.Layer), label),
					Length: effect.Duration,
					Track:  track,
					Start:  currentTime,
					Speed:  1,
				},
			})
		}

		dialogueStart := currentTime
		for _, line := range shot.Dialogue {
			if line.AudioURL == "" || line.Duration <= 0 {
				logger.Warn("skipping dialogue line without synthesized audio",
					"shot", label, "character", line.Character)
				continue
			}
			track := allocator.allocate(dialogueStart, line.Duration)
			commands.Message.Actions = append(commands.Message.Actions, Action{
				Action: "insert_clip",
				Clip: Clip{
					ClipPath: fmt.Sprintf("/path/to/dialogue_%s_%s.wav",
						slugify(line.Character), label),
					Length:    line.Duration,
					Track:     track,
					Start:     dialogueStart,
					Speed:     1,
					URL:       line.AudioURL,
					AssetType: "audio",
				},
			})
			dialogueStart += line.Duration
		}

		currentTime += shot.Duration
	}

	return commands, currentTime, nil
}

func shotLabel(shot Shot, index int) string {
	if shot.ShotNumber > 0 {
		return fmt.Sprintf("%d", shot.ShotNumber)
	}
	return fmt.Sprintf("%d", index+1)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unnamed"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
