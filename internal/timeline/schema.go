// Package timeline converts a detailed shot schema into the ordered
// insert_clip command set consumed by the external timeline player.
package timeline

// Image layer roles recognized by the synthesis engine. Entries with any
// other role are never emitted.
const (
	LayerBackground = "Background"
	LayerSubject    = "Subject"
	LayerForeground = "Foreground"
)

// Fixed video tracks, one per image layer role.
var videoTracks = map[string]int{
	LayerBackground: 1,
	LayerSubject:    2,
	LayerForeground: 3,
}

// firstAudioTrack is where dynamic audio-track allocation starts; tracks
// 1-3 are reserved for the image layers.
const firstAudioTrack = 4

// Schema is the detailed shot breakdown of one video.
type Schema struct {
	Shots []Shot `json:"shots"`
}

// Shot is one shot with its image layers, sound layers, and dialogue.
type Shot struct {
	ShotNumber     int            `json:"shot_number"`
	ShotType       string         `json:"shot_type,omitempty"`
	Description    string         `json:"description,omitempty"`
	Duration       float64        `json:"duration"`
	Images         []ImageLayer   `json:"images"`
	SoundEffects   []SoundEffect  `json:"sound_effects"`
	Dialogue       []DialogueLine `json:"dialogue,omitempty"`
	CameraMovement string         `json:"camera_movement,omitempty"`
}

// ImageLayer is one image entry of a shot.
type ImageLayer struct {
	Layer       string  `json:"layer"`
	Description string  `json:"description,omitempty"`
	Duration    float64 `json:"duration"`
}

// SoundEffect is one sound entry of a shot.
type SoundEffect struct {
	Layer       string  `json:"layer"`
	Description string  `json:"description,omitempty"`
	Duration    float64 `json:"duration"`
	VolumeDB    float64 `json:"volume_db,omitempty"`
}

// DialogueLine is one spoken line. AudioURL and Duration are filled once the
// line has been voice-synthesized; lines without both are skipped during
// synthesis.
type DialogueLine struct {
	Character string  `json:"character,omitempty"`
	Text      string  `json:"text"`
	AudioURL  string  `json:"audio_url,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
}

// Clip is the placement payload of one insert_clip action. Field names are a
// compatibility surface consumed by the external timeline player and must
// not change.
type Clip struct {
	ClipPath  string  `json:"clipPath"`
	Length    float64 `json:"length"`
	Track     int     `json:"track"`
	Start     float64 `json:"start"`
	Speed     float64 `json:"speed"`
	URL       string  `json:"url,omitempty"`
	AssetType string  `json:"assetType,omitempty"`
	Transform string  `json:"transform,omitempty"`
}

// Action is one timeline command.
type Action struct {
	Action string `json:"action"`
	Clip   Clip   `json:"clip"`
}

// CommandSet is the persisted timeline-command format:
// {"message": {"actions": [...]}}.
type CommandSet struct {
	Message Actions `json:"message"`
}

// Actions wraps the ordered action list.
type Actions struct {
	Actions []Action `json:"actions"`
}
