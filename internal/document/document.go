// Package document defines the Document and Chunk value types that flow
// through every pipeline stage, together with their flat-map serialization
// used for persistence and wire transfer.
package document

// Document represents one ingested media item (meme, transcription,
// video frame export, markdown note) and its accumulated fragments.
type Document struct {
	UUID           string
	Name           string // Unique within the store; duplicates are rejected at ingestion
	Type           string // "meme", "transcription", "video", "markdown", ...
	Text           string // Full concatenated content
	Path           string
	Link           string
	Timestamp      string
	Reader         string // Name of the reader strategy that produced this document
	Tags           []string
	ExampleImages  []string
	TemplateImages []string
	Metadata       map[string]any // Stage-specific open metadata (e.g. "full_content", "chunks_count")
	ChunkInfo      []FragmentInfo // Per-fragment metadata persisted alongside the document
	Chunks         []Chunk
}

// New returns an empty Document with all collection fields initialized.
func New() *Document {
	return &Document{
		Tags:           []string{},
		ExampleImages:  []string{},
		TemplateImages: []string{},
		Metadata:       map[string]any{},
		ChunkInfo:      []FragmentInfo{},
		Chunks:         []Chunk{},
	}
}

// FragmentInfo is the richer per-fragment metadata record a reader persists
// with its document. Retrieval reconciliation matches these against retrieved
// chunks by ChunkID; the transcription kind fills the timing fields.
type FragmentInfo struct {
	ChunkID    string         `json:"chunk_id"`
	Transcript string         `json:"transcript,omitempty"`
	Text       string         `json:"text,omitempty"`
	PublicID   string         `json:"public_id,omitempty"`
	Tags       string         `json:"tags,omitempty"`
	DocName    string         `json:"doc_name,omitempty"`
	DocType    string         `json:"doc_type,omitempty"`
	DocUUID    string         `json:"doc_uuid,omitempty"`
	Start      float64        `json:"start,omitempty"`
	End        float64        `json:"end,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Channel    int            `json:"channel,omitempty"`
	Speaker    string         `json:"speaker,omitempty"`
	OriginalID string         `json:"original_id,omitempty"`
	Duration   float64        `json:"duration,omitempty"`
	Words      []Word         `json:"words,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// Word is one word of a transcription utterance with its timing.
type Word struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

// FileData is one raw input handed to a reader strategy. Content may be
// base64-encoded or plain; readers decode either.
type FileData struct {
	Filename  string `json:"filename"`
	Extension string `json:"extension"`
	Content   []byte `json:"content"`
}
