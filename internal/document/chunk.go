package document

// Chunk is one retrievable fragment of a Document. It is created during
// chunking, gains Vector and Tokens during embedding, and Score during
// retrieval. Score is ephemeral and never persisted back into the document.
type Chunk struct {
	Text    string
	DocName string
	DocType string
	DocUUID string
	ChunkID string // Unique within its document, not globally
	Tokens  int
	Vector  []float32
	Score   float64

	// Meme fragment fields.
	PublicID string
	Tags     string

	// Transcription fragment fields.
	Start      float64
	End        float64
	Confidence float64
	Channel    int
	Speaker    string
	OriginalID string
	Words      []Word

	// Meta carries anything stage-specific (frame numbers, template image
	// ids) that has no typed field.
	Meta map[string]any
}

// NewChunk returns an empty Chunk with all collection fields initialized.
func NewChunk() Chunk {
	return Chunk{
		Vector: []float32{},
		Words:  []Word{},
		Meta:   map[string]any{},
	}
}
