package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"mediarag/internal/contextutil"
	"mediarag/internal/document"
	"mediarag/internal/pipeline"
)

// transcriptionFile is the JSON export shape of one audio transcription.
type transcriptionFile struct {
	VideoID    string      `json:"video_id"`
	SHA256     string      `json:"sha256"`
	Utterances []utterance `json:"utterances"`
}

type utterance struct {
	Transcript  string          `json:"transcript"`
	Start       float64         `json:"start"`
	End         float64         `json:"end"`
	Confidence  float64         `json:"confidence"`
	Channel     int             `json:"channel"`
	Speaker     json.RawMessage `json:"speaker"`
	UtteranceID string          `json:"utterance_id"`
	Duration    float64         `json:"duration"`
	Words       []document.Word `json:"words"`
}

// TranscriptionReader imports audio transcription JSON files as
// "transcription" documents. The document text is the concatenation of all
// utterance transcripts; per-utterance metadata is kept as FragmentInfo
// records for retrieval reconciliation.
type TranscriptionReader struct{}

// NewTranscriptionReader creates a new TranscriptionReader.
func NewTranscriptionReader() *TranscriptionReader {
	return &TranscriptionReader{}
}

// Load converts each JSON file into one transcription document.
func (r *TranscriptionReader) Load(ctx context.Context, files []document.FileData, log *pipeline.Log) ([]*document.Document, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "transcription reader processing files", "count", len(files))

	var documents []*document.Document
	for _, file := range files {
		if file.Extension != "json" {
			continue
		}

		content := decodeContent(file.Content)
		var data transcriptionFile
		if err := json.Unmarshal(content, &data); err != nil {
			log.Warning(fmt.Sprintf("failed to load %s: %v", file.Filename, err))
			continue
		}

		videoID := data.VideoID
		if videoID == "" {
			videoID = "unknown"
		}

		transcripts := make([]string, 0, len(data.Utterances))
		chunkInfo := make([]document.FragmentInfo, 0, len(data.Utterances))
		for index, utt := range data.Utterances {
			transcripts = append(transcripts, utt.Transcript)
			chunkInfo = append(chunkInfo, document.FragmentInfo{
				ChunkID:    strconv.Itoa(index),
				Transcript: utt.Transcript,
				Start:      utt.Start,
				End:        utt.End,
				Confidence: utt.Confidence,
				Channel:    utt.Channel,
				Speaker:    speakerString(utt.Speaker),
				OriginalID: utt.UtteranceID,
				Duration:   utt.Duration,
				Words:      utt.Words,
			})
		}

		doc := document.New()
		doc.Name = fmt.Sprintf("Transcription_%s", videoID)
		doc.Text = strings.Join(transcripts, " ")
		doc.Type = "transcription"
		doc.Timestamp = timestamp()
		doc.Reader = "TranscriptionReader"
		doc.ChunkInfo = chunkInfo
		doc.Metadata["video_id"] = data.VideoID
		doc.Metadata["sha256"] = data.SHA256
		doc.Metadata["utterances_count"] = len(data.Utterances)
		doc.Metadata["full_content"] = string(content)

		documents = append(documents, doc)
		logger.InfoContext(ctx, "processed transcription file", "filename", file.Filename, "name", doc.Name, "utterances", len(data.Utterances))
	}
	return documents, nil
}

// speakerString tolerates both string and numeric speaker ids, which
// transcription vendors disagree on.
func speakerString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "0"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return "0"
}
