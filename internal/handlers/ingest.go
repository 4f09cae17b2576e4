package handlers

import (
	"encoding/json"
	"net/http"

	"mediarag/internal/contextutil"
	"mediarag/internal/document"
	"mediarag/internal/ingest"
	"mediarag/internal/pipeline"
)

// IngestHandler handles HTTP requests that ingest source files.
type IngestHandler struct {
	orchestrator *ingest.Orchestrator
	readers      *pipeline.ReaderManager
	chunkers     *pipeline.ChunkerManager
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(orchestrator *ingest.Orchestrator, readers *pipeline.ReaderManager, chunkers *pipeline.ChunkerManager) *IngestHandler {
	return &IngestHandler{
		orchestrator: orchestrator,
		readers:      readers,
		chunkers:     chunkers,
	}
}

// IngestFile is one uploaded file. Content may be base64-encoded or plain
// text.
type IngestFile struct {
	Filename  string `json:"filename"`
	Extension string `json:"extension"`
	Content   string `json:"content"`
}

// IngestRequest represents the HTTP request payload for ingestion.
type IngestRequest struct {
	Reader  string       `json:"reader,omitempty"`
	Chunker string       `json:"chunker,omitempty"`
	Files   []IngestFile `json:"files"`
}

// IngestedDocument is one created document in the response.
type IngestedDocument struct {
	UUID   string `json:"uuid"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Chunks int    `json:"chunks"`
}

// IngestResponse represents the HTTP response payload for ingestion.
type IngestResponse struct {
	Documents []IngestedDocument `json:"documents"`
	Log       []LogEntry         `json:"log"`
}

// LogEntry is one run-log entry in the response.
type LogEntry struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ServeHTTP runs the ingestion pipeline over the uploaded files.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "At least one file is required")
		return
	}

	if req.Reader != "" {
		if _, _, err := h.readers.Resolve(req.Reader); err != nil {
			writeError(w, http.StatusBadRequest, "Unknown reader: "+req.Reader)
			return
		}
	}
	if req.Chunker != "" {
		if _, _, err := h.chunkers.Resolve(req.Chunker); err != nil {
			writeError(w, http.StatusBadRequest, "Unknown chunker: "+req.Chunker)
			return
		}
	}

	files := make([]document.FileData, len(req.Files))
	for i, f := range req.Files {
		files[i] = document.FileData{
			Filename:  f.Filename,
			Extension: f.Extension,
			Content:   []byte(f.Content),
		}
	}

	docs, log, err := h.orchestrator.Run(ctx, files, req.Reader, req.Chunker)
	if err != nil {
		logger.ErrorContext(ctx, "ingestion failed", "error", err)
		writeError(w, http.StatusBadGateway, "Ingestion failed: "+err.Error())
		return
	}

	resp := IngestResponse{
		Documents: make([]IngestedDocument, 0, len(docs)),
		Log:       logEntries(log),
	}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, IngestedDocument{
			UUID:   doc.UUID,
			Name:   doc.Name,
			Type:   doc.Type,
			Chunks: len(doc.Chunks),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func logEntries(log *pipeline.Log) []LogEntry {
	entries := log.Entries()
	out := make([]LogEntry, len(entries))
	for i, entry := range entries {
		out[i] = LogEntry{Severity: entry.Severity, Message: entry.Message}
	}
	return out
}
