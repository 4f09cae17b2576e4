package handlers

import (
	"encoding/json"
	"net/http"

	"mediarag/internal/contextutil"
	"mediarag/internal/timeline"
	"mediarag/internal/tts"
)

// TimelineHandler handles HTTP requests that synthesize a shot schema into
// timeline commands. With a resolver configured it first voices unresolved
// dialogue lines.
type TimelineHandler struct {
	resolver *tts.Resolver
}

// NewTimelineHandler creates a new TimelineHandler. resolver may be nil when
// no TTS service is configured.
func NewTimelineHandler(resolver *tts.Resolver) *TimelineHandler {
	return &TimelineHandler{resolver: resolver}
}

// TimelineRequest represents the HTTP request payload for synthesis.
type TimelineRequest struct {
	Schema          timeline.Schema `json:"schema"`
	ResolveDialogue bool            `json:"resolve_dialogue,omitempty"`
}

// TimelineResponse represents the HTTP response payload for synthesis.
type TimelineResponse struct {
	Commands      timeline.CommandSet `json:"commands"`
	TotalDuration float64             `json:"total_duration"`
}

// ServeHTTP synthesizes one shot schema.
func (h *TimelineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req TimelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Schema.Shots) == 0 {
		writeError(w, http.StatusBadRequest, "Schema must contain at least one shot")
		return
	}

	schema := req.Schema
	if req.ResolveDialogue {
		if h.resolver == nil {
			writeError(w, http.StatusBadRequest, "Dialogue resolution is not configured")
			return
		}
		resolved, err := h.resolver.Resolve(ctx, schema)
		if err != nil {
			logger.ErrorContext(ctx, "dialogue resolution failed", "error", err)
			writeError(w, http.StatusBadGateway, "Dialogue resolution failed: "+err.Error())
			return
		}
		schema = resolved
	}

	commands, total, err := timeline.Synthesize(schema, logger)
	if err != nil {
		logger.WarnContext(ctx, "synthesis rejected schema", "error", err)
		writeError(w, http.StatusBadRequest, "Synthesis failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, TimelineResponse{
		Commands:      commands,
		TotalDuration: total,
	})
}
