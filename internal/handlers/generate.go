package handlers

import (
	"encoding/json"
	"net/http"

	"mediarag/internal/contextutil"
	"mediarag/internal/pipeline"
	"mediarag/internal/rag"
)

// GenerateHandler handles HTTP requests for generation turns. It retrieves
// context for the queries and hands the turn to the selected generator.
type GenerateHandler struct {
	engine     *rag.Engine
	generators *pipeline.GeneratorManager
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(engine *rag.Engine, generators *pipeline.GeneratorManager) *GenerateHandler {
	return &GenerateHandler{engine: engine, generators: generators}
}

// GenerateRequest represents the HTTP request payload for generation.
type GenerateRequest struct {
	ConversationID string   `json:"conversation_id"`
	Queries        []string `json:"queries"`
	DocType        string   `json:"doc_type,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	Generator      string   `json:"generator,omitempty"`
}

// GenerateResponse represents the HTTP response payload for generation.
type GenerateResponse struct {
	Message         string `json:"message"`
	FinishReason    string `json:"finish_reason"`
	Context         string `json:"context,omitempty"`
	FirstTemplateID string `json:"first_template_public_id,omitempty"`
}

// ServeHTTP processes one generation turn.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConversationID == "" {
		writeError(w, http.StatusBadRequest, "conversation_id is required")
		return
	}
	if len(req.Queries) == 0 {
		writeError(w, http.StatusBadRequest, "At least one query is required")
		return
	}

	generator, _, err := h.generators.Resolve(req.Generator)
	if err != nil {
		if req.Generator != "" {
			writeError(w, http.StatusBadRequest, "Unknown generator: "+req.Generator)
			return
		}
		writeError(w, http.StatusInternalServerError, "No generator registered")
		return
	}

	queryResult, err := h.engine.Query(ctx, req.Queries, req.DocType, req.Limit, "")
	if err != nil {
		logger.ErrorContext(ctx, "context retrieval failed", "error", err)
		writeError(w, http.StatusBadGateway, "Context retrieval failed: "+err.Error())
		return
	}

	result, err := generator.Generate(ctx, pipeline.GenerateRequest{
		ConversationID: req.ConversationID,
		Queries:        req.Queries,
		Context:        queryResult.Context,
		ChunkInfo:      queryResult.ChunkInfo,
	})
	if err != nil {
		logger.ErrorContext(ctx, "generation failed", "error", err)
		writeError(w, http.StatusBadGateway, "Generation failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		Message:         result.Message,
		FinishReason:    result.FinishReason,
		Context:         queryResult.Context,
		FirstTemplateID: queryResult.FirstTemplateID,
	})
}
