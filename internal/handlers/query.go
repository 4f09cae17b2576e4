package handlers

import (
	"encoding/json"
	"net/http"

	"mediarag/internal/contextutil"
	"mediarag/internal/pipeline"
	"mediarag/internal/rag"
)

// QueryHandler handles HTTP requests for retrieval queries.
type QueryHandler struct {
	engine     *rag.Engine
	retrievers *pipeline.RetrieverManager
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine *rag.Engine, retrievers *pipeline.RetrieverManager) *QueryHandler {
	return &QueryHandler{engine: engine, retrievers: retrievers}
}

// QueryRequest represents the HTTP request payload for retrieval queries.
type QueryRequest struct {
	Queries   []string `json:"queries"`
	DocType   string   `json:"doc_type,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	Retriever string   `json:"retriever,omitempty"`
}

// ServeHTTP retrieves and reconciles chunks for the given queries.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Queries) == 0 {
		writeError(w, http.StatusBadRequest, "At least one query is required")
		return
	}
	if req.Limit < 0 {
		req.Limit = 0
	}

	if req.Retriever != "" {
		if _, _, err := h.retrievers.Resolve(req.Retriever); err != nil {
			writeError(w, http.StatusBadRequest, "Unknown retriever: "+req.Retriever)
			return
		}
	}

	result, err := h.engine.Query(ctx, req.Queries, req.DocType, req.Limit, req.Retriever)
	if err != nil {
		logger.ErrorContext(ctx, "query failed", "error", err)
		writeError(w, http.StatusBadGateway, "Query failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
