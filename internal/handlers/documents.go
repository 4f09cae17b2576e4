package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mediarag/internal/contextutil"
	"mediarag/internal/document"
	"mediarag/internal/storage"
)

const defaultPageSize = 20

// DocumentSummary is one stored document in a listing response.
type DocumentSummary struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Chunks    int    `json:"chunks"`
}

// ListDocumentsResponse represents the HTTP response payload for a listing.
type ListDocumentsResponse struct {
	Documents []DocumentSummary `json:"documents"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
}

// DocumentsHandler serves stored documents: listing, fetch by id and delete
// by id.
type DocumentsHandler struct {
	store storage.DocumentStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(store storage.DocumentStore) *DocumentsHandler {
	return &DocumentsHandler{store: store}
}

// List returns a page of stored documents, optionally filtered by doc_type.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", defaultPageSize)
	docType := r.URL.Query().Get("doc_type")

	docs, err := h.store.ListByType(ctx, docType, page, pageSize)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	resp := ListDocumentsResponse{
		Documents: make([]DocumentSummary, 0, len(docs)),
		Page:      page,
		PageSize:  pageSize,
	}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, summarize(doc))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns the full flat-map payload of one document.
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := chi.URLParam(r, "id")
	doc, err := h.store.FetchByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to fetch document", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch document")
		return
	}
	writeJSON(w, http.StatusOK, doc.ToMap())
}

// Delete removes one document by id.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := chi.URLParam(r, "id")
	err := h.store.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete document", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}
	logger.InfoContext(ctx, "deleted document", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func summarize(doc *document.Document) DocumentSummary {
	return DocumentSummary{
		UUID:      doc.UUID,
		Name:      doc.Name,
		Type:      doc.Type,
		Timestamp: doc.Timestamp,
		Chunks:    len(doc.Chunks),
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
