package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mediarag/internal/document"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// DocumentStore persists documents and answers the existence and fetch
// queries the pipeline depends on.
type DocumentStore interface {
	// Insert stores a new document. The document's name must be unique.
	Insert(ctx context.Context, doc *document.Document) error
	// ExistsByName reports whether a document with the given name is stored.
	ExistsByName(ctx context.Context, name string) (bool, error)
	// FetchByID returns the document with the given id, or ErrNotFound.
	FetchByID(ctx context.Context, id string) (*document.Document, error)
	// ListByType returns a page of documents of the given type, newest first.
	// An empty docType matches all types.
	ListByType(ctx context.Context, docType string, page, pageSize int) ([]*document.Document, error)
	// Delete removes the document with the given id.
	Delete(ctx context.Context, id string) error
}

// DocumentRepo implements DocumentStore on SQLite. Document payloads are
// stored as flat-map JSON so the schema never has to track per-kind fields.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert stores a new document.
func (r *DocumentRepo) Insert(ctx context.Context, doc *document.Document) error {
	payload, err := json.Marshal(doc.ToMap())
	if err != nil {
		return fmt.Errorf("failed to marshal document payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (id, name, doc_type, payload) VALUES (?, ?, ?, ?)`,
		doc.UUID, doc.Name, doc.Type, string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to insert document %q: %w", doc.Name, err)
	}
	return nil
}

// ExistsByName reports whether a document with the given name is stored.
func (r *DocumentRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM documents WHERE name = ?`, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check document existence: %w", err)
	}
	return count > 0, nil
}

// FetchByID returns the document with the given id.
func (r *DocumentRepo) FetchByID(ctx context.Context, id string) (*document.Document, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM documents WHERE id = ?`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %q: %w", id, err)
	}
	return unmarshalDocument(payload)
}

// ListByType returns a page of documents of the given type, newest first.
func (r *DocumentRepo) ListByType(ctx context.Context, docType string, page, pageSize int) ([]*document.Document, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `SELECT payload FROM documents ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args := []any{pageSize, offset}
	if docType != "" {
		query = `SELECT payload FROM documents WHERE doc_type = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
		args = []any{docType, pageSize, offset}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*document.Document
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		doc, err := unmarshalDocument(payload)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

// Delete removes the document with the given id.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document %q: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func unmarshalDocument(payload string) (*document.Document, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document payload: %w", err)
	}
	return document.FromMap(data), nil
}
