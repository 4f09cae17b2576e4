package llm

import "errors"

// Typed failures of the structured-completion call. Callers branch on these:
// a timeout is retryable by the caller, an invalid-JSON or schema-mismatch
// response is not, and the latter carries the raw payload so callers can run
// a best-effort manual extraction pass.
var (
	// ErrTimeout is returned when the LLM call exceeds its deadline.
	ErrTimeout = errors.New("llm request timed out")
	// ErrInvalidJSON is returned when the response payload is not valid JSON.
	ErrInvalidJSON = errors.New("llm response is not valid JSON")
	// ErrSchemaMismatch is returned when the payload is valid JSON but does
	// not conform to the requested schema.
	ErrSchemaMismatch = errors.New("llm response does not match schema")
)
