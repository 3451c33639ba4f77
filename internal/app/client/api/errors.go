package api

import (
	"encoding/json"
	"fmt"
)

// Error taxonomy for backend calls. Callers match with errors.As and must
// treat anything outside these types as a programming error.

// NetworkError means no response reached the server. Transient; a manual
// retry is reasonable.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// AuthError is a 401: the session is invalid and the operator must
// re-authenticate before anything else.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "authentication required"
	}
	return fmt.Sprintf("authentication required: %s", e.Detail)
}

// NotFoundError means the referenced resource no longer exists server-side.
type NotFoundError struct {
	Path   string
	Detail string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// ValidationError carries server-side field-level messages. Fields must be
// shown next to the offending inputs, never as a generic toast.
type ValidationError struct {
	Fields map[string]string
	Detail string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
	}
	return fmt.Sprintf("validation failed: %s", e.Detail)
}

// ServerError is a 5xx or an unparseable body; shown as a generic retryable
// failure.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Detail)
}

// errorBody is the uniform backend error shape:
// { "detail": string | {field: message} }.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// decodeDetail splits the polymorphic detail into its string and field-map
// forms. Unparseable bodies yield empty results and are handled by the
// caller as ServerError.
func decodeDetail(body []byte) (string, map[string]string) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s, nil
	}

	var fields map[string]string
	if err := json.Unmarshal(eb.Detail, &fields); err == nil {
		return "", fields
	}

	return "", nil
}
