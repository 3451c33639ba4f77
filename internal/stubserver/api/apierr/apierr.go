package apierr

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// FieldErrors is a 422 response carrying per-field validation messages. The
// body shape matches what the admin client's error decoding expects:
// {"detail": {"field": "message"}}.
type FieldErrors struct {
	Fields map[string]string `json:"detail"`
}

func New(fields map[string]string) *FieldErrors {
	return &FieldErrors{Fields: fields}
}

func (e *FieldErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *FieldErrors) GetStatus() int {
	return http.StatusUnprocessableEntity
}
