package statement

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) processOp() huma.Operation {
	return huma.Operation{
		OperationID: "statements-process",
		Method:      http.MethodPost,
		Path:        "/api/statements/process",
		Summary:     "Parse an uploaded statement into an import",
		Description: "Parses the stored file, matches cardholders to operator accounts and consolidates transactions into groups.",
		Tags:        []string{"statements"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) groupsOp() huma.Operation {
	return huma.Operation{
		OperationID: "statements-groups",
		Method:      http.MethodGet,
		Path:        "/api/statements/{id}/groups",
		Summary:     "Consolidated groups of an import",
		Tags:        []string{"statements"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) commitOp() huma.Operation {
	return huma.Operation{
		OperationID: "statements-commit",
		Method:      http.MethodPost,
		Path:        "/api/statements/{id}/commit",
		Summary:     "Commit the included groups",
		Description: "Creates prepayment and expense rows from the included groups and returns the import report. Committing twice is rejected.",
		Tags:        []string{"statements"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
