package alert

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) checkOp() huma.Operation {
	return huma.Operation{
		OperationID: "alerts-check",
		Method:      http.MethodPost,
		Path:        "/api/alerts/check",
		Summary:     "Check one save candidate against the thresholds",
		Tags:        []string{"alerts"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) checkBatchOp() huma.Operation {
	return huma.Operation{
		OperationID: "alerts-check-batch",
		Method:      http.MethodPost,
		Path:        "/api/alerts/check-batch",
		Summary:     "Check a batch of candidates, preserving order",
		Tags:        []string{"alerts"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
