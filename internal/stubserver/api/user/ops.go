package user

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Authenticate an operator",
		Tags:        []string{"auth"},
		Middlewares: h.public,
	}
}

func (h *Handler) mfaEnrollOp() huma.Operation {
	return huma.Operation{
		OperationID: "mfa-enroll",
		Method:      http.MethodPost,
		Path:        "/api/mfa/enroll",
		Summary:     "Start MFA enrollment",
		Description: "Issues a fresh TOTP secret. Any previous pending enrollment is discarded.",
		Tags:        []string{"auth"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.authorized,
	}
}

func (h *Handler) mfaConfirmOp() huma.Operation {
	return huma.Operation{
		OperationID:   "mfa-confirm",
		Method:        http.MethodPost,
		Path:          "/api/mfa/confirm",
		Summary:       "Confirm MFA enrollment",
		Tags:          []string{"auth"},
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.authorized,
		DefaultStatus: http.StatusNoContent,
	}
}
