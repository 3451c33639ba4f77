package api

import (
	"context"
	"net/http"

	"travelex/internal/domain/mfa"
)

// BeginMFA starts an enrollment; any previous pending enrollment is
// discarded server-side.
func (c *Client) BeginMFA(ctx context.Context) (mfa.Enrollment, error) {
	var e mfa.Enrollment
	if err := c.do(ctx, http.MethodPost, "/api/mfa/enroll", nil, nil, &e); err != nil {
		return mfa.Enrollment{}, err
	}
	return e, nil
}

// ConfirmMFA activates the pending enrollment with a code from the
// operator's authenticator.
func (c *Client) ConfirmMFA(ctx context.Context, code string) error {
	body := map[string]string{"code": code}
	return c.do(ctx, http.MethodPost, "/api/mfa/confirm", body, nil, nil)
}
