package api

import (
	"context"
	"net/http"
)

// AlertCandidate is the value combination the backend evaluates against its
// configured thresholds before a save is allowed through.
type AlertCandidate struct {
	Collection string  `json:"collection"`
	CategoryID int     `json:"category_id,omitempty"`
	Country    string  `json:"country,omitempty"`
	Currency   string  `json:"currency"`
	Amount     float64 `json:"amount"`
}

type AlertDetail struct {
	AlertAmount float64 `json:"alert_amount"`
	Message     string  `json:"message,omitempty"`
}

type AlertResult struct {
	Tripped bool        `json:"tripped"`
	Detail  AlertDetail `json:"detail"`
}

// CheckAlert asks the backend whether the candidate trips a configured
// threshold. Transport failures are returned to the caller; the gate decides
// the fail-open policy, not this client.
func (c *Client) CheckAlert(ctx context.Context, cand AlertCandidate) (AlertResult, error) {
	var res AlertResult
	if err := c.do(ctx, http.MethodPost, "/api/alerts/check", cand, nil, &res); err != nil {
		return AlertResult{}, err
	}
	return res, nil
}

// CheckAlertBatch evaluates a whole batch at once (statement commit
// pre-check). The response preserves candidate order.
func (c *Client) CheckAlertBatch(ctx context.Context, cands []AlertCandidate) ([]AlertResult, error) {
	body := struct {
		Candidates []AlertCandidate `json:"candidates"`
	}{Candidates: cands}

	var resp struct {
		Results []AlertResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/alerts/check-batch", body, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
