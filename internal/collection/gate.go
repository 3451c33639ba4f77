package collection

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"travelex/internal/app/client/api"
)

// AlertChecker is the backend threshold-check endpoint.
type AlertChecker interface {
	CheckAlert(ctx context.Context, cand api.AlertCandidate) (api.AlertResult, error)
}

// Gate intercepts a save when a server-evaluated business rule trips. It
// fails open: a monitoring feature must never block core functionality, so a
// failed check lets the save proceed.
type Gate struct {
	checker AlertChecker
	confirm Confirmer
	log     *slog.Logger
}

func NewGate(checker AlertChecker, confirm Confirmer, log *slog.Logger) *Gate {
	return &Gate{
		checker: checker,
		confirm: confirm,
		log:     log.With("component", "alert_gate"),
	}
}

// Allow evaluates the candidate and, when tripped, suspends the save until
// the operator decides. Returns false only on an explicit operator cancel.
func (g *Gate) Allow(ctx context.Context, cand api.AlertCandidate) (bool, error) {
	res, err := g.checker.CheckAlert(ctx, cand)
	if err != nil {
		g.log.Warn("alert check failed, proceeding",
			"collection", cand.Collection,
			"error", err,
		)
		return true, nil
	}

	if !res.Tripped {
		return true, nil
	}

	msg := res.Detail.Message
	if msg == "" {
		msg = fmt.Sprintf("Amount %.2f %s exceeds the configured alert threshold of %.2f. Proceed anyway?",
			cand.Amount, cand.Currency, res.Detail.AlertAmount)
	}

	ok, err := g.confirm.Confirm(ctx, Prompt{
		Title:        "Amount above alert threshold",
		Message:      msg,
		ConfirmLabel: "Proceed",
		CancelLabel:  "Cancel",
		Severity:     SeverityWarning,
	})
	if err != nil {
		return false, fmt.Errorf("collect operator decision: %w", err)
	}
	return ok, nil
}

// AllowBatch evaluates a whole batch at once (statement commit pre-check):
// warnings are collected first and confirmed with a single operator
// decision. The fail-open rule applies to the batch check as a whole.
func (g *Gate) AllowBatch(ctx context.Context, checker interface {
	CheckAlertBatch(ctx context.Context, cands []api.AlertCandidate) ([]api.AlertResult, error)
}, cands []api.AlertCandidate) (bool, error) {
	if len(cands) == 0 {
		return true, nil
	}

	results, err := checker.CheckAlertBatch(ctx, cands)
	if err != nil {
		g.log.Warn("batch alert check failed, proceeding", "error", err)
		return true, nil
	}

	var tripped int
	for _, r := range results {
		if r.Tripped {
			tripped++
		}
	}
	if tripped == 0 {
		return true, nil
	}

	ok, err := g.confirm.Confirm(ctx, Prompt{
		Title:        "Amounts above alert threshold",
		Message:      fmt.Sprintf("%d of %d entries exceed their configured alert thresholds. Proceed with the whole batch?", tripped, len(cands)),
		ConfirmLabel: "Proceed",
		CancelLabel:  "Cancel",
		Severity:     SeverityWarning,
	})
	if err != nil {
		return false, fmt.Errorf("collect operator decision: %w", err)
	}
	return ok, nil
}
