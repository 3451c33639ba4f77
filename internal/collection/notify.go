package collection

import "context"

// Severity of a confirmation prompt.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityDanger
)

// Prompt is the confirmation dialog contract: the calling flow suspends in a
// pending-decision state until the operator answers.
type Prompt struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Severity     Severity
}

// Confirmer collects an explicit operator decision.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// Notifier surfaces failures to the operator. No error may be swallowed:
// every failed operation reaches exactly one of these methods.
type Notifier interface {
	// LoadFailed reports a failed list refresh; the UI shows a retry
	// affordance and keeps displaying stale data.
	LoadFailed(err error)
	// RowFailed reports a failed mutation, attached to the row or dialog
	// that was being edited. id is 0 for a create that never got one.
	RowFailed(id int, err error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}
