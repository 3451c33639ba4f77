package collection

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/exp/slog"

	"travelex/internal/app/client/api"
	"travelex/internal/validation"
)

// ErrCancelled is returned when the operator declines a confirmation; it is
// a normal outcome, not a failure, and is never routed to the Notifier.
var ErrCancelled = errors.New("cancelled by operator")

// Remote is the persistence collaborator of a controller; *api.Resource[T]
// satisfies it.
type Remote[T api.Row] interface {
	List(ctx context.Context, filter url.Values) ([]T, error)
	Get(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, fields validation.Draft) (T, error)
	Update(ctx context.Context, id int, fields validation.Draft) (T, error)
	Delete(ctx context.Context, id int) error
}

// Config wires one controller instance to its resource type.
type Config[T api.Row] struct {
	// Label is the human-readable resource name used in prompts.
	Label  string
	Remote Remote[T]
	Rules  validation.RuleSet
	// DraftOf snapshots a row's editable fields for editing.
	DraftOf func(T) validation.Draft
	// AlertCandidate extracts the threshold-check input from a draft;
	// nil means the resource is not alert-gated.
	AlertCandidate func(validation.Draft) (api.AlertCandidate, bool)
	Confirmer      Confirmer
	Notifier       Notifier
	Gate           *Gate
	Log            *slog.Logger
}

// Controller owns the displayed collection of one resource: the single
// source of truth the UI renders from. Rows are mutated only by successful
// server responses; any failure leaves the collection in its last-known-good
// state.
//
// The controller is confined to the UI event loop: every method completes
// its collection update synchronously after its awaited network call, so
// concurrent per-row edits interleave safely without locks.
type Controller[T api.Row] struct {
	cfg  Config[T]
	log  *slog.Logger
	rows []T
}

func NewController[T api.Row](cfg Config[T]) *Controller[T] {
	return &Controller[T]{
		cfg: cfg,
		log: cfg.Log.With("component", "controller", "resource", cfg.Label),
	}
}

// Rows returns a copy of the collection in display order.
func (c *Controller[T]) Rows() []T {
	out := make([]T, len(c.rows))
	copy(out, c.rows)
	return out
}

// Find returns the row with the given id.
func (c *Controller[T]) Find(id int) (T, bool) {
	for _, r := range c.rows {
		if r.RowID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Editor builds a per-row edit state machine for the row with the given id.
func (c *Controller[T]) Editor(id int) (*Editor[T], bool) {
	row, ok := c.Find(id)
	if !ok {
		return nil, false
	}
	return NewEditor(row, c.cfg.Rules, c.cfg.DraftOf), true
}

// Load replaces the whole collection with the server's list, in server
// order. On failure the collection is left untouched: stale data beats an
// empty display.
func (c *Controller[T]) Load(ctx context.Context, filter url.Values) error {
	rows, err := c.cfg.Remote.List(ctx, filter)
	if err != nil {
		c.log.Error("load failed", "error", err)
		c.cfg.Notifier.LoadFailed(err)
		return err
	}
	c.rows = rows
	return nil
}

// Validate runs the resource rule set against a draft without touching the
// network. Used by forms for inline feedback.
func (c *Controller[T]) Validate(draft validation.Draft) validation.ErrorSet {
	return c.cfg.Rules.Validate(draft)
}

// AddRow creates a new row from draft fields. The row is appended only
// after the create succeeds; on failure nothing is appended and the caller
// keeps the attempted values for correction. No optimistic insertion:
// unconfirmed rows never enter the collection.
func (c *Controller[T]) AddRow(ctx context.Context, draft validation.Draft) (T, error) {
	var zero T

	if errs := c.cfg.Rules.Validate(draft); !errs.Empty() {
		return zero, &api.ValidationError{Fields: errs}
	}

	ok, err := c.allowSave(ctx, draft)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, ErrCancelled
	}

	row, err := c.cfg.Remote.Create(ctx, draft)
	if err != nil {
		c.log.Error("create failed", "error", err)
		c.cfg.Notifier.RowFailed(0, err)
		return zero, err
	}

	c.upsert(row)
	return row, nil
}

// SaveEdit drives an editor through its save: full re-validation, the alert
// gate, then the update call. On success the server echo replaces both the
// editor's row and the collection entry; on failure the draft survives and
// the collection is unchanged.
func (c *Controller[T]) SaveEdit(ctx context.Context, ed *Editor[T]) error {
	if err := ed.beginSave(); err != nil {
		return err
	}
	id := ed.Row().RowID()

	ok, err := c.allowSave(ctx, ed.Draft())
	if err != nil {
		ed.saveFailed()
		return err
	}
	if !ok {
		// Operator declined: back to Editing, draft intact.
		ed.saveFailed()
		return ErrCancelled
	}

	echo, err := c.cfg.Remote.Update(ctx, id, ed.Draft())
	if err != nil {
		ed.saveFailed()
		c.handleUpdateFailure(ctx, id, err)
		return err
	}

	ed.saveSucceeded(echo)
	c.upsert(echo)
	return nil
}

// UpdateRow persists draft fields for a row outside an interactive editor
// (bulk flows). Same guarantees as SaveEdit.
func (c *Controller[T]) UpdateRow(ctx context.Context, id int, draft validation.Draft) error {
	if errs := c.cfg.Rules.Validate(draft); !errs.Empty() {
		return &api.ValidationError{Fields: errs}
	}

	ok, err := c.allowSave(ctx, draft)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	echo, err := c.cfg.Remote.Update(ctx, id, draft)
	if err != nil {
		c.handleUpdateFailure(ctx, id, err)
		return err
	}

	c.upsert(echo)
	return nil
}

// RemoveRow deletes a row after operator confirmation. Delete is idempotent
// from the operator's perspective: a NotFound from a racing stale UI
// converges to "row absent" with no user-visible error.
func (c *Controller[T]) RemoveRow(ctx context.Context, id int) error {
	ok, err := c.cfg.Confirmer.Confirm(ctx, Prompt{
		Title:        fmt.Sprintf("Delete %s", c.cfg.Label),
		Message:      fmt.Sprintf("Delete %s #%d? This cannot be undone.", c.cfg.Label, id),
		ConfirmLabel: "Delete",
		CancelLabel:  "Cancel",
		Severity:     SeverityDanger,
	})
	if err != nil {
		return fmt.Errorf("collect operator decision: %w", err)
	}
	if !ok {
		return ErrCancelled
	}

	if err := c.cfg.Remote.Delete(ctx, id); err != nil {
		var notFound *api.NotFoundError
		if !errors.As(err, &notFound) {
			c.log.Error("delete failed", "id", id, "error", err)
			c.cfg.Notifier.RowFailed(id, err)
			return err
		}
		c.log.Debug("delete of already-absent row treated as success", "id", id)
	}

	c.removeByID(id)
	return nil
}

// allowSave runs the alert gate when the resource is gated.
func (c *Controller[T]) allowSave(ctx context.Context, draft validation.Draft) (bool, error) {
	if c.cfg.AlertCandidate == nil || c.cfg.Gate == nil {
		return true, nil
	}
	cand, gated := c.cfg.AlertCandidate(draft)
	if !gated {
		return true, nil
	}
	return c.cfg.Gate.Allow(ctx, cand)
}

// handleUpdateFailure surfaces the error and, for NotFound, reconciles the
// stale local copy: the row is re-fetched, and dropped if it is gone
// server-side.
func (c *Controller[T]) handleUpdateFailure(ctx context.Context, id int, err error) {
	c.log.Error("update failed", "id", id, "error", err)
	c.cfg.Notifier.RowFailed(id, err)

	var notFound *api.NotFoundError
	if !errors.As(err, &notFound) {
		return
	}

	fresh, getErr := c.cfg.Remote.Get(ctx, id)
	if getErr != nil {
		c.removeByID(id)
		return
	}
	c.upsert(fresh)
}

// upsert replaces the row with a matching id in place, or appends after the
// existing rows. Replacement on id collision keeps the unique-id invariant
// even when a retried create echoes an already-known row.
func (c *Controller[T]) upsert(row T) {
	for i, r := range c.rows {
		if r.RowID() == row.RowID() {
			c.rows[i] = row
			return
		}
	}
	c.rows = append(c.rows, row)
}

func (c *Controller[T]) removeByID(id int) {
	for i, r := range c.rows {
		if r.RowID() == id {
			c.rows = append(c.rows[:i], c.rows[i+1:]...)
			return
		}
	}
}
