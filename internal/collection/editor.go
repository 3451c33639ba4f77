package collection

import (
	"errors"

	"travelex/internal/app/client/api"
	"travelex/internal/validation"
)

// EditState of one row. Rows rest in Viewing; there is no terminal state.
type EditState int

const (
	StateViewing EditState = iota
	StateEditing
	StateSaving
)

func (s EditState) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	default:
		return "invalid"
	}
}

var (
	ErrWrongState       = errors.New("operation not allowed in current edit state")
	ErrValidationFailed = errors.New("draft failed validation")
)

// Editor tracks the edit lifecycle of a single row. The draft is a working
// copy of the row's fields; the committed row is only ever replaced by a
// server echo, never by the draft directly. Editors for different rows are
// fully independent.
type Editor[T api.Row] struct {
	row     T
	rules   validation.RuleSet
	toDraft func(T) validation.Draft

	state EditState
	draft validation.Draft
	errs  validation.ErrorSet
}

func NewEditor[T api.Row](row T, rules validation.RuleSet, toDraft func(T) validation.Draft) *Editor[T] {
	return &Editor[T]{
		row:     row,
		rules:   rules,
		toDraft: toDraft,
		state:   StateViewing,
	}
}

func (e *Editor[T]) State() EditState { return e.state }

// Row returns the committed, server-authoritative value.
func (e *Editor[T]) Row() T { return e.row }

// Draft returns the working copy; nil outside Editing/Saving.
func (e *Editor[T]) Draft() validation.Draft { return e.draft }

// Errors returns the current validation error set for the draft.
func (e *Editor[T]) Errors() validation.ErrorSet { return e.errs }

// StartEdit snapshots the row's fields into a fresh draft.
func (e *Editor[T]) StartEdit() error {
	if e.state != StateViewing {
		return ErrWrongState
	}
	e.draft = e.toDraft(e.row)
	e.errs = validation.ErrorSet{}
	e.state = StateEditing
	return nil
}

// SetField updates one draft field and clears any validation error recorded
// for it (edit-to-clear-error policy).
func (e *Editor[T]) SetField(name string, value any) error {
	if e.state != StateEditing {
		return ErrWrongState
	}
	e.draft[name] = value
	delete(e.errs, name)
	return nil
}

// Validate runs the full rule set against the draft and records the result.
// Cheap and pure; callers run it per keystroke for inline feedback.
func (e *Editor[T]) Validate() validation.ErrorSet {
	e.errs = e.rules.Validate(e.draft)
	return e.errs
}

// Cancel discards the draft with no network call. The committed row is
// untouched no matter how many SetField calls happened.
func (e *Editor[T]) Cancel() error {
	if e.state != StateEditing {
		return ErrWrongState
	}
	e.draft = nil
	e.errs = nil
	e.state = StateViewing
	return nil
}

// beginSave re-validates the full draft and, only on an empty error set,
// transitions to Saving. The full re-run defends against a stale partial
// validation when a cross-field dependency changed after the last check.
func (e *Editor[T]) beginSave() error {
	if e.state != StateEditing {
		return ErrWrongState
	}
	if !e.Validate().Empty() {
		return ErrValidationFailed
	}
	e.state = StateSaving
	return nil
}

// saveFailed preserves the draft and returns to Editing so the operator can
// retry or cancel.
func (e *Editor[T]) saveFailed() {
	if e.state == StateSaving {
		e.state = StateEditing
	}
}

// saveSucceeded promotes the server echo to the committed row and discards
// the draft.
func (e *Editor[T]) saveSucceeded(echo T) {
	if e.state != StateSaving {
		return
	}
	e.row = echo
	e.draft = nil
	e.errs = nil
	e.state = StateViewing
}
