package mfa

import (
	"errors"
)

// Enrollment is the server-issued secret the operator loads into an
// authenticator app.
type Enrollment struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

type State int

const (
	StateIdle State = iota
	StateAwaitingCode
	StateActive
)

var ErrWrongState = errors.New("operation not allowed in current enrollment state")

// Wizard is the client-side state of an MFA enrollment: Begin hands out a
// secret, Confirm activates it, Cancel discards a pending enrollment.
type Wizard struct {
	state      State
	enrollment *Enrollment
}

func NewWizard() *Wizard {
	return &Wizard{state: StateIdle}
}

func (w *Wizard) State() State            { return w.state }
func (w *Wizard) Enrollment() *Enrollment { return w.enrollment }

func (w *Wizard) Begin(e Enrollment) error {
	if w.state != StateIdle {
		return ErrWrongState
	}
	w.enrollment = &e
	w.state = StateAwaitingCode
	return nil
}

func (w *Wizard) Confirm() error {
	if w.state != StateAwaitingCode {
		return ErrWrongState
	}
	w.enrollment = nil
	w.state = StateActive
	return nil
}

// Cancel discards a pending enrollment; the server discards its side on the
// next Begin.
func (w *Wizard) Cancel() error {
	if w.state != StateAwaitingCode {
		return ErrWrongState
	}
	w.enrollment = nil
	w.state = StateIdle
	return nil
}
