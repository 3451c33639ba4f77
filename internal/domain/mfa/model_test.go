package mfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentHappyPath(t *testing.T) {
	w := NewWizard()
	assert.Equal(t, StateIdle, w.State())
	assert.Nil(t, w.Enrollment())

	require.NoError(t, w.Begin(Enrollment{Secret: "JBSWY3DP", OTPAuthURL: "otpauth://totp/travelex"}))
	assert.Equal(t, StateAwaitingCode, w.State())
	require.NotNil(t, w.Enrollment())
	assert.Equal(t, "JBSWY3DP", w.Enrollment().Secret)

	require.NoError(t, w.Confirm())
	assert.Equal(t, StateActive, w.State())
	assert.Nil(t, w.Enrollment(), "secret dropped once active")
}

func TestCancelDiscardsPendingEnrollment(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Begin(Enrollment{Secret: "JBSWY3DP"}))

	require.NoError(t, w.Cancel())
	assert.Equal(t, StateIdle, w.State())
	assert.Nil(t, w.Enrollment())

	// A fresh enrollment can start after cancel.
	require.NoError(t, w.Begin(Enrollment{Secret: "NEWSECRET"}))
	assert.Equal(t, StateAwaitingCode, w.State())
}

func TestWrongStateTransitionsRejected(t *testing.T) {
	w := NewWizard()

	assert.ErrorIs(t, w.Confirm(), ErrWrongState)
	assert.ErrorIs(t, w.Cancel(), ErrWrongState)

	require.NoError(t, w.Begin(Enrollment{Secret: "x"}))
	assert.ErrorIs(t, w.Begin(Enrollment{Secret: "y"}), ErrWrongState)

	require.NoError(t, w.Confirm())
	assert.ErrorIs(t, w.Confirm(), ErrWrongState)
	assert.ErrorIs(t, w.Cancel(), ErrWrongState)
}
