package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelex/internal/app/client/api"
)

func TestGateNotTrippedProceedsWithoutPrompt(t *testing.T) {
	checker := &mockChecker{}
	confirm := &mockConfirmer{}
	gate := NewGate(checker, confirm, quietLogger())

	checker.On("CheckAlert", mock.Anything, mock.Anything).
		Return(api.AlertResult{Tripped: false}, nil).Once()

	ok, err := gate.Allow(context.Background(), api.AlertCandidate{Amount: 100, Currency: "EUR"})
	require.NoError(t, err)
	assert.True(t, ok)
	confirm.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
}

func TestGateTrippedSuspendsSaveUntilOperatorDecision(t *testing.T) {
	cand := api.AlertCandidate{Collection: "expenses", CategoryID: 2, Currency: "EUR", Amount: 500}
	tripped := api.AlertResult{Tripped: true, Detail: api.AlertDetail{AlertAmount: 300}}

	tests := []struct {
		name     string
		decision bool
	}{
		{name: "proceed resumes the save", decision: true},
		{name: "cancel blocks the save", decision: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &mockChecker{}
			confirm := &mockConfirmer{}
			gate := NewGate(checker, confirm, quietLogger())

			checker.On("CheckAlert", mock.Anything, cand).Return(tripped, nil).Once()
			confirm.On("Confirm", mock.Anything, mock.MatchedBy(func(p Prompt) bool {
				return p.Severity == SeverityWarning
			})).Return(tt.decision, nil).Once()

			ok, err := gate.Allow(context.Background(), cand)
			require.NoError(t, err)
			assert.Equal(t, tt.decision, ok)
			confirm.AssertExpectations(t)
		})
	}
}

func TestGateFailsOpenOnCheckError(t *testing.T) {
	checker := &mockChecker{}
	confirm := &mockConfirmer{}
	gate := NewGate(checker, confirm, quietLogger())

	checker.On("CheckAlert", mock.Anything, mock.Anything).
		Return(api.AlertResult{}, &api.NetworkError{Err: errors.New("timeout")}).Once()

	ok, err := gate.Allow(context.Background(), api.AlertCandidate{Amount: 500})
	require.NoError(t, err)
	assert.True(t, ok, "a monitoring feature must never block the save")
	confirm.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
}

func TestGatedSaveFailsOpenEndToEnd(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, testRow{ID: 3, Description: "Taxi", Amount: 10})

	f.checker.On("CheckAlert", mock.Anything, mock.Anything).
		Return(api.AlertResult{}, &api.NetworkError{Err: errors.New("down")}).Once()
	echo := testRow{ID: 3, Description: "Taxi", Amount: 500}
	f.remote.On("Update", mock.Anything, 3, mock.Anything).Return(echo, nil).Once()

	ed, _ := f.ctrl.Editor(3)
	require.NoError(t, ed.StartEdit())
	require.NoError(t, ed.SetField("amount", 500.0))

	require.NoError(t, f.ctrl.SaveEdit(context.Background(), ed))
	assert.Equal(t, echo, ed.Row())
}

func TestGateCancelReturnsRowToEditingWithDraftIntact(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, testRow{ID: 3, Description: "Taxi", Amount: 10})

	f.checker.On("CheckAlert", mock.Anything, mock.Anything).
		Return(api.AlertResult{Tripped: true, Detail: api.AlertDetail{AlertAmount: 300}}, nil).Once()
	f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(false, nil).Once()

	ed, _ := f.ctrl.Editor(3)
	require.NoError(t, ed.StartEdit())
	require.NoError(t, ed.SetField("amount", 500.0))

	err := f.ctrl.SaveEdit(context.Background(), ed)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, StateEditing, ed.State())
	assert.Equal(t, 500.0, ed.Draft()["amount"], "draft intact after cancel")
	f.remote.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestGateBatchCollectsWarningsIntoSingleConfirmation(t *testing.T) {
	checker := &mockChecker{}
	confirm := &mockConfirmer{}
	gate := NewGate(checker, confirm, quietLogger())

	cands := []api.AlertCandidate{
		{Currency: "EUR", Amount: 500},
		{Currency: "EUR", Amount: 50},
		{Currency: "USD", Amount: 900},
	}
	checker.On("CheckAlertBatch", mock.Anything, cands).Return([]api.AlertResult{
		{Tripped: true, Detail: api.AlertDetail{AlertAmount: 300}},
		{Tripped: false},
		{Tripped: true, Detail: api.AlertDetail{AlertAmount: 300}},
	}, nil).Once()
	confirm.On("Confirm", mock.Anything, mock.Anything).Return(true, nil).Once()

	ok, err := gate.AllowBatch(context.Background(), checker, cands)
	require.NoError(t, err)
	assert.True(t, ok)
	confirm.AssertNumberOfCalls(t, "Confirm", 1)
}

func TestGateBatchFailsOpen(t *testing.T) {
	checker := &mockChecker{}
	confirm := &mockConfirmer{}
	gate := NewGate(checker, confirm, quietLogger())

	checker.On("CheckAlertBatch", mock.Anything, mock.Anything).
		Return(nil, &api.NetworkError{Err: errors.New("down")}).Once()

	ok, err := gate.AllowBatch(context.Background(), checker, []api.AlertCandidate{{Amount: 1}})
	require.NoError(t, err)
	assert.True(t, ok)
	confirm.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
}

func TestGateBatchEmptyCandidatesSkipsCheck(t *testing.T) {
	checker := &mockChecker{}
	gate := NewGate(checker, &mockConfirmer{}, quietLogger())

	ok, err := gate.AllowBatch(context.Background(), checker, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	checker.AssertNotCalled(t, "CheckAlertBatch", mock.Anything, mock.Anything)
}
