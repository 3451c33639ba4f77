package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGroups() []Group {
	return []Group{
		{Cardholder: "KOWALSKI J", Currency: "EUR", UserID: 4, Matched: true, Total: 312.40},
		{Cardholder: "UNKNOWN CARD 9912", Currency: "EUR", Matched: false, Total: 88.00},
		{Cardholder: "NOWAK A", Currency: "USD", UserID: 7, Matched: true, Total: 540.10},
	}
}

func reviewedWizard(t *testing.T) *Wizard {
	t.Helper()
	w := NewWizard()
	require.NoError(t, w.BeginUpload())
	require.NoError(t, w.UploadDone(Import{ID: 11, Filename: "march.csv", Status: StatusMatched}, sampleGroups()))
	return w
}

func TestWizardWalksForwardThroughSteps(t *testing.T) {
	w := NewWizard()
	assert.Equal(t, StepSelectFile, w.Step())

	require.NoError(t, w.BeginUpload())
	assert.Equal(t, StepUploading, w.Step())

	require.NoError(t, w.UploadDone(Import{ID: 11}, sampleGroups()))
	assert.Equal(t, StepReview, w.Step())
	require.NotNil(t, w.Import())
	assert.Equal(t, 11, w.Import().ID)

	require.NoError(t, w.ToConfirm())
	assert.Equal(t, StepConfirm, w.Step())

	require.NoError(t, w.CommitDone())
	assert.Equal(t, StepDone, w.Step())
}

func TestUploadDonePreselectsMatchedGroups(t *testing.T) {
	w := reviewedWizard(t)

	decs := w.Decisions()
	require.Len(t, decs, 3)
	assert.True(t, decs[0].Include, "matched group preselected")
	assert.False(t, decs[1].Include, "unmatched group excluded by default")
	assert.True(t, decs[2].Include)
}

func TestDecideOverridesDefault(t *testing.T) {
	w := reviewedWizard(t)

	require.NoError(t, w.Decide(Decision{GroupIndex: 1, Include: true, CategoryID: 3, Purpose: "card 9912 catch-all"}))
	require.NoError(t, w.Decide(Decision{GroupIndex: 2, Include: false}))

	inc := w.Included()
	require.Len(t, inc, 2)
	assert.Equal(t, 0, inc[0].GroupIndex)
	assert.Equal(t, 1, inc[1].GroupIndex)
	assert.Equal(t, "card 9912 catch-all", inc[1].Purpose)
}

func TestDecideRejectsOutOfRangeIndex(t *testing.T) {
	w := reviewedWizard(t)
	assert.Error(t, w.Decide(Decision{GroupIndex: 5, Include: true}))
	assert.Error(t, w.Decide(Decision{GroupIndex: -1}))
}

func TestToConfirmRequiresAtLeastOneIncludedGroup(t *testing.T) {
	w := reviewedWizard(t)
	for i := range sampleGroups() {
		require.NoError(t, w.Decide(Decision{GroupIndex: i, Include: false}))
	}

	assert.Error(t, w.ToConfirm())
	assert.Equal(t, StepReview, w.Step())
}

func TestBackFromConfirmKeepsDecisions(t *testing.T) {
	w := reviewedWizard(t)
	require.NoError(t, w.Decide(Decision{GroupIndex: 1, Include: true}))
	require.NoError(t, w.ToConfirm())

	require.NoError(t, w.Back())
	assert.Equal(t, StepReview, w.Step())
	assert.Len(t, w.Included(), 3, "decisions survive the round trip")
}

func TestUploadFailedReturnsToFileSelection(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.BeginUpload())
	require.NoError(t, w.UploadFailed())

	assert.Equal(t, StepSelectFile, w.Step())
	assert.Nil(t, w.Import())
}

func TestCommitFailedStaysOnConfirmForRetry(t *testing.T) {
	w := reviewedWizard(t)
	require.NoError(t, w.ToConfirm())

	require.NoError(t, w.CommitFailed())
	assert.Equal(t, StepConfirm, w.Step())

	require.NoError(t, w.CommitDone())
	assert.Equal(t, StepDone, w.Step())
}

func TestWrongStepTransitionsRejected(t *testing.T) {
	w := NewWizard()

	assert.ErrorIs(t, w.UploadDone(Import{}, nil), ErrWrongStep)
	assert.ErrorIs(t, w.Decide(Decision{}), ErrWrongStep)
	assert.ErrorIs(t, w.ToConfirm(), ErrWrongStep)
	assert.ErrorIs(t, w.Back(), ErrWrongStep)
	assert.ErrorIs(t, w.CommitDone(), ErrWrongStep)

	require.NoError(t, w.BeginUpload())
	assert.ErrorIs(t, w.BeginUpload(), ErrWrongStep)
}

func TestDecisionsReturnsCopy(t *testing.T) {
	w := reviewedWizard(t)

	decs := w.Decisions()
	decs[0].Include = false

	assert.True(t, w.Decisions()[0].Include, "mutating the copy must not touch wizard state")
}
