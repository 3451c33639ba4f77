package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelex/internal/app/client/api"
	"travelex/internal/validation"
)

func TestLoadReplacesCollectionInServerOrder(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, testRow{ID: 9}, testRow{ID: 1})

	f.remote.On("List", mock.Anything, mock.Anything).
		Return([]testRow{{ID: 3}, {ID: 2}, {ID: 1}}, nil).Once()

	require.NoError(t, f.ctrl.Load(context.Background(), nil))
	rows := f.ctrl.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{rows[0].ID, rows[1].ID, rows[2].ID})
}

func TestLoadFailureKeepsStaleData(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, testRow{ID: 1, Description: "kept"})

	netErr := &api.NetworkError{Err: errors.New("connection refused")}
	f.remote.On("List", mock.Anything, mock.Anything).Return(nil, netErr).Once()
	f.notify.On("LoadFailed", netErr).Once()

	err := f.ctrl.Load(context.Background(), nil)
	require.Error(t, err)

	// Stale data is preferred over an empty display.
	rows := f.ctrl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "kept", rows[0].Description)
	f.notify.AssertExpectations(t)
}

func TestAddRowAppendsServerEcho(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t)

	draft := validation.Draft{"description": "Lunch", "amount": 42.0}
	echo := testRow{ID: 7, Description: "Lunch", Amount: 42}
	f.remote.On("Create", mock.Anything, draft).Return(echo, nil).Once()

	row, err := f.ctrl.AddRow(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, 7, row.ID)

	rows := f.ctrl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, echo, rows[0])
}

func TestAddRowAppendsAfterExistingRows(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, testRow{ID: 1}, testRow{ID: 2})

	f.remote.On("Create", mock.Anything, mock.Anything).
		Return(testRow{ID: 3, Description: "x", Amount: 1}, nil).Once()

	_, err := f.ctrl.AddRow(context.Background(), validation.Draft{"description": "x", "amount": 1.0})
	require.NoError(t, err)

	rows := f.ctrl.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, 3, rows[2].ID)
}

func TestAddRowBlockedByValidationMakesNoNetworkCall(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t)

	_, err := f.ctrl.AddRow(context.Background(), validation.Draft{"description": "", "amount": 42.0})

	var verr *api.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["description"])
	assert.Empty(t, f.ctrl.Rows())
	f.remote.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddRowFailureAppendsNothing(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t)

	netErr := &api.NetworkError{Err: errors.New("timeout")}
	f.remote.On("Create", mock.Anything, mock.Anything).Return(testRow{}, netErr).Once()
	f.notify.On("RowFailed", 0, netErr).Once()

	draft := validation.Draft{"description": "Lunch", "amount": 42.0}
	_, err := f.ctrl.AddRow(context.Background(), draft)
	require.Error(t, err)

	// No phantom entry: a retry cannot duplicate anything.
	assert.Empty(t, f.ctrl.Rows())
	f.notify.AssertExpectations(t)
}

func TestAddRowRetryEchoingKnownIDKeepsIDsUnique(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, testRow{ID: 7, Description: "old"})

	// An idempotent backend may echo the already-created row on retry.
	f.remote.On("Create", mock.Anything, mock.Anything).
		Return(testRow{ID: 7, Description: "Lunch", Amount: 42}, nil).Once()

	_, err := f.ctrl.AddRow(context.Background(), validation.Draft{"description": "Lunch", "amount": 42.0})
	require.NoError(t, err)

	rows := f.ctrl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Lunch", rows[0].Description)
	assertUniqueIDs(t, rows)
}

func TestUpdateRowReplacesInPlace(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, testRow{ID: 1}, testRow{ID: 2, Description: "old", Amount: 5}, testRow{ID: 3})

	echo := testRow{ID: 2, Description: "new", Amount: 6}
	f.remote.On("Update", mock.Anything, 2, mock.Anything).Return(echo, nil).Once()

	err := f.ctrl.UpdateRow(context.Background(), 2, validation.Draft{"description": "new", "amount": 6.0})
	require.NoError(t, err)

	rows := f.ctrl.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, echo, rows[1], "row updated in place, position preserved")
}

func TestUpdateRowFailureLeavesRowUnchangedInValueAndPosition(t *testing.T) {
	f := newFixture(t, false)
	before := testRow{ID: 2, Description: "old", Amount: 5}
	f.seed(t, testRow{ID: 1}, before, testRow{ID: 3})

	srvErr := &api.ServerError{Status: 500, Detail: "boom"}
	f.remote.On("Update", mock.Anything, 2, mock.Anything).Return(testRow{}, srvErr).Once()
	f.notify.On("RowFailed", 2, srvErr).Once()

	err := f.ctrl.UpdateRow(context.Background(), 2, validation.Draft{"description": "new", "amount": 6.0})
	require.Error(t, err)

	rows := f.ctrl.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, before, rows[1])
	f.notify.AssertExpectations(t)
}

func TestUpdateRowNotFoundReloadsFreshCopy(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, testRow{ID: 2, Description: "stale"})

	nfErr := &api.NotFoundError{Path: "/api/tests/2"}
	fresh := testRow{ID: 2, Description: "server truth", Amount: 9}
	f.remote.On("Update", mock.Anything, 2, mock.Anything).Return(testRow{}, nfErr).Once()
	f.remote.On("Get", mock.Anything, 2).Return(fresh, nil).Once()
	f.notify.On("RowFailed", 2, nfErr).Once()

	err := f.ctrl.UpdateRow(context.Background(), 2, validation.Draft{"description": "new", "amount": 6.0})
	require.Error(t, err)

	rows := f.ctrl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, fresh, rows[0], "stale local copy replaced by reloaded state")
}

func TestUpdateRowNotFoundDropsRowGoneServerSide(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, testRow{ID: 2, Description: "stale"})

	nfErr := &api.NotFoundError{Path: "/api/tests/2"}
	f.remote.On("Update", mock.Anything, 2, mock.Anything).Return(testRow{}, nfErr).Once()
	f.remote.On("Get", mock.Anything, 2).Return(testRow{}, nfErr).Once()
	f.notify.On("RowFailed", 2, nfErr).Once()

	err := f.ctrl.UpdateRow(context.Background(), 2, validation.Draft{"description": "new", "amount": 6.0})
	require.Error(t, err)
	assert.Empty(t, f.ctrl.Rows())
}

func TestRemoveRowRequiresConfirmation(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, testRow{ID: 4})

	f.confirm.On("Confirm", mock.Anything, mock.MatchedBy(func(p Prompt) bool {
		return p.Severity == SeverityDanger
	})).Return(false, nil).Once()

	err := f.ctrl.RemoveRow(context.Background(), 4)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Len(t, f.ctrl.Rows(), 1)
	f.remote.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRemoveRowSuccess(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, testRow{ID: 4}, testRow{ID: 5})

	f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(true, nil).Once()
	f.remote.On("Delete", mock.Anything, 4).Return(nil).Once()

	require.NoError(t, f.ctrl.RemoveRow(context.Background(), 4))

	rows := f.ctrl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].ID)
}

func TestDoubleDeleteConvergesToRowAbsent(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, testRow{ID: 4})

	f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(true, nil).Twice()
	f.remote.On("Delete", mock.Anything, 4).Return(nil).Once()
	f.remote.On("Delete", mock.Anything, 4).
		Return(&api.NotFoundError{Path: "/api/tests/4"}).Once()

	require.NoError(t, f.ctrl.RemoveRow(context.Background(), 4))

	// A second delete racing a stale UI reports NotFound; still success,
	// no user-visible error.
	require.NoError(t, f.ctrl.RemoveRow(context.Background(), 4))
	assert.Empty(t, f.ctrl.Rows())
	f.notify.AssertNotCalled(t, "RowFailed", mock.Anything, mock.Anything)
}

func TestIDsStayUniqueAcrossMixedOperations(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, testRow{ID: 1}, testRow{ID: 2})

	f.remote.On("Create", mock.Anything, mock.Anything).
		Return(testRow{ID: 3, Description: "a", Amount: 1}, nil).Once()
	f.remote.On("Update", mock.Anything, 1, mock.Anything).
		Return(testRow{ID: 1, Description: "b", Amount: 2}, nil).Once()
	f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(true, nil).Once()
	f.remote.On("Delete", mock.Anything, 2).Return(nil).Once()

	ctx := context.Background()
	_, err := f.ctrl.AddRow(ctx, validation.Draft{"description": "a", "amount": 1.0})
	require.NoError(t, err)
	require.NoError(t, f.ctrl.UpdateRow(ctx, 1, validation.Draft{"description": "b", "amount": 2.0}))
	require.NoError(t, f.ctrl.RemoveRow(ctx, 2))

	assertUniqueIDs(t, f.ctrl.Rows())
}

func TestGatedAddRowProceedsWhenCheckNotTripped(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t)

	f.checker.On("CheckAlert", mock.Anything, mock.Anything).
		Return(api.AlertResult{Tripped: false}, nil).Once()
	f.remote.On("Create", mock.Anything, mock.Anything).
		Return(testRow{ID: 1, Description: "x", Amount: 10}, nil).Once()

	_, err := f.ctrl.AddRow(context.Background(), validation.Draft{"description": "x", "amount": 10.0})
	require.NoError(t, err)
	f.confirm.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
}

func assertUniqueIDs(t *testing.T, rows []testRow) {
	t.Helper()
	seen := make(map[int]bool, len(rows))
	for _, r := range rows {
		assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
		seen[r.ID] = true
	}
}
