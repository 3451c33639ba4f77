package collection

import (
	"context"
	"io"
	"net/url"
	"testing"

	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"

	"travelex/internal/app/client/api"
	"travelex/internal/validation"
)

// testRow is a minimal resource row for exercising the generic machinery.
type testRow struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func (r testRow) RowID() int { return r.ID }

func testRules() validation.RuleSet {
	return validation.RuleSet{
		validation.Required("description"),
		validation.Required("amount"),
		validation.Positive("amount"),
	}
}

func testDraftOf(r testRow) validation.Draft {
	return validation.Draft{
		"description": r.Description,
		"amount":      r.Amount,
	}
}

func testAlertCandidate(d validation.Draft) (api.AlertCandidate, bool) {
	amount, _ := d["amount"].(float64)
	return api.AlertCandidate{Collection: "test", Currency: "EUR", Amount: amount}, true
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) List(ctx context.Context, filter url.Values) ([]testRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]testRow), args.Error(1)
}

func (m *mockRemote) Get(ctx context.Context, id int) (testRow, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(testRow), args.Error(1)
}

func (m *mockRemote) Create(ctx context.Context, fields validation.Draft) (testRow, error) {
	args := m.Called(ctx, fields)
	return args.Get(0).(testRow), args.Error(1)
}

func (m *mockRemote) Update(ctx context.Context, id int, fields validation.Draft) (testRow, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(testRow), args.Error(1)
}

func (m *mockRemote) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockConfirmer struct {
	mock.Mock
}

func (m *mockConfirmer) Confirm(ctx context.Context, p Prompt) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) LoadFailed(err error) {
	m.Called(err)
}

func (m *mockNotifier) RowFailed(id int, err error) {
	m.Called(id, err)
}

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) CheckAlert(ctx context.Context, cand api.AlertCandidate) (api.AlertResult, error) {
	args := m.Called(ctx, cand)
	return args.Get(0).(api.AlertResult), args.Error(1)
}

func (m *mockChecker) CheckAlertBatch(ctx context.Context, cands []api.AlertCandidate) ([]api.AlertResult, error) {
	args := m.Called(ctx, cands)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.AlertResult), args.Error(1)
}

// fixture bundles a controller with its collaborators, alert gate disabled
// unless the test opts in.
type fixture struct {
	remote  *mockRemote
	confirm *mockConfirmer
	notify  *mockNotifier
	checker *mockChecker
	ctrl    *Controller[testRow]
}

func newFixture(t *testing.T, gated bool) *fixture {
	t.Helper()

	f := &fixture{
		remote:  &mockRemote{},
		confirm: &mockConfirmer{},
		notify:  &mockNotifier{},
		checker: &mockChecker{},
	}

	cfg := Config[testRow]{
		Label:     "test row",
		Remote:    f.remote,
		Rules:     testRules(),
		DraftOf:   testDraftOf,
		Confirmer: f.confirm,
		Notifier:  f.notify,
		Log:       quietLogger(),
	}
	if gated {
		cfg.AlertCandidate = testAlertCandidate
		cfg.Gate = NewGate(f.checker, f.confirm, quietLogger())
	}

	f.ctrl = NewController(cfg)
	return f
}

// seed loads the controller with rows through the normal Load path.
func (f *fixture) seed(t *testing.T, rows ...testRow) {
	t.Helper()
	f.remote.On("List", mock.Anything, mock.Anything).Return(rows, nil).Once()
	if err := f.ctrl.Load(context.Background(), nil); err != nil {
		t.Fatalf("seed load: %v", err)
	}
}
