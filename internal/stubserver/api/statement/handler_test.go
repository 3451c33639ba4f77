package statement

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelex/internal/domain/statement"
	"travelex/internal/stubserver/storage"
	"travelex/internal/utils/logger"
)

// fakeStore covers the slice of storage.Store the commit path touches.
// Unimplemented methods panic through the embedded nil interface.
type fakeStore struct {
	storage.Store

	createRowErr error
	created      []string
	status       statement.Status
	txns         []statement.Transaction
}

func (s *fakeStore) GetImport(_ context.Context, id int) (*statement.Import, error) {
	return &statement.Import{ID: id, Filename: "march.csv", Status: statement.StatusMatched}, nil
}

func (s *fakeStore) ListTransactions(_ context.Context, _ int) ([]statement.Transaction, error) {
	return s.txns, nil
}

func (s *fakeStore) CreateRow(_ context.Context, collection string, fields json.RawMessage, _ string) (*storage.Row, error) {
	if s.createRowErr != nil {
		return nil, s.createRowErr
	}
	s.created = append(s.created, collection)
	return &storage.Row{ID: len(s.created), Collection: collection, Fields: fields}, nil
}

func (s *fakeStore) SetImportStatus(_ context.Context, _ int, status statement.Status) error {
	s.status = status
	return nil
}

func commitTxns() []statement.Transaction {
	posted := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	return []statement.Transaction{
		{ID: 1, Cardholder: "KOWALSKI J", Merchant: "RYANAIR", Amount: 129.99, Currency: "EUR", PostedAt: posted, UserID: 7, Matched: true},
		{ID: 2, Cardholder: "KOWALSKI J", Merchant: "HOTEL ADLON", Amount: 240.00, Currency: "EUR", PostedAt: posted.AddDate(0, 0, 1), UserID: 7, Matched: true},
	}
}

func includeAll() *commitInput {
	return &commitInput{
		ID: 1,
		Body: commitRequest{
			Decisions: []statement.Decision{{GroupIndex: 0, Include: true, CategoryID: 2}},
		},
	}
}

func TestCommitCountsStoredRows(t *testing.T) {
	store := &fakeStore{txns: commitTxns()}
	h := NewHandler(store, nil, logger.New("local"), nil)

	out, err := h.commit(context.Background(), includeAll())
	require.NoError(t, err)

	report := out.Body
	assert.Equal(t, 1, report.CreatedPrepayments)
	assert.Equal(t, 2, report.CreatedExpenses)
	assert.Equal(t, 2, report.ValidCount)
	assert.Equal(t, 0, report.ErrorCount)
	assert.Empty(t, report.RowErrors)

	// One prepayment per group plus one expense per transaction.
	assert.Equal(t, []string{"prepayments", "expenses", "expenses"}, store.created)
	assert.Equal(t, statement.StatusCommitted, store.status)
}

func TestCommitReportsStorageFailuresNotAsCreated(t *testing.T) {
	store := &fakeStore{
		txns:         commitTxns(),
		createRowErr: errors.New("disk full"),
	}
	h := NewHandler(store, nil, logger.New("local"), nil)

	out, err := h.commit(context.Background(), includeAll())
	require.NoError(t, err)

	report := out.Body
	assert.Equal(t, 0, report.CreatedPrepayments)
	assert.Equal(t, 0, report.CreatedExpenses)
	assert.Equal(t, 0, report.ValidCount)
	assert.Equal(t, 3, report.ErrorCount)
	assert.Len(t, report.RowErrors, 3)
}

func TestCommitRejectsOutOfRangeGroupIndex(t *testing.T) {
	store := &fakeStore{txns: commitTxns()}
	h := NewHandler(store, nil, logger.New("local"), nil)

	input := includeAll()
	input.Body.Decisions[0].GroupIndex = 5

	_, err := h.commit(context.Background(), input)
	assert.Error(t, err)
}
