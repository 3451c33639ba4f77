package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"travelex/internal/domain/statement"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Row is one generic collection row. Field values live in a JSON document so
// every collection shares one storage path; the API layer validates fields
// against the collection's rule set before they get here.
type Row struct {
	ID         int             `json:"id"`
	Collection string          `json:"-"`
	Fields     json.RawMessage `json:"fields"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// User is an operator account.
type User struct {
	ID           int
	Login        string
	PasswordHash string
	CardName     string
	MFASecret    string
	MFAActive    bool
}

// Threshold is one configured alert limit. CategoryID zero matches any
// category.
type Threshold struct {
	ID         int
	Collection string
	CategoryID int
	Currency   string
	Amount     float64
	Message    string
}

// Store is everything the API layer needs from persistence. Implemented for
// sqlite (local runs) and postgres.
type Store interface {
	// Generic collections
	ListRows(ctx context.Context, collection string) ([]Row, error)
	GetRow(ctx context.Context, collection string, id int) (*Row, error)
	// CreateRow honors the idempotency key: re-submitting the same key for
	// the same collection returns the originally created row.
	CreateRow(ctx context.Context, collection string, fields json.RawMessage, idemKey string) (*Row, error)
	UpdateRow(ctx context.Context, collection string, id int, fields json.RawMessage) (*Row, error)
	DeleteRow(ctx context.Context, collection string, id int) error

	// Operators
	CreateUser(ctx context.Context, login, passwordHash, cardName string) (int, error)
	GetUserByLogin(ctx context.Context, login string) (*User, error)
	GetUserByCardName(ctx context.Context, cardName string) (*User, error)
	SetMFA(ctx context.Context, userID int, secret string, active bool) error
	GetUser(ctx context.Context, userID int) (*User, error)

	// Alert thresholds
	FindThreshold(ctx context.Context, collection string, categoryID int, currency string) (*Threshold, error)

	// Statement imports
	CreateImport(ctx context.Context, filename, storedFile string, txns []statement.Transaction) (*statement.Import, error)
	GetImport(ctx context.Context, id int) (*statement.Import, error)
	ListTransactions(ctx context.Context, importID int) ([]statement.Transaction, error)
	SetImportStatus(ctx context.Context, id int, status statement.Status) error

	Close() error
}
