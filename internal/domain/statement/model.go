package statement

import (
	"time"
)

// Status of a card-statement import on the server.
type Status string

const (
	StatusUploaded  Status = "uploaded"
	StatusMatched   Status = "matched"
	StatusCommitted Status = "committed"
)

// Import is one uploaded card statement.
type Import struct {
	ID           int       `json:"id"`
	Filename     string    `json:"filename"`
	Status       Status    `json:"status"`
	UploadedAt   time.Time `json:"uploaded_at"`
	TotalCount   int       `json:"total_count"`
	MatchedCount int       `json:"matched_count"`
}

func (i Import) RowID() int { return i.ID }

// Transaction is a single card transaction from the statement. Matching to a
// user and currency happens server-side; the client only displays the result.
type Transaction struct {
	ID         int       `json:"id"`
	Cardholder string    `json:"cardholder"`
	Merchant   string    `json:"merchant"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	PostedAt   time.Time `json:"posted_at"`
	UserID     int       `json:"user_id,omitempty"`
	Matched    bool      `json:"matched"`
}

// Group is a server-consolidated set of transactions proposed as one
// prepayment/expense bundle.
type Group struct {
	Cardholder   string        `json:"cardholder"`
	Currency     string        `json:"currency"`
	UserID       int           `json:"user_id,omitempty"`
	Matched      bool          `json:"matched"`
	Total        float64       `json:"total"`
	Transactions []Transaction `json:"transactions"`
}

// Decision is the operator's call on one consolidated group.
type Decision struct {
	GroupIndex int    `json:"group_index"`
	Include    bool   `json:"include"`
	CategoryID int    `json:"category_id,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
}

// RowError mirrors the server's per-row import failure report.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Report is the outcome of committing an import.
type Report struct {
	CreatedPrepayments int        `json:"created_prepayments"`
	CreatedExpenses    int        `json:"created_expenses"`
	ValidCount         int        `json:"valid_count"`
	ErrorCount         int        `json:"error_count"`
	RowErrors          []RowError `json:"row_errors,omitempty"`
}
