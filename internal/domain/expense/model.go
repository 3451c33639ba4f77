package expense

import (
	"time"

	"travelex/internal/app/client/api"
	"travelex/internal/validation"
)

// Path is the backend collection for expenses.
const Path = "/api/expenses"

// DocumentType is the tagged variant of the supporting document. Switches
// over it must be exhaustive; adding a variant is a compile-visible change.
type DocumentType string

const (
	DocInvoice DocumentType = "invoice"
	DocReceipt DocumentType = "receipt"
)

// Expense is a single travel-expense row as the server stores it.
type Expense struct {
	ID           int          `json:"id"`
	ReportID     int          `json:"report_id,omitempty"`
	Description  string       `json:"description"`
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	CategoryID   int          `json:"category_id"`
	SupplierID   int          `json:"supplier_id,omitempty"`
	DocumentType DocumentType `json:"document_type"`
	ExpenseDate  time.Time    `json:"expense_date"`
	ReceiptFile  string       `json:"receipt_file,omitempty"`
}

func (e Expense) RowID() int { return e.ID }

// Currencies accepted by the expense form.
var Currencies = []string{"EUR", "USD", "GBP", "CHF", "PLN"}

// Rules is the client-side mirror of the server's expense validation.
// minDate/maxDate bound the accounting period open for entry.
func Rules(minDate, maxDate time.Time) validation.RuleSet {
	return validation.RuleSet{
		validation.Required("description"),
		validation.LengthBetween("description", 3, 255),
		validation.Required("amount"),
		validation.Positive("amount"),
		validation.Required("currency"),
		validation.OneOf("currency", Currencies...),
		validation.Required("category_id"),
		validation.Required("expense_date"),
		validation.DateBetween("expense_date", minDate, maxDate),
		validation.Required("document_type"),
		validation.OneOf("document_type", string(DocInvoice), string(DocReceipt)),
		// Invoices must name the issuing supplier; plain receipts need not.
		validation.RequiredIf("supplier_id", "document_type", string(DocInvoice)),
	}
}

// DraftOf snapshots the editable fields of a row into a fresh draft.
func DraftOf(e Expense) validation.Draft {
	d := validation.Draft{
		"description":   e.Description,
		"amount":        e.Amount,
		"currency":      e.Currency,
		"category_id":   e.CategoryID,
		"document_type": string(e.DocumentType),
		"expense_date":  e.ExpenseDate,
	}
	if e.SupplierID != 0 {
		d["supplier_id"] = e.SupplierID
	}
	if e.ReceiptFile != "" {
		d["receipt_file"] = e.ReceiptFile
	}
	return d
}

// AlertCandidate extracts the threshold-check input from a draft. Expenses
// are always alert-checked.
func AlertCandidate(d validation.Draft) (api.AlertCandidate, bool) {
	amount, _ := d["amount"].(float64)
	currency, _ := d["currency"].(string)
	categoryID, _ := d["category_id"].(int)
	return api.AlertCandidate{
		Collection: "expenses",
		CategoryID: categoryID,
		Currency:   currency,
		Amount:     amount,
	}, true
}
