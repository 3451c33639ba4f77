package prepayment

import (
	"time"

	"travelex/internal/app/client/api"
	"travelex/internal/validation"
)

const Path = "/api/prepayments"

type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusSettled  Status = "settled"
)

// Prepayment is an advance paid to a traveler before a trip.
type Prepayment struct {
	ID        int       `json:"id"`
	Traveler  string    `json:"traveler"`
	Purpose   string    `json:"purpose"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    Status    `json:"status"`
}

func (p Prepayment) RowID() int { return p.ID }

var Currencies = []string{"EUR", "USD", "GBP", "CHF", "PLN"}

func Rules(minDate, maxDate time.Time) validation.RuleSet {
	rules := validation.RuleSet{
		validation.Required("traveler"),
		validation.LengthBetween("traveler", 2, 128),
		validation.Required("purpose"),
		validation.LengthBetween("purpose", 3, 255),
		validation.Required("amount"),
		validation.Positive("amount"),
		validation.Required("currency"),
		validation.OneOf("currency", Currencies...),
		validation.Required("start_date"),
		validation.DateBetween("start_date", minDate, maxDate),
		validation.Required("end_date"),
		validation.DateBetween("end_date", minDate, maxDate),
		validation.OneOf("status", string(StatusDraft), string(StatusApproved), string(StatusSettled)),
	}

	// Trip must not end before it starts.
	rules = append(rules, validation.Rule{
		Field: "end_date",
		Check: func(d validation.Draft) string {
			start, okS := d["start_date"].(time.Time)
			end, okE := d["end_date"].(time.Time)
			if !okS || !okE {
				return ""
			}
			if end.Before(start) {
				return "must not be before start_date"
			}
			return ""
		},
	})

	return rules
}

func DraftOf(p Prepayment) validation.Draft {
	return validation.Draft{
		"traveler":   p.Traveler,
		"purpose":    p.Purpose,
		"amount":     p.Amount,
		"currency":   p.Currency,
		"start_date": p.StartDate,
		"end_date":   p.EndDate,
		"status":     string(p.Status),
	}
}

// AlertCandidate: prepayments are alert-checked on amount and currency only.
func AlertCandidate(d validation.Draft) (api.AlertCandidate, bool) {
	amount, _ := d["amount"].(float64)
	currency, _ := d["currency"].(string)
	return api.AlertCandidate{
		Collection: "prepayments",
		Currency:   currency,
		Amount:     amount,
	}, true
}
