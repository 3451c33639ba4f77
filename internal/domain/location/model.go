package location

import (
	"travelex/internal/validation"
)

const Path = "/api/locations"

// Location associates a travel destination with its accounting currency.
type Location struct {
	ID       int    `json:"id"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
}

func (l Location) RowID() int { return l.ID }

func Rules() validation.RuleSet {
	return validation.RuleSet{
		validation.Required("city"),
		validation.LengthBetween("city", 2, 128),
		validation.Required("country"),
		validation.LengthBetween("country", 2, 2),
		validation.Required("currency"),
		validation.LengthBetween("currency", 3, 3),
	}
}

func DraftOf(l Location) validation.Draft {
	return validation.Draft{
		"city":     l.City,
		"country":  l.Country,
		"currency": l.Currency,
	}
}
