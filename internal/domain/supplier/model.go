package supplier

import (
	"travelex/internal/validation"
)

const Path = "/api/suppliers"

// Supplier is a vendor that issues invoices attached to expenses.
type Supplier struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Country string `json:"country"`
	Active  bool   `json:"active"`
}

func (s Supplier) RowID() int { return s.ID }

func Rules() validation.RuleSet {
	return validation.RuleSet{
		validation.Required("name"),
		validation.LengthBetween("name", 2, 255),
		validation.Required("tax_id"),
		validation.LengthBetween("tax_id", 8, 20),
		validation.Required("country"),
		validation.LengthBetween("country", 2, 2),
	}
}

func DraftOf(s Supplier) validation.Draft {
	return validation.Draft{
		"name":    s.Name,
		"tax_id":  s.TaxID,
		"country": s.Country,
		"active":  s.Active,
	}
}
