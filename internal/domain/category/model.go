package category

import (
	"travelex/internal/validation"
)

const Path = "/api/categories"

// Category classifies expenses for reporting and alert thresholds.
type Category struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Active bool   `json:"active"`
}

func (c Category) RowID() int { return c.ID }

func Rules() validation.RuleSet {
	return validation.RuleSet{
		validation.Required("name"),
		validation.LengthBetween("name", 2, 128),
		validation.Required("code"),
		validation.LengthBetween("code", 2, 16),
	}
}

func DraftOf(c Category) validation.Draft {
	return validation.Draft{
		"name":   c.Name,
		"code":   c.Code,
		"active": c.Active,
	}
}
