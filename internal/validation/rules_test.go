package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantMsg string
	}{
		{name: "missing", draft: Draft{}, wantMsg: "required"},
		{name: "nil", draft: Draft{"description": nil}, wantMsg: "required"},
		{name: "blank", draft: Draft{"description": "   "}, wantMsg: "required"},
		{name: "present", draft: Draft{"description": "Lunch"}, wantMsg: ""},
		{name: "non-string value", draft: Draft{"description": 42}, wantMsg: ""},
	}

	rule := Required("description")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, rule.Check(tt.draft))
		})
	}
}

func TestPositive(t *testing.T) {
	rule := Positive("amount")

	assert.Equal(t, "", rule.Check(Draft{"amount": 42.0}))
	assert.Equal(t, "", rule.Check(Draft{"amount": 1}))
	assert.Equal(t, "", rule.Check(Draft{}), "absence is not this rule's concern")
	assert.Equal(t, "must be greater than zero", rule.Check(Draft{"amount": 0.0}))
	assert.Equal(t, "must be greater than zero", rule.Check(Draft{"amount": -5}))
	assert.Equal(t, "must be a number", rule.Check(Draft{"amount": "42"}))
}

func TestLengthBetween(t *testing.T) {
	rule := LengthBetween("name", 3, 10)

	assert.Equal(t, "", rule.Check(Draft{"name": "abc"}))
	assert.Equal(t, "", rule.Check(Draft{"name": ""}), "emptiness is Required's concern")
	assert.Equal(t, "must be at least 3 characters", rule.Check(Draft{"name": "ab"}))
	assert.Equal(t, "must be at most 10 characters", rule.Check(Draft{"name": "abcdefghijk"}))
}

func TestDateBetween(t *testing.T) {
	min := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	rule := DateBetween("expense_date", min, max)

	assert.Equal(t, "", rule.Check(Draft{"expense_date": time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)}))
	assert.Equal(t, "must not be before 2026-01-01", rule.Check(Draft{"expense_date": min.AddDate(0, 0, -1)}))
	assert.Equal(t, "must not be after 2026-12-31", rule.Check(Draft{"expense_date": max.AddDate(0, 0, 1)}))
	assert.Equal(t, "must be a date", rule.Check(Draft{"expense_date": "2026-06-15"}))
}

func TestOneOf(t *testing.T) {
	rule := OneOf("currency", "EUR", "USD")

	assert.Equal(t, "", rule.Check(Draft{"currency": "EUR"}))
	assert.Equal(t, "must be one of: EUR, USD", rule.Check(Draft{"currency": "GBP"}))
	assert.Equal(t, "", rule.Check(Draft{}))
}

func TestRequiredIf(t *testing.T) {
	rule := RequiredIf("supplier_id", "document_type", "invoice")

	assert.Equal(t, "", rule.Check(Draft{"document_type": "receipt"}))
	assert.Equal(t, "required when document_type is invoice",
		rule.Check(Draft{"document_type": "invoice"}))
	assert.Equal(t, "", rule.Check(Draft{"document_type": "invoice", "supplier_id": "17"}))
}

func TestRuleSetValidate(t *testing.T) {
	rules := RuleSet{
		Required("description"),
		Required("amount"),
		Positive("amount"),
	}

	errs := rules.Validate(Draft{"description": "", "amount": 42.0})
	assert.Equal(t, ErrorSet{"description": "required"}, errs)
	assert.False(t, errs.Empty())

	errs = rules.Validate(Draft{"description": "Lunch", "amount": 42.0})
	assert.True(t, errs.Empty())
}

func TestRuleSetFirstErrorPerFieldWins(t *testing.T) {
	rules := RuleSet{
		Required("amount"),
		Positive("amount"),
	}

	errs := rules.Validate(Draft{})
	assert.Equal(t, "required", errs["amount"])
}

// A draft can pass keystroke-level checks and still be blocked by a
// cross-field rule at submission time.
func TestCrossFieldRevalidation(t *testing.T) {
	rules := RuleSet{
		Required("description"),
		RequiredIf("supplier_id", "document_type", "invoice"),
	}

	d := Draft{"description": "Hotel", "document_type": "receipt"}
	assert.True(t, rules.Validate(d).Empty())

	d["document_type"] = "invoice"
	errs := rules.Validate(d)
	assert.Equal(t, "required when document_type is invoice", errs["supplier_id"])
}
