package validation

import (
	"fmt"
	"strings"
	"time"
)

// Draft is an uncommitted set of field values being edited by the operator.
type Draft map[string]any

// ErrorSet maps field names to human-readable validation messages.
// An empty set is the precondition for allowing submission.
type ErrorSet map[string]string

func (e ErrorSet) Empty() bool {
	return len(e) == 0
}

// Rule checks one aspect of a draft and reports the offending field.
type Rule struct {
	Field string
	Check func(d Draft) string
}

// RuleSet is the full set of rules for one resource type.
type RuleSet []Rule

// Validate runs every rule against the draft. It is pure and side-effect
// free, so it is safe to run on every keystroke and again before submission.
func (rs RuleSet) Validate(d Draft) ErrorSet {
	errs := ErrorSet{}
	for _, r := range rs {
		if _, taken := errs[r.Field]; taken {
			continue
		}
		if msg := r.Check(d); msg != "" {
			errs[r.Field] = msg
		}
	}
	return errs
}

// Required fails when the field is absent, nil or a blank string.
func Required(field string) Rule {
	return Rule{Field: field, Check: func(d Draft) string {
		if isBlank(d[field]) {
			return "required"
		}
		return ""
	}}
}

// Positive fails when the field is present and not a number greater than zero.
func Positive(field string) Rule {
	return Rule{Field: field, Check: func(d Draft) string {
		v, ok := d[field]
		if !ok || v == nil {
			return ""
		}
		n, ok := asNumber(v)
		if !ok {
			return "must be a number"
		}
		if n <= 0 {
			return "must be greater than zero"
		}
		return ""
	}}
}

// LengthBetween bounds the rune length of a string field.
func LengthBetween(field string, min, max int) Rule {
	return Rule{Field: field, Check: func(d Draft) string {
		s, ok := d[field].(string)
		if !ok || s == "" {
			return ""
		}
		n := len([]rune(s))
		if n < min {
			return fmt.Sprintf("must be at least %d characters", min)
		}
		if n > max {
			return fmt.Sprintf("must be at most %d characters", max)
		}
		return ""
	}}
}

// DateBetween requires a time.Time field to fall within [min, max].
func DateBetween(field string, min, max time.Time) Rule {
	return Rule{Field: field, Check: func(d Draft) string {
		v, ok := d[field]
		if !ok || v == nil {
			return ""
		}
		t, ok := v.(time.Time)
		if !ok {
			return "must be a date"
		}
		if t.Before(min) {
			return fmt.Sprintf("must not be before %s", min.Format("2006-01-02"))
		}
		if t.After(max) {
			return fmt.Sprintf("must not be after %s", max.Format("2006-01-02"))
		}
		return ""
	}}
}

// OneOf requires a string field to be one of the allowed values.
func OneOf(field string, allowed ...string) Rule {
	return Rule{Field: field, Check: func(d Draft) string {
		s, ok := d[field].(string)
		if !ok || s == "" {
			return ""
		}
		for _, a := range allowed {
			if s == a {
				return ""
			}
		}
		return fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", "))
	}}
}

// RequiredIf makes field mandatory when another field holds a given value.
// The dependency is re-checked on full validation before submission, so a
// field that passed per-keystroke checks can still block the save.
func RequiredIf(field, other string, equals any) Rule {
	return Rule{Field: field, Check: func(d Draft) string {
		if d[other] != equals {
			return ""
		}
		if isBlank(d[field]) {
			return fmt.Sprintf("required when %s is %v", other, equals)
		}
		return ""
	}}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
