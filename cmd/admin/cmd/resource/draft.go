package resource

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"travelex/internal/validation"
)

// ParseDraft turns repeated --set name=value assignments into a draft with
// the value types the rule sets expect.
func ParseDraft(assignments []string) (validation.Draft, error) {
	draft := validation.Draft{}
	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q, want name=value", a)
		}
		value, err := parseFieldValue(name, raw)
		if err != nil {
			return nil, err
		}
		draft[name] = value
	}
	return draft, nil
}

// parseFieldValue converts the raw string by field-name convention: dates,
// ids and amounts get their native types, everything else stays a string
// except the bool literals.
func parseFieldValue(name, raw string) (any, error) {
	switch {
	case strings.HasSuffix(name, "_date"):
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("%s: want a YYYY-MM-DD date, got %q", name, raw)
		}
		return t, nil
	case name == "id" || strings.HasSuffix(name, "_id"):
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: want an integer, got %q", name, raw)
		}
		return n, nil
	case name == "amount" || name == "total" || strings.HasSuffix(name, "_amount"):
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: want a number, got %q", name, raw)
		}
		return f, nil
	case raw == "true" || raw == "false":
		return raw == "true", nil
	default:
		return raw, nil
	}
}
