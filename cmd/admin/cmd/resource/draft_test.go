package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDraftTypesValuesByFieldName(t *testing.T) {
	draft, err := ParseDraft([]string{
		"description=Taxi to airport",
		"amount=42.50",
		"currency=EUR",
		"category_id=3",
		"expense_date=2026-03-15",
		"active=true",
	})
	require.NoError(t, err)

	assert.Equal(t, "Taxi to airport", draft["description"])
	assert.Equal(t, 42.50, draft["amount"])
	assert.Equal(t, "EUR", draft["currency"])
	assert.Equal(t, 3, draft["category_id"])
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), draft["expense_date"])
	assert.Equal(t, true, draft["active"])
}

func TestParseDraftAcceptsRFC3339Dates(t *testing.T) {
	draft, err := ParseDraft([]string{"start_date=2026-03-15T00:00:00Z"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), draft["start_date"])
}

func TestParseDraftRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name       string
		assignment string
	}{
		{"no equals sign", "description"},
		{"empty field name", "=value"},
		{"bad date", "expense_date=15.03.2026"},
		{"bad id", "category_id=three"},
		{"bad amount", "amount=12,50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDraft([]string{tt.assignment})
			assert.Error(t, err)
		})
	}
}

func TestParseDraftKeepsStatusAsString(t *testing.T) {
	draft, err := ParseDraft([]string{"status=draft"})
	require.NoError(t, err)

	assert.Equal(t, "draft", draft["status"])
}
