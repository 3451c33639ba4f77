package statement

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"travelex/internal/domain/statement"
)

// Statement files are the bank's export: a header line, then one transaction
// per line.
//
//	posted_at,cardholder,merchant,amount,currency
//	2026-03-12,KOWALSKI J,RYANAIR,129.99,EUR
func parseCSV(r io.Reader) ([]statement.Transaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty statement file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var txns []statement.Transaction
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		postedAt, err := time.Parse("2006-01-02", rec[col["posted_at"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid posted_at %q", line, rec[col["posted_at"]])
		}
		amount, err := strconv.ParseFloat(rec[col["amount"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q", line, rec[col["amount"]])
		}

		txns = append(txns, statement.Transaction{
			Cardholder: strings.TrimSpace(rec[col["cardholder"]]),
			Merchant:   strings.TrimSpace(rec[col["merchant"]]),
			Amount:     amount,
			Currency:   strings.ToUpper(strings.TrimSpace(rec[col["currency"]])),
			PostedAt:   postedAt,
		})
	}

	if len(txns) == 0 {
		return nil, fmt.Errorf("statement has no transactions")
	}
	return txns, nil
}

func headerIndex(header []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"posted_at", "cardholder", "merchant", "amount", "currency"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return col, nil
}

func marshalFields(fields map[string]any) (json.RawMessage, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	return raw, nil
}
