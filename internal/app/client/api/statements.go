package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"travelex/internal/domain/statement"
)

// UploadStatement uploads a card-statement file. The server parses it,
// matches transactions to users and currencies and consolidates them into
// proposed groups; the client never re-implements any of that.
func (c *Client) UploadStatement(ctx context.Context, filename string, r io.Reader) (statement.Import, error) {
	stored, err := c.UploadFile(ctx, "/api/statements", filename, r)
	if err != nil {
		return statement.Import{}, err
	}

	var imp statement.Import
	path := "/api/statements/process"
	body := map[string]string{"file": stored.Name, "filename": filename}
	if err := c.do(ctx, http.MethodPost, path, body, nil, &imp); err != nil {
		return statement.Import{}, err
	}
	return imp, nil
}

// StatementGroups fetches the server-consolidated groups of an import.
func (c *Client) StatementGroups(ctx context.Context, importID int) ([]statement.Group, error) {
	var resp struct {
		Groups []statement.Group `json:"groups"`
	}
	path := fmt.Sprintf("/api/statements/%d/groups", importID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// CommitStatement turns the included groups into prepayments and expenses
// server-side and returns the import report.
func (c *Client) CommitStatement(ctx context.Context, importID int, decisions []statement.Decision) (statement.Report, error) {
	body := struct {
		Decisions []statement.Decision `json:"decisions"`
	}{Decisions: decisions}

	var report statement.Report
	path := fmt.Sprintf("/api/statements/%d/commit", importID)
	if err := c.do(ctx, http.MethodPost, path, body, nil, &report); err != nil {
		return statement.Report{}, err
	}
	return report, nil
}
