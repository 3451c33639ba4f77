package statement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"travelex/internal/domain/statement"
	"travelex/internal/stubserver/blob"
	"travelex/internal/stubserver/storage"
)

// Handler owns the card-statement import flow: parse an uploaded file into
// transactions, consolidate them into per-cardholder groups, and on commit
// turn the included groups into prepayment and expense rows.
type Handler struct {
	store      storage.Store
	blobs      blob.Store
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(store storage.Store, blobs blob.Store, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		store:      store,
		blobs:      blobs,
		log:        log.With("component", "statement_handler"),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.processOp(), h.process)
	huma.Register(api, h.groupsOp(), h.groups)
	huma.Register(api, h.commitOp(), h.commit)
}

func (h *Handler) process(ctx context.Context, input *processInput) (*processOutput, error) {
	rc, err := h.blobs.Open(ctx, input.Body.File)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, huma.Error404NotFound("uploaded file not found")
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	txns, err := parseCSV(rc)
	if err != nil {
		h.log.Info("statement rejected", "filename", input.Body.Filename, "error", err)
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	// Matching is by the cardholder name the bank prints, as registered on
	// the operator account.
	for i := range txns {
		u, err := h.store.GetUserByCardName(ctx, txns[i].Cardholder)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		txns[i].UserID = u.ID
		txns[i].Matched = true
	}

	imp, err := h.store.CreateImport(ctx, input.Body.Filename, input.Body.File, txns)
	if err != nil {
		h.log.Error("create import failed", "error", err)
		return nil, err
	}

	h.log.Info("statement processed",
		"import_id", imp.ID,
		"total", imp.TotalCount,
		"matched", imp.MatchedCount,
	)
	return &processOutput{Body: *imp}, nil
}

func (h *Handler) groups(ctx context.Context, input *idInput) (*groupsOutput, error) {
	if _, err := h.importByID(ctx, input.ID); err != nil {
		return nil, err
	}

	txns, err := h.store.ListTransactions(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &groupsOutput{Body: groupsResponse{Groups: buildGroups(txns)}}, nil
}

func (h *Handler) commit(ctx context.Context, input *commitInput) (*commitOutput, error) {
	imp, err := h.importByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if imp.Status == statement.StatusCommitted {
		return nil, huma.Error409Conflict("import already committed")
	}

	txns, err := h.store.ListTransactions(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	groups := buildGroups(txns)

	var report statement.Report
	for _, d := range input.Body.Decisions {
		if !d.Include {
			continue
		}
		if d.GroupIndex < 0 || d.GroupIndex >= len(groups) {
			return nil, huma.Error422UnprocessableEntity(
				fmt.Sprintf("group index %d out of range", d.GroupIndex))
		}

		if err := h.commitGroup(ctx, imp, groups[d.GroupIndex], d, &report); err != nil {
			return nil, err
		}
	}

	if err := h.store.SetImportStatus(ctx, input.ID, statement.StatusCommitted); err != nil {
		return nil, err
	}

	h.log.Info("import committed",
		"import_id", input.ID,
		"prepayments", report.CreatedPrepayments,
		"expenses", report.CreatedExpenses,
		"errors", report.ErrorCount,
	)
	return &commitOutput{Body: report}, nil
}

// commitGroup creates one prepayment covering the group plus one expense per
// transaction. Rows that fail to store are reported, not fatal: the operator
// fixes them by hand afterwards.
func (h *Handler) commitGroup(ctx context.Context, imp *statement.Import, g statement.Group, d statement.Decision, report *statement.Report) error {
	purpose := d.Purpose
	if purpose == "" {
		purpose = fmt.Sprintf("card statement %s", imp.Filename)
	}

	start, end := postingRange(g.Transactions)
	prepayment := map[string]any{
		"traveler":   g.Cardholder,
		"purpose":    purpose,
		"amount":     g.Total,
		"currency":   g.Currency,
		"start_date": start.Format(time.RFC3339),
		"end_date":   end.Format(time.RFC3339),
		"status":     "draft",
	}
	stored, err := h.createRow(ctx, "prepayments", prepayment, report)
	if err != nil {
		return err
	}
	if stored {
		report.CreatedPrepayments++
	}

	for _, t := range g.Transactions {
		expense := map[string]any{
			"description":   t.Merchant,
			"amount":        t.Amount,
			"currency":      t.Currency,
			"category_id":   d.CategoryID,
			"document_type": "receipt",
			"expense_date":  t.PostedAt.Format(time.RFC3339),
		}
		stored, err := h.createRow(ctx, "expenses", expense, report)
		if err != nil {
			return err
		}
		if stored {
			report.CreatedExpenses++
			report.ValidCount++
		}
	}
	return nil
}

// createRow stores one row and reports whether it landed. A storage failure
// is recorded in the report, never counted as created.
func (h *Handler) createRow(ctx context.Context, collection string, fields map[string]any, report *statement.Report) (bool, error) {
	raw, err := marshalFields(fields)
	if err != nil {
		return false, err
	}
	if _, err := h.store.CreateRow(ctx, collection, raw, ""); err != nil {
		h.log.Error("commit row failed", "collection", collection, "error", err)
		report.ErrorCount++
		report.RowErrors = append(report.RowErrors, statement.RowError{
			Message: fmt.Sprintf("failed to store %s row", collection),
		})
		return false, nil
	}
	return true, nil
}

func (h *Handler) importByID(ctx context.Context, id int) (*statement.Import, error) {
	imp, err := h.store.GetImport(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, huma.Error404NotFound("import not found")
	}
	if err != nil {
		return nil, err
	}
	return imp, nil
}

// buildGroups consolidates transactions per cardholder and currency, in
// order of first appearance.
func buildGroups(txns []statement.Transaction) []statement.Group {
	type key struct {
		cardholder string
		currency   string
	}

	index := map[key]int{}
	var groups []statement.Group

	for _, t := range txns {
		k := key{t.Cardholder, t.Currency}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, statement.Group{
				Cardholder: t.Cardholder,
				Currency:   t.Currency,
				UserID:     t.UserID,
				Matched:    t.Matched,
			})
		}
		groups[i].Total += t.Amount
		groups[i].Transactions = append(groups[i].Transactions, t)
	}
	return groups
}

func postingRange(txns []statement.Transaction) (time.Time, time.Time) {
	start, end := txns[0].PostedAt, txns[0].PostedAt
	for _, t := range txns[1:] {
		if t.PostedAt.Before(start) {
			start = t.PostedAt
		}
		if t.PostedAt.After(end) {
			end = t.PostedAt
		}
	}
	return start, end
}
