package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"travelex/internal/stubserver/api/apierr"
	"travelex/internal/stubserver/storage"
	"travelex/internal/validation"
)

// Definition describes one editable collection the stub serves: its URL
// path and the rule set drafts are validated against.
type Definition struct {
	Name  string
	Path  string
	Rules validation.RuleSet
}

// Handler is the generic CRUD surface. One instance per collection; all of
// them share the same storage path.
type Handler struct {
	def        Definition
	store      storage.Store
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(def Definition, store storage.Store, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		def:        def,
		store:      store,
		log:        log.With("collection", def.Name),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, _ *listInput) (*listOutput, error) {
	rows, err := h.store.ListRows(ctx, h.def.Name)
	if err != nil {
		h.log.Error("list failed", "error", err)
		return nil, err
	}

	items := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		item, err := rowBody(&r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return &listOutput{Body: listResponse{Items: items}}, nil
}

func (h *Handler) get(ctx context.Context, input *idInput) (*rowOutput, error) {
	row, err := h.store.GetRow(ctx, h.def.Name, input.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, huma.Error404NotFound(h.def.Name + " row not found")
	}
	if err != nil {
		return nil, err
	}

	body, err := rowBody(row)
	if err != nil {
		return nil, err
	}
	return &rowOutput{Body: body}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*rowOutput, error) {
	fields, err := h.validated(input.Body)
	if err != nil {
		return nil, err
	}

	row, err := h.store.CreateRow(ctx, h.def.Name, fields, input.IdemKey)
	if err != nil {
		h.log.Error("create failed", "error", err)
		return nil, err
	}

	body, err := rowBody(row)
	if err != nil {
		return nil, err
	}
	return &rowOutput{Body: body}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*rowOutput, error) {
	fields, err := h.validated(input.Body)
	if err != nil {
		return nil, err
	}

	row, err := h.store.UpdateRow(ctx, h.def.Name, input.ID, fields)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, huma.Error404NotFound(h.def.Name + " row not found")
	}
	if err != nil {
		h.log.Error("update failed", "id", input.ID, "error", err)
		return nil, err
	}

	body, err := rowBody(row)
	if err != nil {
		return nil, err
	}
	return &rowOutput{Body: body}, nil
}

func (h *Handler) delete(ctx context.Context, input *idInput) (*deleteOutput, error) {
	err := h.store.DeleteRow(ctx, h.def.Name, input.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, huma.Error404NotFound(h.def.Name + " row not found")
	}
	if err != nil {
		h.log.Error("delete failed", "id", input.ID, "error", err)
		return nil, err
	}
	return &deleteOutput{}, nil
}

// validated runs the collection's rules against the submitted fields and
// returns the canonical JSON to store.
func (h *Handler) validated(body map[string]any) (json.RawMessage, error) {
	draft := NormalizeDraft(body)

	if errs := h.def.Rules.Validate(draft); !errs.Empty() {
		return nil, apierr.New(errs)
	}

	// Store the submitted shape, not the normalized one: dates stay
	// RFC 3339 strings in the document.
	fields, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	return fields, nil
}

// NormalizeDraft turns a decoded JSON object into a draft the shared rule
// sets understand: RFC 3339 strings in *_date fields become time.Time.
func NormalizeDraft(body map[string]any) validation.Draft {
	draft := make(validation.Draft, len(body))
	for k, v := range body {
		if s, ok := v.(string); ok && isDateField(k) {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				draft[k] = t
				continue
			}
			if t, err := time.Parse("2006-01-02", s); err == nil {
				draft[k] = t
				continue
			}
		}
		draft[k] = v
	}
	return draft
}

func isDateField(name string) bool {
	return len(name) > 5 && name[len(name)-5:] == "_date"
}

// rowBody flattens a stored row into the wire shape: the field document with
// the server-assigned id merged in.
func rowBody(r *storage.Row) (map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal(r.Fields, &body); err != nil {
		return nil, fmt.Errorf("unmarshal row %d fields: %w", r.ID, err)
	}
	body["id"] = r.ID
	return body, nil
}
