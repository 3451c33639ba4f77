package alert

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"travelex/internal/stubserver/storage"
)

// Handler evaluates save candidates against the configured thresholds. It is
// advisory only: the client decides what to do with a tripped result.
type Handler struct {
	store      storage.Store
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(store storage.Store, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		store:      store,
		log:        log.With("component", "alert_handler"),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.checkOp(), h.check)
	huma.Register(api, h.checkBatchOp(), h.checkBatch)
}

func (h *Handler) check(ctx context.Context, input *checkInput) (*checkOutput, error) {
	res, err := h.evaluate(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &checkOutput{Body: res}, nil
}

func (h *Handler) checkBatch(ctx context.Context, input *checkBatchInput) (*checkBatchOutput, error) {
	results := make([]result, 0, len(input.Body.Candidates))
	for _, cand := range input.Body.Candidates {
		res, err := h.evaluate(ctx, cand)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return &checkBatchOutput{Body: checkBatchResponse{Results: results}}, nil
}

func (h *Handler) evaluate(ctx context.Context, cand candidate) (result, error) {
	th, err := h.store.FindThreshold(ctx, cand.Collection, cand.CategoryID, cand.Currency)
	if errors.Is(err, storage.ErrNotFound) {
		// No limit configured for this combination.
		return result{}, nil
	}
	if err != nil {
		h.log.Error("threshold lookup failed", "collection", cand.Collection, "error", err)
		return result{}, err
	}

	if cand.Amount <= th.Amount {
		return result{}, nil
	}

	return result{
		Tripped: true,
		Detail: detail{
			AlertAmount: th.Amount,
			Message:     th.Message,
		},
	}, nil
}
