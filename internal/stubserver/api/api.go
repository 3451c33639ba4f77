package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	"travelex/internal/domain/category"
	"travelex/internal/domain/expense"
	"travelex/internal/domain/location"
	"travelex/internal/domain/prepayment"
	"travelex/internal/domain/supplier"
	alertAPI "travelex/internal/stubserver/api/alert"
	filesAPI "travelex/internal/stubserver/api/files"
	healthAPI "travelex/internal/stubserver/api/health"
	"travelex/internal/stubserver/api/middleware"
	authMW "travelex/internal/stubserver/api/middleware/auth"
	loggerMW "travelex/internal/stubserver/api/middleware/logger"
	"travelex/internal/stubserver/api/resource"
	statementAPI "travelex/internal/stubserver/api/statement"
	userAPI "travelex/internal/stubserver/api/user"
	"travelex/internal/stubserver/blob"
	"travelex/internal/stubserver/config"
	"travelex/internal/stubserver/storage"
)

// New builds the chi mux with every operation registered through huma, plus
// the two raw-file routes that bypass it.
func New(cfg *config.Config, store storage.Store, blobs blob.Store, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("Travelex Admin API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	secret := []byte(cfg.Auth.Secret)
	auth := authMW.New(secret, log)
	logger := loggerMW.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(logger.Middleware())
	healthAPI.NewHandler(log, middlewares.GetAllAndClear()).SetupRoutes(API)

	middlewares.Add(logger.Middleware())
	public := middlewares.GetAllAndClear()
	middlewares.Add(auth.Middleware())
	middlewares.Add(logger.Middleware())
	userAPI.NewHandler(store, secret, cfg.Auth.TokenTTL, log, public, middlewares.GetAllAndClear()).SetupRoutes(API)

	for _, def := range collections(cfg) {
		middlewares.Add(auth.Middleware())
		middlewares.Add(logger.Middleware())
		resource.NewHandler(def, store, log, middlewares.GetAllAndClear()).SetupRoutes(API)
	}

	middlewares.Add(auth.Middleware())
	middlewares.Add(logger.Middleware())
	alertAPI.NewHandler(store, log, middlewares.GetAllAndClear()).SetupRoutes(API)

	middlewares.Add(auth.Middleware())
	middlewares.Add(logger.Middleware())
	statementAPI.NewHandler(store, blobs, log, middlewares.GetAllAndClear()).SetupRoutes(API)

	filesAPI.NewHandler(blobs, secret, log).SetupRoutes(mux)

	return mux
}

// collections lists every editable collection the admin client works with.
// Rules are shared with the client packages, so both ends agree on what a
// valid draft is.
func collections(cfg *config.Config) []resource.Definition {
	return []resource.Definition{
		{Name: "expenses", Path: expense.Path, Rules: expense.Rules(cfg.Period.Start, cfg.Period.End)},
		{Name: "prepayments", Path: prepayment.Path, Rules: prepayment.Rules(cfg.Period.Start, cfg.Period.End)},
		{Name: "suppliers", Path: supplier.Path, Rules: supplier.Rules()},
		{Name: "categories", Path: category.Path, Rules: category.Rules()},
		{Name: "locations", Path: location.Path, Rules: location.Rules()},
	}
}
