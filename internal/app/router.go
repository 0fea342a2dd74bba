package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisaab-cloud/hisaab/internal/auth"
	"github.com/hisaab-cloud/hisaab/internal/banking"
	"github.com/hisaab-cloud/hisaab/internal/billing"
	"github.com/hisaab-cloud/hisaab/internal/masterdata/clients"
	"github.com/hisaab-cloud/hisaab/internal/masterdata/companies"
	"github.com/hisaab-cloud/hisaab/internal/masterdata/items"
	"github.com/hisaab-cloud/hisaab/internal/payments"
	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config
	Pool   *pgxpool.Pool

	Auth             *auth.Middleware
	CompaniesHandler *companies.Handler
	ClientsHandler   *clients.Handler
	ItemsHandler     *items.Handler
	BillingHandler   *billing.Handler
	PaymentsHandler  *payments.Handler
	BankingHandler   *banking.Handler
}

// NewRouter constructs the chi router with the full API surface.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if params.Pool != nil {
			if err := params.Pool.Ping(req.Context()); err != nil {
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(params.Auth.RequireTenant)
		params.CompaniesHandler.MountRoutes(r)
		params.ClientsHandler.MountRoutes(r)
		params.ItemsHandler.MountRoutes(r)
		params.BillingHandler.MountRoutes(r)
		params.PaymentsHandler.MountRoutes(r)
		params.BankingHandler.MountRoutes(r)
	})

	return r
}
