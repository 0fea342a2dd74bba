package companies

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

// Handler exposes the company settings endpoints.
type Handler struct {
	logger *slog.Logger
	svc    *Service
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, svc *Service) *Handler {
	return &Handler{logger: logger, svc: svc}
}

// MountRoutes registers the company routes on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/company", h.get)
	r.Put("/company", h.update)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	company, err := h.svc.Get(r.Context(), tc)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, company)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	var req UpdateCompanyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, httpx.BadRequest("INVALID_BODY", "request body is not valid JSON"))
		return
	}

	company, err := h.svc.Update(r.Context(), tc, req)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, company)
}

func mapErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return httpx.NotFound("COMPANY_NOT_FOUND", "company not found")
	}
	return err
}
