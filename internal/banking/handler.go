package banking

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

// Handler exposes the bank transaction endpoints.
type Handler struct {
	logger *slog.Logger
	svc    *Service
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, svc *Service) *Handler {
	return &Handler{logger: logger, svc: svc}
}

// MountRoutes registers the bank transaction routes on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/bank-transactions", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/match", h.match)
		r.Post("/{id}/unmatch", h.unmatch)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	var req CreateTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, httpx.BadRequest("INVALID_BODY", "request body is not valid JSON"))
		return
	}

	t, err := h.svc.Create(r.Context(), tc, req)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, t)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	page := shared.ParsePage(r)
	dateFrom, err := shared.QueryDate(r, "dateFrom")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	dateTo, err := shared.QueryDate(r, "dateTo")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	list, total, err := h.svc.List(r.Context(), tc, ListTransactionsFilter{
		Type:      r.URL.Query().Get("type"),
		Unmatched: r.URL.Query().Get("unmatched") == "true",
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSONList(w, total, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	t, err := h.svc.Get(r.Context(), tc, id)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	var req UpdateTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, httpx.BadRequest("INVALID_BODY", "request body is not valid JSON"))
		return
	}

	t, err := h.svc.Update(r.Context(), tc, id, req)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	t, err := h.svc.Delete(r.Context(), tc, id)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) match(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	var req MatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, httpx.BadRequest("INVALID_BODY", "request body is not valid JSON"))
		return
	}

	t, err := h.svc.Match(r.Context(), tc, id, req)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) unmatch(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	t, err := h.svc.Unmatch(r.Context(), tc, id)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httpx.NotFound("BANK_TRANSACTION_NOT_FOUND", "bank transaction not found")
	case errors.Is(err, ErrPaymentNotFound):
		return httpx.NotFound("PAYMENT_NOT_FOUND", "payment not found")
	}
	return err
}
