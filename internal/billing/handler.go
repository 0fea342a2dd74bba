package billing

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

// Handler exposes the quotation and invoice endpoints.
type Handler struct {
	logger *slog.Logger
	svc    *Service
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, svc *Service) *Handler {
	return &Handler{logger: logger, svc: svc}
}

// MountRoutes registers the billing routes on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/quotations", func(r chi.Router) {
		r.Post("/", h.createQuotation)
		r.Get("/", h.listQuotations)
		r.Get("/{id}", h.getQuotation)
		r.Put("/{id}", h.updateQuotation)
		r.Delete("/{id}", h.deleteQuotation)
		r.Post("/{id}/convert", h.convertQuotation)
	})
	r.Route("/invoices", func(r chi.Router) {
		r.Post("/", h.createInvoice)
		r.Get("/", h.listInvoices)
		r.Get("/{id}", h.getInvoice)
		r.Put("/{id}", h.updateInvoice)
		r.Delete("/{id}", h.deleteInvoice)
		r.Get("/{id}/bundle", h.getBundle)
		r.Post("/{id}/tax-number", h.assignTaxNumber)
	})
}

func listFilter(r *http.Request) (ListFilter, error) {
	page := shared.ParsePage(r)
	clientID, _ := strconv.ParseInt(r.URL.Query().Get("clientId"), 10, 64)
	dateFrom, err := shared.QueryDate(r, "dateFrom")
	if err != nil {
		return ListFilter{}, err
	}
	dateTo, err := shared.QueryDate(r, "dateTo")
	if err != nil {
		return ListFilter{}, err
	}
	return ListFilter{
		Status:   r.URL.Query().Get("status"),
		ClientID: clientID,
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}, nil
}

func (h *Handler) createQuotation(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	var req CreateQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, httpx.BadRequest("INVALID_BODY", "request body is not valid JSON"))
		return
	}

	q, err := h.svc.CreateQuotation(r.Context(), tc, req)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *Handler) listQuotations(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	filter, err := listFilter(r)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	list, total, err := h.svc.ListQuotations(r.Context(), tc, filter)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSONList(w, total, list)
}

func (h *Handler) getQuotation(w http.ResponseWriter, r *http.Request) {
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

	q, err := h.svc.GetQuotation(r.Context(), tc, id)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) updateQuotation(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, httpx.BadRequest("INVALID_BODY", "request body is not valid JSON"))
		return
	}

	q, err := h.svc.UpdateQuotation(r.Context(), tc, id, req)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) deleteQuotation(w http.ResponseWriter, r *http.Request) {
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

	q, err := h.svc.DeleteQuotation(r.Context(), tc, id)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) convertQuotation(w http.ResponseWriter, r *http.Request) {
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

	inv, err := h.svc.ConvertQuotation(r.Context(), tc, id)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	var req CreateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, httpx.BadRequest("INVALID_BODY", "request body is not valid JSON"))
		return
	}

	inv, err := h.svc.CreateInvoice(r.Context(), tc, req)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	filter, err := listFilter(r)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	list, total, err := h.svc.ListInvoices(r.Context(), tc, filter)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSONList(w, total, list)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
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

	inv, err := h.svc.GetInvoice(r.Context(), tc, id)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, httpx.BadRequest("INVALID_BODY", "request body is not valid JSON"))
		return
	}

	inv, err := h.svc.UpdateInvoice(r.Context(), tc, id, req)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
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

	inv, err := h.svc.DeleteInvoice(r.Context(), tc, id)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) getBundle(w http.ResponseWriter, r *http.Request) {
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

	bundle, err := h.svc.GetBundle(r.Context(), tc, id)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, bundle)
}

func (h *Handler) assignTaxNumber(w http.ResponseWriter, r *http.Request) {
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

	var req TaxInvoiceRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, h.logger, httpx.BadRequest("INVALID_BODY", "request body is not valid JSON"))
			return
		}
	}

	inv, err := h.svc.AssignTaxInvoiceNumber(r.Context(), tc, id, req)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrQuotationNotFound):
		return httpx.NotFound("QUOTATION_NOT_FOUND", "quotation not found")
	case errors.Is(err, ErrInvoiceNotFound):
		return httpx.NotFound("INVOICE_NOT_FOUND", "invoice not found")
	}
	return err
}
