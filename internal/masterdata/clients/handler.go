package clients

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

// Handler exposes the client CRUD endpoints.
type Handler struct {
	logger *slog.Logger
	svc    *Service
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, svc *Service) *Handler {
	return &Handler{logger: logger, svc: svc}
}

// MountRoutes registers the client routes on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	var req CreateClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, httpx.BadRequest("INVALID_BODY", "request body is not valid JSON"))
		return
	}

	client, err := h.svc.Create(r.Context(), tc, req)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tc, err := shared.TenantFromContext(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	page := shared.ParsePage(r)
	filter := ListClientsFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	list, total, err := h.svc.List(r.Context(), tc, filter)
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

	client, err := h.svc.Get(r.Context(), tc, id)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, client)
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

	var req UpdateClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, httpx.BadRequest("INVALID_BODY", "request body is not valid JSON"))
		return
	}

	client, err := h.svc.Update(r.Context(), tc, id, req)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, client)
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

	client, err := h.svc.Delete(r.Context(), tc, id)
	if err != nil {
		httpx.RespondError(w, h.logger, mapErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func mapErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return httpx.NotFound("CLIENT_NOT_FOUND", "client not found")
	}
	return err
}
