package billing

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisaab-cloud/hisaab/internal/shared"
)

func newTestRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := shared.ContextWithTenant(req.Context(), tenant)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	NewHandler(slog.Default(), svc).MountRoutes(r)
	return r
}

func TestCreateQuotationEndpoint(t *testing.T) {
	router := newTestRouter(newTestService(newMockRepo()))

	body := `{"clientId":10,"lines":[{"description":"Cement delivery","quantity":2,"unitPrice":1000,"taxRate":17}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotations", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var q Quotation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, 2340.0, q.Total)
	assert.Equal(t, "QT-2026-001", q.Number)
}

func TestCreateQuotationEndpointBadJSON(t *testing.T) {
	router := newTestRouter(newTestService(newMockRepo()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotations", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_BODY")
}

func TestCreateQuotationEndpointMissingClient(t *testing.T) {
	router := newTestRouter(newTestService(newMockRepo()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotations", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_CLIENT_ID")
}

func TestGetInvoiceEndpointNotFound(t *testing.T) {
	router := newTestRouter(newTestService(newMockRepo()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/12345", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVOICE_NOT_FOUND")
}

func TestGetInvoiceEndpointInvalidID(t *testing.T) {
	router := newTestRouter(newTestService(newMockRepo()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ID")
}

func TestListInvoicesEndpointReportsTotal(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	router := newTestRouter(svc)

	body := `{"clientId":10}`
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices?limit=99999", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-Total-Count"))

	var list []Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 3)
}

func TestListInvoicesEndpointRejectsBogusStatus(t *testing.T) {
	router := newTestRouter(newTestService(newMockRepo()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices?status=finalized", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_STATUS")
}

func TestListInvoicesEndpointRejectsBadDateFrom(t *testing.T) {
	router := newTestRouter(newTestService(newMockRepo()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices?dateFrom=01-03-2026", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_DATE_FROM")
}

func TestConvertEndpoint(t *testing.T) {
	router := newTestRouter(newTestService(newMockRepo()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotations",
		strings.NewReader(`{"clientId":10,"lines":[{"description":"x","quantity":1,"unitPrice":100,"taxRate":0}]}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var q Quotation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotations/1/convert", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var inv Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
	assert.Equal(t, "draft", string(inv.Status))
	assert.Equal(t, 100.0, inv.Total)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotations/1/convert", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALREADY_CONVERTED")
}

func TestRequestWithoutTenantRejected(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(slog.Default(), newTestService(newMockRepo())).MountRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotations", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_COMPANY")
}
