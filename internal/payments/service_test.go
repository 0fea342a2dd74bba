package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

type mockRepo struct {
	payments map[int64]*Payment
	invoices map[int64]*InvoiceState
	balances map[int64]float64
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		payments: make(map[int64]*Payment),
		invoices: make(map[int64]*InvoiceState),
		balances: make(map[int64]float64),
		nextID:   1,
	}
}

func (m *mockRepo) WithTx(_ context.Context, fn func(Repository) error) error {
	return fn(m)
}

func (m *mockRepo) Insert(_ context.Context, p *Payment) error {
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *mockRepo) Get(_ context.Context, companyID, id int64) (*Payment, error) {
	p, ok := m.payments[id]
	if !ok || p.CompanyID != companyID {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context, companyID int64, filter ListPaymentsFilter) ([]Payment, int, error) {
	var out []Payment
	for _, p := range m.payments {
		if p.CompanyID != companyID {
			continue
		}
		if filter.InvoiceID != 0 && p.InvoiceID != filter.InvoiceID {
			continue
		}
		if filter.DateFrom != nil && p.PaymentDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && p.PaymentDate.After(*filter.DateTo) {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockRepo) Update(_ context.Context, companyID, id int64, updates map[string]interface{}) error {
	p, ok := m.payments[id]
	if !ok || p.CompanyID != companyID {
		return ErrNotFound
	}
	if v, ok := updates["amount"]; ok {
		p.Amount = v.(float64)
	}
	if v, ok := updates["method"]; ok {
		p.Method = v.(string)
	}
	if v, ok := updates["reference"]; ok {
		p.Reference = v.(*string)
	}
	if v, ok := updates["payment_date"]; ok {
		p.PaymentDate = v.(time.Time)
	}
	if v, ok := updates["notes"]; ok {
		p.Notes = v.(*string)
	}
	return nil
}

func (m *mockRepo) Delete(_ context.Context, companyID, id int64) (*Payment, error) {
	p, err := m.Get(context.Background(), companyID, id)
	if err != nil {
		return nil, err
	}
	delete(m.payments, id)
	return p, nil
}

func (m *mockRepo) GetInvoiceState(_ context.Context, _, invoiceID int64) (*InvoiceState, error) {
	inv, ok := m.invoices[invoiceID]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *mockRepo) SetInvoicePaid(_ context.Context, _, invoiceID int64, amountPaid float64, status string) error {
	inv, ok := m.invoices[invoiceID]
	if !ok {
		return ErrInvoiceNotFound
	}
	inv.AmountPaid = amountPaid
	inv.Status = status
	return nil
}

func (m *mockRepo) AdjustClientBalance(_ context.Context, _, clientID int64, delta float64) error {
	m.balances[clientID] += delta
	return nil
}

var tenant = shared.TenantContext{CompanyID: 1}

func newTestService(repo *mockRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func seedInvoice(repo *mockRepo, id int64, total float64) {
	repo.invoices[id] = &InvoiceState{ID: id, ClientID: 10, Status: "sent", Total: total}
	repo.balances[10] = total
}

func TestCreatePaymentPartial(t *testing.T) {
	repo := newMockRepo()
	seedInvoice(repo, 1, 2340)
	svc := newTestService(repo)

	p, err := svc.Create(context.Background(), tenant, CreatePaymentRequest{InvoiceID: 1, Amount: 1000})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, p.Amount)
	assert.Equal(t, MethodBankTransfer, p.Method)
	assert.Equal(t, int64(10), p.ClientID)

	inv := repo.invoices[1]
	assert.Equal(t, 1000.0, inv.AmountPaid)
	assert.Equal(t, "sent", inv.Status)
	assert.Equal(t, 1340.0, repo.balances[10])
}

func TestCreatePaymentCoversInvoice(t *testing.T) {
	repo := newMockRepo()
	seedInvoice(repo, 1, 2340)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), tenant, CreatePaymentRequest{InvoiceID: 1, Amount: 2340})
	require.NoError(t, err)

	inv := repo.invoices[1]
	assert.Equal(t, "paid", inv.Status)
	assert.Equal(t, 2340.0, inv.AmountPaid)
	assert.Equal(t, 0.0, repo.balances[10])
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	repo := newMockRepo()
	seedInvoice(repo, 1, 100)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), tenant, CreatePaymentRequest{InvoiceID: 1, Amount: 0})
	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_AMOUNT", apiErr.Code)
}

func TestCreatePaymentUnknownInvoice(t *testing.T) {
	svc := newTestService(newMockRepo())

	_, err := svc.Create(context.Background(), tenant, CreatePaymentRequest{InvoiceID: 99, Amount: 10})
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestCreatePaymentOnCancelledInvoice(t *testing.T) {
	repo := newMockRepo()
	repo.invoices[1] = &InvoiceState{ID: 1, ClientID: 10, Status: "cancelled", Total: 100}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), tenant, CreatePaymentRequest{InvoiceID: 1, Amount: 10})
	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "DOCUMENT_LOCKED", apiErr.Code)
}

func TestCreatePaymentRejectsBadMethod(t *testing.T) {
	repo := newMockRepo()
	seedInvoice(repo, 1, 100)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), tenant, CreatePaymentRequest{InvoiceID: 1, Amount: 10, Method: "hawala"})
	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_METHOD", apiErr.Code)
}

func TestUpdatePaymentAmountReconciles(t *testing.T) {
	repo := newMockRepo()
	seedInvoice(repo, 1, 2340)
	svc := newTestService(repo)

	p, err := svc.Create(context.Background(), tenant, CreatePaymentRequest{InvoiceID: 1, Amount: 1000})
	require.NoError(t, err)

	amount := 2340.0
	updated, err := svc.Update(context.Background(), tenant, p.ID, UpdatePaymentRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 2340.0, updated.Amount)

	inv := repo.invoices[1]
	assert.Equal(t, 2340.0, inv.AmountPaid)
	assert.Equal(t, "paid", inv.Status)
	assert.Equal(t, 0.0, repo.balances[10])
}

func TestUpdatePaymentMethodLeavesReconciliation(t *testing.T) {
	repo := newMockRepo()
	seedInvoice(repo, 1, 2340)
	svc := newTestService(repo)

	p, err := svc.Create(context.Background(), tenant, CreatePaymentRequest{InvoiceID: 1, Amount: 1000})
	require.NoError(t, err)

	method := MethodCheque
	updated, err := svc.Update(context.Background(), tenant, p.ID, UpdatePaymentRequest{Method: &method})
	require.NoError(t, err)
	assert.Equal(t, MethodCheque, updated.Method)

	inv := repo.invoices[1]
	assert.Equal(t, 1000.0, inv.AmountPaid)
	assert.Equal(t, 1340.0, repo.balances[10])
}

func TestListPaymentsDateRange(t *testing.T) {
	repo := newMockRepo()
	seedInvoice(repo, 1, 5000)
	svc := newTestService(repo)

	early := "2026-01-05"
	_, err := svc.Create(context.Background(), tenant, CreatePaymentRequest{InvoiceID: 1, Amount: 100, PaymentDate: &early})
	require.NoError(t, err)
	late := "2026-02-20"
	_, err = svc.Create(context.Background(), tenant, CreatePaymentRequest{InvoiceID: 1, Amount: 200, PaymentDate: &late})
	require.NoError(t, err)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	list, total, err := svc.List(context.Background(), tenant, ListPaymentsFilter{DateFrom: &from})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, 200.0, list[0].Amount)
}

func TestDeletePaymentReverses(t *testing.T) {
	repo := newMockRepo()
	seedInvoice(repo, 1, 2340)
	svc := newTestService(repo)

	p, err := svc.Create(context.Background(), tenant, CreatePaymentRequest{InvoiceID: 1, Amount: 2340})
	require.NoError(t, err)
	require.Equal(t, "paid", repo.invoices[1].Status)

	deleted, err := svc.Delete(context.Background(), tenant, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)

	inv := repo.invoices[1]
	assert.Equal(t, 0.0, inv.AmountPaid)
	assert.Equal(t, "sent", inv.Status)
	assert.Equal(t, 2340.0, repo.balances[10])
}
