package banking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

type mockRepo struct {
	txs      map[int64]*BankTransaction
	payments map[int64]bool
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{txs: make(map[int64]*BankTransaction), payments: make(map[int64]bool), nextID: 1}
}

func (m *mockRepo) Insert(_ context.Context, t *BankTransaction) error {
	t.ID = m.nextID
	m.nextID++
	cp := *t
	m.txs[t.ID] = &cp
	return nil
}

func (m *mockRepo) Get(_ context.Context, companyID, id int64) (*BankTransaction, error) {
	t, ok := m.txs[id]
	if !ok || t.CompanyID != companyID {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context, companyID int64, filter ListTransactionsFilter) ([]BankTransaction, int, error) {
	var out []BankTransaction
	for _, t := range m.txs {
		if t.CompanyID != companyID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.Unmatched && t.PaymentID != nil {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			desc := t.Description != nil && strings.Contains(strings.ToLower(*t.Description), needle)
			ref := t.Reference != nil && strings.Contains(strings.ToLower(*t.Reference), needle)
			if !desc && !ref {
				continue
			}
		}
		if filter.DateFrom != nil && t.TransactionDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && t.TransactionDate.After(*filter.DateTo) {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *mockRepo) Update(_ context.Context, companyID, id int64, updates map[string]interface{}) error {
	t, ok := m.txs[id]
	if !ok || t.CompanyID != companyID {
		return ErrNotFound
	}
	if v, ok := updates["type"]; ok {
		t.Type = v.(string)
	}
	if v, ok := updates["amount"]; ok {
		t.Amount = v.(float64)
	}
	if v, ok := updates["description"]; ok {
		t.Description = v.(*string)
	}
	if v, ok := updates["reference"]; ok {
		t.Reference = v.(*string)
	}
	if v, ok := updates["bank_name"]; ok {
		t.BankName = v.(*string)
	}
	if v, ok := updates["transaction_date"]; ok {
		t.TransactionDate = v.(time.Time)
	}
	return nil
}

func (m *mockRepo) Delete(_ context.Context, companyID, id int64) (*BankTransaction, error) {
	t, err := m.Get(context.Background(), companyID, id)
	if err != nil {
		return nil, err
	}
	delete(m.txs, id)
	return t, nil
}

func (m *mockRepo) SetPayment(_ context.Context, companyID, id int64, paymentID *int64) error {
	t, ok := m.txs[id]
	if !ok || t.CompanyID != companyID {
		return ErrNotFound
	}
	t.PaymentID = paymentID
	return nil
}

func (m *mockRepo) PaymentExists(_ context.Context, _, paymentID int64) (bool, error) {
	return m.payments[paymentID], nil
}

var tenant = shared.TenantContext{CompanyID: 1}

func newTestService(repo *mockRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateTransactionRejectsBadType(t *testing.T) {
	svc := newTestService(newMockRepo())

	_, err := svc.Create(context.Background(), tenant, CreateTransactionRequest{Type: "transfer", Amount: 10})
	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_TYPE", apiErr.Code)
}

func TestCreateTransactionRejectsZeroAmount(t *testing.T) {
	svc := newTestService(newMockRepo())

	_, err := svc.Create(context.Background(), tenant, CreateTransactionRequest{Type: TypeCredit, Amount: 0})
	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_AMOUNT", apiErr.Code)
}

func TestMatchAndUnmatch(t *testing.T) {
	repo := newMockRepo()
	repo.payments[42] = true
	svc := newTestService(repo)

	tx, err := svc.Create(context.Background(), tenant, CreateTransactionRequest{Type: TypeCredit, Amount: 2340})
	require.NoError(t, err)

	matched, err := svc.Match(context.Background(), tenant, tx.ID, MatchRequest{PaymentID: 42})
	require.NoError(t, err)
	require.NotNil(t, matched.PaymentID)
	assert.Equal(t, int64(42), *matched.PaymentID)

	// A matched line refuses a second match.
	_, err = svc.Match(context.Background(), tenant, tx.ID, MatchRequest{PaymentID: 42})
	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ALREADY_MATCHED", apiErr.Code)

	unmatched, err := svc.Unmatch(context.Background(), tenant, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, unmatched.PaymentID)
}

func TestMatchUnknownPayment(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	tx, err := svc.Create(context.Background(), tenant, CreateTransactionRequest{Type: TypeCredit, Amount: 100})
	require.NoError(t, err)

	_, err = svc.Match(context.Background(), tenant, tx.ID, MatchRequest{PaymentID: 99})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestUpdateTransaction(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	tx, err := svc.Create(context.Background(), tenant, CreateTransactionRequest{Type: TypeDebit, Amount: 500})
	require.NoError(t, err)

	amount := 750.555
	bank := "Meezan Bank"
	date := "2026-02-14"
	updated, err := svc.Update(context.Background(), tenant, tx.ID, UpdateTransactionRequest{
		Amount:          &amount,
		BankName:        &bank,
		TransactionDate: &date,
	})
	require.NoError(t, err)
	assert.Equal(t, 750.56, updated.Amount)
	require.NotNil(t, updated.BankName)
	assert.Equal(t, "Meezan Bank", *updated.BankName)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), updated.TransactionDate)
	assert.Equal(t, TypeDebit, updated.Type)
}

func TestUpdateTransactionRejectsBadType(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	tx, err := svc.Create(context.Background(), tenant, CreateTransactionRequest{Type: TypeCredit, Amount: 100})
	require.NoError(t, err)

	bad := "transfer"
	_, err = svc.Update(context.Background(), tenant, tx.ID, UpdateTransactionRequest{Type: &bad})
	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_TYPE", apiErr.Code)
}

func TestListTransactionsSearchAndDateRange(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	desc := "HBL transfer from Alpha Traders"
	early := "2026-01-05"
	_, err := svc.Create(context.Background(), tenant, CreateTransactionRequest{
		Type: TypeCredit, Amount: 100, Description: &desc, TransactionDate: &early,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), tenant, CreateTransactionRequest{Type: TypeCredit, Amount: 200})
	require.NoError(t, err)

	list, total, err := svc.List(context.Background(), tenant, ListTransactionsFilter{Search: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, 100.0, list[0].Amount)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	list, total, err = svc.List(context.Background(), tenant, ListTransactionsFilter{DateFrom: &from})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, 200.0, list[0].Amount)
}

func TestListFiltersUnmatched(t *testing.T) {
	repo := newMockRepo()
	repo.payments[42] = true
	svc := newTestService(repo)

	first, err := svc.Create(context.Background(), tenant, CreateTransactionRequest{Type: TypeCredit, Amount: 100})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), tenant, CreateTransactionRequest{Type: TypeCredit, Amount: 200})
	require.NoError(t, err)

	_, err = svc.Match(context.Background(), tenant, first.ID, MatchRequest{PaymentID: 42})
	require.NoError(t, err)

	list, total, err := svc.List(context.Background(), tenant, ListTransactionsFilter{Unmatched: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, 200.0, list[0].Amount)
}
