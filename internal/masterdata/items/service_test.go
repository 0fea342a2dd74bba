package items

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

type mockRepo struct {
	items  map[int64]*Item
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[int64]*Item), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, companyID int64, req CreateItemRequest) (*Item, error) {
	it := &Item{
		ID: m.nextID, CompanyID: companyID, Name: req.Name,
		UnitPrice: req.UnitPrice, TaxRate: req.TaxRate, Unit: req.Unit, IsService: req.IsService,
	}
	m.items[it.ID] = it
	m.nextID++
	return it, nil
}

func (m *mockRepo) Get(_ context.Context, companyID, id int64) (*Item, error) {
	it, ok := m.items[id]
	if !ok || it.CompanyID != companyID {
		return nil, ErrNotFound
	}
	return it, nil
}

func (m *mockRepo) List(_ context.Context, companyID int64, _ ListItemsFilter) ([]Item, int, error) {
	var out []Item
	for _, it := range m.items {
		if it.CompanyID == companyID {
			out = append(out, *it)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) Update(_ context.Context, companyID, id int64, updates map[string]interface{}) error {
	it, ok := m.items[id]
	if !ok || it.CompanyID != companyID {
		return ErrNotFound
	}
	if v, ok := updates["unit_price"]; ok {
		it.UnitPrice = v.(float64)
	}
	return nil
}

func (m *mockRepo) Delete(_ context.Context, companyID, id int64) (*Item, error) {
	it, ok := m.items[id]
	if !ok || it.CompanyID != companyID {
		return nil, ErrNotFound
	}
	delete(m.items, id)
	return it, nil
}

var tenant = shared.TenantContext{CompanyID: 1}

func TestCreateItemRejectsNegativePrice(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), tenant, CreateItemRequest{Name: "Cement Bag", UnitPrice: -1})
	require.Error(t, err)

	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_UNIT_PRICE", apiErr.Code)
}

func TestCreateItemRejectsTaxRateOver100(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), tenant, CreateItemRequest{Name: "Cement Bag", TaxRate: 117})
	require.Error(t, err)

	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_TAX_RATE", apiErr.Code)
}

func TestCreateItemDefaultsUnit(t *testing.T) {
	svc := NewService(newMockRepo())

	it, err := svc.Create(context.Background(), tenant, CreateItemRequest{Name: "Cement Bag", UnitPrice: 1250, TaxRate: 17})
	require.NoError(t, err)
	assert.Equal(t, "pcs", it.Unit)
}

func TestUpdateItemPrice(t *testing.T) {
	svc := NewService(newMockRepo())

	it, err := svc.Create(context.Background(), tenant, CreateItemRequest{Name: "Cement Bag", UnitPrice: 1250})
	require.NoError(t, err)

	price := 1300.0
	got, err := svc.Update(context.Background(), tenant, it.ID, UpdateItemRequest{UnitPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, 1300.0, got.UnitPrice)
}

func TestDeleteItemScopedToTenant(t *testing.T) {
	svc := NewService(newMockRepo())

	it, err := svc.Create(context.Background(), tenant, CreateItemRequest{Name: "Cement Bag"})
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), shared.TenantContext{CompanyID: 99}, it.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
