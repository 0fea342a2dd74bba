package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

type mockRepo struct {
	clients map[int64]*Client
	nextID  int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{clients: make(map[int64]*Client), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, companyID int64, req CreateClientRequest) (*Client, error) {
	c := &Client{ID: m.nextID, CompanyID: companyID, Name: req.Name, Email: req.Email}
	m.clients[c.ID] = c
	m.nextID++
	return c, nil
}

func (m *mockRepo) Get(_ context.Context, companyID, id int64) (*Client, error) {
	c, ok := m.clients[id]
	if !ok || c.CompanyID != companyID {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) List(_ context.Context, companyID int64, _ ListClientsFilter) ([]Client, int, error) {
	var out []Client
	for _, c := range m.clients {
		if c.CompanyID == companyID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) Update(_ context.Context, companyID, id int64, updates map[string]interface{}) error {
	c, ok := m.clients[id]
	if !ok || c.CompanyID != companyID {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	return nil
}

func (m *mockRepo) Delete(_ context.Context, companyID, id int64) (*Client, error) {
	c, ok := m.clients[id]
	if !ok || c.CompanyID != companyID {
		return nil, ErrNotFound
	}
	delete(m.clients, id)
	return c, nil
}

var tenant = shared.TenantContext{CompanyID: 1}

func TestCreateClientRequiresName(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), tenant, CreateClientRequest{Name: "   "})
	require.Error(t, err)

	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "MISSING_NAME", apiErr.Code)
}

func TestCreateClientRejectsBadEmail(t *testing.T) {
	svc := NewService(newMockRepo())
	bad := "not-an-email"

	_, err := svc.Create(context.Background(), tenant, CreateClientRequest{Name: "Khan Traders", Email: &bad})
	require.Error(t, err)

	var apiErr *httpx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_EMAIL", apiErr.Code)
}

func TestCreateClientTrimsOptionalEmail(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	empty := "   "

	c, err := svc.Create(context.Background(), tenant, CreateClientRequest{Name: "Khan Traders", Email: &empty})
	require.NoError(t, err)
	assert.Nil(t, c.Email)
}

func TestGetClientScopedToTenant(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), tenant, CreateClientRequest{Name: "Khan Traders"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), shared.TenantContext{CompanyID: 99}, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(context.Background(), tenant, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUpdateClientPartial(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), tenant, CreateClientRequest{Name: "Khan Traders"})
	require.NoError(t, err)

	name := "Khan Brothers"
	got, err := svc.Update(context.Background(), tenant, created.ID, UpdateClientRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Khan Brothers", got.Name)
}

func TestDeleteClientReturnsRow(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), tenant, CreateClientRequest{Name: "Khan Traders"})
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), tenant, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.Get(context.Background(), tenant, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
