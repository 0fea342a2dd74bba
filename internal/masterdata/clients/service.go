package clients

import (
	"context"
	"strings"

	"github.com/hisaab-cloud/hisaab/internal/shared"
)

// Service owns the client directory workflows.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new client.
func (s *Service) Create(ctx context.Context, tc shared.TenantContext, req CreateClientRequest) (*Client, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.NameUrdu = shared.TrimOptional(req.NameUrdu)
	req.Email = shared.TrimOptional(req.Email)
	req.Phone = shared.TrimOptional(req.Phone)
	req.Address = shared.TrimOptional(req.Address)
	req.City = shared.TrimOptional(req.City)
	req.TaxID = shared.TrimOptional(req.TaxID)

	if err := shared.Validate(req); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, tc.CompanyID, req)
}

// Get returns a single client within the tenant.
func (s *Service) Get(ctx context.Context, tc shared.TenantContext, id int64) (*Client, error) {
	return s.repo.Get(ctx, tc.CompanyID, id)
}

// List returns a page of clients plus the unpaginated total.
func (s *Service) List(ctx context.Context, tc shared.TenantContext, filter ListClientsFilter) ([]Client, int, error) {
	return s.repo.List(ctx, tc.CompanyID, filter)
}

// Update applies a partial update and returns the fresh row.
func (s *Service) Update(ctx context.Context, tc shared.TenantContext, id int64, req UpdateClientRequest) (*Client, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	for col, v := range map[string]*string{
		"name_urdu": req.NameUrdu,
		"email":     req.Email,
		"phone":     req.Phone,
		"address":   req.Address,
		"city":      req.City,
		"tax_id":    req.TaxID,
	} {
		if v != nil {
			// An explicit empty string clears the column.
			updates[col] = shared.TrimOptional(v)
		}
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, tc.CompanyID, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, tc.CompanyID, id)
}

// Delete removes a client and returns the deleted row.
func (s *Service) Delete(ctx context.Context, tc shared.TenantContext, id int64) (*Client, error) {
	return s.repo.Delete(ctx, tc.CompanyID, id)
}
