package items

import (
	"context"
	"strings"

	"github.com/hisaab-cloud/hisaab/internal/shared"
)

// Service owns the catalog workflows.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new catalog item. An empty unit defaults
// to "pcs".
func (s *Service) Create(ctx context.Context, tc shared.TenantContext, req CreateItemRequest) (*Item, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.NameUrdu = shared.TrimOptional(req.NameUrdu)
	req.Description = shared.TrimOptional(req.Description)
	req.SKU = shared.TrimOptional(req.SKU)
	req.Unit = strings.TrimSpace(req.Unit)
	if req.Unit == "" {
		req.Unit = "pcs"
	}

	if err := shared.Validate(req); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, tc.CompanyID, req)
}

// Get returns a single item within the tenant.
func (s *Service) Get(ctx context.Context, tc shared.TenantContext, id int64) (*Item, error) {
	return s.repo.Get(ctx, tc.CompanyID, id)
}

// List returns a page of items plus the unpaginated total.
func (s *Service) List(ctx context.Context, tc shared.TenantContext, filter ListItemsFilter) ([]Item, int, error) {
	return s.repo.List(ctx, tc.CompanyID, filter)
}

// Update applies a partial update and returns the fresh row.
func (s *Service) Update(ctx context.Context, tc shared.TenantContext, id int64, req UpdateItemRequest) (*Item, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.NameUrdu != nil {
		updates["name_urdu"] = shared.TrimOptional(req.NameUrdu)
	}
	if req.Description != nil {
		updates["description"] = shared.TrimOptional(req.Description)
	}
	if req.UnitPrice != nil {
		updates["unit_price"] = *req.UnitPrice
	}
	if req.TaxRate != nil {
		updates["tax_rate"] = *req.TaxRate
	}
	if req.Unit != nil {
		updates["unit"] = strings.TrimSpace(*req.Unit)
	}
	if req.IsService != nil {
		updates["is_service"] = *req.IsService
	}
	if req.SKU != nil {
		updates["sku"] = shared.TrimOptional(req.SKU)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, tc.CompanyID, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, tc.CompanyID, id)
}

// Delete removes an item and returns the deleted row.
func (s *Service) Delete(ctx context.Context, tc shared.TenantContext, id int64) (*Item, error) {
	return s.repo.Delete(ctx, tc.CompanyID, id)
}
