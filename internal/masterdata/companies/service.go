package companies

import (
	"context"
	"fmt"

	"github.com/hisaab-cloud/hisaab/internal/shared"
)

// Service owns tenant-settings reads and writes.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the tenant's own company record.
func (s *Service) Get(ctx context.Context, tc shared.TenantContext) (*Company, error) {
	return s.repo.Get(ctx, tc.CompanyID)
}

// Update applies a partial settings update to the tenant's company.
func (s *Service) Update(ctx context.Context, tc shared.TenantContext, req UpdateCompanyRequest) (*Company, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	for col, v := range map[string]*string{
		"name_urdu":    shared.TrimOptional(req.NameUrdu),
		"ntn":          shared.TrimOptional(req.NTN),
		"strn":         shared.TrimOptional(req.STRN),
		"address":      shared.TrimOptional(req.Address),
		"city":         shared.TrimOptional(req.City),
		"country":      shared.TrimOptional(req.Country),
		"phone":        shared.TrimOptional(req.Phone),
		"email":        shared.TrimOptional(req.Email),
		"bank_name":    shared.TrimOptional(req.BankName),
		"bank_account": shared.TrimOptional(req.BankAccount),
		"iban":         shared.TrimOptional(req.IBAN),
	} {
		if v != nil {
			updates[col] = *v
		}
	}
	if req.DefaultTaxRate != nil {
		updates["default_tax_rate"] = *req.DefaultTaxRate
	}
	if req.DefaultPaymentTermDays != nil {
		updates["default_payment_term_days"] = *req.DefaultPaymentTermDays
	}
	if req.DefaultCurrency != nil {
		updates["default_currency"] = *req.DefaultCurrency
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, tc.CompanyID, updates); err != nil {
			return nil, fmt.Errorf("update company: %w", err)
		}
	}

	return s.repo.Get(ctx, tc.CompanyID)
}
