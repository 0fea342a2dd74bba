package banking

import (
	"context"
	"strings"
	"time"

	"github.com/hisaab-cloud/hisaab/internal/billing/calc"
	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

// Service owns statement recording and payment matching.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create records a statement line.
func (s *Service) Create(ctx context.Context, tc shared.TenantContext, req CreateTransactionRequest) (*BankTransaction, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	date := s.now().UTC()
	if req.TransactionDate != nil && strings.TrimSpace(*req.TransactionDate) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*req.TransactionDate))
		if err != nil {
			return nil, httpx.BadRequest("INVALID_TRANSACTION_DATE", "transactionDate must be YYYY-MM-DD")
		}
		date = parsed
	}

	t := &BankTransaction{
		CompanyID:       tc.CompanyID,
		Type:            req.Type,
		Amount:          calc.Round2(req.Amount),
		Description:     shared.TrimOptional(req.Description),
		Reference:       shared.TrimOptional(req.Reference),
		BankName:        shared.TrimOptional(req.BankName),
		TransactionDate: date,
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns a single statement line within the tenant.
func (s *Service) Get(ctx context.Context, tc shared.TenantContext, id int64) (*BankTransaction, error) {
	return s.repo.Get(ctx, tc.CompanyID, id)
}

// List returns a page of statement lines plus the unpaginated total.
func (s *Service) List(ctx context.Context, tc shared.TenantContext, filter ListTransactionsFilter) ([]BankTransaction, int, error) {
	if filter.Type != "" && filter.Type != TypeCredit && filter.Type != TypeDebit {
		return nil, 0, httpx.BadRequest("INVALID_TYPE", "type must be credit or debit")
	}
	return s.repo.List(ctx, tc.CompanyID, filter)
}

// Update applies a partial update to a statement line. The payment link is
// only touched through Match and Unmatch.
func (s *Service) Update(ctx context.Context, tc shared.TenantContext, id int64, req UpdateTransactionRequest) (*BankTransaction, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Amount != nil {
		updates["amount"] = calc.Round2(*req.Amount)
	}
	if req.Description != nil {
		updates["description"] = shared.TrimOptional(req.Description)
	}
	if req.Reference != nil {
		updates["reference"] = shared.TrimOptional(req.Reference)
	}
	if req.BankName != nil {
		updates["bank_name"] = shared.TrimOptional(req.BankName)
	}
	if req.TransactionDate != nil && strings.TrimSpace(*req.TransactionDate) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*req.TransactionDate))
		if err != nil {
			return nil, httpx.BadRequest("INVALID_TRANSACTION_DATE", "transactionDate must be YYYY-MM-DD")
		}
		updates["transaction_date"] = parsed
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, tc.CompanyID, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, tc.CompanyID, id)
}

// Delete removes a statement line and returns the deleted row.
func (s *Service) Delete(ctx context.Context, tc shared.TenantContext, id int64) (*BankTransaction, error) {
	return s.repo.Delete(ctx, tc.CompanyID, id)
}

// Match links a statement line to a recorded payment. A line matches at
// most one payment at a time.
func (s *Service) Match(ctx context.Context, tc shared.TenantContext, id int64, req MatchRequest) (*BankTransaction, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.repo.Get(ctx, tc.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if t.PaymentID != nil {
		return nil, httpx.Conflict("ALREADY_MATCHED", "transaction is already matched to a payment")
	}

	exists, err := s.repo.PaymentExists(ctx, tc.CompanyID, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPaymentNotFound
	}

	if err := s.repo.SetPayment(ctx, tc.CompanyID, id, &req.PaymentID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, tc.CompanyID, id)
}

// Unmatch clears the payment link on a statement line.
func (s *Service) Unmatch(ctx context.Context, tc shared.TenantContext, id int64) (*BankTransaction, error) {
	if _, err := s.repo.Get(ctx, tc.CompanyID, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetPayment(ctx, tc.CompanyID, id, nil); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, tc.CompanyID, id)
}
