package payments

import (
	"context"
	"strings"
	"time"

	"github.com/hisaab-cloud/hisaab/internal/billing/calc"
	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
	"github.com/hisaab-cloud/hisaab/internal/shared"
)

// Service owns payment recording and reversal. Both paths run in one
// transaction with the invoice row locked, so amountPaid, invoice status
// and the client balance always move together.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create records a payment against an invoice. The invoice's amountPaid
// grows by the payment amount and the invoice flips to paid once covered.
// Cancelled invoices refuse payments.
func (s *Service) Create(ctx context.Context, tc shared.TenantContext, req CreatePaymentRequest) (*Payment, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	paymentDate := s.now().UTC()
	if req.PaymentDate != nil && strings.TrimSpace(*req.PaymentDate) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*req.PaymentDate))
		if err != nil {
			return nil, httpx.BadRequest("INVALID_PAYMENT_DATE", "paymentDate must be YYYY-MM-DD")
		}
		paymentDate = parsed
	}

	method := req.Method
	if method == "" {
		method = MethodBankTransfer
	}

	p := &Payment{
		CompanyID:   tc.CompanyID,
		InvoiceID:   req.InvoiceID,
		Amount:      calc.Round2(req.Amount),
		Method:      method,
		Reference:   shared.TrimOptional(req.Reference),
		PaymentDate: paymentDate,
		Notes:       shared.TrimOptional(req.Notes),
	}

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		inv, err := tx.GetInvoiceState(ctx, tc.CompanyID, req.InvoiceID)
		if err != nil {
			return err
		}
		if inv.Status == "cancelled" {
			return httpx.Conflict("DOCUMENT_LOCKED", "cancelled invoices cannot take payments")
		}

		p.ClientID = inv.ClientID
		if err := tx.Insert(ctx, p); err != nil {
			return err
		}

		newPaid := calc.Round2(inv.AmountPaid + p.Amount)
		status := inv.Status
		if newPaid >= inv.Total {
			status = "paid"
		}
		if err := tx.SetInvoicePaid(ctx, tc.CompanyID, inv.ID, newPaid, status); err != nil {
			return err
		}
		return tx.AdjustClientBalance(ctx, tc.CompanyID, inv.ClientID, -p.Amount)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a single payment within the tenant.
func (s *Service) Get(ctx context.Context, tc shared.TenantContext, id int64) (*Payment, error) {
	return s.repo.Get(ctx, tc.CompanyID, id)
}

// List returns a page of payments plus the unpaginated total.
func (s *Service) List(ctx context.Context, tc shared.TenantContext, filter ListPaymentsFilter) ([]Payment, int, error) {
	return s.repo.List(ctx, tc.CompanyID, filter)
}

// Update applies a partial update. Bookkeeping fields change freely; an
// amount change moves amountPaid, the invoice status and the client balance
// by the difference, inside one transaction with the invoice row locked.
func (s *Service) Update(ctx context.Context, tc shared.TenantContext, id int64, req UpdatePaymentRequest) (*Payment, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Method != nil {
		updates["method"] = *req.Method
	}
	if req.Reference != nil {
		updates["reference"] = shared.TrimOptional(req.Reference)
	}
	if req.Notes != nil {
		updates["notes"] = shared.TrimOptional(req.Notes)
	}
	if req.PaymentDate != nil && strings.TrimSpace(*req.PaymentDate) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*req.PaymentDate))
		if err != nil {
			return nil, httpx.BadRequest("INVALID_PAYMENT_DATE", "paymentDate must be YYYY-MM-DD")
		}
		updates["payment_date"] = parsed
	}

	err := s.repo.WithTx(ctx, func(tx Repository) error {
		p, err := tx.Get(ctx, tc.CompanyID, id)
		if err != nil {
			return err
		}

		if req.Amount != nil {
			newAmount := calc.Round2(*req.Amount)
			if delta := calc.Round2(newAmount - p.Amount); delta != 0 {
				inv, err := tx.GetInvoiceState(ctx, tc.CompanyID, p.InvoiceID)
				if err != nil {
					return err
				}
				if inv.Status == "cancelled" {
					return httpx.Conflict("DOCUMENT_LOCKED", "payments on cancelled invoices cannot change amount")
				}

				newPaid := calc.Round2(inv.AmountPaid + delta)
				if newPaid < 0 {
					newPaid = 0
				}
				status := inv.Status
				if newPaid >= inv.Total {
					status = "paid"
				} else if status == "paid" {
					status = "sent"
				}
				if err := tx.SetInvoicePaid(ctx, tc.CompanyID, inv.ID, newPaid, status); err != nil {
					return err
				}
				if err := tx.AdjustClientBalance(ctx, tc.CompanyID, p.ClientID, -delta); err != nil {
					return err
				}
				updates["amount"] = newAmount
			}
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Update(ctx, tc.CompanyID, id, updates)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, tc.CompanyID, id)
}

// Delete reverses a payment: the row is removed, the invoice's amountPaid
// shrinks back, a fully-paid invoice reopens as sent, and the client
// balance grows by the reversed amount.
func (s *Service) Delete(ctx context.Context, tc shared.TenantContext, id int64) (*Payment, error) {
	var deleted *Payment
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		p, err := tx.Get(ctx, tc.CompanyID, id)
		if err != nil {
			return err
		}

		inv, err := tx.GetInvoiceState(ctx, tc.CompanyID, p.InvoiceID)
		if err != nil {
			return err
		}

		deleted, err = tx.Delete(ctx, tc.CompanyID, id)
		if err != nil {
			return err
		}

		newPaid := calc.Round2(inv.AmountPaid - p.Amount)
		if newPaid < 0 {
			newPaid = 0
		}
		status := inv.Status
		if status == "paid" && newPaid < inv.Total {
			status = "sent"
		}
		if err := tx.SetInvoicePaid(ctx, tc.CompanyID, inv.ID, newPaid, status); err != nil {
			return err
		}
		return tx.AdjustClientBalance(ctx, tc.CompanyID, p.ClientID, p.Amount)
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
