// Package payments records money received against invoices and keeps the
// invoice paid-state and client balance reconciled.
package payments

import "time"

// Method enumerates how a payment arrived.
const (
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
	MethodCheque       = "cheque"
	MethodCard         = "card"
	MethodOther        = "other"
)

// Payment is money received against one invoice.
type Payment struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"companyId"`
	InvoiceID   int64     `json:"invoiceId"`
	ClientID    int64     `json:"clientId"`
	Amount      float64   `json:"amount"`
	Method      string    `json:"method"`
	Reference   *string   `json:"reference,omitempty"`
	PaymentDate time.Time `json:"paymentDate"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreatePaymentRequest is the payload for recording a payment.
type CreatePaymentRequest struct {
	InvoiceID   int64   `json:"invoiceId" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Method      string  `json:"method" validate:"omitempty,oneof=cash bank_transfer cheque card other"`
	Reference   *string `json:"reference"`
	PaymentDate *string `json:"paymentDate"`
	Notes       *string `json:"notes"`
}

// UpdatePaymentRequest is a partial update. An amount change re-runs the
// invoice reconciliation; the other fields are bookkeeping only.
type UpdatePaymentRequest struct {
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0"`
	Method      *string  `json:"method" validate:"omitempty,oneof=cash bank_transfer cheque card other"`
	Reference   *string  `json:"reference"`
	PaymentDate *string  `json:"paymentDate"`
	Notes       *string  `json:"notes"`
}

// ListPaymentsFilter narrows and pages the payment list. The date range
// bounds the payment date.
type ListPaymentsFilter struct {
	InvoiceID int64
	ClientID  int64
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

// InvoiceState is the slice of an invoice the reconciliation logic needs.
type InvoiceState struct {
	ID         int64
	ClientID   int64
	Status     string
	Total      float64
	AmountPaid float64
}
