// Package banking tracks imported bank statement lines and their matching
// against recorded payments.
package banking

import "time"

// Transaction types.
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// BankTransaction is one bank statement line. A credit can be matched to a
// payment once reconciled.
type BankTransaction struct {
	ID              int64     `json:"id"`
	CompanyID       int64     `json:"companyId"`
	Type            string    `json:"type"`
	Amount          float64   `json:"amount"`
	Description     *string   `json:"description,omitempty"`
	Reference       *string   `json:"reference,omitempty"`
	BankName        *string   `json:"bankName,omitempty"`
	TransactionDate time.Time `json:"transactionDate"`
	PaymentID       *int64    `json:"paymentId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CreateTransactionRequest is the payload for recording a statement line.
type CreateTransactionRequest struct {
	Type            string  `json:"type" validate:"required,oneof=credit debit"`
	Amount          float64 `json:"amount" validate:"gt=0"`
	Description     *string `json:"description"`
	Reference       *string `json:"reference"`
	BankName        *string `json:"bankName"`
	TransactionDate *string `json:"transactionDate"`
}

// UpdateTransactionRequest is a partial update of a statement line.
type UpdateTransactionRequest struct {
	Type            *string  `json:"type" validate:"omitempty,oneof=credit debit"`
	Amount          *float64 `json:"amount" validate:"omitempty,gt=0"`
	Description     *string  `json:"description"`
	Reference       *string  `json:"reference"`
	BankName        *string  `json:"bankName"`
	TransactionDate *string  `json:"transactionDate"`
}

// MatchRequest links a statement line to a payment.
type MatchRequest struct {
	PaymentID int64 `json:"paymentId" validate:"required"`
}

// ListTransactionsFilter narrows and pages the statement list. Search
// matches description or reference as a substring; the date range bounds
// the transaction date.
type ListTransactionsFilter struct {
	Type      string
	Unmatched bool
	Search    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}
