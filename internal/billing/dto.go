package billing

import (
	"time"

	"github.com/hisaab-cloud/hisaab/internal/masterdata/clients"
	"github.com/hisaab-cloud/hisaab/internal/masterdata/companies"
)

// LineInput is one requested document line. UnitPrice and TaxRate may be
// omitted when ItemID is set; the catalog then supplies them. A missing
// TaxRate without an item falls back to the company default.
type LineInput struct {
	ItemID      *int64   `json:"itemId"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity" validate:"gt=0"`
	Unit        *string  `json:"unit"`
	UnitPrice   *float64 `json:"unitPrice" validate:"omitempty,gt=0"`
	TaxRate     *float64 `json:"taxRate" validate:"omitempty,gte=0"`
}

// CreateQuotationRequest is the payload for creating a quotation. Dates are
// "YYYY-MM-DD"; a missing number is generated from the company sequence.
type CreateQuotationRequest struct {
	ClientID       int64       `json:"clientId" validate:"required"`
	Number         *string     `json:"number"`
	IssueDate      *string     `json:"issueDate"`
	ValidUntil     *string     `json:"validUntil"`
	Currency       *string     `json:"currency" validate:"omitempty,iso4217"`
	DiscountAmount float64     `json:"discountAmount" validate:"gte=0"`
	Notes          *string     `json:"notes"`
	Terms          *string     `json:"terms"`
	Lines          []LineInput `json:"lines" validate:"dive"`
}

// UpdateQuotationRequest is a partial update. A non-nil Lines slice
// replaces the full line set.
type UpdateQuotationRequest struct {
	Status         *string      `json:"status" validate:"omitempty,oneof=draft sent accepted rejected"`
	ValidUntil     *string      `json:"validUntil"`
	DiscountAmount *float64     `json:"discountAmount" validate:"omitempty,gte=0"`
	Notes          *string      `json:"notes"`
	Terms          *string      `json:"terms"`
	Lines          *[]LineInput `json:"lines" validate:"omitempty,dive"`
}

// CreateInvoiceRequest is the payload for creating an invoice directly.
// A missing due date defaults to issue date plus the company payment terms.
type CreateInvoiceRequest struct {
	ClientID       int64       `json:"clientId" validate:"required"`
	Number         *string     `json:"number"`
	IssueDate      *string     `json:"issueDate"`
	DueDate        *string     `json:"dueDate"`
	Currency       *string     `json:"currency" validate:"omitempty,iso4217"`
	DiscountAmount float64     `json:"discountAmount" validate:"gte=0"`
	Notes          *string     `json:"notes"`
	Terms          *string     `json:"terms"`
	Lines          []LineInput `json:"lines" validate:"dive"`
}

// UpdateInvoiceRequest is a partial update. A non-nil Lines slice replaces
// the full line set; paid and cancelled invoices reject line edits.
type UpdateInvoiceRequest struct {
	Status         *string      `json:"status" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	DueDate        *string      `json:"dueDate"`
	DiscountAmount *float64     `json:"discountAmount" validate:"omitempty,gte=0"`
	Notes          *string      `json:"notes"`
	Terms          *string      `json:"terms"`
	Lines          *[]LineInput `json:"lines" validate:"omitempty,dive"`
}

// TaxInvoiceRequest assigns an FBR tax invoice number. A nil number asks
// the server to draw one from the STI sequence.
type TaxInvoiceRequest struct {
	TaxInvoiceNumber *string `json:"taxInvoiceNumber"`
}

// ListFilter narrows and pages document lists. Search matches the document
// number as a substring; the date range bounds the issue date.
type ListFilter struct {
	Status   string
	ClientID int64
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// Bundle is the print view of an invoice: the document with its lines plus
// the two parties.
type Bundle struct {
	Invoice *Invoice           `json:"invoice"`
	Client  *clients.Client    `json:"client"`
	Company *companies.Company `json:"company"`
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
