// Package billing implements the quotation and invoice lifecycle: creation
// with catalog and company defaults, decimal total computation, replace-all
// line edits, and quotation to invoice conversion.
package billing

import "time"

// QuotationStatus enumerates the quotation lifecycle.
type QuotationStatus string

const (
	QuotationDraft     QuotationStatus = "draft"
	QuotationSent      QuotationStatus = "sent"
	QuotationAccepted  QuotationStatus = "accepted"
	QuotationRejected  QuotationStatus = "rejected"
	QuotationConverted QuotationStatus = "converted"
)

// InvoiceStatus enumerates the invoice lifecycle.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Quotation is a priced offer to a client. Converting it produces a draft
// invoice and freezes the quotation.
type Quotation struct {
	ID                 int64           `json:"id"`
	CompanyID          int64           `json:"companyId"`
	ClientID           int64           `json:"clientId"`
	Number             string          `json:"number"`
	Status             QuotationStatus `json:"status"`
	IssueDate          time.Time       `json:"issueDate"`
	ValidUntil         *time.Time      `json:"validUntil,omitempty"`
	Currency           string          `json:"currency"`
	Subtotal           float64         `json:"subtotal"`
	TaxAmount          float64         `json:"taxAmount"`
	DiscountAmount     float64         `json:"discountAmount"`
	Total              float64         `json:"total"`
	Notes              *string         `json:"notes,omitempty"`
	Terms              *string         `json:"terms,omitempty"`
	ConvertedInvoiceID *int64          `json:"convertedInvoiceId,omitempty"`
	Lines              []DocumentLine  `json:"lines,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// Invoice is a billable document. AmountPaid and Status move as payments
// are recorded against it.
type Invoice struct {
	ID               int64          `json:"id"`
	CompanyID        int64          `json:"companyId"`
	ClientID         int64          `json:"clientId"`
	QuotationID      *int64         `json:"quotationId,omitempty"`
	Number           string         `json:"number"`
	TaxInvoiceNumber *string        `json:"taxInvoiceNumber,omitempty"`
	Status           InvoiceStatus  `json:"status"`
	IssueDate        time.Time      `json:"issueDate"`
	DueDate          time.Time      `json:"dueDate"`
	Currency         string         `json:"currency"`
	Subtotal         float64        `json:"subtotal"`
	TaxAmount        float64        `json:"taxAmount"`
	DiscountAmount   float64        `json:"discountAmount"`
	Total            float64        `json:"total"`
	AmountPaid       float64        `json:"amountPaid"`
	Notes            *string        `json:"notes,omitempty"`
	Terms            *string        `json:"terms,omitempty"`
	Lines            []DocumentLine `json:"lines,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// DocumentLine is one priced row of a quotation or invoice. The money
// fields are derived once at write time and stored.
type DocumentLine struct {
	ID          int64   `json:"id"`
	DocumentID  int64   `json:"-"`
	ItemID      *int64  `json:"itemId,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	TaxRate     float64 `json:"taxRate"`
	Subtotal    float64 `json:"subtotal"`
	TaxAmount   float64 `json:"taxAmount"`
	LineTotal   float64 `json:"lineTotal"`
	SortOrder   int     `json:"sortOrder"`
}
