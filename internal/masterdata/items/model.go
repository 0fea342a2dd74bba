// Package items manages the product and service catalog of a company.
package items

import "time"

// Item is a catalog entry whose price and tax rate seed new document lines.
type Item struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"companyId"`
	Name        string    `json:"name"`
	NameUrdu    *string   `json:"nameUrdu,omitempty"`
	Description *string   `json:"description,omitempty"`
	UnitPrice   float64   `json:"unitPrice"`
	TaxRate     float64   `json:"taxRate"`
	Unit        string    `json:"unit"`
	IsService   bool      `json:"isService"`
	SKU         *string   `json:"sku,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
