// Package clients manages the customer directory of a company.
package clients

import "time"

// Client is a customer a company bills. Balance is the running receivable,
// maintained by the billing and payment flows.
type Client struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"companyId"`
	Name      string    `json:"name"`
	NameUrdu  *string   `json:"nameUrdu,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	City      *string   `json:"city,omitempty"`
	TaxID     *string   `json:"taxId,omitempty"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
