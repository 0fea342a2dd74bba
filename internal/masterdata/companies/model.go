package companies

import "time"

// Company is the tenant root. Every other record in the system hangs off a
// company through its companyId.
type Company struct {
	ID                     int64     `json:"id"`
	Name                   string    `json:"name"`
	NameUrdu               *string   `json:"nameUrdu,omitempty"`
	NTN                    *string   `json:"ntn,omitempty"`
	STRN                   *string   `json:"strn,omitempty"`
	Address                *string   `json:"address,omitempty"`
	City                   *string   `json:"city,omitempty"`
	Country                *string   `json:"country,omitempty"`
	Phone                  *string   `json:"phone,omitempty"`
	Email                  *string   `json:"email,omitempty"`
	BankName               *string   `json:"bankName,omitempty"`
	BankAccount            *string   `json:"bankAccount,omitempty"`
	IBAN                   *string   `json:"iban,omitempty"`
	DefaultTaxRate         float64   `json:"defaultTaxRate"`
	DefaultPaymentTermDays int       `json:"defaultPaymentTermDays"`
	DefaultCurrency        string    `json:"defaultCurrency"`
	APIKeyHash             string    `json:"-"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// UpdateCompanyRequest is a typed partial update; nil means "leave as is".
type UpdateCompanyRequest struct {
	Name                   *string  `json:"name"`
	NameUrdu               *string  `json:"nameUrdu"`
	NTN                    *string  `json:"ntn"`
	STRN                   *string  `json:"strn"`
	Address                *string  `json:"address"`
	City                   *string  `json:"city"`
	Country                *string  `json:"country"`
	Phone                  *string  `json:"phone"`
	Email                  *string  `json:"email" validate:"omitempty,email_basic"`
	BankName               *string  `json:"bankName"`
	BankAccount            *string  `json:"bankAccount"`
	IBAN                   *string  `json:"iban"`
	DefaultTaxRate         *float64 `json:"defaultTaxRate" validate:"omitempty,gte=0,lte=100"`
	DefaultPaymentTermDays *int     `json:"defaultPaymentTermDays" validate:"omitempty,gte=0"`
	DefaultCurrency        *string  `json:"defaultCurrency" validate:"omitempty,iso4217"`
}
