package clients

// CreateClientRequest is the payload for creating a client.
type CreateClientRequest struct {
	Name     string  `json:"name" validate:"required"`
	NameUrdu *string `json:"nameUrdu"`
	Email    *string `json:"email" validate:"omitempty,email_basic"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	TaxID    *string `json:"taxId"`
}

// UpdateClientRequest is a partial update; nil fields are left unchanged.
type UpdateClientRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	NameUrdu *string `json:"nameUrdu"`
	Email    *string `json:"email" validate:"omitempty,email_basic"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	TaxID    *string `json:"taxId"`
}

// ListClientsFilter narrows and pages the client list.
type ListClientsFilter struct {
	Search string
	Limit  int
	Offset int
}
