package items

// CreateItemRequest is the payload for creating a catalog item.
type CreateItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	NameUrdu    *string `json:"nameUrdu"`
	Description *string `json:"description"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	TaxRate     float64 `json:"taxRate" validate:"gte=0,lte=100"`
	Unit        string  `json:"unit"`
	IsService   bool    `json:"isService"`
	SKU         *string `json:"sku"`
}

// UpdateItemRequest is a partial update; nil fields are left unchanged.
type UpdateItemRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	NameUrdu    *string  `json:"nameUrdu"`
	Description *string  `json:"description"`
	UnitPrice   *float64 `json:"unitPrice" validate:"omitempty,gte=0"`
	TaxRate     *float64 `json:"taxRate" validate:"omitempty,gte=0,lte=100"`
	Unit        *string  `json:"unit"`
	IsService   *bool    `json:"isService"`
	SKU         *string  `json:"sku"`
}

// ListItemsFilter narrows and pages the item list.
type ListItemsFilter struct {
	Search string
	Limit  int
	Offset int
}
