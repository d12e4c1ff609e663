package models

type Product struct {
	ID          int64  `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// ProductInput is the create payload. SKU is immutable once the product exists.
type ProductInput struct {
	SKU         string `json:"sku" validate:"required,max=255"`
	Name        string `json:"name" validate:"max=512"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// ProductUpdate replaces the mutable fields of an existing product.
type ProductUpdate struct {
	Name        string `json:"name" validate:"max=512"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}
