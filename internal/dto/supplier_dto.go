package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateSupplierRequest struct {
	Name     string  `json:"name" validate:"required,max=120"`
	Category string  `json:"category" validate:"max=60"`
	Contact  *string `json:"contact" validate:"omitempty,max=120"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
}

type SupplierResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Contact  *string `json:"contact,omitempty"`
	Address  *string `json:"address,omitempty"`
}

type ProcurementResponse struct {
	ID           string          `json:"id"`
	SupplierID   string          `json:"supplierId"`
	SupplierName string          `json:"supplierName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       string          `json:"status"`
	Notes        *string         `json:"notes,omitempty"`
	PurchasedAt  time.Time       `json:"purchasedAt"`
}
