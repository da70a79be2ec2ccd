package dto

import "github.com/shopspring/decimal"

// ── Production ───────────────────────────────────────────────────────────────

type ProduceRequest struct {
	ProductID  string `json:"productId" validate:"required,uuid"`
	Multiplier int    `json:"multiplier"`
}

// ── Procurement ──────────────────────────────────────────────────────────────

type PurchaseLineRequest struct {
	ItemID    string          `json:"itemId" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"min=0"`
	// Subtotal defaults to quantity × unitPrice when omitted.
	Subtotal *decimal.Decimal `json:"subtotal"`
}

type PurchaseRequest struct {
	SupplierID  string                `json:"supplierId" validate:"required,uuid"`
	TotalAmount decimal.Decimal       `json:"totalAmount" validate:"min=0"`
	Status      string                `json:"status" validate:"omitempty,oneof=received pending paid"`
	Notes       *string               `json:"notes"`
	Lines       []PurchaseLineRequest `json:"lines" validate:"dive"`
}

type PurchaseResponse struct {
	Success       bool   `json:"success"`
	ProcurementID string `json:"procurementId"`
}

// ── Sale ─────────────────────────────────────────────────────────────────────

type CartLineRequest struct {
	VariantID string `json:"variantId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	// Price is the unit price the caller charged; compared against the catalog.
	Price *decimal.Decimal `json:"price" validate:"omitempty,min=0"`
}

type SaleRequest struct {
	Items   []CartLineRequest `json:"items" validate:"required,min=1,dive"`
	Channel string            `json:"channel" validate:"omitempty,oneof=offline gofood grabfood shopee"`
	// Total is the caller-declared total; nil means "record the computed total".
	Total *decimal.Decimal `json:"total"`
}

type SaleResponse struct {
	Success           bool   `json:"success"`
	TransactionNumber string `json:"transactionNumber"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
