package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Items ────────────────────────────────────────────────────────────────────

type CreateItemRequest struct {
	Name         string          `json:"name" validate:"required,max=120"`
	Kind         string          `json:"kind" validate:"omitempty,oneof=ingredient intermediate product"`
	Category     string          `json:"category" validate:"max=60"`
	UnitID       *string         `json:"unitId" validate:"omitempty,uuid"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	MinimumStock decimal.Decimal `json:"minimumStock" validate:"min=0"`
	AverageCost  decimal.Decimal `json:"averageCost" validate:"min=0"`
	ImageURL     *string         `json:"imageUrl" validate:"omitempty,url"`
}

type ItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	Category     string          `json:"category"`
	UnitID       *string         `json:"unitId,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	MinimumStock decimal.Decimal `json:"minimumStock"`
	AverageCost  decimal.Decimal `json:"averageCost"`
	ImageURL     *string         `json:"imageUrl,omitempty"`
	LowStock     bool            `json:"lowStock"`
}

type ItemFilter struct {
	Kind     string `form:"kind"`
	Category string `form:"category"`
}

// ── Units ────────────────────────────────────────────────────────────────────

type CreateUnitRequest struct {
	Label string `json:"label" validate:"required,max=20"`
}

type UnitResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ── Variants & products ──────────────────────────────────────────────────────

type ChannelPriceRequest struct {
	Channel string          `json:"channel" validate:"required,oneof=gofood grabfood shopee"`
	Price   decimal.Decimal `json:"price" validate:"min=0"`
}

type CreateVariantRequest struct {
	ProductID       string                `json:"productId" validate:"required,uuid"`
	Name            string                `json:"name" validate:"required,max=120"`
	QuantityPerUnit decimal.Decimal       `json:"quantityPerUnit" validate:"required,gt=0"`
	OfflinePrice    decimal.Decimal       `json:"offlinePrice" validate:"min=0"`
	ChannelPrices   []ChannelPriceRequest `json:"channelPrices" validate:"dive"`
}

// VariantResponse carries the per-channel price map: offline always present,
// other channels only when overridden.
type VariantResponse struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	QuantityPerUnit decimal.Decimal            `json:"quantityPerUnit"`
	Prices          map[string]decimal.Decimal `json:"prices"`
}

type ProductResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	ImageURL     *string           `json:"imageUrl,omitempty"`
	CurrentStock decimal.Decimal   `json:"currentStock"`
	Variants     []VariantResponse `json:"variants"`
}

// ── Stock movements ──────────────────────────────────────────────────────────

type MovementFilter struct {
	ItemID string `form:"itemId" validate:"omitempty,uuid"`
	Kind   string `form:"kind"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type MovementResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"itemId"`
	ItemName    string          `json:"itemName"`
	Kind        string          `json:"kind"`
	Delta       decimal.Decimal `json:"delta"`
	StockBefore decimal.Decimal `json:"stockBefore"`
	StockAfter  decimal.Decimal `json:"stockAfter"`
	ReferenceID *string         `json:"referenceId,omitempty"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
