package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MovementProductionConsume = "production_consume"
	MovementProductionOutput  = "production_output"
	MovementPurchase          = "purchase"
	MovementSale              = "sale"
)

// StockMovement records every ledger adjustment of an item. Rows are append-only.
type StockMovement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind        string          `gorm:"not null"`
	Delta       decimal.Decimal `gorm:"type:decimal(14,3);not null"` // positive = in, negative = out
	StockBefore decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	StockAfter  decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	ReferenceID *uuid.UUID      `gorm:"type:uuid"` // procurement or transaction id when applicable
	Note        string
	CreatedAt   time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}
