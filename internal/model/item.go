package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ItemKindIngredient   = "ingredient"
	ItemKindIntermediate = "intermediate"
	ItemKindProduct      = "product"
)

// Item is any stock-keeping record: raw ingredient, intermediate or sellable product.
// CurrentStock is only ever written absolutely at creation; afterwards every change
// goes through a relative ledger adjustment and leaves a StockMovement behind.
type Item struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string          `gorm:"index;not null"`
	Kind         string          `gorm:"not null;default:'ingredient'"`
	Category     string          `gorm:"not null;default:''"`
	UnitID       *uuid.UUID      `gorm:"type:uuid"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	MinimumStock decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	AverageCost  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ImageURL     *string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Unit *Unit `gorm:"foreignKey:UnitID"`
}

// BelowMinimum reports whether the item sits at or under its reorder threshold.
func (i Item) BelowMinimum() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinimumStock)
}
