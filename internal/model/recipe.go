package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeLine says how much of one ingredient a single batch of a product consumes.
// A product's recipe is the ordered set of its lines; replacing it swaps the whole set.
type RecipeLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredientID     uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityPerBatch decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	UnitID           *uuid.UUID      `gorm:"type:uuid"`
	Position         int             `gorm:"not null;default:0"`

	Product    *Item `gorm:"foreignKey:ProductID"`
	Ingredient *Item `gorm:"foreignKey:IngredientID"`
	Unit       *Unit `gorm:"foreignKey:UnitID"`
}
