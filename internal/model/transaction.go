package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TransactionTypeSale = "sale"

// Transaction is a committed sale. Number is issued from a store sequence inside
// the same unit of work that writes the lines and deducts stock.
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number        string          `gorm:"uniqueIndex;not null"`
	Type          string          `gorm:"not null;default:'sale'"`
	Channel       string          `gorm:"not null;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ComputedTotal decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PriceMismatch bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time       `gorm:"index"`

	Lines []TransactionLine `gorm:"foreignKey:TransactionID"`
}

// TransactionLine is one sold variant. PriceAtTransaction is the catalog price
// resolved for the sale's channel at the moment of the sale.
type TransactionLine struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID             uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity           int             `gorm:"not null"`
	PriceAtTransaction decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Item    *Item    `gorm:"foreignKey:ItemID"`
	Variant *Variant `gorm:"foreignKey:VariantID"`
}
