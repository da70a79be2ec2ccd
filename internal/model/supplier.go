package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ProcurementReceived = "received"
	ProcurementPending  = "pending"
	ProcurementPaid     = "paid"
)

// Supplier represents a vendor that goods are purchased from.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Category  string    `gorm:"not null;default:''"`
	Contact   *string
	Address   *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Procurement is the header of one purchase of goods from a supplier.
type Procurement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Status      string          `gorm:"not null;default:'received'"`
	Notes       *string
	PurchasedAt time.Time `gorm:"not null"`
	CreatedAt   time.Time

	Supplier *Supplier         `gorm:"foreignKey:SupplierID"`
	Lines    []ProcurementLine `gorm:"foreignKey:ProcurementID"`
}

// ProcurementLine is one received item within a procurement.
type ProcurementLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProcurementID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Item *Item `gorm:"foreignKey:ItemID"`
}
