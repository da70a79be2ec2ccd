package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ChannelOffline  = "offline"
	ChannelGoFood   = "gofood"
	ChannelGrabFood = "grabfood"
	ChannelShopee   = "shopee"
)

// Channels lists every sales channel in reporting order.
var Channels = []string{ChannelOffline, ChannelGoFood, ChannelGrabFood, ChannelShopee}

// IsChannel reports whether c names a known sales channel.
func IsChannel(c string) bool {
	for _, known := range Channels {
		if c == known {
			return true
		}
	}
	return false
}

// Variant is a sellable packaging of a parent product, e.g. "Box of 6".
// Selling one unit deducts QuantityPerUnit from the parent's stock.
type Variant struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name            string          `gorm:"not null"`
	QuantityPerUnit decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	OfflinePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Active          bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time

	Product       *Item          `gorm:"foreignKey:ProductID"`
	ChannelPrices []ChannelPrice `gorm:"foreignKey:VariantID"`
}

// ChannelPrice overrides a variant's offline price on one channel.
type ChannelPrice struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VariantID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_variant_channel"`
	Channel   string          `gorm:"not null;uniqueIndex:idx_variant_channel"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
