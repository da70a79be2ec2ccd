package service

import (
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"

	"github.com/shopspring/decimal"
)

// PriceFor resolves a variant's price on a channel: the channel override when
// one exists, otherwise the offline price. An empty channel means offline.
func PriceFor(v *model.Variant, channel string) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, ErrVariantNotFound
	}
	if channel != "" && channel != model.ChannelOffline {
		for _, cp := range v.ChannelPrices {
			if cp.Channel == channel {
				return cp.Price, nil
			}
		}
	}
	return v.OfflinePrice, nil
}

// PriceMap lists the offline price plus every channel override.
func PriceMap(v *model.Variant) map[string]decimal.Decimal {
	prices := map[string]decimal.Decimal{model.ChannelOffline: v.OfflinePrice}
	for _, cp := range v.ChannelPrices {
		prices[cp.Channel] = cp.Price
	}
	return prices
}
