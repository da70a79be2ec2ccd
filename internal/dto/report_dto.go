package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionSummary struct {
	Number        string          `json:"transactionNumber"`
	Channel       string          `json:"channel"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PriceMismatch bool            `json:"priceMismatch"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type BestSellerResponse struct {
	Name      string `json:"name"`
	TotalSold int64  `json:"totalSold"`
}

type ReportResponse struct {
	Omzet             decimal.Decimal      `json:"omzet"`
	TransactionCount  int64                `json:"transactionCount"`
	GrossProfit       decimal.Decimal      `json:"grossProfit"`
	RecentTransaction []TransactionSummary `json:"recentTransactions"`
	BestSellers       []BestSellerResponse `json:"bestSellers"`
	ChannelCounts     map[string]int64     `json:"channelCounts"`
}
