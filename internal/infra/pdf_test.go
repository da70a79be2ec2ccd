package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReceiptPDF(t *testing.T) {
	tx := &model.Transaction{
		Number:      "TRX-20260101-000001",
		Channel:     model.ChannelOffline,
		TotalAmount: decimal.NewFromInt(6000),
		CreatedAt:   time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC),
		Lines: []model.TransactionLine{{
			Quantity:           2,
			PriceAtTransaction: decimal.NewFromInt(3000),
			Subtotal:           decimal.NewFromInt(6000),
			Item:               &model.Item{Name: "Klepon"},
			Variant:            &model.Variant{Name: "Single"},
		}},
	}

	out, err := RenderReceiptPDF(tx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
