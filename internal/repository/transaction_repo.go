package repository

import (
	"context"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SalesTotals is the revenue roll-up over every recorded sale.
type SalesTotals struct {
	Revenue decimal.Decimal
	Count   int64
}

// BestSeller is one variant ranked by units sold.
type BestSeller struct {
	VariantID   uuid.UUID
	ProductName string
	VariantName string
	Quantity    int64
}

// TransactionRepository stores sales and answers the read-only report queries.
type TransactionRepository interface {
	// NextNumber draws the next value of the transaction number sequence.
	NextNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, t *model.Transaction) error
	CreateLine(ctx context.Context, l *model.TransactionLine) error
	// FindByNumber returns the sale with Lines, Lines.Item and Lines.Variant loaded.
	FindByNumber(ctx context.Context, number string) (*model.Transaction, error)

	Totals(ctx context.Context) (SalesTotals, error)
	Recent(ctx context.Context, limit int) ([]model.Transaction, error)
	BestSellers(ctx context.Context, limit int) ([]BestSeller, error)
	CountByChannel(ctx context.Context) (map[string]int64, error)
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('transaction_number_seq')").Scan(&n).Error
	return n, translate(err)
}

func (r *transactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error)
}

func (r *transactionRepo) CreateLine(ctx context.Context, l *model.TransactionLine) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error)
}

func (r *transactionRepo) FindByNumber(ctx context.Context, number string) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Lines.Item").Preload("Lines.Variant").
		First(&t, "number = ?", number).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *transactionRepo) Totals(ctx context.Context) (SalesTotals, error) {
	var row struct {
		Revenue decimal.Decimal
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS count").
		Where("type = ?", model.TransactionTypeSale).
		Scan(&row).Error
	return SalesTotals{Revenue: row.Revenue, Count: row.Count}, translate(err)
}

func (r *transactionRepo) Recent(ctx context.Context, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, translate(err)
}

func (r *transactionRepo) BestSellers(ctx context.Context, limit int) ([]BestSeller, error) {
	var rows []BestSeller
	err := r.db.WithContext(ctx).Table("transaction_lines AS tl").
		Select("v.id AS variant_id, i.name AS product_name, v.name AS variant_name, SUM(tl.quantity) AS quantity").
		Joins("JOIN variants v ON v.id = tl.variant_id").
		Joins("JOIN items i ON i.id = v.product_id").
		Group("v.id, i.name, v.name").
		Order("quantity DESC, v.name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, translate(err)
}

func (r *transactionRepo) CountByChannel(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Channel string
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("channel, COUNT(*) AS count").
		Group("channel").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Channel] = row.Count
	}
	return counts, nil
}
