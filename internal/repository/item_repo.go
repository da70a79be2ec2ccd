package repository

import (
	"context"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemFilter narrows item listings. Empty fields do not filter.
type ItemFilter struct {
	Kind     string
	Category string
}

// StockChange describes the outcome of one relative stock adjustment.
type StockChange struct {
	ItemID  uuid.UUID
	Name    string
	Before  decimal.Decimal
	After   decimal.Decimal
	Minimum decimal.Decimal
}

// ItemRepository defines the data access contract for stock-keeping items.
type ItemRepository interface {
	Create(ctx context.Context, it *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]model.Item, error)
	ListBelowMinimum(ctx context.Context) ([]model.Item, error)

	// AdjustStock applies current_stock = current_stock + delta in a single
	// statement. With enforceFloor the update only matches when the result stays
	// at or above zero; otherwise ErrStockFloor is returned along with the
	// unchanged stock in Before/After.
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal, enforceFloor bool) (StockChange, error)
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, it *model.Item) error {
	return translate(r.db.WithContext(ctx).Create(it).Error)
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var it model.Item
	if err := r.db.WithContext(ctx).Preload("Unit").First(&it, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *itemRepo) List(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	q := r.db.WithContext(ctx).Model(&model.Item{}).Preload("Unit").Where("active = true")
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	var items []model.Item
	err := q.Order("name ASC").Find(&items).Error
	return items, translate(err)
}

func (r *itemRepo) ListBelowMinimum(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Preload("Unit").
		Where("active = true AND current_stock <= minimum_stock").
		Order("current_stock - minimum_stock ASC").
		Find(&items).Error
	return items, translate(err)
}

func (r *itemRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal, enforceFloor bool) (StockChange, error) {
	var it model.Item
	q := r.db.WithContext(ctx).Model(&it).
		Clauses(clause.Returning{}).
		Where("id = ?", id)
	if enforceFloor {
		q = q.Where("current_stock + ? >= 0", delta)
	}
	res := q.Update("current_stock", gorm.Expr("current_stock + ?", delta))
	if res.Error != nil {
		return StockChange{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the row is missing or the floor guard rejected the update.
		var current model.Item
		if err := r.db.WithContext(ctx).Select("id", "name", "current_stock", "minimum_stock").
			First(&current, "id = ?", id).Error; err != nil {
			return StockChange{}, translate(err)
		}
		return StockChange{
			ItemID:  current.ID,
			Name:    current.Name,
			Before:  current.CurrentStock,
			After:   current.CurrentStock,
			Minimum: current.MinimumStock,
		}, ErrStockFloor
	}
	return StockChange{
		ItemID:  it.ID,
		Name:    it.Name,
		Before:  it.CurrentStock.Sub(delta),
		After:   it.CurrentStock,
		Minimum: it.MinimumStock,
	}, nil
}
