package repository

import (
	"context"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VariantRepository stores variants together with their channel price overrides.
type VariantRepository interface {
	// Create inserts the variant and any ChannelPrices attached to it.
	Create(ctx context.Context, v *model.Variant) error
	// FindByID returns the variant with ChannelPrices loaded.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error)
	// ListActive returns active variants with Product and ChannelPrices loaded.
	ListActive(ctx context.Context) ([]model.Variant, error)
}

type variantRepo struct{ db *gorm.DB }

func NewVariantRepository(db *gorm.DB) VariantRepository { return &variantRepo{db: db} }

func (r *variantRepo) Create(ctx context.Context, v *model.Variant) error {
	return translate(r.db.WithContext(ctx).Omit("Product").Create(v).Error)
}

func (r *variantRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	var v model.Variant
	if err := r.db.WithContext(ctx).Preload("ChannelPrices").First(&v, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *variantRepo) ListActive(ctx context.Context) ([]model.Variant, error) {
	var variants []model.Variant
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("ChannelPrices").
		Where("active = true").
		Order("product_id, name ASC").
		Find(&variants).Error
	return variants, translate(err)
}
