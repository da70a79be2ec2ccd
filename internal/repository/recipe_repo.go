package repository

import (
	"context"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository stores recipe lines. Lines of one product are returned in
// Position order.
type RecipeRepository interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.RecipeLine, error)
	ListAll(ctx context.Context) ([]model.RecipeLine, error)
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
	CreateLines(ctx context.Context, lines []model.RecipeLine) error
}

type recipeRepo struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepo{db: db} }

func (r *recipeRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.RecipeLine, error) {
	var lines []model.RecipeLine
	err := r.db.WithContext(ctx).
		Preload("Ingredient").Preload("Unit").
		Where("product_id = ?", productID).
		Order("position ASC").
		Find(&lines).Error
	return lines, translate(err)
}

func (r *recipeRepo) ListAll(ctx context.Context) ([]model.RecipeLine, error) {
	var lines []model.RecipeLine
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Ingredient").Preload("Unit").
		Order("product_id, position ASC").
		Find(&lines).Error
	return lines, translate(err)
}

func (r *recipeRepo) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.RecipeLine{}).Error)
}

func (r *recipeRepo) CreateLines(ctx context.Context, lines []model.RecipeLine) error {
	if len(lines) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(&lines).Error)
}
