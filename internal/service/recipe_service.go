package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/dto"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"

	"github.com/google/uuid"
)

type RecipeService interface {
	GetRecipe(ctx context.Context, productID uuid.UUID) (*dto.RecipeResponse, error)
	ReplaceRecipe(ctx context.Context, productID uuid.UUID, req dto.ReplaceRecipeRequest) (*dto.RecipeResponse, error)
	ListRecipes(ctx context.Context) ([]dto.RecipeSummary, error)
}

type recipeService struct {
	store repository.Store
	cache *ProductCache
}

func NewRecipeService(store repository.Store, cache *ProductCache) RecipeService {
	return &recipeService{store: store, cache: cache}
}

func (s *recipeService) GetRecipe(ctx context.Context, productID uuid.UUID) (*dto.RecipeResponse, error) {
	if _, err := s.store.Items().FindByID(ctx, productID); err != nil {
		return nil, notFoundAs(err, ErrProductNotFound)
	}
	lines, err := s.store.Recipes().ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return recipeToResponse(productID, lines), nil
}

// ReplaceRecipe swaps the product's whole recipe in one unit of work. Nothing is
// written unless the product and every ingredient exist.
func (s *recipeService) ReplaceRecipe(ctx context.Context, productID uuid.UUID, req dto.ReplaceRecipeRequest) (*dto.RecipeResponse, error) {
	lines := make([]model.RecipeLine, 0, len(req.Lines))
	seen := make(map[uuid.UUID]bool, len(req.Lines))
	for i, l := range req.Lines {
		ingredientID, err := uuid.Parse(l.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: ingredientId", ErrInvalidRecipe, i+1)
		}
		if !l.QuantityPerBatch.IsPositive() {
			return nil, fmt.Errorf("%w: line %d: quantityPerBatch must be greater than zero", ErrInvalidRecipe, i+1)
		}
		if err := checkQuantityScale(l.QuantityPerBatch); err != nil {
			return nil, fmt.Errorf("%w: line %d: quantityPerBatch: %v", ErrInvalidRecipe, i+1, err)
		}
		if ingredientID == productID {
			return nil, fmt.Errorf("%w: a product cannot be its own ingredient", ErrInvalidRecipe)
		}
		if seen[ingredientID] {
			return nil, fmt.Errorf("%w: ingredient %s listed twice", ErrInvalidRecipe, ingredientID)
		}
		seen[ingredientID] = true

		line := model.RecipeLine{
			ProductID:        productID,
			IngredientID:     ingredientID,
			QuantityPerBatch: l.QuantityPerBatch,
			Position:         i,
		}
		if l.UnitID != nil {
			unitID, err := uuid.Parse(*l.UnitID)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: unitId", ErrInvalidRecipe, i+1)
			}
			line.UnitID = &unitID
		}
		lines = append(lines, line)
	}

	var stored []model.RecipeLine
	err := s.store.Atomically(ctx, func(tx repository.Repos) error {
		if _, err := tx.Items().FindByID(ctx, productID); err != nil {
			return notFoundAs(err, ErrProductNotFound)
		}
		for _, l := range lines {
			if _, err := tx.Items().FindByID(ctx, l.IngredientID); err != nil {
				return notFoundAs(err, ErrItemNotFound)
			}
			if l.UnitID != nil {
				if _, err := tx.Units().FindByID(ctx, *l.UnitID); err != nil {
					return notFoundAs(err, ErrInvalidRecipe)
				}
			}
		}
		if err := tx.Recipes().DeleteByProduct(ctx, productID); err != nil {
			return err
		}
		if err := tx.Recipes().CreateLines(ctx, lines); err != nil {
			return err
		}
		var err error
		stored, err = tx.Recipes().ListByProduct(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(context.WithoutCancel(ctx))
	return recipeToResponse(productID, stored), nil
}

// ListRecipes groups every recipe line by product, products sorted by name.
func (s *recipeService) ListRecipes(ctx context.Context) ([]dto.RecipeSummary, error) {
	lines, err := s.store.Recipes().ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uuid.UUID]*dto.RecipeSummary)
	var order []uuid.UUID
	for _, l := range lines {
		summary, ok := byProduct[l.ProductID]
		if !ok {
			name := ""
			if l.Product != nil {
				name = l.Product.Name
			}
			summary = &dto.RecipeSummary{
				ProductID:   l.ProductID.String(),
				Name:        name,
				OutputQty:   1,
				OutputUnit:  "pcs",
				Ingredients: []dto.RecipeIngredient{},
			}
			byProduct[l.ProductID] = summary
			order = append(order, l.ProductID)
		}
		ing := dto.RecipeIngredient{Qty: l.QuantityPerBatch}
		if l.Ingredient != nil {
			ing.Name = l.Ingredient.Name
		}
		if l.Unit != nil {
			ing.Unit = l.Unit.Label
		}
		summary.Ingredients = append(summary.Ingredients, ing)
	}

	out := make([]dto.RecipeSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byProduct[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func recipeToResponse(productID uuid.UUID, lines []model.RecipeLine) *dto.RecipeResponse {
	resp := &dto.RecipeResponse{
		ProductID: productID.String(),
		Lines:     make([]dto.RecipeLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		r := dto.RecipeLineResponse{
			IngredientID:     l.IngredientID.String(),
			QuantityPerBatch: l.QuantityPerBatch,
		}
		if l.Ingredient != nil {
			r.IngredientName = l.Ingredient.Name
		}
		if l.UnitID != nil {
			id := l.UnitID.String()
			r.UnitID = &id
		}
		if l.Unit != nil {
			r.Unit = l.Unit.Label
		}
		resp.Lines = append(resp.Lines, r)
	}
	return resp
}
