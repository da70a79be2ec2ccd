package dto

import "github.com/shopspring/decimal"

type RecipeLineRequest struct {
	IngredientID     string          `json:"ingredientId" validate:"required,uuid"`
	QuantityPerBatch decimal.Decimal `json:"quantityPerBatch"`
	UnitID           *string         `json:"unitId" validate:"omitempty,uuid"`
}

type ReplaceRecipeRequest struct {
	Lines []RecipeLineRequest `json:"lines" validate:"dive"`
}

type RecipeLineResponse struct {
	IngredientID     string          `json:"ingredientId"`
	IngredientName   string          `json:"ingredientName"`
	QuantityPerBatch decimal.Decimal `json:"quantityPerBatch"`
	UnitID           *string         `json:"unitId,omitempty"`
	Unit             string          `json:"unit"`
}

type RecipeResponse struct {
	ProductID string               `json:"productId"`
	Lines     []RecipeLineResponse `json:"lines"`
}

// RecipeIngredient is one entry of the compact GET /recipes listing.
type RecipeIngredient struct {
	Name string          `json:"name"`
	Qty  decimal.Decimal `json:"qty"`
	Unit string          `json:"unit"`
}

type RecipeSummary struct {
	ProductID   string             `json:"productId"`
	Name        string             `json:"name"`
	OutputQty   int                `json:"outputQty"`
	OutputUnit  string             `json:"outputUnit"`
	Ingredients []RecipeIngredient `json:"ingredients"`
}
