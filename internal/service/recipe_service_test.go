package service

import (
	"context"
	"testing"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/dto"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceRecipe_SwapsWholeSet(t *testing.T) {
	f := defaultFixture(t)
	svc := NewRecipeService(f.store, nil)
	flour := f.item(t, "Flour", model.ItemKindIngredient, 0)
	sugar := f.item(t, "Sugar", model.ItemKindIngredient, 0)
	eggs := f.item(t, "Eggs", model.ItemKindIngredient, 0)
	cake := f.item(t, "Cake", model.ItemKindProduct, 0)
	f.recipe(t, cake.ID, line(flour.ID, 1), line(sugar.ID, 1))

	resp, err := svc.ReplaceRecipe(context.Background(), cake.ID, dto.ReplaceRecipeRequest{
		Lines: []dto.RecipeLineRequest{
			{IngredientID: eggs.ID.String(), QuantityPerBatch: dec(3)},
			{IngredientID: flour.ID.String(), QuantityPerBatch: dec(2)},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, eggs.ID.String(), resp.Lines[0].IngredientID)
	assert.Equal(t, "Eggs", resp.Lines[0].IngredientName)
	assert.True(t, resp.Lines[1].QuantityPerBatch.Equal(dec(2)))

	got, err := svc.GetRecipe(context.Background(), cake.ID)
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

func TestReplaceRecipe_UnknownIngredientKeepsOldRecipe(t *testing.T) {
	f := defaultFixture(t)
	svc := NewRecipeService(f.store, nil)
	flour := f.item(t, "Flour", model.ItemKindIngredient, 0)
	cake := f.item(t, "Cake", model.ItemKindProduct, 0)
	f.recipe(t, cake.ID, line(flour.ID, 1))

	_, err := svc.ReplaceRecipe(context.Background(), cake.ID, dto.ReplaceRecipeRequest{
		Lines: []dto.RecipeLineRequest{{IngredientID: uuid.NewString(), QuantityPerBatch: dec(1)}},
	})
	assert.ErrorIs(t, err, ErrItemNotFound)

	lines, err := f.store.Recipes().ListByProduct(context.Background(), cake.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, flour.ID, lines[0].IngredientID)
}

func TestReplaceRecipe_Validation(t *testing.T) {
	f := defaultFixture(t)
	svc := NewRecipeService(f.store, nil)
	flour := f.item(t, "Flour", model.ItemKindIngredient, 0)
	cake := f.item(t, "Cake", model.ItemKindProduct, 0)

	cases := map[string][]dto.RecipeLineRequest{
		"zero quantity":  {{IngredientID: flour.ID.String(), QuantityPerBatch: dec(0)}},
		"self reference": {{IngredientID: cake.ID.String(), QuantityPerBatch: dec(1)}},
		"duplicate": {
			{IngredientID: flour.ID.String(), QuantityPerBatch: dec(1)},
			{IngredientID: flour.ID.String(), QuantityPerBatch: dec(2)},
		},
		"bad id":   {{IngredientID: "flour", QuantityPerBatch: dec(1)}},
		"too fine": {{IngredientID: flour.ID.String(), QuantityPerBatch: decOf("0.0001")}},
	}
	for name, lines := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ReplaceRecipe(context.Background(), cake.ID, dto.ReplaceRecipeRequest{Lines: lines})
			assert.ErrorIs(t, err, ErrInvalidRecipe)
		})
	}
}

func TestReplaceRecipe_EmptyClearsRecipe(t *testing.T) {
	f := defaultFixture(t)
	svc := NewRecipeService(f.store, nil)
	flour := f.item(t, "Flour", model.ItemKindIngredient, 0)
	cake := f.item(t, "Cake", model.ItemKindProduct, 0)
	f.recipe(t, cake.ID, line(flour.ID, 1))

	resp, err := svc.ReplaceRecipe(context.Background(), cake.ID, dto.ReplaceRecipeRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
}

func TestGetRecipe_UnknownProduct(t *testing.T) {
	svc := NewRecipeService(defaultFixture(t).store, nil)
	_, err := svc.GetRecipe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListRecipes_GroupsByProduct(t *testing.T) {
	f := defaultFixture(t)
	svc := NewRecipeService(f.store, nil)
	kg := &model.Unit{Label: "kg"}
	require.NoError(t, f.store.Units().Create(context.Background(), kg))
	flour := f.item(t, "Flour", model.ItemKindIngredient, 0)
	sugar := f.item(t, "Sugar", model.ItemKindIngredient, 0)
	cake := f.item(t, "Cake", model.ItemKindProduct, 0)
	bread := f.item(t, "Bread", model.ItemKindProduct, 0)

	withUnit := line(flour.ID, 2)
	withUnit.UnitID = &kg.ID
	f.recipe(t, cake.ID, withUnit, line(sugar.ID, 1))
	f.recipe(t, bread.ID, line(flour.ID, 1))

	got, err := svc.ListRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bread", got[0].Name)
	assert.Equal(t, "Cake", got[1].Name)
	require.Len(t, got[1].Ingredients, 2)
	assert.Equal(t, "Flour", got[1].Ingredients[0].Name)
	assert.Equal(t, "kg", got[1].Ingredients[0].Unit)
	assert.Equal(t, 1, got[1].OutputQty)
}
