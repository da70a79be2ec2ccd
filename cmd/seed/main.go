// cmd/seed/main.go seeds the demo catalog: units, ingredients, products with
// recipes, variants with channel prices and one supplier. Running it twice is a
// no-op once units exist.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/config"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/dto"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/infra"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type seedVariant struct {
	name    string
	perUnit int64
	prices  map[string]int64
}

type seedProduct struct {
	name     string
	category string
	recipe   map[string]string // ingredient name -> quantity per batch
	variants []seedVariant
}

var ingredients = []struct {
	name, unit     string
	stock, minimum int64
}{
	{"Tepung Terigu", "kg", 25, 5},
	{"Telur", "pcs", 60, 12},
	{"Mayones", "kg", 5, 1},
	{"Minyak Goreng", "liter", 10, 2},
	{"Coklat Meses", "kg", 3, 1},
	{"Daging Ayam", "kg", 4, 1},
	{"Teh Celup", "pcs", 100, 20},
	{"Gula Pasir", "kg", 10, 2},
}

var products = []seedProduct{
	{
		name: "Risol Mayo Lumer", category: "Snack",
		recipe: map[string]string{"Tepung Terigu": "0.05", "Telur": "0.5", "Mayones": "0.03", "Minyak Goreng": "0.02"},
		variants: []seedVariant{
			{"Satuan", 1, map[string]int64{"offline": 3000, "gofood": 4000, "grabfood": 4000, "shopee": 3500}},
			{"Pack (Isi 4)", 4, map[string]int64{"offline": 12000, "gofood": 15000, "grabfood": 15000, "shopee": 14000}},
		},
	},
	{
		name: "Martabak Mini Coklat", category: "Manis",
		recipe: map[string]string{"Tepung Terigu": "0.04", "Telur": "0.25", "Coklat Meses": "0.02"},
		variants: []seedVariant{
			{"Coklat Keju", 1, map[string]int64{"offline": 2500, "gofood": 3000, "grabfood": 3000, "shopee": 2700}},
		},
	},
	{
		name: "Pastel Kari Ayam", category: "Snack",
		recipe: map[string]string{"Tepung Terigu": "0.05", "Daging Ayam": "0.03", "Minyak Goreng": "0.02"},
		variants: []seedVariant{
			{"Original", 1, map[string]int64{"offline": 3000, "gofood": 3500, "grabfood": 3500, "shopee": 3200}},
		},
	},
	{
		name: "Es Teh Manis Jumbo", category: "Minuman",
		recipe: map[string]string{"Teh Celup": "1", "Gula Pasir": "0.03"},
		variants: []seedVariant{
			{"Cup Besar", 1, map[string]int64{"offline": 5000, "gofood": 6500, "grabfood": 6500, "shopee": 6000}},
		},
	},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.DatabaseDriver != config.DriverPostgres {
		log.Fatal().Str("driver", cfg.DatabaseDriver).Msg("seeding only makes sense against postgres")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	store := repository.NewGormStore(db)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seed(ctx, store); err != nil {
		log.Error().Err(err).Msg("seed failed")
		return
	}
}

func seed(ctx context.Context, store repository.Store) error {
	catalog := service.NewCatalogService(store, nil)
	recipes := service.NewRecipeService(store, nil)
	suppliers := service.NewSupplierService(store)

	existing, err := catalog.ListUnits(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info().Int("units", len(existing)).Msg("catalog already seeded, nothing to do")
		return nil
	}

	unitIDs := make(map[string]string)
	for _, label := range []string{"kg", "pcs", "liter"} {
		u, err := catalog.CreateUnit(ctx, dto.CreateUnitRequest{Label: label})
		if err != nil {
			return fmt.Errorf("unit %s: %w", label, err)
		}
		unitIDs[label] = u.ID
	}

	ingredientIDs := make(map[string]string)
	for _, ing := range ingredients {
		unitID := unitIDs[ing.unit]
		it, err := catalog.CreateItem(ctx, dto.CreateItemRequest{
			Name:         ing.name,
			Kind:         model.ItemKindIngredient,
			Category:     "Bahan",
			UnitID:       &unitID,
			CurrentStock: decimal.NewFromInt(ing.stock),
			MinimumStock: decimal.NewFromInt(ing.minimum),
		})
		if err != nil {
			return fmt.Errorf("ingredient %s: %w", ing.name, err)
		}
		ingredientIDs[ing.name] = it.ID
	}

	for _, p := range products {
		prod, err := catalog.CreateItem(ctx, dto.CreateItemRequest{
			Name:         p.name,
			Kind:         model.ItemKindProduct,
			Category:     p.category,
			MinimumStock: decimal.NewFromInt(5),
		})
		if err != nil {
			return fmt.Errorf("product %s: %w", p.name, err)
		}

		var lines []dto.RecipeLineRequest
		for _, ing := range ingredients {
			qty, ok := p.recipe[ing.name]
			if !ok {
				continue
			}
			lines = append(lines, dto.RecipeLineRequest{
				IngredientID:     ingredientIDs[ing.name],
				QuantityPerBatch: decimal.RequireFromString(qty),
			})
		}
		if _, err := recipes.ReplaceRecipe(ctx, uuid.MustParse(prod.ID), dto.ReplaceRecipeRequest{Lines: lines}); err != nil {
			return fmt.Errorf("recipe %s: %w", p.name, err)
		}

		for _, v := range p.variants {
			req := dto.CreateVariantRequest{
				ProductID:       prod.ID,
				Name:            v.name,
				QuantityPerUnit: decimal.NewFromInt(v.perUnit),
				OfflinePrice:    decimal.NewFromInt(v.prices[model.ChannelOffline]),
			}
			for _, ch := range model.Channels[1:] {
				if price, ok := v.prices[ch]; ok {
					req.ChannelPrices = append(req.ChannelPrices, dto.ChannelPriceRequest{Channel: ch, Price: decimal.NewFromInt(price)})
				}
			}
			if _, err := catalog.CreateVariant(ctx, req); err != nil {
				return fmt.Errorf("variant %s/%s: %w", p.name, v.name, err)
			}
		}
	}

	contact := "0812-0000-1111"
	if _, err := suppliers.Create(ctx, dto.CreateSupplierRequest{Name: "Toko Bahan Kue Sejahtera", Category: "Bahan", Contact: &contact}); err != nil {
		return fmt.Errorf("supplier: %w", err)
	}

	log.Info().
		Int("ingredients", len(ingredients)).
		Int("products", len(products)).
		Msg("demo catalog seeded")
	return nil
}
