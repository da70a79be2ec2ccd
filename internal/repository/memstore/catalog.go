package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Items ────────────────────────────────────────────────────────────────────

type itemRepo struct{ base }

func (r itemRepo) Create(_ context.Context, it *model.Item) error {
	return r.with(func(st *state) error {
		if it.UnitID != nil {
			if _, ok := st.units[*it.UnitID]; !ok {
				return notFound("unit", *it.UnitID)
			}
		}
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		if it.Kind == "" {
			it.Kind = model.ItemKindIngredient
		}
		it.Active = true
		it.CreatedAt = r.now()
		it.UpdatedAt = it.CreatedAt
		stored := *it
		stored.Unit = nil
		st.items[it.ID] = stored
		return nil
	})
}

func (r itemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	var out *model.Item
	err := r.with(func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return notFound("item", id)
		}
		it = withUnit(st, it)
		out = &it
		return nil
	})
	return out, err
}

func (r itemRepo) List(_ context.Context, filter repository.ItemFilter) ([]model.Item, error) {
	var out []model.Item
	err := r.with(func(st *state) error {
		for _, it := range st.items {
			if !it.Active {
				continue
			}
			if filter.Kind != "" && it.Kind != filter.Kind {
				continue
			}
			if filter.Category != "" && it.Category != filter.Category {
				continue
			}
			out = append(out, withUnit(st, it))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b model.Item) int { return strings.Compare(a.Name, b.Name) })
	return out, err
}

func (r itemRepo) ListBelowMinimum(_ context.Context) ([]model.Item, error) {
	var out []model.Item
	err := r.with(func(st *state) error {
		for _, it := range st.items {
			if it.Active && it.BelowMinimum() {
				out = append(out, withUnit(st, it))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b model.Item) int {
		return a.CurrentStock.Sub(a.MinimumStock).Cmp(b.CurrentStock.Sub(b.MinimumStock))
	})
	return out, err
}

func (r itemRepo) AdjustStock(_ context.Context, id uuid.UUID, delta decimal.Decimal, enforceFloor bool) (repository.StockChange, error) {
	var change repository.StockChange
	err := r.with(func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return notFound("item", id)
		}
		change = repository.StockChange{
			ItemID:  it.ID,
			Name:    it.Name,
			Before:  it.CurrentStock,
			After:   it.CurrentStock,
			Minimum: it.MinimumStock,
		}
		after := it.CurrentStock.Add(delta)
		if enforceFloor && after.IsNegative() {
			return repository.ErrStockFloor
		}
		it.CurrentStock = after
		it.UpdatedAt = r.now()
		st.items[id] = it
		change.After = after
		return nil
	})
	return change, err
}

func withUnit(st *state, it model.Item) model.Item {
	if it.UnitID != nil {
		if u, ok := st.units[*it.UnitID]; ok {
			it.Unit = &u
		}
	}
	return it
}

// ── Units ────────────────────────────────────────────────────────────────────

type unitRepo struct{ base }

func (r unitRepo) Create(_ context.Context, u *model.Unit) error {
	return r.with(func(st *state) error {
		for _, existing := range st.units {
			if existing.Label == u.Label {
				return fmt.Errorf("memstore: unit %q already exists", u.Label)
			}
		}
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		st.units[u.ID] = *u
		return nil
	})
}

func (r unitRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Unit, error) {
	var out *model.Unit
	err := r.with(func(st *state) error {
		u, ok := st.units[id]
		if !ok {
			return notFound("unit", id)
		}
		out = &u
		return nil
	})
	return out, err
}

func (r unitRepo) List(_ context.Context) ([]model.Unit, error) {
	var out []model.Unit
	err := r.with(func(st *state) error {
		for _, u := range st.units {
			out = append(out, u)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b model.Unit) int { return strings.Compare(a.Label, b.Label) })
	return out, err
}

// ── Recipes ──────────────────────────────────────────────────────────────────

type recipeRepo struct{ base }

func (r recipeRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.RecipeLine, error) {
	var out []model.RecipeLine
	err := r.with(func(st *state) error {
		for _, l := range st.recipes[productID] {
			out = append(out, hydrateLine(st, l, false))
		}
		return nil
	})
	sortLines(out)
	return out, err
}

func (r recipeRepo) ListAll(_ context.Context) ([]model.RecipeLine, error) {
	var out []model.RecipeLine
	err := r.with(func(st *state) error {
		for _, lines := range st.recipes {
			for _, l := range lines {
				out = append(out, hydrateLine(st, l, true))
			}
		}
		return nil
	})
	sortLines(out)
	return out, err
}

func (r recipeRepo) DeleteByProduct(_ context.Context, productID uuid.UUID) error {
	return r.with(func(st *state) error {
		delete(st.recipes, productID)
		return nil
	})
}

func (r recipeRepo) CreateLines(_ context.Context, lines []model.RecipeLine) error {
	return r.with(func(st *state) error {
		for i := range lines {
			l := &lines[i]
			if _, ok := st.items[l.ProductID]; !ok {
				return notFound("item", l.ProductID)
			}
			if _, ok := st.items[l.IngredientID]; !ok {
				return notFound("item", l.IngredientID)
			}
			if l.UnitID != nil {
				if _, ok := st.units[*l.UnitID]; !ok {
					return notFound("unit", *l.UnitID)
				}
			}
			if l.ID == uuid.Nil {
				l.ID = uuid.New()
			}
			stored := *l
			stored.Product, stored.Ingredient, stored.Unit = nil, nil, nil
			st.recipes[l.ProductID] = append(st.recipes[l.ProductID], stored)
		}
		return nil
	})
}

func hydrateLine(st *state, l model.RecipeLine, withProduct bool) model.RecipeLine {
	if ing, ok := st.items[l.IngredientID]; ok {
		l.Ingredient = &ing
	}
	if l.UnitID != nil {
		if u, ok := st.units[*l.UnitID]; ok {
			l.Unit = &u
		}
	}
	if withProduct {
		if p, ok := st.items[l.ProductID]; ok {
			l.Product = &p
		}
	}
	return l
}

func sortLines(lines []model.RecipeLine) {
	slices.SortFunc(lines, func(a, b model.RecipeLine) int {
		if c := strings.Compare(a.ProductID.String(), b.ProductID.String()); c != 0 {
			return c
		}
		return a.Position - b.Position
	})
}

// ── Variants ─────────────────────────────────────────────────────────────────

type variantRepo struct{ base }

func (r variantRepo) Create(_ context.Context, v *model.Variant) error {
	return r.with(func(st *state) error {
		if _, ok := st.items[v.ProductID]; !ok {
			return notFound("item", v.ProductID)
		}
		seen := make(map[string]bool, len(v.ChannelPrices))
		for _, cp := range v.ChannelPrices {
			if seen[cp.Channel] {
				return fmt.Errorf("memstore: duplicate price for channel %q", cp.Channel)
			}
			seen[cp.Channel] = true
		}
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		for i := range v.ChannelPrices {
			if v.ChannelPrices[i].ID == uuid.Nil {
				v.ChannelPrices[i].ID = uuid.New()
			}
			v.ChannelPrices[i].VariantID = v.ID
		}
		v.Active = true
		v.CreatedAt = r.now()
		stored := *v
		stored.Product = nil
		stored.ChannelPrices = slices.Clone(v.ChannelPrices)
		st.variants[v.ID] = stored
		return nil
	})
}

func (r variantRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Variant, error) {
	var out *model.Variant
	err := r.with(func(st *state) error {
		v, ok := st.variants[id]
		if !ok {
			return notFound("variant", id)
		}
		v.ChannelPrices = slices.Clone(v.ChannelPrices)
		out = &v
		return nil
	})
	return out, err
}

func (r variantRepo) ListActive(_ context.Context) ([]model.Variant, error) {
	var out []model.Variant
	err := r.with(func(st *state) error {
		for _, v := range st.variants {
			if !v.Active {
				continue
			}
			v.ChannelPrices = slices.Clone(v.ChannelPrices)
			if p, ok := st.items[v.ProductID]; ok {
				v.Product = &p
			}
			out = append(out, v)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b model.Variant) int {
		if c := strings.Compare(a.ProductID.String(), b.ProductID.String()); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, err
}
