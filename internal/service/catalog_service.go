package service

import (
	"context"
	"fmt"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/dto"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService covers items, units, variants and the stock audit trail.
// None of its operations adjust stock; an item's stock is only set here once,
// at creation.
type CatalogService interface {
	CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	ListItems(ctx context.Context, filter dto.ItemFilter) ([]dto.ItemResponse, error)
	LowStockAlerts(ctx context.Context) ([]dto.ItemResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)

	CreateUnit(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error)
	ListUnits(ctx context.Context) ([]dto.UnitResponse, error)

	CreateVariant(ctx context.Context, req dto.CreateVariantRequest) (*dto.VariantResponse, error)
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
}

type catalogService struct {
	store repository.Store
	cache *ProductCache
}

func NewCatalogService(store repository.Store, cache *ProductCache) CatalogService {
	return &catalogService{store: store, cache: cache}
}

// ── Items ─────────────────────────────────────────────────────────────────────

func (s *catalogService) CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if req.CurrentStock.IsNegative() {
		return nil, fmt.Errorf("%w: currentStock cannot be negative", ErrInvalidRequest)
	}
	for field, q := range map[string]decimal.Decimal{"currentStock": req.CurrentStock, "minimumStock": req.MinimumStock} {
		if err := checkQuantityScale(q); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, field, err)
		}
	}
	it := &model.Item{
		Name:         req.Name,
		Kind:         req.Kind,
		Category:     req.Category,
		CurrentStock: req.CurrentStock,
		MinimumStock: req.MinimumStock,
		AverageCost:  req.AverageCost,
		ImageURL:     req.ImageURL,
	}
	if it.Kind == "" {
		it.Kind = model.ItemKindIngredient
	}
	if req.UnitID != nil {
		unitID, err := uuid.Parse(*req.UnitID)
		if err != nil {
			return nil, fmt.Errorf("%w: unitId", ErrInvalidRequest)
		}
		if _, err := s.store.Units().FindByID(ctx, unitID); err != nil {
			return nil, notFoundAs(err, ErrInvalidRequest)
		}
		it.UnitID = &unitID
	}
	if err := s.store.Items().Create(ctx, it); err != nil {
		return nil, err
	}
	if it.Kind == model.ItemKindProduct {
		s.cache.Invalidate(ctx)
	}
	created, err := s.store.Items().FindByID(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	return itemToResponse(created), nil
}

func (s *catalogService) ListItems(ctx context.Context, filter dto.ItemFilter) ([]dto.ItemResponse, error) {
	items, err := s.store.Items().List(ctx, repository.ItemFilter{Kind: filter.Kind, Category: filter.Category})
	if err != nil {
		return nil, err
	}
	return itemsToResponse(items), nil
}

func (s *catalogService) LowStockAlerts(ctx context.Context) ([]dto.ItemResponse, error) {
	items, err := s.store.Items().ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	return itemsToResponse(items), nil
}

func (s *catalogService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	f := repository.StockMovementFilter{Kind: filter.Kind, Page: filter.Page, Limit: filter.Limit}
	if filter.ItemID != "" {
		id, err := uuid.Parse(filter.ItemID)
		if err != nil {
			return nil, fmt.Errorf("%w: itemId", ErrInvalidRequest)
		}
		f.ItemID = &id
	}
	f.Normalize()

	movements, total, err := s.store.Movements().List(ctx, f)
	if err != nil {
		return nil, err
	}
	resp := &dto.MovementListResponse{
		Data:  make([]dto.MovementResponse, 0, len(movements)),
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
	}
	for _, m := range movements {
		r := dto.MovementResponse{
			ID:          m.ID.String(),
			ItemID:      m.ItemID.String(),
			Kind:        m.Kind,
			Delta:       m.Delta,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Note:        m.Note,
			CreatedAt:   m.CreatedAt,
		}
		if m.Item != nil {
			r.ItemName = m.Item.Name
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			r.ReferenceID = &ref
		}
		resp.Data = append(resp.Data, r)
	}
	return resp, nil
}

// ── Units ─────────────────────────────────────────────────────────────────────

func (s *catalogService) CreateUnit(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	u := &model.Unit{Label: req.Label}
	if err := s.store.Units().Create(ctx, u); err != nil {
		return nil, err
	}
	return &dto.UnitResponse{ID: u.ID.String(), Label: u.Label}, nil
}

func (s *catalogService) ListUnits(ctx context.Context) ([]dto.UnitResponse, error) {
	units, err := s.store.Units().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, dto.UnitResponse{ID: u.ID.String(), Label: u.Label})
	}
	return out, nil
}

// ── Variants & products ───────────────────────────────────────────────────────

func (s *catalogService) CreateVariant(ctx context.Context, req dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: productId", ErrInvalidRequest)
	}
	if !req.QuantityPerUnit.IsPositive() {
		return nil, fmt.Errorf("%w: quantityPerUnit must be greater than zero", ErrInvalidRequest)
	}
	if err := checkQuantityScale(req.QuantityPerUnit); err != nil {
		return nil, fmt.Errorf("%w: quantityPerUnit: %v", ErrInvalidRequest, err)
	}
	v := &model.Variant{
		ProductID:       productID,
		Name:            req.Name,
		QuantityPerUnit: req.QuantityPerUnit,
		OfflinePrice:    req.OfflinePrice,
	}
	seen := make(map[string]bool, len(req.ChannelPrices))
	for _, cp := range req.ChannelPrices {
		if cp.Channel == model.ChannelOffline || !model.IsChannel(cp.Channel) {
			return nil, fmt.Errorf("%w: channel %q cannot carry an override", ErrInvalidRequest, cp.Channel)
		}
		if seen[cp.Channel] {
			return nil, fmt.Errorf("%w: channel %q listed twice", ErrInvalidRequest, cp.Channel)
		}
		seen[cp.Channel] = true
		v.ChannelPrices = append(v.ChannelPrices, model.ChannelPrice{Channel: cp.Channel, Price: cp.Price})
	}

	err = s.store.Atomically(ctx, func(tx repository.Repos) error {
		if _, err := tx.Items().FindByID(ctx, productID); err != nil {
			return notFoundAs(err, ErrProductNotFound)
		}
		return tx.Variants().Create(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	resp := variantToResponse(v)
	return &resp, nil
}

// ListProducts returns every active product with its variants and per-channel
// prices. Served from Redis when cached.
func (s *catalogService) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	if cached, ok := s.cache.get(ctx); ok {
		return cached, nil
	}
	version, cacheable := s.cache.version(ctx)

	products, err := s.store.Items().List(ctx, repository.ItemFilter{Kind: model.ItemKindProduct})
	if err != nil {
		return nil, err
	}
	variants, err := s.store.Variants().ListActive(ctx)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uuid.UUID][]dto.VariantResponse)
	for i := range variants {
		byProduct[variants[i].ProductID] = append(byProduct[variants[i].ProductID], variantToResponse(&variants[i]))
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		vs := byProduct[p.ID]
		if vs == nil {
			vs = []dto.VariantResponse{}
		}
		out = append(out, dto.ProductResponse{
			ID:           p.ID.String(),
			Name:         p.Name,
			Category:     p.Category,
			ImageURL:     p.ImageURL,
			CurrentStock: p.CurrentStock,
			Variants:     vs,
		})
	}

	if cacheable {
		s.cache.set(ctx, version, out)
	}
	return out, nil
}

func variantToResponse(v *model.Variant) dto.VariantResponse {
	return dto.VariantResponse{
		ID:              v.ID.String(),
		Name:            v.Name,
		QuantityPerUnit: v.QuantityPerUnit,
		Prices:          PriceMap(v),
	}
}

func itemToResponse(it *model.Item) *dto.ItemResponse {
	r := &dto.ItemResponse{
		ID:           it.ID.String(),
		Name:         it.Name,
		Kind:         it.Kind,
		Category:     it.Category,
		CurrentStock: it.CurrentStock,
		MinimumStock: it.MinimumStock,
		AverageCost:  it.AverageCost,
		ImageURL:     it.ImageURL,
		LowStock:     it.BelowMinimum(),
	}
	if it.UnitID != nil {
		id := it.UnitID.String()
		r.UnitID = &id
	}
	if it.Unit != nil {
		r.Unit = it.Unit.Label
	}
	return r
}

func itemsToResponse(items []model.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, *itemToResponse(&items[i]))
	}
	return out
}
