package service

import (
	"bytes"
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/config"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository/memstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixture wires the services against a fresh in-memory store.
type fixture struct {
	store repository.Store
	coord Coordinator
}

func newFixture(t *testing.T, floorPolicy, pricePolicy string) *fixture {
	t.Helper()
	return newFixtureOn(t, memstore.New(), floorPolicy, pricePolicy)
}

func newFixtureOn(t *testing.T, store repository.Store, floorPolicy, pricePolicy string) *fixture {
	t.Helper()
	return &fixture{
		store: store,
		coord: NewCoordinator(store, NewStockLedger(floorPolicy), pricePolicy, nil, nil),
	}
}

func defaultFixture(t *testing.T) *fixture {
	return newFixture(t, config.StockFloorAllow, config.SalePriceEnforce)
}

func (f *fixture) item(t *testing.T, name, kind string, stock int64) *model.Item {
	t.Helper()
	it := &model.Item{Name: name, Kind: kind, CurrentStock: decimal.NewFromInt(stock)}
	require.NoError(t, f.store.Items().Create(context.Background(), it))
	return it
}

func (f *fixture) recipe(t *testing.T, productID uuid.UUID, lines ...model.RecipeLine) {
	t.Helper()
	for i := range lines {
		lines[i].ProductID = productID
		lines[i].Position = i
	}
	require.NoError(t, f.store.Recipes().CreateLines(context.Background(), lines))
}

func (f *fixture) variant(t *testing.T, productID uuid.UUID, perUnit, offline int64, overrides ...model.ChannelPrice) *model.Variant {
	t.Helper()
	v := &model.Variant{
		ProductID:       productID,
		Name:            "Single",
		QuantityPerUnit: decimal.NewFromInt(perUnit),
		OfflinePrice:    decimal.NewFromInt(offline),
		ChannelPrices:   overrides,
	}
	require.NoError(t, f.store.Variants().Create(context.Background(), v))
	return v
}

func (f *fixture) supplier(t *testing.T, name string) *model.Supplier {
	t.Helper()
	s := &model.Supplier{Name: name}
	require.NoError(t, f.store.Suppliers().Create(context.Background(), s))
	return s
}

func (f *fixture) stock(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	it, err := f.store.Items().FindByID(context.Background(), id)
	require.NoError(t, err)
	return it.CurrentStock
}

func (f *fixture) movements(t *testing.T) []model.StockMovement {
	t.Helper()
	out, _, err := f.store.Movements().List(context.Background(), repository.StockMovementFilter{})
	require.NoError(t, err)
	return out
}

func line(ingredientID uuid.UUID, perBatch int64) model.RecipeLine {
	return model.RecipeLine{IngredientID: ingredientID, QuantityPerBatch: decimal.NewFromInt(perBatch)}
}

func changeOf(id uuid.UUID, before, after, minimum int64) repository.StockChange {
	return repository.StockChange{ItemID: id, Before: dec(before), After: dec(after), Minimum: dec(minimum)}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decOf(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// faultyStore hands every unit of work repositories whose AdjustStock fails for
// one item, either as if the row had vanished or by panicking.
type faultyStore struct {
	*memstore.Store
	itemID uuid.UUID
	panics bool
}

func (s *faultyStore) Atomically(ctx context.Context, fn func(tx repository.Repos) error) error {
	return s.Store.Atomically(ctx, func(tx repository.Repos) error {
		return fn(faultyRepos{Repos: tx, store: s})
	})
}

type faultyRepos struct {
	repository.Repos
	store *faultyStore
}

func (r faultyRepos) Items() repository.ItemRepository {
	return faultyItems{ItemRepository: r.Repos.Items(), store: r.store}
}

type faultyItems struct {
	repository.ItemRepository
	store *faultyStore
}

func (r faultyItems) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal, enforceFloor bool) (repository.StockChange, error) {
	if id == r.store.itemID {
		if r.store.panics {
			panic("disk on fire")
		}
		return repository.StockChange{}, repository.ErrNotFound
	}
	return r.ItemRepository.AdjustStock(ctx, id, delta, enforceFloor)
}

// recordingStore remembers, per committed or rolled back unit of work, the
// order in which item rows were adjusted.
type recordingStore struct {
	*memstore.Store
	mu    sync.Mutex
	order [][]uuid.UUID
}

func (s *recordingStore) Atomically(ctx context.Context, fn func(tx repository.Repos) error) error {
	var seen []uuid.UUID
	err := s.Store.Atomically(ctx, func(tx repository.Repos) error {
		return fn(recordingRepos{Repos: tx, seen: &seen})
	})
	s.mu.Lock()
	s.order = append(s.order, seen)
	s.mu.Unlock()
	return err
}

type recordingRepos struct {
	repository.Repos
	seen *[]uuid.UUID
}

func (r recordingRepos) Items() repository.ItemRepository {
	return recordingItems{ItemRepository: r.Repos.Items(), seen: r.seen}
}

type recordingItems struct {
	repository.ItemRepository
	seen *[]uuid.UUID
}

func (r recordingItems) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal, enforceFloor bool) (repository.StockChange, error) {
	*r.seen = append(*r.seen, id)
	return r.ItemRepository.AdjustStock(ctx, id, delta, enforceFloor)
}

func sortedIDs(ids ...uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return out
}
