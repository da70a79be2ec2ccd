// Package memstore is an in-process repository.Store for tests and local
// development (DATABASE_DRIVER=memory). Every unit of work runs on a private
// copy of the data which replaces the live copy only on commit, so a failed or
// panicking workflow leaves nothing behind. Units of work are serialized by a
// single mutex, so disjoint workflows do not run in parallel as they do on
// Postgres; nothing is persisted across restarts.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"

	"github.com/google/uuid"
)

type state struct {
	items        map[uuid.UUID]model.Item
	units        map[uuid.UUID]model.Unit
	recipes      map[uuid.UUID][]model.RecipeLine // keyed by product id
	variants     map[uuid.UUID]model.Variant
	suppliers    map[uuid.UUID]model.Supplier
	procurements []model.Procurement
	procLines    []model.ProcurementLine
	transactions []model.Transaction
	txLines      []model.TransactionLine
	movements    []model.StockMovement
}

func newState() *state {
	return &state{
		items:     make(map[uuid.UUID]model.Item),
		units:     make(map[uuid.UUID]model.Unit),
		recipes:   make(map[uuid.UUID][]model.RecipeLine),
		variants:  make(map[uuid.UUID]model.Variant),
		suppliers: make(map[uuid.UUID]model.Supplier),
	}
}

// clone copies the mutable catalog. The history slices are append-only and
// shared as-is: rows past the live length are invisible to the live state, and
// only the goroutine holding Store.mu appends, so a rolled back copy's appends
// are simply overwritten by the next writer.
func (s *state) clone() *state {
	c := &state{
		items:        maps.Clone(s.items),
		units:        maps.Clone(s.units),
		recipes:      make(map[uuid.UUID][]model.RecipeLine, len(s.recipes)),
		variants:     make(map[uuid.UUID]model.Variant, len(s.variants)),
		suppliers:    maps.Clone(s.suppliers),
		procurements: s.procurements,
		procLines:    s.procLines,
		transactions: s.transactions,
		txLines:      s.txLines,
		movements:    s.movements,
	}
	for k, lines := range s.recipes {
		c.recipes[k] = slices.Clone(lines)
	}
	for k, v := range s.variants {
		v.ChannelPrices = slices.Clone(v.ChannelPrices)
		c.variants[k] = v
	}
	return c
}

// Store implements repository.Store in memory.
type Store struct {
	mu  sync.Mutex
	st  *state
	seq atomic.Int64
	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

// Atomically runs fn against a private copy of the data and publishes it only
// when fn returns nil and ctx is still live.
func (s *Store) Atomically(ctx context.Context, fn func(tx repository.Repos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", repository.ErrUnitOfWorkPanic, r)
		}
	}()
	if err := fn(&repos{base{store: s, st: work}}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) Items() repository.ItemRepository { return s.autocommit().Items() }
func (s *Store) Units() repository.UnitRepository { return s.autocommit().Units() }
func (s *Store) Recipes() repository.RecipeRepository {
	return s.autocommit().Recipes()
}
func (s *Store) Variants() repository.VariantRepository {
	return s.autocommit().Variants()
}
func (s *Store) Suppliers() repository.SupplierRepository {
	return s.autocommit().Suppliers()
}
func (s *Store) Procurements() repository.ProcurementRepository {
	return s.autocommit().Procurements()
}
func (s *Store) Transactions() repository.TransactionRepository {
	return s.autocommit().Transactions()
}
func (s *Store) Movements() repository.StockMovementRepository {
	return s.autocommit().Movements()
}

func (s *Store) autocommit() *repos { return &repos{base{store: s}} }

// base runs every repository call either on the unit-of-work copy (st set) or
// on the live data under the store lock.
type base struct {
	store *Store
	st    *state
}

func (b base) with(fn func(st *state) error) error {
	if b.st != nil {
		return fn(b.st)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.st)
}

func (b base) now() time.Time { return b.store.now() }

type repos struct{ base }

func (r *repos) Items() repository.ItemRepository               { return itemRepo{r.base} }
func (r *repos) Units() repository.UnitRepository               { return unitRepo{r.base} }
func (r *repos) Recipes() repository.RecipeRepository           { return recipeRepo{r.base} }
func (r *repos) Variants() repository.VariantRepository         { return variantRepo{r.base} }
func (r *repos) Suppliers() repository.SupplierRepository       { return supplierRepo{r.base} }
func (r *repos) Procurements() repository.ProcurementRepository { return procurementRepo{r.base} }
func (r *repos) Transactions() repository.TransactionRepository { return transactionRepo{r.base} }
func (r *repos) Movements() repository.StockMovementRepository  { return movementRepo{r.base} }

func notFound(kind string, id any) error {
	return fmt.Errorf("%w: %s %v", repository.ErrNotFound, kind, id)
}
