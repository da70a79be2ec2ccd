package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repos groups every repository bound to the same connection or unit of work.
type Repos interface {
	Items() ItemRepository
	Units() UnitRepository
	Recipes() RecipeRepository
	Variants() VariantRepository
	Suppliers() SupplierRepository
	Procurements() ProcurementRepository
	Transactions() TransactionRepository
	Movements() StockMovementRepository
}

// Store is the injected persistence handle. Its own repositories run outside any
// unit of work; Atomically hands fn a set bound to a single unit of work that
// commits when fn returns nil and rolls back on error or panic.
//
// Inside fn callers must only use the tx repositories they were given.
type Store interface {
	Repos
	Atomically(ctx context.Context, fn func(tx Repos) error) error
	Ping(ctx context.Context) error
	Close() error
}

type gormRepos struct {
	items        ItemRepository
	units        UnitRepository
	recipes      RecipeRepository
	variants     VariantRepository
	suppliers    SupplierRepository
	procurements ProcurementRepository
	transactions TransactionRepository
	movements    StockMovementRepository
}

func newGormRepos(db *gorm.DB) *gormRepos {
	return &gormRepos{
		items:        NewItemRepository(db),
		units:        NewUnitRepository(db),
		recipes:      NewRecipeRepository(db),
		variants:     NewVariantRepository(db),
		suppliers:    NewSupplierRepository(db),
		procurements: NewProcurementRepository(db),
		transactions: NewTransactionRepository(db),
		movements:    NewStockMovementRepository(db),
	}
}

func (r *gormRepos) Items() ItemRepository               { return r.items }
func (r *gormRepos) Units() UnitRepository               { return r.units }
func (r *gormRepos) Recipes() RecipeRepository           { return r.recipes }
func (r *gormRepos) Variants() VariantRepository         { return r.variants }
func (r *gormRepos) Suppliers() SupplierRepository       { return r.suppliers }
func (r *gormRepos) Procurements() ProcurementRepository { return r.procurements }
func (r *gormRepos) Transactions() TransactionRepository { return r.transactions }
func (r *gormRepos) Movements() StockMovementRepository  { return r.movements }

// GormStore is the PostgreSQL-backed Store.
type GormStore struct {
	*gormRepos
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{gormRepos: newGormRepos(db), db: db}
}

// Atomically runs fn inside one database transaction. A panic in fn is recovered,
// the transaction is rolled back and ErrUnitOfWorkPanic is returned.
func (s *GormStore) Atomically(ctx context.Context, fn func(tx Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrUnitOfWorkPanic, r)
			}
		}()
		return fn(newGormRepos(tx))
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the underlying *gorm.DB for migrations and integration tests.
func (s *GormStore) DB() *gorm.DB { return s.db }
