package infra

import (
	"fmt"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx, sizes the pool and brings
// the schema up to date. Verbose SQL logging is only on in development.
func NewDatabase(dsn string, development bool) (*gorm.DB, error) {
	level := logger.Silent
	if development {
		level = logger.Warn
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table, then applies the idempotent
// DDL that AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Unit{},
		&model.Item{},
		&model.RecipeLine{},
		&model.Variant{},
		&model.ChannelPrice{},
		&model.Supplier{},
		&model.Procurement{},
		&model.ProcurementLine{},
		&model.Transaction{},
		&model.TransactionLine{},
		&model.StockMovement{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own: the transaction number sequence and CHECK constraints.
// Each statement is guarded so re-running on a patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`CREATE SEQUENCE IF NOT EXISTS transaction_number_seq START 1`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_recipe_lines_quantity_positive') THEN
		    ALTER TABLE recipe_lines
		      ADD CONSTRAINT chk_recipe_lines_quantity_positive CHECK (quantity_per_batch > 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_variants_quantity_per_unit_positive') THEN
		    ALTER TABLE variants
		      ADD CONSTRAINT chk_variants_quantity_per_unit_positive CHECK (quantity_per_unit > 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_procurement_lines_quantity_positive') THEN
		    ALTER TABLE procurement_lines
		      ADD CONSTRAINT chk_procurement_lines_quantity_positive CHECK (quantity > 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_movements_item_created') THEN
		    CREATE INDEX idx_stock_movements_item_created ON stock_movements (item_id, created_at DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
