package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a referenced record does not exist, either
	// because a lookup found no row or because a foreign key rejected the write.
	ErrNotFound = errors.New("record not found")

	// ErrStockFloor is returned by AdjustStock when the floor is enforced and the
	// adjustment would leave the item below zero.
	ErrStockFloor = errors.New("stock floor violated")

	// ErrUnitOfWorkPanic is returned by Atomically when fn panicked. The unit of
	// work is rolled back before the error is returned.
	ErrUnitOfWorkPanic = errors.New("unit of work panicked")
)

// PostgreSQL SQLSTATE for foreign_key_violation.
const pgForeignKeyViolation = "23503"

// translate maps driver-level failures onto repository sentinels so callers
// never match on gorm or pgx types.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName)
	}
	return err
}
