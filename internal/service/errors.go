package service

import (
	"errors"
	"fmt"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrSaleNotFound      = errors.New("transaction not found")
	ErrInvalidMultiplier = errors.New("multiplier must be a positive integer")
	ErrInvalidRecipe     = errors.New("invalid recipe")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPriceMismatch     = errors.New("price mismatch")

	// ErrUnitOfWorkPanic is surfaced when a workflow panicked; the unit of work
	// has already been rolled back.
	ErrUnitOfWorkPanic = repository.ErrUnitOfWorkPanic
)

// InsufficientStockError is returned under the block floor policy when an
// adjustment would leave an item below zero.
type InsufficientStockError struct {
	ItemID    uuid.UUID
	Name      string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %s, requested %s",
		e.Name, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// PriceMismatchError is returned under the enforce price policy when the caller's
// declared prices disagree with the catalog.
type PriceMismatchError struct {
	Declared decimal.Decimal
	Computed decimal.Decimal
	// VariantID is set when a single line price was wrong rather than the total.
	VariantID *uuid.UUID
}

func (e *PriceMismatchError) Error() string {
	if e.VariantID != nil {
		return fmt.Sprintf("price mismatch for variant %s: declared %s, catalog %s",
			e.VariantID, e.Declared.String(), e.Computed.String())
	}
	return fmt.Sprintf("price mismatch: declared total %s, computed %s",
		e.Declared.String(), e.Computed.String())
}

func (e *PriceMismatchError) Unwrap() error { return ErrPriceMismatch }

// notFoundAs rewrites a repository ErrNotFound into the domain sentinel that
// names what was missing, keeping the original error for logs.
func notFoundAs(err error, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return err
}
