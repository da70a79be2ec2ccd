package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/config"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// quantityScale is the number of decimal places the stock columns keep.
const quantityScale = 3

// checkQuantityScale rejects quantities finer than the stock columns store;
// Postgres would round them silently and the audit trail would drift from the
// stored stock.
func checkQuantityScale(q decimal.Decimal) error {
	if !q.Equal(q.Truncate(quantityScale)) {
		return fmt.Errorf("at most %d decimal places allowed, got %s", quantityScale, q)
	}
	return nil
}

// Adjustment is one relative change to an item's stock.
type Adjustment struct {
	ItemID      uuid.UUID
	Delta       decimal.Decimal
	Kind        string // model.Movement*
	ReferenceID *uuid.UUID
	Note        string
}

// LowStockNotice is collected inside a unit of work and published after commit.
type LowStockNotice struct {
	ItemID   uuid.UUID
	Name     string
	Stock    decimal.Decimal
	Minimum  decimal.Decimal
	Workflow string
}

// StockLedger applies adjustments inside the caller's unit of work. It never
// opens or commits one itself.
type StockLedger struct {
	blockNegative bool
}

// NewStockLedger builds a ledger for the given STOCK_FLOOR_POLICY.
func NewStockLedger(floorPolicy string) *StockLedger {
	return &StockLedger{blockNegative: floorPolicy == config.StockFloorBlock}
}

// Adjust changes one item's stock by adj.Delta and appends the audit row.
func (l *StockLedger) Adjust(ctx context.Context, tx repository.Repos, adj Adjustment) (repository.StockChange, error) {
	change, err := tx.Items().AdjustStock(ctx, adj.ItemID, adj.Delta, l.blockNegative)
	if errors.Is(err, repository.ErrStockFloor) {
		return change, &InsufficientStockError{
			ItemID:    adj.ItemID,
			Name:      change.Name,
			Available: change.Before,
			Requested: adj.Delta.Neg(),
		}
	}
	if err != nil {
		return change, fmt.Errorf("adjust stock of %s: %w", adj.ItemID, notFoundAs(err, ErrItemNotFound))
	}

	if change.After.IsNegative() {
		log.Warn().
			Str("item_id", adj.ItemID.String()).
			Str("item", change.Name).
			Str("stock", change.After.String()).
			Str("kind", adj.Kind).
			Msg("stock went negative")
	}

	movement := &model.StockMovement{
		ItemID:      adj.ItemID,
		Kind:        adj.Kind,
		Delta:       adj.Delta,
		StockBefore: change.Before,
		StockAfter:  change.After,
		ReferenceID: adj.ReferenceID,
		Note:        adj.Note,
	}
	if err := tx.Movements().Create(ctx, movement); err != nil {
		return change, fmt.Errorf("record stock movement: %w", err)
	}
	return change, nil
}

// AdjustAll applies a workflow's adjustments in ascending item-id order, one
// per item, so concurrent units of work touching overlapping items always take
// their row locks in the same order and cannot deadlock. Deltas for the same
// item are merged; the first adjustment's kind and note are kept.
func (l *StockLedger) AdjustAll(ctx context.Context, tx repository.Repos, adjs []Adjustment, workflow string) ([]LowStockNotice, error) {
	var notices []LowStockNotice
	for _, adj := range lockOrder(adjs) {
		change, err := l.Adjust(ctx, tx, adj)
		if err != nil {
			return nil, err
		}
		if n, ok := lowStockNotice(change, adj.Delta, workflow); ok {
			notices = append(notices, n)
		}
	}
	return notices, nil
}

// lockOrder merges adjustments per item and sorts them by item id.
func lockOrder(adjs []Adjustment) []Adjustment {
	merged := make([]Adjustment, 0, len(adjs))
	index := make(map[uuid.UUID]int, len(adjs))
	for _, adj := range adjs {
		if i, ok := index[adj.ItemID]; ok {
			merged[i].Delta = merged[i].Delta.Add(adj.Delta)
			continue
		}
		index[adj.ItemID] = len(merged)
		merged = append(merged, adj)
	}
	slices.SortFunc(merged, func(a, b Adjustment) int {
		return bytes.Compare(a.ItemID[:], b.ItemID[:])
	})
	return merged
}

// lowStockNotice returns a notice when a decrease left the item at or below
// its minimum.
func lowStockNotice(change repository.StockChange, delta decimal.Decimal, workflow string) (LowStockNotice, bool) {
	if !delta.IsNegative() || change.After.GreaterThan(change.Minimum) {
		return LowStockNotice{}, false
	}
	return LowStockNotice{
		ItemID:   change.ItemID,
		Name:     change.Name,
		Stock:    change.After,
		Minimum:  change.Minimum,
		Workflow: workflow,
	}, true
}
