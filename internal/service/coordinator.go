package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/config"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/dto"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Coordinator runs the three stock-mutating workflows. Each one is a single
// unit of work: every adjustment and record commits together or not at all.
// Workflows are not idempotent; resubmitting one applies it again.
type Coordinator interface {
	Produce(ctx context.Context, req dto.ProduceRequest) error
	ReceivePurchase(ctx context.Context, req dto.PurchaseRequest) (*dto.PurchaseResponse, error)
	Sell(ctx context.Context, req dto.SaleRequest) (*dto.SaleResponse, error)
}

type coordinator struct {
	store         repository.Store
	ledger        *StockLedger
	enforcePrices bool
	cache         *ProductCache
	dispatcher    *worker.Dispatcher
	now           func() time.Time
}

// NewCoordinator wires the workflows. cache and dispatcher may be nil.
func NewCoordinator(
	store repository.Store,
	ledger *StockLedger,
	salePricePolicy string,
	cache *ProductCache,
	dispatcher *worker.Dispatcher,
) Coordinator {
	return &coordinator{
		store:         store,
		ledger:        ledger,
		enforcePrices: salePricePolicy != config.SalePriceFlag,
		cache:         cache,
		dispatcher:    dispatcher,
		now:           time.Now,
	}
}

// FormatTransactionNumber renders a sequence value as TRX-YYYYMMDD-000123.
func FormatTransactionNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("TRX-%s-%06d", at.Format("20060102"), seq)
}

// ── Production ────────────────────────────────────────────────────────────────
//   1. load the recipe (an empty recipe still adds the output)
//   2. consume quantityPerBatch × multiplier of each ingredient
//   3. add multiplier to the product

func (c *coordinator) Produce(ctx context.Context, req dto.ProduceRequest) error {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fmt.Errorf("%w: productId", ErrInvalidRequest)
	}
	if req.Multiplier <= 0 {
		return ErrInvalidMultiplier
	}
	m := decimal.NewFromInt(int64(req.Multiplier))

	var notices []LowStockNotice
	err = c.store.Atomically(ctx, func(tx repository.Repos) error {
		product, err := tx.Items().FindByID(ctx, productID)
		if err != nil {
			return notFoundAs(err, ErrProductNotFound)
		}
		lines, err := tx.Recipes().ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			log.Warn().Str("product_id", productID.String()).Msg("production with empty recipe: output added without consuming ingredients")
		}

		note := fmt.Sprintf("production of %s ×%d", product.Name, req.Multiplier)
		adjs := make([]Adjustment, 0, len(lines)+1)
		for _, l := range lines {
			adjs = append(adjs, Adjustment{
				ItemID: l.IngredientID,
				Delta:  l.QuantityPerBatch.Mul(m).Neg(),
				Kind:   model.MovementProductionConsume,
				Note:   note,
			})
		}
		adjs = append(adjs, Adjustment{
			ItemID: productID,
			Delta:  m,
			Kind:   model.MovementProductionOutput,
			Note:   note,
		})
		notices, err = c.ledger.AdjustAll(ctx, tx, adjs, "production")
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("workflow", "production").Str("product_id", req.ProductID).Msg("workflow rolled back")
		return err
	}

	log.Info().Str("workflow", "production").Str("product_id", req.ProductID).Int("multiplier", req.Multiplier).Msg("workflow committed")
	c.afterCommit(ctx, notices)
	return nil
}

// ── Procurement ───────────────────────────────────────────────────────────────
//   1. insert the header
//   2. per line: insert the line, add its quantity to the item

func (c *coordinator) ReceivePurchase(ctx context.Context, req dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("%w: supplierId", ErrInvalidRequest)
	}
	status := req.Status
	if status == "" {
		status = model.ProcurementReceived
	}

	lines := make([]model.ProcurementLine, 0, len(req.Lines))
	for i, l := range req.Lines {
		itemID, err := uuid.Parse(l.ItemID)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: itemId", ErrInvalidRequest, i+1)
		}
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: line %d: quantity must be greater than zero", ErrInvalidRequest, i+1)
		}
		if err := checkQuantityScale(l.Quantity); err != nil {
			return nil, fmt.Errorf("%w: line %d: quantity: %v", ErrInvalidRequest, i+1, err)
		}
		subtotal := l.Quantity.Mul(l.UnitPrice)
		if l.Subtotal != nil {
			subtotal = *l.Subtotal
		}
		lines = append(lines, model.ProcurementLine{
			ItemID:    itemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  subtotal,
		})
	}

	var procurement model.Procurement
	err = c.store.Atomically(ctx, func(tx repository.Repos) error {
		if _, err := tx.Suppliers().FindByID(ctx, supplierID); err != nil {
			return notFoundAs(err, ErrSupplierNotFound)
		}
		procurement = model.Procurement{
			SupplierID:  supplierID,
			TotalAmount: req.TotalAmount,
			Status:      status,
			Notes:       req.Notes,
			PurchasedAt: c.now(),
		}
		if err := tx.Procurements().Create(ctx, &procurement); err != nil {
			return notFoundAs(err, ErrSupplierNotFound)
		}

		adjs := make([]Adjustment, 0, len(lines))
		for i := range lines {
			line := lines[i]
			line.ProcurementID = procurement.ID
			if err := tx.Procurements().CreateLine(ctx, &line); err != nil {
				return notFoundAs(err, ErrItemNotFound)
			}
			adjs = append(adjs, Adjustment{
				ItemID:      line.ItemID,
				Delta:       line.Quantity,
				Kind:        model.MovementPurchase,
				ReferenceID: &procurement.ID,
			})
		}
		_, err := c.ledger.AdjustAll(ctx, tx, adjs, "procurement")
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("workflow", "procurement").Str("supplier_id", req.SupplierID).Msg("workflow rolled back")
		return nil, err
	}

	log.Info().Str("workflow", "procurement").Str("procurement_id", procurement.ID.String()).Int("lines", len(lines)).Msg("workflow committed")
	c.afterCommit(ctx, nil)
	return &dto.PurchaseResponse{Success: true, ProcurementID: procurement.ID.String()}, nil
}

// ── Sale ──────────────────────────────────────────────────────────────────────
//   1. draw the transaction number from the store sequence
//   2. resolve every line's price for the channel and total it server-side
//   3. apply the price policy to the caller's declared prices
//   4. insert header and lines, deduct quantity × quantityPerUnit from each parent

type pricedLine struct {
	variant  *model.Variant
	quantity int
	price    decimal.Decimal
	subtotal decimal.Decimal
}

func (c *coordinator) Sell(ctx context.Context, req dto.SaleRequest) (*dto.SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidRequest)
	}
	channel := req.Channel
	if channel == "" {
		channel = model.ChannelOffline
	}
	if !model.IsChannel(channel) {
		return nil, fmt.Errorf("%w: unknown channel %q", ErrInvalidRequest, channel)
	}
	variantIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		id, err := uuid.Parse(item.VariantID)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: variantId", ErrInvalidRequest, i+1)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d: quantity must be greater than zero", ErrInvalidRequest, i+1)
		}
		variantIDs[i] = id
	}

	var txn model.Transaction
	var notices []LowStockNotice
	err := c.store.Atomically(ctx, func(tx repository.Repos) error {
		seq, err := tx.Transactions().NextNumber(ctx)
		if err != nil {
			return err
		}

		priced := make([]pricedLine, 0, len(req.Items))
		computed := decimal.Zero
		var lineMismatch *PriceMismatchError
		for i, item := range req.Items {
			v, err := tx.Variants().FindByID(ctx, variantIDs[i])
			if err != nil {
				return notFoundAs(err, ErrVariantNotFound)
			}
			price, err := PriceFor(v, channel)
			if err != nil {
				return err
			}
			if item.Price != nil && !item.Price.Equal(price) && lineMismatch == nil {
				lineMismatch = &PriceMismatchError{Declared: *item.Price, Computed: price, VariantID: &v.ID}
			}
			subtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			computed = computed.Add(subtotal)
			priced = append(priced, pricedLine{variant: v, quantity: item.Quantity, price: price, subtotal: subtotal})
		}

		declared := computed
		if req.Total != nil {
			declared = *req.Total
		}
		mismatch := lineMismatch != nil || !declared.Equal(computed)
		if mismatch && c.enforcePrices {
			if lineMismatch != nil {
				return lineMismatch
			}
			return &PriceMismatchError{Declared: declared, Computed: computed}
		}
		if mismatch {
			log.Warn().
				Str("declared", declared.String()).
				Str("computed", computed.String()).
				Msg("sale accepted with price mismatch")
		}

		txn = model.Transaction{
			Number:        FormatTransactionNumber(c.now(), seq),
			Type:          model.TransactionTypeSale,
			Channel:       channel,
			TotalAmount:   declared,
			ComputedTotal: computed,
			PriceMismatch: mismatch,
		}
		if err := tx.Transactions().Create(ctx, &txn); err != nil {
			return err
		}

		adjs := make([]Adjustment, 0, len(priced))
		for _, p := range priced {
			line := model.TransactionLine{
				TransactionID:      txn.ID,
				ItemID:             p.variant.ProductID,
				VariantID:          p.variant.ID,
				Quantity:           p.quantity,
				PriceAtTransaction: p.price,
				Subtotal:           p.subtotal,
			}
			if err := tx.Transactions().CreateLine(ctx, &line); err != nil {
				return notFoundAs(err, ErrItemNotFound)
			}
			adjs = append(adjs, Adjustment{
				ItemID:      p.variant.ProductID,
				Delta:       p.variant.QuantityPerUnit.Mul(decimal.NewFromInt(int64(p.quantity))).Neg(),
				Kind:        model.MovementSale,
				ReferenceID: &txn.ID,
				Note:        txn.Number,
			})
		}
		notices, err = c.ledger.AdjustAll(ctx, tx, adjs, "sale")
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("workflow", "sale").Str("channel", channel).Msg("workflow rolled back")
		return nil, err
	}

	log.Info().
		Str("workflow", "sale").
		Str("transaction_number", txn.Number).
		Str("channel", channel).
		Str("total", txn.TotalAmount.String()).
		Msg("workflow committed")
	c.afterCommit(ctx, notices)
	return &dto.SaleResponse{Success: true, TransactionNumber: txn.Number}, nil
}

// afterCommit runs side effects that must never happen for a rolled back unit
// of work. Failures are logged and do not affect the committed result.
func (c *coordinator) afterCommit(ctx context.Context, notices []LowStockNotice) {
	ctx = context.WithoutCancel(ctx)
	c.cache.Invalidate(ctx)

	for _, n := range dedupeNotices(notices) {
		if c.dispatcher == nil {
			log.Warn().Str("item_id", n.ItemID.String()).Str("item", n.Name).Str("stock", n.Stock.String()).Msg("item at or below minimum stock")
			continue
		}
		err := c.dispatcher.EnqueueLowStock(ctx, worker.LowStockPayload{
			ItemID:   n.ItemID.String(),
			Name:     n.Name,
			Stock:    n.Stock,
			Minimum:  n.Minimum,
			Workflow: n.Workflow,
		})
		if err != nil {
			log.Error().Err(err).Str("item_id", n.ItemID.String()).Msg("failed to enqueue low stock alert")
		}
	}
}

// dedupeNotices keeps the last notice per item, which carries the final stock.
func dedupeNotices(notices []LowStockNotice) []LowStockNotice {
	if len(notices) < 2 {
		return notices
	}
	last := make(map[uuid.UUID]int, len(notices))
	for i, n := range notices {
		last[n.ItemID] = i
	}
	out := make([]LowStockNotice, 0, len(last))
	for i, n := range notices {
		if last[n.ItemID] == i {
			out = append(out, n)
		}
	}
	return out
}
