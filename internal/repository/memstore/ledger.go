package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Suppliers & procurements ─────────────────────────────────────────────────

type supplierRepo struct{ base }

func (r supplierRepo) Create(_ context.Context, s *model.Supplier) error {
	return r.with(func(st *state) error {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.Active = true
		s.CreatedAt = r.now()
		s.UpdatedAt = s.CreatedAt
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r supplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	var out *model.Supplier
	err := r.with(func(st *state) error {
		s, ok := st.suppliers[id]
		if !ok {
			return notFound("supplier", id)
		}
		out = &s
		return nil
	})
	return out, err
}

func (r supplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	err := r.with(func(st *state) error {
		for _, s := range st.suppliers {
			if s.Active {
				out = append(out, s)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b model.Supplier) int { return strings.Compare(a.Name, b.Name) })
	return out, err
}

type procurementRepo struct{ base }

func (r procurementRepo) Create(_ context.Context, p *model.Procurement) error {
	return r.with(func(st *state) error {
		if _, ok := st.suppliers[p.SupplierID]; !ok {
			return notFound("supplier", p.SupplierID)
		}
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.CreatedAt = r.now()
		if p.PurchasedAt.IsZero() {
			p.PurchasedAt = p.CreatedAt
		}
		stored := *p
		stored.Supplier, stored.Lines = nil, nil
		st.procurements = append(st.procurements, stored)
		return nil
	})
}

func (r procurementRepo) CreateLine(_ context.Context, l *model.ProcurementLine) error {
	return r.with(func(st *state) error {
		if !slices.ContainsFunc(st.procurements, func(p model.Procurement) bool { return p.ID == l.ProcurementID }) {
			return notFound("procurement", l.ProcurementID)
		}
		if _, ok := st.items[l.ItemID]; !ok {
			return notFound("item", l.ItemID)
		}
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		stored := *l
		stored.Item = nil
		st.procLines = append(st.procLines, stored)
		return nil
	})
}

func (r procurementRepo) List(_ context.Context) ([]model.Procurement, error) {
	var out []model.Procurement
	err := r.with(func(st *state) error {
		for i := len(st.procurements) - 1; i >= 0; i-- {
			p := st.procurements[i]
			if s, ok := st.suppliers[p.SupplierID]; ok {
				p.Supplier = &s
			}
			out = append(out, p)
		}
		return nil
	})
	slices.SortStableFunc(out, func(a, b model.Procurement) int { return b.PurchasedAt.Compare(a.PurchasedAt) })
	return out, err
}

// ── Transactions ─────────────────────────────────────────────────────────────

type transactionRepo struct{ base }

// NextNumber never hands out the same value twice, even across rolled back
// units of work, matching a database sequence.
func (r transactionRepo) NextNumber(context.Context) (int64, error) {
	return r.store.seq.Add(1), nil
}

func (r transactionRepo) Create(_ context.Context, t *model.Transaction) error {
	return r.with(func(st *state) error {
		for _, existing := range st.transactions {
			if existing.Number == t.Number {
				return fmt.Errorf("memstore: transaction number %s already used", t.Number)
			}
		}
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		if t.Type == "" {
			t.Type = model.TransactionTypeSale
		}
		t.CreatedAt = r.now()
		stored := *t
		stored.Lines = nil
		st.transactions = append(st.transactions, stored)
		return nil
	})
}

func (r transactionRepo) CreateLine(_ context.Context, l *model.TransactionLine) error {
	return r.with(func(st *state) error {
		if !slices.ContainsFunc(st.transactions, func(t model.Transaction) bool { return t.ID == l.TransactionID }) {
			return notFound("transaction", l.TransactionID)
		}
		if _, ok := st.items[l.ItemID]; !ok {
			return notFound("item", l.ItemID)
		}
		if _, ok := st.variants[l.VariantID]; !ok {
			return notFound("variant", l.VariantID)
		}
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		stored := *l
		stored.Item, stored.Variant = nil, nil
		st.txLines = append(st.txLines, stored)
		return nil
	})
}

func (r transactionRepo) FindByNumber(_ context.Context, number string) (*model.Transaction, error) {
	var out *model.Transaction
	err := r.with(func(st *state) error {
		idx := slices.IndexFunc(st.transactions, func(t model.Transaction) bool { return t.Number == number })
		if idx < 0 {
			return notFound("transaction", number)
		}
		t := st.transactions[idx]
		for _, l := range st.txLines {
			if l.TransactionID != t.ID {
				continue
			}
			if it, ok := st.items[l.ItemID]; ok {
				l.Item = &it
			}
			if v, ok := st.variants[l.VariantID]; ok {
				v.ChannelPrices = nil
				l.Variant = &v
			}
			t.Lines = append(t.Lines, l)
		}
		out = &t
		return nil
	})
	return out, err
}

func (r transactionRepo) Totals(context.Context) (repository.SalesTotals, error) {
	totals := repository.SalesTotals{Revenue: decimal.Zero}
	err := r.with(func(st *state) error {
		for _, t := range st.transactions {
			if t.Type != model.TransactionTypeSale {
				continue
			}
			totals.Revenue = totals.Revenue.Add(t.TotalAmount)
			totals.Count++
		}
		return nil
	})
	return totals, err
}

func (r transactionRepo) Recent(_ context.Context, limit int) ([]model.Transaction, error) {
	var out []model.Transaction
	err := r.with(func(st *state) error {
		for i := len(st.transactions) - 1; i >= 0 && len(out) < limit; i-- {
			out = append(out, st.transactions[i])
		}
		return nil
	})
	return out, err
}

func (r transactionRepo) BestSellers(_ context.Context, limit int) ([]repository.BestSeller, error) {
	var out []repository.BestSeller
	err := r.with(func(st *state) error {
		sold := make(map[uuid.UUID]int64)
		for _, l := range st.txLines {
			sold[l.VariantID] += int64(l.Quantity)
		}
		for variantID, qty := range sold {
			v := st.variants[variantID]
			out = append(out, repository.BestSeller{
				VariantID:   variantID,
				ProductName: st.items[v.ProductID].Name,
				VariantName: v.Name,
				Quantity:    qty,
			})
		}
		return nil
	})
	slices.SortFunc(out, func(a, b repository.BestSeller) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return strings.Compare(a.VariantName, b.VariantName)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r transactionRepo) CountByChannel(context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	err := r.with(func(st *state) error {
		for _, t := range st.transactions {
			counts[t.Channel]++
		}
		return nil
	})
	return counts, err
}

// ── Stock movements ──────────────────────────────────────────────────────────

type movementRepo struct{ base }

func (r movementRepo) Create(_ context.Context, m *model.StockMovement) error {
	return r.with(func(st *state) error {
		if _, ok := st.items[m.ItemID]; !ok {
			return notFound("item", m.ItemID)
		}
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		m.CreatedAt = r.now()
		stored := *m
		stored.Item = nil
		st.movements = append(st.movements, stored)
		return nil
	})
}

func (r movementRepo) List(_ context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	filter.Normalize()
	var matched []model.StockMovement
	err := r.with(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if filter.ItemID != nil && m.ItemID != *filter.ItemID {
				continue
			}
			if filter.Kind != "" && m.Kind != filter.Kind {
				continue
			}
			if it, ok := st.items[m.ItemID]; ok {
				m.Item = &it
			}
			matched = append(matched, m)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return []model.StockMovement{}, total, nil
	}
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], total, nil
}
