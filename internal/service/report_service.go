package service

import (
	"context"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/dto"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/infra"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// grossMargin is the flat margin used to estimate gross profit from revenue.
var grossMargin = decimal.NewFromFloat(0.4)

const (
	recentTransactions = 10
	bestSellerCount    = 5
)

// ReportService serves read-only roll-ups. It never opens a unit of work.
type ReportService interface {
	Summary(ctx context.Context) (*dto.ReportResponse, error)
	Receipt(ctx context.Context, number string) ([]byte, error)
}

type reportService struct {
	store repository.Store
}

func NewReportService(store repository.Store) ReportService {
	return &reportService{store: store}
}

// Summary runs the report queries concurrently; any failure fails the report.
func (s *reportService) Summary(ctx context.Context) (*dto.ReportResponse, error) {
	var (
		totals    repository.SalesTotals
		recent    []model.Transaction
		best      []repository.BestSeller
		byChannel map[string]int64
	)
	txs := s.store.Transactions()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = txs.Totals(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = txs.Recent(gctx, recentTransactions)
		return err
	})
	g.Go(func() (err error) {
		best, err = txs.BestSellers(gctx, bestSellerCount)
		return err
	})
	g.Go(func() (err error) {
		byChannel, err = txs.CountByChannel(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &dto.ReportResponse{
		Omzet:             totals.Revenue,
		TransactionCount:  totals.Count,
		GrossProfit:       totals.Revenue.Mul(grossMargin).Round(2),
		RecentTransaction: make([]dto.TransactionSummary, 0, len(recent)),
		BestSellers:       make([]dto.BestSellerResponse, 0, len(best)),
		ChannelCounts:     make(map[string]int64, len(model.Channels)),
	}
	for _, t := range recent {
		resp.RecentTransaction = append(resp.RecentTransaction, dto.TransactionSummary{
			Number:        t.Number,
			Channel:       t.Channel,
			TotalAmount:   t.TotalAmount,
			PriceMismatch: t.PriceMismatch,
			CreatedAt:     t.CreatedAt,
		})
	}
	for _, b := range best {
		resp.BestSellers = append(resp.BestSellers, dto.BestSellerResponse{
			Name:      b.ProductName + " " + b.VariantName,
			TotalSold: b.Quantity,
		})
	}
	for _, ch := range model.Channels {
		resp.ChannelCounts[ch] = byChannel[ch]
	}
	return resp, nil
}

// Receipt renders the PDF receipt of a committed sale.
func (s *reportService) Receipt(ctx context.Context, number string) ([]byte, error) {
	t, err := s.store.Transactions().FindByNumber(ctx, number)
	if err != nil {
		return nil, notFoundAs(err, ErrSaleNotFound)
	}
	return infra.RenderReceiptPDF(t)
}
