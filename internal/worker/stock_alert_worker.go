package worker

// stock_alert_worker.go
// Processes low-stock jobs published after a workflow commits: every alert is
// logged, and mailed to the configured address when SMTP is set up.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/infra"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LowStockPayload describes one item that fell to or below its minimum.
type LowStockPayload struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	Stock    decimal.Decimal `json:"stock"`
	Minimum  decimal.Decimal `json:"minimum"`
	Workflow string          `json:"workflow"`
}

// Mailer is the subset of infra.Mailer the alert worker needs.
type Mailer interface {
	Send(to, subject, body string) error
}

type StockAlertWorker struct {
	mailer Mailer
	to     string
	cb     *infra.CircuitBreaker
}

// NewStockAlertWorker builds the worker. A nil mailer or empty recipient turns
// alerts into log lines only.
func NewStockAlertWorker(mailer Mailer, to string, cb *infra.CircuitBreaker) *StockAlertWorker {
	if cb == nil {
		cb = infra.NewCircuitBreaker(infra.DefaultCBConfig())
	}
	return &StockAlertWorker{mailer: mailer, to: to, cb: cb}
}

// Process handles one low-stock job. A returned error makes the pool retry.
func (w *StockAlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var p LowStockPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if p.ItemID == "" {
		return fmt.Errorf("%w: missing itemId", ErrBadPayload)
	}

	log.Warn().
		Str("item_id", p.ItemID).
		Str("item", p.Name).
		Str("stock", p.Stock.String()).
		Str("minimum", p.Minimum.String()).
		Str("workflow", p.Workflow).
		Msg("stock_alert: item at or below minimum")

	if w.mailer == nil || strings.TrimSpace(w.to) == "" {
		return nil
	}

	subject := fmt.Sprintf("[Rumah Rasa] Low stock: %s", p.Name)
	body := fmt.Sprintf("%s is down to %s (minimum %s) after %s.\n",
		p.Name, p.Stock.String(), p.Minimum.String(), p.Workflow)

	if err := w.cb.Execute(func() error { return w.mailer.Send(w.to, subject, body) }); err != nil {
		return fmt.Errorf("stock_alert: send mail: %w", err)
	}
	log.Info().Str("to", w.to).Str("item", p.Name).Msg("stock_alert: mail sent")
	return nil
}
