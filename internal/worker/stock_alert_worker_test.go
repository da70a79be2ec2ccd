package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/infra"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) Send(to, subject, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

func payload(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(LowStockPayload{
		ItemID:   "6f1c2a8e-8f0e-4a57-9a55-0a3d2b1c9e01",
		Name:     "Flour",
		Stock:    decimal.NewFromInt(2),
		Minimum:  decimal.NewFromInt(5),
		Workflow: "production",
	})
	require.NoError(t, err)
	return raw
}

func TestStockAlertWorker_MailsRecipient(t *testing.T) {
	m := &fakeMailer{}
	w := NewStockAlertWorker(m, "owner@rumahrasa.test", nil)

	require.NoError(t, w.Process(context.Background(), payload(t)))
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0], "owner@rumahrasa.test")
	assert.Contains(t, m.sent[0], "Flour")
}

func TestStockAlertWorker_LogOnlyWithoutRecipient(t *testing.T) {
	m := &fakeMailer{}
	w := NewStockAlertWorker(m, "", nil)

	require.NoError(t, w.Process(context.Background(), payload(t)))
	assert.Empty(t, m.sent)
}

func TestStockAlertWorker_BadPayloadSkipsRetry(t *testing.T) {
	w := NewStockAlertWorker(nil, "", nil)

	err := w.Process(context.Background(), json.RawMessage(`{"name": 12}`))
	assert.ErrorIs(t, err, ErrBadPayload)

	err = w.Process(context.Background(), json.RawMessage(`{"name": "Flour"}`))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestStockAlertWorker_CircuitOpensAfterFailures(t *testing.T) {
	m := &fakeMailer{err: errors.New("smtp down")}
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
	w := NewStockAlertWorker(m, "owner@rumahrasa.test", cb)

	for i := 0; i < 2; i++ {
		assert.Error(t, w.Process(context.Background(), payload(t)))
	}
	err := w.Process(context.Background(), payload(t))
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
}

func TestHandle_UnknownJobType(t *testing.T) {
	err := handle(context.Background(), &Handlers{}, Job{Type: "mystery"})
	assert.ErrorIs(t, err, ErrBadPayload)
}
