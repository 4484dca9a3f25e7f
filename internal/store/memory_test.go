package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlemilk/reclaim/internal/model"
)

func TestList(t *testing.T) {
	l := NewList[int]()
	calls := 0
	unsub := l.Subscribe(func() { calls++ })

	l.Add(1, 2, 3)
	l.Add(4)
	assert.Equal(t, []int{1, 2, 3, 4}, l.All())
	assert.Equal(t, 4, l.Len())
	assert.Equal(t, []int{2, 4}, l.Filter(func(v int) bool { return v%2 == 0 }))
	assert.Equal(t, 2, calls)

	unsub()
	l.Clear()
	assert.Zero(t, l.Len())
	assert.Equal(t, 2, calls)
}

func TestMemoryStore_Health(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	metrics := []model.HealthMetric{
		{Date: day(2024, 1, 1), Steps: model.IntPtr(1000)},
		{Date: day(2024, 1, 5), HeartRate: model.IntPtr(70)},
		{Date: day(2024, 1, 5), HeartRate: model.IntPtr(70)},
		{Date: day(2024, 1, 9), SleepDuration: model.IntPtr(420)},
	}
	n, err := s.AddHealthMetrics(ctx, metrics)
	require.NoError(t, err)
	assert.Equal(t, 4, n, "health metrics are not deduplicated")

	all, err := s.ListHealthMetrics(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	start, end := day(2024, 1, 2), day(2024, 1, 9)
	ranged, err := s.ListHealthMetrics(ctx, &start, &end)
	require.NoError(t, err)
	assert.Len(t, ranged, 3)

	ranged, err = s.ListHealthMetrics(ctx, nil, &start)
	require.NoError(t, err)
	assert.Len(t, ranged, 1)
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.AddTransactions(ctx, []model.Transaction{tx("r1", day(2024, 1, 1), "10", model.TransactionTypeDebit, "A")})
	require.NoError(t, err)
	_, err = s.AddHealthMetrics(ctx, []model.HealthMetric{{Date: day(2024, 1, 1), Steps: model.IntPtr(10)}})
	require.NoError(t, err)
	_, err = s.AddInvoices(ctx, []model.BillingInvoice{{}})
	require.NoError(t, err)
	_, err = s.AddYields(ctx, []model.YieldEntry{{}})
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx, KindHealth))
	health, _ := s.ListHealthMetrics(ctx, nil, nil)
	assert.Empty(t, health)
	txs, _ := s.ListTransactions(ctx, TransactionFilter{})
	assert.Len(t, txs, 1)

	assert.Error(t, s.Clear(ctx, Kind("bogus")))

	require.NoError(t, s.ClearAll(ctx))
	txs, _ = s.ListTransactions(ctx, TransactionFilter{})
	assert.Empty(t, txs)
	invoices, _ := s.ListInvoices(ctx)
	assert.Empty(t, invoices)
	yields, _ := s.ListYields(ctx)
	assert.Empty(t, yields)
}

func TestMemoryStore_SubscribePerKind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var txCalls, healthCalls int
	s.Subscribe(KindTransactions, func() { txCalls++ })
	unsub := s.Subscribe(KindHealth, func() { healthCalls++ })

	_, _ = s.AddTransactions(ctx, []model.Transaction{tx("r1", day(2024, 1, 1), "10", model.TransactionTypeDebit, "A")})
	_, _ = s.AddHealthMetrics(ctx, []model.HealthMetric{{Date: day(2024, 1, 1), Steps: model.IntPtr(10)}})
	assert.Equal(t, 1, txCalls)
	assert.Equal(t, 1, healthCalls)

	unsub()
	_, _ = s.AddHealthMetrics(ctx, []model.HealthMetric{{Date: day(2024, 1, 2), Steps: model.IntPtr(10)}})
	assert.Equal(t, 1, healthCalls)

	noop := s.Subscribe(Kind("bogus"), func() {})
	assert.NotPanics(t, noop)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	_, err := s.AddTransactions(ctx, []model.Transaction{tx("r1", day(2024, 1, 1), "10", model.TransactionTypeDebit, "A")})
	assert.ErrorIs(t, err, context.Canceled)

	txs, _ := s.ListTransactions(context.Background(), TransactionFilter{})
	assert.Empty(t, txs)
}
