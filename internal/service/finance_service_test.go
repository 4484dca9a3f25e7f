package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/castlemilk/reclaim/internal/extraction"
	"github.com/castlemilk/reclaim/internal/model"
	"github.com/castlemilk/reclaim/internal/store"
)

func TestFinanceServiceListTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	svc := NewFinanceService(mockStore, zerolog.Nop())
	ctx := context.Background()

	t.Run("empty result is an empty slice", func(t *testing.T) {
		mockStore.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, nil)

		txs, err := svc.ListTransactions(ctx, store.TransactionFilter{})
		require.NoError(t, err)
		assert.NotNil(t, txs)
		assert.Empty(t, txs)
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.ListTransactions(ctx, store.TransactionFilter{Start: &start, End: &end})
		assert.True(t, extraction.IsCode(err, extraction.ErrValidation))
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		mockStore.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, errors.New("unavailable"))

		_, err := svc.ListTransactions(ctx, store.TransactionFilter{})
		assert.ErrorContains(t, err, "failed to list transactions: unavailable")
	})
}

func TestFinanceServiceExportCSV(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := NewFinanceService(mem, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := svc.ExportCSV(ctx, &buf, store.TransactionFilter{})
		assert.True(t, extraction.IsCode(err, extraction.ErrExport))
		assert.Zero(t, buf.Len())
	})

	_, err := mem.AddTransactions(ctx, []model.Transaction{
		debit(2024, time.January, "Comida", 1500),
		credit(2024, time.February, "Ingreso", 5000),
	})
	require.NoError(t, err)

	t.Run("filtered by category", func(t *testing.T) {
		var buf bytes.Buffer
		name, err := svc.ExportCSV(ctx, &buf, store.TransactionFilter{Category: "Comida"})
		require.NoError(t, err)
		assert.Equal(t, "reclaim-finanzas-2024-03-05.csv", name)

		lines := strings.Split(buf.String(), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "Fecha,"))
		assert.Contains(t, lines[1], ",1500,debit,")
	})

	t.Run("round trip through the tabular parser", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := svc.ExportCSV(ctx, &buf, store.TransactionFilter{})
		require.NoError(t, err)

		res, err := extraction.ParseTabular("export.csv", buf.Bytes())
		require.NoError(t, err)
		original, err := mem.ListTransactions(ctx, store.TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, res.Transactions, len(original))
		for i := range original {
			assert.True(t, original[i].Date.Equal(res.Transactions[i].Date))
			assert.Equal(t, original[i].Description, res.Transactions[i].Description)
			assert.True(t, original[i].Amount.Equal(res.Transactions[i].Amount))
			assert.Equal(t, original[i].Type, res.Transactions[i].Type)
		}
	})
}

func TestFinanceServiceSummaries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	svc := NewFinanceService(mockStore, zerolog.Nop())
	ctx := context.Background()

	t.Run("billing", func(t *testing.T) {
		mockStore.EXPECT().ListInvoices(gomock.Any()).Return([]model.BillingInvoice{
			{BillingConcept: "Comisión", Total: decimal.RequireFromString("100.50")},
			{BillingConcept: "Comisión", Total: decimal.RequireFromString("20")},
		}, nil)

		summary, err := svc.Billing(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Count)
		assert.True(t, summary.TotalAmount.Equal(decimal.RequireFromString("120.50")))
	})

	t.Run("yields", func(t *testing.T) {
		mockStore.EXPECT().ListYields(gomock.Any()).Return([]model.YieldEntry{
			{Amount: decimal.RequireFromString("10"), Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
			{Amount: decimal.RequireFromString("30"), Date: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)},
		}, nil)

		summary, err := svc.Yields(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Count)
		assert.True(t, summary.TotalYield.Equal(decimal.NewFromInt(40)))
		assert.Len(t, summary.MonthlyYields, 2)
	})

	t.Run("quick stats use the service clock", func(t *testing.T) {
		now := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return now }
		mockStore.EXPECT().GetQuickStats(gomock.Any(), now).Return(model.QuickStats{TransactionCount: 3}, nil)

		stats, err := svc.QuickStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TransactionCount)
	})

	t.Run("clear all", func(t *testing.T) {
		mockStore.EXPECT().ClearAll(gomock.Any()).Return(nil)
		assert.NoError(t, svc.ClearAll(ctx))
	})
}
