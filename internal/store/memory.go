package store

import (
	"context"
	"fmt"
	"time"

	"github.com/castlemilk/reclaim/internal/model"
)

// MemoryStore implements Store interface with in-memory storage. Nothing
// survives a restart.
type MemoryStore struct {
	financial *FinancialStore
	health    *List[model.HealthMetric]
	invoices  *List[model.BillingInvoice]
	yields    *List[model.YieldEntry]
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		financial: NewFinancialStore(),
		health:    NewList[model.HealthMetric](),
		invoices:  NewList[model.BillingInvoice](),
		yields:    NewList[model.YieldEntry](),
	}
}

// Financial exposes the underlying transaction store.
func (m *MemoryStore) Financial() *FinancialStore {
	return m.financial
}

// Transaction operations

func (m *MemoryStore) AddTransactions(ctx context.Context, txs []model.Transaction) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return m.financial.Add(txs...), nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	return m.financial.Filter(filter), nil
}

func (m *MemoryStore) GetSummary(ctx context.Context) (model.FinancialSummary, error) {
	return m.financial.Summary(), nil
}

func (m *MemoryStore) GetMonthlySummary(ctx context.Context) ([]model.MonthlySummary, error) {
	return m.financial.MonthlySummary(), nil
}

func (m *MemoryStore) GetQuickStats(ctx context.Context, now time.Time) (model.QuickStats, error) {
	return m.financial.QuickStats(now), nil
}

// Health operations

func (m *MemoryStore) AddHealthMetrics(ctx context.Context, metrics []model.HealthMetric) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.health.Add(metrics...)
	return len(metrics), nil
}

// ListHealthMetrics returns metrics dated within [start, end]; nil bounds are open.
func (m *MemoryStore) ListHealthMetrics(ctx context.Context, start, end *time.Time) ([]model.HealthMetric, error) {
	if start == nil && end == nil {
		return m.health.All(), nil
	}
	return m.health.Filter(func(h model.HealthMetric) bool {
		if start != nil && h.Date.Before(*start) {
			return false
		}
		if end != nil && h.Date.After(*end) {
			return false
		}
		return true
	}), nil
}

// Billing and yield operations

func (m *MemoryStore) AddInvoices(ctx context.Context, invoices []model.BillingInvoice) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.invoices.Add(invoices...)
	return len(invoices), nil
}

func (m *MemoryStore) ListInvoices(ctx context.Context) ([]model.BillingInvoice, error) {
	return m.invoices.All(), nil
}

func (m *MemoryStore) AddYields(ctx context.Context, yields []model.YieldEntry) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.yields.Add(yields...)
	return len(yields), nil
}

func (m *MemoryStore) ListYields(ctx context.Context) ([]model.YieldEntry, error) {
	return m.yields.All(), nil
}

func (m *MemoryStore) Clear(ctx context.Context, kind Kind) error {
	switch kind {
	case KindTransactions:
		m.financial.Clear()
	case KindHealth:
		m.health.Clear()
	case KindInvoices:
		m.invoices.Clear()
	case KindYields:
		m.yields.Clear()
	default:
		return fmt.Errorf("unknown collection %q", kind)
	}
	return nil
}

func (m *MemoryStore) ClearAll(ctx context.Context) error {
	for _, k := range []Kind{KindTransactions, KindHealth, KindInvoices, KindYields} {
		if err := m.Clear(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Subscribe(kind Kind, fn func()) func() {
	switch kind {
	case KindTransactions:
		return m.financial.Subscribe(fn)
	case KindHealth:
		return m.health.Subscribe(fn)
	case KindInvoices:
		return m.invoices.Subscribe(fn)
	case KindYields:
		return m.yields.Subscribe(fn)
	}
	return func() {}
}
