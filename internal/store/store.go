package store

import (
	"context"
	"time"

	"github.com/castlemilk/reclaim/internal/model"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// Kind names one of the record collections held by a Store.
type Kind string

const (
	KindTransactions Kind = "transactions"
	KindHealth       Kind = "health"
	KindInvoices     Kind = "invoices"
	KindYields       Kind = "yields"
)

// TransactionFilter narrows ListTransactions. Zero values match everything.
type TransactionFilter struct {
	Start    *time.Time
	End      *time.Time
	Category string
}

// Store defines the interface for all data operations used by the services.
type Store interface {
	// Transaction operations
	AddTransactions(ctx context.Context, txs []model.Transaction) (int, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetSummary(ctx context.Context) (model.FinancialSummary, error)
	GetMonthlySummary(ctx context.Context) ([]model.MonthlySummary, error)
	GetQuickStats(ctx context.Context, now time.Time) (model.QuickStats, error)

	// Health operations
	AddHealthMetrics(ctx context.Context, metrics []model.HealthMetric) (int, error)
	ListHealthMetrics(ctx context.Context, start, end *time.Time) ([]model.HealthMetric, error)

	// Billing and yield operations
	AddInvoices(ctx context.Context, invoices []model.BillingInvoice) (int, error)
	ListInvoices(ctx context.Context) ([]model.BillingInvoice, error)
	AddYields(ctx context.Context, yields []model.YieldEntry) (int, error)
	ListYields(ctx context.Context) ([]model.YieldEntry, error)

	// Clear empties one collection, ClearAll every collection.
	Clear(ctx context.Context, kind Kind) error
	ClearAll(ctx context.Context) error

	// Subscribe registers fn to run after every mutation of kind.
	Subscribe(kind Kind, fn func()) (unsubscribe func())
}
