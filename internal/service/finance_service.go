package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/castlemilk/reclaim/internal/extraction"
	"github.com/castlemilk/reclaim/internal/model"
	"github.com/castlemilk/reclaim/internal/store"
)

// FinanceService answers read queries over imported data and exports it.
type FinanceService struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewFinanceService(s store.Store, log zerolog.Logger) *FinanceService {
	return &FinanceService{store: s, log: log, now: time.Now}
}

// ListTransactions returns transactions matching filter, newest first.
func (s *FinanceService) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]model.Transaction, error) {
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, extraction.NewValidationError("", "end date is before start date")
	}
	txs, err := s.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	return txs, nil
}

func (s *FinanceService) Summary(ctx context.Context) (model.FinancialSummary, error) {
	return s.store.GetSummary(ctx)
}

func (s *FinanceService) MonthlySummary(ctx context.Context) ([]model.MonthlySummary, error) {
	return s.store.GetMonthlySummary(ctx)
}

// QuickStats reports balance and current-month figures as of now.
func (s *FinanceService) QuickStats(ctx context.Context) (model.QuickStats, error) {
	return s.store.GetQuickStats(ctx, s.now())
}

// HealthMetrics returns stored metrics within an optional inclusive range.
func (s *FinanceService) HealthMetrics(ctx context.Context, start, end *time.Time) ([]model.HealthMetric, error) {
	metrics, err := s.store.ListHealthMetrics(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list health metrics: %w", err)
	}
	if metrics == nil {
		metrics = []model.HealthMetric{}
	}
	return metrics, nil
}

// Billing returns every stored invoice with totals.
func (s *FinanceService) Billing(ctx context.Context) (model.BillingSummary, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return model.BillingSummary{}, fmt.Errorf("failed to list invoices: %w", err)
	}
	return extraction.SummarizeBilling(invoices), nil
}

// Yields returns every stored yield entry with totals and monthly sums.
func (s *FinanceService) Yields(ctx context.Context) (model.YieldsSummary, error) {
	yields, err := s.store.ListYields(ctx)
	if err != nil {
		return model.YieldsSummary{}, fmt.Errorf("failed to list yields: %w", err)
	}
	return extraction.SummarizeYields(yields), nil
}

// ExportCSV writes the filtered transactions as CSV and returns the
// suggested download name.
func (s *FinanceService) ExportCSV(ctx context.Context, w io.Writer, filter store.TransactionFilter) (string, error) {
	txs, err := s.ListTransactions(ctx, filter)
	if err != nil {
		return "", err
	}
	if err := extraction.ExportCSV(w, txs); err != nil {
		return "", err
	}
	s.log.Debug().Int("transactions", len(txs)).Msg("exported transactions")
	return extraction.ExportFileName(s.now()), nil
}

// ClearAll removes every stored record.
func (s *FinanceService) ClearAll(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	s.log.Info().Msg("cleared all data")
	return nil
}
