package extraction

import "github.com/castlemilk/reclaim/internal/model"

// FinancialResult is what a financial parser returns for one file. A
// container file can carry both transactions and invoices.
type FinancialResult struct {
	FileName     string
	Transactions []model.Transaction
	Invoices     []model.BillingInvoice
	Skipped      []Skip
	Warnings     []string
}

func (r *FinancialResult) merge(other FinancialResult) {
	r.Transactions = append(r.Transactions, other.Transactions...)
	r.Invoices = append(r.Invoices, other.Invoices...)
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// HealthResult is the daily-aggregated output for one health file.
type HealthResult struct {
	FileName string
	Metrics  []model.HealthMetric
	Skipped  []Skip
	Warnings []string
}

// YieldsResult is the parsed yield ledger for one file.
type YieldsResult struct {
	FileName string
	Yields   []model.YieldEntry
	Skipped  []Skip
}
