// Package model holds the canonical record types produced by the import
// pipeline and the derived views computed from them.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a money movement.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// TransactionStatus is the settlement state reported by the payment platform.
type TransactionStatus string

const (
	TransactionStatusApproved TransactionStatus = "approved"
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusRejected TransactionStatus = "rejected"
)

// ParseTransactionStatus maps a free-text status to the enum. Unknown or
// empty values are treated as approved.
func ParseTransactionStatus(raw string) TransactionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending", "pendiente", "in_process", "in_mediation":
		return TransactionStatusPending
	case "rejected", "rechazado", "rechazada", "cancelled", "canceled", "refunded":
		return TransactionStatusRejected
	default:
		return TransactionStatusApproved
	}
}

// Transaction is a single financial movement. Amount is always non-negative;
// direction lives in Type.
type Transaction struct {
	ID            string            `json:"id"`
	Date          time.Time         `json:"date"`
	Description   string            `json:"description"`
	Amount        decimal.Decimal   `json:"amount"`
	Type          TransactionType   `json:"type"`
	Category      string            `json:"category"`
	PaymentMethod string            `json:"paymentMethod"`
	Status        TransactionStatus `json:"status"`
	Reference     string            `json:"reference"`
	RawData       any               `json:"-"`
}

// DedupKey identifies a transaction for deduplication: two records with the
// same reference, instant and amount are the same movement.
func (t Transaction) DedupKey() string {
	return fmt.Sprintf("%s|%d|%s", t.Reference, t.Date.UnixNano(), t.Amount.String())
}

// Signed returns the amount with its direction applied.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// CategoryTotal is the summed debit amount for one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// Period is an inclusive time span.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FinancialSummary is recomputed from the full transaction set on every add.
type FinancialSummary struct {
	TotalCredits     decimal.Decimal `json:"totalCredits"`
	TotalDebits      decimal.Decimal `json:"totalDebits"`
	NetBalance       decimal.Decimal `json:"netBalance"`
	TransactionCount int             `json:"transactionCount"`
	Period           Period          `json:"period"`
	TopCategories    []CategoryTotal `json:"topCategories"`
}

// MonthlySummary totals one calendar month (UTC), keyed "2006-01".
type MonthlySummary struct {
	Month            string          `json:"month"`
	Credits          decimal.Decimal `json:"credits"`
	Debits           decimal.Decimal `json:"debits"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int             `json:"transactionCount"`
}

// QuickStats backs the dashboard headline cards.
type QuickStats struct {
	TotalBalance          decimal.Decimal `json:"totalBalance"`
	MonthlyCredits        decimal.Decimal `json:"monthlyCredits"`
	MonthlyDebits         decimal.Decimal `json:"monthlyDebits"`
	MonthlyNet            decimal.Decimal `json:"monthlyNet"`
	TransactionCount      int             `json:"transactionCount"`
	MonthlyTransactionCnt int             `json:"monthlyTransactionCount"`
}
