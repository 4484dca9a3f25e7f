package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/castlemilk/reclaim/internal/model"
)

// debit builds an approved debit dated in the given month (day 10, UTC).
func debit(year int, month time.Month, category string, amount float64) model.Transaction {
	return testTransaction(year, month, category, amount, model.TransactionTypeDebit)
}

// credit builds an approved credit dated in the given month (day 10, UTC).
func credit(year int, month time.Month, category string, amount float64) model.Transaction {
	return testTransaction(year, month, category, amount, model.TransactionTypeCredit)
}

func testTransaction(year int, month time.Month, category string, amount float64, typ model.TransactionType) model.Transaction {
	date := time.Date(year, month, 10, 12, 0, 0, 0, time.UTC)
	return model.Transaction{
		ID:          category + date.Format("2006-01"),
		Date:        date,
		Description: category,
		Amount:      decimal.NewFromFloat(amount),
		Type:        typ,
		Category:    category,
		Status:      model.TransactionStatusApproved,
		Reference:   category + "-" + date.Format("200601"),
	}
}
