package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingInvoice is a platform fee invoice.
type BillingInvoice struct {
	BillingConcept  string          `json:"billingConcept"`
	BillingDate     time.Time       `json:"billingDate"`
	BillingType     string          `json:"billingType"`
	ReferenceNumber string          `json:"referenceNumber"`
	SiteID          *string         `json:"siteId,omitempty"`
	Total           decimal.Decimal `json:"total"`
}

// BillingSummary totals a set of invoices.
type BillingSummary struct {
	Invoices    []BillingInvoice `json:"invoices"`
	TotalAmount decimal.Decimal  `json:"totalAmount"`
	Count       int              `json:"count"`
}

// YieldEntry is one investment-yield credit plus the balance after it.
type YieldEntry struct {
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Date           time.Time       `json:"date"`
	PartialBalance decimal.Decimal `json:"partialBalance"`
}

// YieldsSummary totals a set of yield entries. MonthlyYields is keyed "2006-01".
type YieldsSummary struct {
	Yields        []YieldEntry               `json:"yields"`
	TotalYield    decimal.Decimal            `json:"totalYield"`
	AverageYield  decimal.Decimal            `json:"averageYield"`
	Count         int                        `json:"count"`
	Period        Period                     `json:"period"`
	MonthlyYields map[string]decimal.Decimal `json:"monthlyYields"`
}
