package extraction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlemilk/reclaim/internal/model"
)

func TestParseBillingJSON(t *testing.T) {
	data := `[
	  {"billing_concept": "Comisión por venta", "billing_date": "2024-01-31", "billing_type": "CREDIT_NOTE", "reference_number": "A-1", "site_id": "MLA", "total": "1.000,50"},
	  {"billing_date": "2024-02-29", "total": 20},
	  {"billing_concept": "Sin fecha"}
	]`

	invoices, skipped, err := ParseBillingJSON("billing.json", []byte(data))
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	require.Len(t, skipped, 1)
	assert.Equal(t, "invalid billing_date", skipped[0].Reason)

	latest := invoices[0]
	assert.Equal(t, "Sin concepto", latest.BillingConcept)
	assert.Equal(t, "BILL", latest.BillingType)
	assert.Nil(t, latest.SiteID)
	assert.True(t, decimal.NewFromInt(20).Equal(latest.Total))

	first := invoices[1]
	assert.Equal(t, "Comisión por venta", first.BillingConcept)
	require.NotNil(t, first.SiteID)
	assert.Equal(t, "MLA", *first.SiteID)
	assert.Equal(t, "1000.5", first.Total.String())

	summary := SummarizeBilling(invoices)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, "1020.5", summary.TotalAmount.String())
}

func TestParseBillingJSON_NoInvoices(t *testing.T) {
	_, _, err := ParseBillingJSON("billing.json", []byte(`[{"total": 1}]`))
	assert.True(t, IsCode(err, ErrFileParse))
}

func TestParseYieldsJSON(t *testing.T) {
	data := `[
	  {"ledger_datetime": "2024-01-31T03:00:00Z", "amount": "ARS 355,71", "partial_balance": "ARS 100.355,71", "description": "Rendimientos"},
	  {"ledger_datetime": "2024-02-01T03:00:00Z", "amount": "ARS 12,29", "partial_balance": "ARS 100.368,00"},
	  {"ledger_datetime": "2024-02-02T03:00:00Z", "amount": "ARS 1,00"},
	  {"ledger_datetime": "ayer", "amount": "ARS 1,00", "partial_balance": "ARS 1,00"}
	]`

	res, err := ParseYieldsJSON("yields.json", []byte(data))
	require.NoError(t, err)
	require.Len(t, res.Yields, 2)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, "invalid partial_balance", res.Skipped[0].Reason)
	assert.Equal(t, "invalid ledger_datetime", res.Skipped[1].Reason)

	assert.Equal(t, "Rendimiento", res.Yields[0].Description)
	assert.Equal(t, "12.29", res.Yields[0].Amount.String())
	assert.Equal(t, "355.71", res.Yields[1].Amount.String())
	assert.Equal(t, "100355.71", res.Yields[1].PartialBalance.String())

	summary := SummarizeYields(res.Yields)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, "368", summary.TotalYield.String())
	assert.Equal(t, "184", summary.AverageYield.String())
	assert.Equal(t, "355.71", summary.MonthlyYields["2024-01"].String())
	assert.Equal(t, "12.29", summary.MonthlyYields["2024-02"].String())
	assert.True(t, time.Date(2024, 1, 31, 3, 0, 0, 0, time.UTC).Equal(summary.Period.Start))
}

func TestSummarizeYields_Empty(t *testing.T) {
	summary := SummarizeYields(nil)
	assert.Equal(t, 0, summary.Count)
	assert.NotNil(t, summary.Yields)
	assert.True(t, summary.TotalYield.IsZero())
	assert.Equal(t, []model.YieldEntry{}, summary.Yields)
}
