package extraction

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/castlemilk/reclaim/internal/model"
)

// ParseBillingJSON parses an array of fee invoices.
func ParseBillingJSON(fileName string, data []byte) ([]model.BillingInvoice, []Skip, error) {
	items, err := decodeArray(fileName, data, "invoices")
	if err != nil {
		return nil, nil, err
	}
	invoices, skipped := parseBillingItems(items)
	if len(invoices) == 0 {
		return nil, skipped, NewFileParseError(fileName, "no invoices found", nil)
	}
	return invoices, skipped, nil
}

func parseBillingItems(items []any) ([]model.BillingInvoice, []Skip) {
	var (
		invoices []model.BillingInvoice
		skipped  []Skip
	)
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			skipped = append(skipped, Skip{Index: i, Reason: "not an object"})
			continue
		}
		date, ok := ParseFlexibleDate(rec["billing_date"])
		if !ok {
			skipped = append(skipped, Skip{Index: i, Reason: "invalid billing_date"})
			continue
		}

		inv := model.BillingInvoice{
			BillingConcept:  defaultString(stringOf(rec["billing_concept"]), "Sin concepto"),
			BillingDate:     date,
			BillingType:     defaultString(stringOf(rec["billing_type"]), "BILL"),
			ReferenceNumber: stringOf(rec["reference_number"]),
			Total:           decimal.Zero,
		}
		if site, ok := rec["site_id"].(string); ok {
			inv.SiteID = &site
		}
		if total, ok := amountOf(rec["total"]); ok {
			inv.Total = total
		}
		invoices = append(invoices, inv)
	}
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].BillingDate.After(invoices[j].BillingDate)
	})
	return invoices, skipped
}

// isBillingRecord sniffs the first record of a JSON array for invoice fields.
func isBillingRecord(items []any) bool {
	if len(items) == 0 {
		return false
	}
	rec, ok := items[0].(map[string]any)
	if !ok {
		return false
	}
	_, concept := rec["billing_concept"]
	_, date := rec["billing_date"]
	return concept || date
}

// SummarizeBilling totals invoices.
func SummarizeBilling(invoices []model.BillingInvoice) model.BillingSummary {
	if invoices == nil {
		invoices = []model.BillingInvoice{}
	}
	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.Total)
	}
	return model.BillingSummary{Invoices: invoices, TotalAmount: total, Count: len(invoices)}
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
