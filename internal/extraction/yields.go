package extraction

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/castlemilk/reclaim/internal/model"
)

// ParseYieldsJSON parses the investment-yield ledger. Amounts and balances
// use the locale format, e.g. "ARS 355,71".
func ParseYieldsJSON(fileName string, data []byte) (YieldsResult, error) {
	res := YieldsResult{FileName: fileName}
	items, err := decodeArray(fileName, data, "yields")
	if err != nil {
		return res, err
	}

	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			res.Skipped = append(res.Skipped, Skip{Index: i, Reason: "not an object"})
			continue
		}
		date, ok := ParseFlexibleDate(rec["ledger_datetime"])
		if !ok {
			res.Skipped = append(res.Skipped, Skip{Index: i, Reason: "invalid ledger_datetime"})
			continue
		}
		amount, ok := amountOf(rec["amount"])
		if !ok {
			res.Skipped = append(res.Skipped, Skip{Index: i, Reason: "invalid amount"})
			continue
		}
		balance, ok := amountOf(rec["partial_balance"])
		if !ok {
			res.Skipped = append(res.Skipped, Skip{Index: i, Reason: "invalid partial_balance"})
			continue
		}
		res.Yields = append(res.Yields, model.YieldEntry{
			Amount:         amount,
			Description:    defaultString(stringOf(rec["description"]), "Rendimiento"),
			Date:           date,
			PartialBalance: balance,
		})
	}

	if len(res.Yields) == 0 {
		return res, NewFileParseError(fileName, "no yields found", nil)
	}
	sort.SliceStable(res.Yields, func(i, j int) bool {
		return res.Yields[i].Date.After(res.Yields[j].Date)
	})
	return res, nil
}

// SummarizeYields totals yields overall and per UTC month.
func SummarizeYields(yields []model.YieldEntry) model.YieldsSummary {
	if yields == nil {
		yields = []model.YieldEntry{}
	}
	summary := model.YieldsSummary{
		Yields:        yields,
		TotalYield:    decimal.Zero,
		AverageYield:  decimal.Zero,
		Count:         len(yields),
		MonthlyYields: make(map[string]decimal.Decimal),
	}
	if len(yields) == 0 {
		return summary
	}

	summary.Period = model.Period{Start: yields[0].Date, End: yields[0].Date}
	for _, y := range yields {
		summary.TotalYield = summary.TotalYield.Add(y.Amount)
		month := y.Date.UTC().Format("2006-01")
		summary.MonthlyYields[month] = summary.MonthlyYields[month].Add(y.Amount)
		if y.Date.Before(summary.Period.Start) {
			summary.Period.Start = y.Date
		}
		if y.Date.After(summary.Period.End) {
			summary.Period.End = y.Date
		}
	}
	summary.AverageYield = summary.TotalYield.Div(decimal.NewFromInt(int64(len(yields))))
	return summary
}
