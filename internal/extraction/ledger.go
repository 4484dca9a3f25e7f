package extraction

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/castlemilk/reclaim/internal/model"
)

// ParseLedgerJSON parses the account-ledger export: a JSON array of entries
// with creation_date, value, title, type and status.
//
// The export has no transaction id, so the raw creation_date doubles as the
// reference. Two distinct entries at the same instant with the same amount
// therefore collapse into one on import.
func ParseLedgerJSON(fileName string, data []byte) (FinancialResult, error) {
	items, err := decodeArray(fileName, data, "transactions")
	if err != nil {
		return FinancialResult{FileName: fileName}, err
	}
	res := parseLedgerItems(fileName, items)
	if len(res.Transactions) == 0 {
		return res, NewFileParseError(fileName, "no transactions found", nil)
	}
	return res, nil
}

func parseLedgerItems(fileName string, items []any) FinancialResult {
	res := FinancialResult{FileName: fileName}
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			res.Skipped = append(res.Skipped, Skip{Index: i, Reason: "not an object"})
			continue
		}

		rawDate := rec["creation_date"]
		date, ok := ParseFlexibleDate(rawDate)
		if !ok {
			res.Skipped = append(res.Skipped, Skip{Index: i, Reason: "invalid creation_date"})
			continue
		}
		signed, ok := amountOf(rec["value"])
		if !ok {
			res.Skipped = append(res.Skipped, Skip{Index: i, Reason: "invalid value"})
			continue
		}

		title := stringOf(rec["title"])
		entryType := stringOf(rec["type"])
		typ := model.TransactionTypeCredit
		if signed.IsNegative() {
			typ = model.TransactionTypeDebit
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			ID:            uuid.NewString(),
			Date:          date,
			Description:   title,
			Amount:        signed.Abs(),
			Type:          typ,
			Category:      ClassifyLedgerEntry(title, entryType, signed),
			PaymentMethod: DefaultPaymentMethod,
			Status:        model.ParseTransactionStatus(stringOf(rec["status"])),
			Reference:     fmt.Sprint(rawDate),
			RawData:       rec,
		})
	}
	sortNewestFirst(res.Transactions)
	return res
}

// decodeArray unmarshals data and requires a top-level JSON array.
func decodeArray(fileName string, data []byte, what string) ([]any, error) {
	if len(trimSpaceBytes(data)) == 0 {
		return nil, NewEmptyFileError(fileName)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, NewFileParseError(fileName, "invalid JSON", err)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, NewValidationError(fileName, fmt.Sprintf("JSON must be an array of %s", what))
	}
	return items, nil
}

func amountOf(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case string:
		return ParseLocaleAmount(n)
	case float64:
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	}
	return decimal.Zero, false
}

func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func trimSpaceBytes(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isSpace(b[start]) {
		start++
	}
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}
