package extraction

import (
	"encoding/csv"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/castlemilk/reclaim/internal/model"
)

const DefaultPaymentMethod = "MercadoPago"

// debitMarkers are type-column values that mark an unsigned amount as
// outgoing. A signed amount always wins over the type column.
var debitMarkers = map[string]bool{
	"debit":  true,
	"débito": true,
	"debito": true,
	"egreso": true,
}

// ParseTabular parses a comma-separated export with columns
// date, description, amount, type[, status, reference]. Rows with fewer than
// four columns or an unreadable date or amount are skipped.
func ParseTabular(fileName string, data []byte) (FinancialResult, error) {
	res := FinancialResult{FileName: fileName}

	lines := splitLines(string(data))
	if len(lines) == 0 {
		return res, NewEmptyFileError(fileName)
	}

	start := 0
	cols := defaultColumns
	if first := strings.ToLower(lines[0].text); strings.Contains(first, "fecha") || strings.Contains(first, "date") {
		start = 1
		cols = columnsFromHeader(splitRecord(lines[0].text))
	}

	for _, line := range lines[start:] {
		fields := splitRecord(line.text)
		if len(fields) < 4 {
			res.Skipped = append(res.Skipped, Skip{Index: line.number, Reason: "fewer than 4 columns"})
			continue
		}

		date, ok := ParseFlexibleDate(fields[0])
		if !ok {
			res.Skipped = append(res.Skipped, Skip{Index: line.number, Reason: "invalid date"})
			continue
		}
		signed, ok := ParseLocaleAmount(fields[2])
		if !ok {
			res.Skipped = append(res.Skipped, Skip{Index: line.number, Reason: "invalid amount"})
			continue
		}

		typ := model.TransactionTypeCredit
		if signed.IsNegative() || debitMarkers[strings.ToLower(fields[3])] {
			typ = model.TransactionTypeDebit
		}
		if typ == model.TransactionTypeDebit && !signed.IsNegative() {
			signed = signed.Neg()
		}

		status := cols.get(fields, cols.status)
		reference := cols.get(fields, cols.reference)
		method := cols.get(fields, cols.paymentMethod)
		if method == "" {
			method = DefaultPaymentMethod
		}

		description := fields[1]
		res.Transactions = append(res.Transactions, model.Transaction{
			ID:            uuid.NewString(),
			Date:          date,
			Description:   description,
			Amount:        signed.Abs(),
			Type:          typ,
			Category:      Classify(description, signed),
			PaymentMethod: method,
			Status:        model.ParseTransactionStatus(status),
			Reference:     reference,
			RawData:       map[string]any{"originalLine": line.text, "columns": fields},
		})
	}

	if len(res.Transactions) == 0 {
		return res, NewFileParseError(fileName, "no transactions found", nil)
	}
	sortNewestFirst(res.Transactions)
	return res, nil
}

// columnLayout locates the optional columns. Without a header, status and
// reference follow the four required columns; with one they are found by
// name, which also covers the eight-column export layout.
type columnLayout struct {
	status        int
	reference     int
	paymentMethod int
}

var defaultColumns = columnLayout{status: 4, reference: 5, paymentMethod: -1}

func columnsFromHeader(header []string) columnLayout {
	layout := columnLayout{status: -1, reference: -1, paymentMethod: -1}
	for i, h := range header {
		switch strings.ToLower(h) {
		case "estado", "status":
			layout.status = i
		case "referencia", "reference":
			layout.reference = i
		case "método de pago", "metodo de pago", "payment method", "payment_method":
			layout.paymentMethod = i
		}
	}
	if layout.status < 0 && layout.reference < 0 {
		layout.status, layout.reference = defaultColumns.status, defaultColumns.reference
	}
	return layout
}

func (c columnLayout) get(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

type numberedLine struct {
	number int
	text   string
}

// splitLines drops blank lines and keeps 1-based source line numbers.
func splitLines(content string) []numberedLine {
	var out []numberedLine
	for i, l := range strings.Split(content, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, numberedLine{number: i + 1, text: l})
	}
	return out
}

// splitRecord splits one line into trimmed fields. Double-quoted fields may
// contain commas and escaped quotes. Lines the csv reader rejects fall back
// to a plain comma split with quotes stripped.
func splitRecord(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	fields, err := r.Read()
	if err != nil {
		fields = strings.Split(line, ",")
		for i, f := range fields {
			fields[i] = strings.ReplaceAll(f, `"`, "")
		}
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func sortNewestFirst(txs []model.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}
