package extraction

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/castlemilk/reclaim/internal/model"
)

var exportHeader = []string{"Fecha", "Descripción", "Monto", "Tipo", "Categoría", "Método de Pago", "Estado", "Referencia"}

// ExportCSV writes transactions in the tabular import layout so the output
// can be imported again. Amounts are absolute and Tipo carries the direction.
func ExportCSV(w io.Writer, txs []model.Transaction) error {
	if len(txs) == 0 {
		return NewExportError("csv", "no transactions to export")
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(exportHeader, ","))
	for _, t := range txs {
		buf.WriteByte('\n')
		buf.WriteString(strings.Join([]string{
			exportDate(t.Date),
			escapeCSVField(t.Description),
			t.Amount.String(),
			string(t.Type),
			escapeCSVField(t.Category),
			escapeCSVField(t.PaymentMethod),
			string(t.Status),
			escapeCSVField(t.Reference),
		}, ","))
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &ImportError{Code: ErrExport, Message: "failed to write export", Cause: err}
	}
	return nil
}

// ExportFileName is the suggested download name for an export made at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("reclaim-finanzas-%s.csv", now.UTC().Format("2006-01-02"))
}

// exportDate keeps midnight-UTC dates short and everything else exact.
func exportDate(t time.Time) string {
	u := t.UTC()
	if u.Equal(dayStart(u)) {
		return u.Format("2006-01-02")
	}
	return u.Format(time.RFC3339Nano)
}

func escapeCSVField(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}
