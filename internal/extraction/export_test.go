package extraction

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlemilk/reclaim/internal/model"
)

func TestExportCSV_RoundTrip(t *testing.T) {
	original := []model.Transaction{
		{
			Date:        time.Date(2024, 1, 20, 15, 4, 5, 123000000, time.UTC),
			Description: `Pago "Netflix", mensual`,
			Amount:      decimal.RequireFromString("1234.56"),
			Type:        model.TransactionTypeDebit,
			Category:    "Entretenimiento",
			Status:      model.TransactionStatusApproved,
			Reference:   "REF-2",
		},
		{
			Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Description:   "Transferencia recibida",
			Amount:        decimal.RequireFromString("5000"),
			Type:          model.TransactionTypeCredit,
			Category:      CategoryIncome,
			PaymentMethod: DefaultPaymentMethod,
			Status:        model.TransactionStatusPending,
			Reference:     "REF-1",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, original))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Fecha,Descripción,Monto,Tipo,Categoría,Método de Pago,Estado,Referencia", lines[0])
	assert.Equal(t, `2024-01-20T15:04:05.123Z,"Pago ""Netflix"", mensual",1234.56,debit,Entretenimiento,,approved,REF-2`, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "2024-01-15,Transferencia recibida,5000,credit,"))

	res, err := ParseTabular("export.csv", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, res.Transactions, len(original))
	for i, want := range original {
		got := res.Transactions[i]
		assert.True(t, want.Date.Equal(got.Date), "date %d", i)
		assert.Equal(t, want.Description, got.Description)
		assert.True(t, want.Amount.Equal(got.Amount), "amount %d", i)
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.Category, got.Category)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.Reference, got.Reference)
	}
}

func TestExportCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := ExportCSV(&buf, nil)
	assert.True(t, IsCode(err, ErrExport))
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestExportCSV_WriteFailure(t *testing.T) {
	err := ExportCSV(failingWriter{}, []model.Transaction{{Amount: decimal.NewFromInt(1), Type: model.TransactionTypeDebit}})
	require.True(t, IsCode(err, ErrExport))
	assert.ErrorContains(t, err, "closed pipe")
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "reclaim-finanzas-2024-03-05.csv", ExportFileName(time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)))
}
