package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlemilk/reclaim/internal/model"
)

func TestParseTabular_ThreeLineScenario(t *testing.T) {
	data := "2024-01-15,Supermercado Coto,1500.00,debit\n" +
		"2024-01-20,Transferencia recibida,5000.00,credit\n" +
		"malformed,line\n"

	res, err := ParseTabular("mp.csv", []byte(data))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 3, res.Skipped[0].Index)
	assert.Equal(t, "fewer than 4 columns", res.Skipped[0].Reason)

	credit := res.Transactions[0]
	assert.Equal(t, "Transferencia recibida", credit.Description)
	assert.Equal(t, model.TransactionTypeCredit, credit.Type)
	assert.Equal(t, "5000", credit.Amount.String())
	assert.Equal(t, CategoryIncome, credit.Category)

	debit := res.Transactions[1]
	assert.Equal(t, model.TransactionTypeDebit, debit.Type)
	assert.Equal(t, "1500", debit.Amount.String())
	assert.Equal(t, "Alimentos", debit.Category)
	assert.Equal(t, DefaultPaymentMethod, debit.PaymentMethod)
	assert.Equal(t, model.TransactionStatusApproved, debit.Status)
	assert.True(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Equal(debit.Date))
	assert.NotEmpty(t, debit.ID)
	raw, ok := debit.RawData.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2024-01-15,Supermercado Coto,1500.00,debit", raw["originalLine"])
}

func TestParseTabular_Direction(t *testing.T) {
	tests := []struct {
		name string
		line string
		want model.TransactionType
	}{
		{"negative amount", "2024-01-15,Compra,-100,credit", model.TransactionTypeDebit},
		{"spanish debit marker", "2024-01-15,Compra,100,Débito", model.TransactionTypeDebit},
		{"egreso marker", "2024-01-15,Compra,100,egreso", model.TransactionTypeDebit},
		{"unsigned credit", "2024-01-15,Cobro,100,ingreso", model.TransactionTypeCredit},
		{"unknown type", "2024-01-15,Algo,100,otro", model.TransactionTypeCredit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseTabular("a.csv", []byte(tt.line))
			require.NoError(t, err)
			require.Len(t, res.Transactions, 1)
			assert.Equal(t, tt.want, res.Transactions[0].Type)
			assert.Equal(t, "100", res.Transactions[0].Amount.String(), "amount is stored unsigned")
		})
	}
}

func TestParseTabular_OptionalColumnsAndQuoting(t *testing.T) {
	data := "Fecha,Descripción,Monto,Tipo,Estado,Referencia\r\n" +
		"15/01/2024,\"Pago Netflix, mensual\",\"-1.234,56\",debit,pendiente,REF-1\r\n" +
		"\r\n" +
		"2024-01-16,Sin fecha valida,abc,debit\r\n" +
		"ayer,Compra,10,debit\r\n"

	res, err := ParseTabular("a.csv", []byte(data))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, "Pago Netflix, mensual", tx.Description)
	assert.Equal(t, "1234.56", tx.Amount.String())
	assert.Equal(t, "Entretenimiento", tx.Category)
	assert.Equal(t, model.TransactionStatusPending, tx.Status)
	assert.Equal(t, "REF-1", tx.Reference)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, Skip{Index: 4, Reason: "invalid amount"}, res.Skipped[0])
	assert.Equal(t, Skip{Index: 5, Reason: "invalid date"}, res.Skipped[1])
}

func TestParseTabular_Errors(t *testing.T) {
	_, err := ParseTabular("a.csv", []byte("\n  \n"))
	assert.True(t, IsCode(err, ErrEmptyFile))

	_, err = ParseTabular("a.csv", []byte("fecha,descripcion,monto,tipo\n"))
	assert.True(t, IsCode(err, ErrFileParse))

	_, err = ParseTabular("a.csv", []byte("x,y\n"))
	assert.True(t, IsCode(err, ErrFileParse))
	assert.Contains(t, err.Error(), "no transactions found")
}

func TestSplitRecord(t *testing.T) {
	assert.Equal(t, []string{"a", "b, c", "d"}, splitRecord(`a,"b, c",d`))
	assert.Equal(t, []string{"a", `say "hi"`, "c"}, splitRecord(`a,"say ""hi""",c`))
	assert.Equal(t, []string{"a", "b", "c"}, splitRecord(" a , b ,c "))
}
