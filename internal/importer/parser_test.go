package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/finviz/internal/importer"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

func assertRow(t *testing.T, row importer.Row, date, desc, amount string, typ transaction.Type) {
	t.Helper()

	assert.Equal(t, date, row.Payload.Date)
	assert.Equal(t, desc, row.Payload.Description)
	assert.True(t, decimal.RequireFromString(amount).Equal(decimal.RequireFromString(row.Payload.Amount)),
		"amount %s, want %s", row.Payload.Amount, amount)
	assert.Equal(t, string(typ), row.Payload.Type)
}

func TestParse_CGDConta(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	profile, rows, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "cgd-conta", profile.Name)
	assertRow(t, rows[0], "2026-01-30", "INSTITUTO GESTAO FINA", "588.74", transaction.TypeExpense)
	assertRow(t, rows[1], "2026-01-09", "TFI Wise", "8608.52", transaction.TypeIncome)
	assert.Equal(t, 10, rows[0].Line)
	assert.Equal(t, 11, rows[1].Line)
}

func TestParse_CGDExtrato(t *testing.T) {
	csv := `Consultar extrato - 15-02-2026 : 0000
Conta ;0000 - EUR - Conta Extracto

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

	profile, rows, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "cgd-extrato", profile.Name)
	assertRow(t, rows[0], "2026-02-13", "PAGAMENTO TSU", "608.13", transaction.TypeExpense)
	assertRow(t, rows[1], "2026-02-04", "TFI Wise", "4324.06", transaction.TypeIncome)
}

func TestParse_CGDCartao(t *testing.T) {
	csv := `Consultar saldos e movimentos de cartões - 15-02-2026
Desde ;15/12/2025

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR ;64,00 ; ;
17-12-2025 ;15-12-2025 ;REFUND AMAZON ;  ;25,00 ;
 ; ; ; ;Página 1/2 ;
`

	profile, rows, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "cgd-cartao", profile.Name)
	assertRow(t, rows[0], "2025-12-16", "PA GONDOMAR", "64", transaction.TypeExpense)
	assertRow(t, rows[1], "2025-12-17", "REFUND AMAZON", "25", transaction.TypeIncome)
}

func TestParse_Generic(t *testing.T) {
	type testCase struct {
		name    string
		csv     string
		profile string
		verify  func(t *testing.T, rows []importer.Row)
	}

	tests := []testCase{
		{
			name: "exported file round trips",
			csv: `date,description,amount,type,id
2024-03-05,Salary,50000,income,6f1c
2024-03-06,"Rent, March",12000.5,expense,9a2b
`,
			profile: "finviz",
			verify: func(t *testing.T, rows []importer.Row) {
				assertRow(t, rows[0], "2024-03-05", "Salary", "50000", transaction.TypeIncome)
				assertRow(t, rows[1], "2024-03-06", "Rent, March", "12000.5", transaction.TypeExpense)
			},
		},
		{
			name: "signed amounts with semicolons",
			csv: `Date;Description;Amount
2024-03-05;Groceries;-1.234,50
05/03/2024;Refund;20,00
`,
			profile: "signed",
			verify: func(t *testing.T, rows []importer.Row) {
				assertRow(t, rows[0], "2024-03-05", "Groceries", "1234.5", transaction.TypeExpense)
				assertRow(t, rows[1], "2024-03-05", "Refund", "20", transaction.TypeIncome)
			},
		},
		{
			name: "split debit and credit",
			csv: `Date,Description,Debit,Credit
2024-03-05,Coffee,3.50,
2024-03-07,Transfer in,,100
`,
			profile: "split",
			verify: func(t *testing.T, rows []importer.Row) {
				assertRow(t, rows[0], "2024-03-05", "Coffee", "3.5", transaction.TypeExpense)
				assertRow(t, rows[1], "2024-03-07", "Transfer in", "100", transaction.TypeIncome)
			},
		},
		{
			name: "different column order and footer",
			csv: `Amount;Description;Date;Ignored
-10,00;TEST_ORDER;2026-01-30;XXX
Total;;;
`,
			profile: "signed",
			verify: func(t *testing.T, rows []importer.Row) {
				require.Len(t, rows, 1)
				assertRow(t, rows[0], "2026-01-30", "TEST_ORDER", "10", transaction.TypeExpense)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, rows, err := importer.Parse(strings.NewReader(tt.csv))
			require.NoError(t, err)
			require.NotEmpty(t, rows)

			assert.Equal(t, tt.profile, profile.Name)
			tt.verify(t, rows)
		})
	}
}

func TestParse_Latin1(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"))
	require.NoError(t, err)

	_, rows, err := importer.Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "CAFÉ CENTRAL", rows[0].Payload.Description)
}

func TestParse_HeaderOnly(t *testing.T) {
	_, rows, err := importer.Parse(strings.NewReader("date,description,amount"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParse_Unrecognized(t *testing.T) {
	for _, csv := range []string{"", "foo,bar\n1,2\n"} {
		_, _, err := importer.Parse(strings.NewReader(csv))
		assert.ErrorIs(t, err, importer.ErrUnrecognized)
	}
}

func TestParse_BadAmountReportsLine(t *testing.T) {
	csv := `date,description,amount
2024-03-05,Coffee,3.50
2024-03-06,Lunch,n/a
`

	_, _, err := importer.Parse(strings.NewReader(csv))
	require.Error(t, err)

	var lineErr *importer.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 3, lineErr.Line)
	assert.True(t, transaction.IsValidation(err))
}
