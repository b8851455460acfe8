package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finviz/internal/importer"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
	"github.com/MrJamesThe3rd/finviz/internal/transaction/memstore"
)

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	txSvc := transaction.NewService(memstore.New(), nil)
	svc := importer.NewService(txSvc)

	res, err := svc.Import(ctx, strings.NewReader(`date,description,amount
2024-03-05,Coffee,-3.50
2024-03-07,Salary,1000
`))
	require.NoError(t, err)

	assert.Equal(t, "signed", res.Profile)
	require.Len(t, res.Transactions, 2)

	stored, err := txSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "Salary", stored[0].Description)
	assert.Equal(t, transaction.TypeExpense, stored[1].Type)
}

func TestService_Import_RejectsWholeFile(t *testing.T) {
	ctx := context.Background()
	txSvc := transaction.NewService(memstore.New(), nil)
	svc := importer.NewService(txSvc)

	_, err := svc.Import(ctx, strings.NewReader(`date,description,amount
2024-03-05,Coffee,-3.50
2024-03-06,   ,12
`))
	require.Error(t, err)
	assert.True(t, transaction.IsValidation(err))
	assert.Contains(t, err.Error(), "line 3")

	stored, err := txSvc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestService_Import_ZeroAmount(t *testing.T) {
	svc := importer.NewService(transaction.NewService(memstore.New(), nil))

	_, err := svc.Import(context.Background(), strings.NewReader("date,description,amount\n2024-03-05,Nothing,0\n"))
	require.Error(t, err)
	assert.True(t, transaction.IsValidation(err))
}

func TestService_Import_EmptyFile(t *testing.T) {
	svc := importer.NewService(transaction.NewService(memstore.New(), nil))

	res, err := svc.Import(context.Background(), strings.NewReader("date,description,amount\n"))
	require.NoError(t, err)
	assert.Empty(t, res.Transactions)
}
