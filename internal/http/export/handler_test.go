package export_test

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finviz/internal/export"
	httpexport "github.com/MrJamesThe3rd/finviz/internal/http/export"
	"github.com/MrJamesThe3rd/finviz/internal/money"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
	"github.com/MrJamesThe3rd/finviz/internal/transaction/memstore"
)

func newServer(t *testing.T, lister export.Lister) http.Handler {
	t.Helper()

	f, err := money.NewFormatter("EUR")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/export", httpexport.NewHandler(export.NewService(lister, f)).Routes)

	return r
}

func TestHandler_CSV(t *testing.T) {
	txSvc := transaction.NewService(memstore.New(), nil)
	_, err := txSvc.Create(context.Background(), transaction.Payload{
		Amount: "42", Date: "2024-03-05", Description: "Books", Type: "expense",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newServer(t, txSvc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="finviz-`)

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, export.Header, records[0])
	assert.Equal(t, []string{"2024-03-05", "Books", "42.00", "expense"}, records[1][:4])
}

type failingLister struct{}

func (failingLister) List(context.Context) ([]*transaction.Transaction, error) {
	return nil, transaction.ErrStorageUnavailable
}

func TestHandler_Failure(t *testing.T) {
	srv := newServer(t, failingLister{})

	for _, path := range []string{"/export/", "/export/report"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, rec.Header().Get("Content-Disposition"))
		assert.Contains(t, rec.Body.String(), "Failed to export transactions")
	}
}

func TestHandler_Report(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(t, transaction.NewService(memstore.New(), nil)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "Overall")
}
