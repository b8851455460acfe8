package transaction_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	httptx "github.com/MrJamesThe3rd/finviz/internal/http/transaction"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
	"github.com/MrJamesThe3rd/finviz/internal/transaction/memstore"
)

type record struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func newServer(repo transaction.Repository) http.Handler {
	r := chi.NewRouter()
	r.Route("/transactions", httptx.NewHandler(transaction.NewService(repo, nil)).Routes)

	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))

	return v
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		wantStatus int
		wantAmount float64
		wantError  string
	}

	tests := []testCase{
		{
			name:       "numeric amount",
			body:       `{"amount": 250.75, "date": "2024-03-05", "description": "Groceries", "type": "expense"}`,
			wantStatus: http.StatusCreated,
			wantAmount: 250.75,
		},
		{
			name:       "string amount",
			body:       `{"amount": "1000", "date": "2024-03-05T00:00:00.000Z", "description": "Salary", "type": "income"}`,
			wantStatus: http.StatusCreated,
			wantAmount: 1000,
		},
		{
			name:       "exponent amount",
			body:       `{"amount": 1e3, "date": "2024-03-05", "description": "Bonus", "type": "income"}`,
			wantStatus: http.StatusCreated,
			wantAmount: 1000,
		},
		{
			name:       "fractional exponent amount",
			body:       `{"amount": 2.5E-1, "date": "2024-03-05", "description": "Tip", "type": "expense"}`,
			wantStatus: http.StatusCreated,
			wantAmount: 0.25,
		},
		{
			name:       "missing field",
			body:       `{"amount": 10, "date": "2024-03-05", "type": "expense"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "All fields are required",
		},
		{
			name:       "negative amount",
			body:       `{"amount": -5, "date": "2024-03-05", "description": "x", "type": "expense"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Amount must be greater than 0",
		},
		{
			name:       "unknown type",
			body:       `{"amount": 5, "date": "2024-03-05", "description": "x", "type": "transfer"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Type must be income or expense",
		},
		{
			name:       "malformed body",
			body:       `{"amount":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(memstore.New())

			rec := do(t, srv, http.MethodPost, "/transactions/", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode[map[string]string](t, rec)["error"])
				return
			}

			got := decode[record](t, rec)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "2024-03-05", got.Date)
			assert.Equal(t, tt.wantAmount, got.Amount)
			assert.Equal(t, got.CreatedAt, got.UpdatedAt)
		})
	}
}

func TestHandler_ListAfterWrites(t *testing.T) {
	srv := newServer(memstore.New())

	for _, body := range []string{
		`{"amount": 10, "date": "2024-01-10", "description": "old", "type": "expense"}`,
		`{"amount": 20, "date": "2024-03-01", "description": "new", "type": "income"}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/transactions/", body).Code)
	}

	rec := do(t, srv, http.MethodGet, "/transactions/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]record](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Description)
	assert.Equal(t, 20.0, list[0].Amount)
	assert.Equal(t, "old", list[1].Description)
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	srv := newServer(memstore.New())

	created := decode[record](t, do(t, srv, http.MethodPost, "/transactions/",
		`{"amount": 10, "date": "2024-01-10", "description": "coffee", "type": "expense"}`))

	rec := do(t, srv, http.MethodPut, "/transactions/"+created.ID,
		`{"amount": "12.5", "date": "2024-01-11", "description": "coffee beans", "type": "expense"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Transaction updated successfully", decode[map[string]string](t, rec)["message"])

	list := decode[[]record](t, do(t, srv, http.MethodGet, "/transactions/", ""))
	require.Len(t, list, 1)
	assert.Equal(t, "coffee beans", list[0].Description)
	assert.Equal(t, 12.5, list[0].Amount)
	assert.Equal(t, created.CreatedAt, list[0].CreatedAt)
	assert.NotEqual(t, created.UpdatedAt, list[0].UpdatedAt)

	rec = do(t, srv, http.MethodDelete, "/transactions/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Transaction deleted successfully", decode[map[string]string](t, rec)["message"])

	rec = do(t, srv, http.MethodDelete, "/transactions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, decode[[]record](t, do(t, srv, http.MethodGet, "/transactions/", "")))
}

func TestHandler_NotFound(t *testing.T) {
	srv := newServer(memstore.New())
	body := `{"amount": 1, "date": "2024-01-10", "description": "x", "type": "income"}`

	type testCase struct {
		name   string
		method string
		path   string
	}

	tests := []testCase{
		{name: "update unknown", method: http.MethodPut, path: "/transactions/" + uuid.NewString()},
		{name: "delete unknown", method: http.MethodDelete, path: "/transactions/" + uuid.NewString()},
		{name: "update malformed id", method: http.MethodPut, path: "/transactions/not-an-id"},
		{name: "delete malformed id", method: http.MethodDelete, path: "/transactions/not-an-id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, body)
			require.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "Transaction not found", decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestHandler_UpdateValidationBeforeLookup(t *testing.T) {
	srv := newServer(memstore.New())

	rec := do(t, srv, http.MethodPut, "/transactions/"+uuid.NewString(), `{"amount": 1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", decode[map[string]string](t, rec)["error"])
}

func TestHandler_StorageFailure(t *testing.T) {
	storageErr := fmt.Errorf("list: %w: %w", transaction.ErrStorageUnavailable, errors.New("dial tcp: connection refused"))

	type testCase struct {
		name    string
		method  string
		path    string
		body    string
		prepare func(repo *transaction.MockRepository)
		wantMsg string
	}

	valid := `{"amount": 1, "date": "2024-01-10", "description": "x", "type": "income"}`

	tests := []testCase{
		{
			name:   "list",
			method: http.MethodGet,
			path:   "/transactions/",
			prepare: func(repo *transaction.MockRepository) {
				repo.EXPECT().ListTransactions(gomock.Any()).Return(nil, storageErr)
			},
			wantMsg: "Failed to fetch transactions",
		},
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/transactions/",
			body:   valid,
			prepare: func(repo *transaction.MockRepository) {
				repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(storageErr)
			},
			wantMsg: "Failed to create transaction",
		},
		{
			name:   "update",
			method: http.MethodPut,
			path:   "/transactions/" + uuid.NewString(),
			body:   valid,
			prepare: func(repo *transaction.MockRepository) {
				repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(storageErr)
			},
			wantMsg: "Failed to update transaction",
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/transactions/" + uuid.NewString(),
			prepare: func(repo *transaction.MockRepository) {
				repo.EXPECT().DeleteTransaction(gomock.Any(), gomock.Any()).Return(storageErr)
			},
			wantMsg: "Failed to delete transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := transaction.NewMockRepository(ctrl)
			tt.prepare(repo)

			rec := do(t, newServer(repo), tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusInternalServerError, rec.Code)

			body := decode[map[string]string](t, rec)
			assert.Equal(t, tt.wantMsg, body["error"])
			assert.NotContains(t, body["error"], "connection refused")
		})
	}
}
