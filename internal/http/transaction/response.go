package transaction

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

// Response is the JSON shape of a transaction shared by the API and the CLI.
type Response struct {
	ID          uuid.UUID        `json:"id"`
	Amount      float64          `json:"amount"`
	Type        transaction.Type `json:"type"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func NewResponse(tx *transaction.Transaction) Response {
	return Response{
		ID:          tx.ID,
		Amount:      tx.Amount.InexactFloat64(),
		Type:        tx.Type,
		Description: tx.Description,
		Date:        tx.Date.Format(time.DateOnly),
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func NewResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = NewResponse(tx)
	}

	return resp
}

// transactionRequest carries the raw form values. Amount may arrive as a JSON
// number or a string; both are handed to validation as text.
type transactionRequest struct {
	Amount      amountField `json:"amount"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
}

func (r transactionRequest) payload() transaction.Payload {
	return transaction.Payload{
		Amount:      string(r.Amount),
		Date:        r.Date,
		Description: r.Description,
		Type:        r.Type,
	}
}

type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*a = amountField(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}

	*a = amountField(n.String())

	return nil
}
