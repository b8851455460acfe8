package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

// Creator persists a batch of validated payloads.
type Creator interface {
	CreateBatch(ctx context.Context, payloads []transaction.Payload) ([]*transaction.Transaction, error)
}

type Result struct {
	Profile      string
	Transactions []*transaction.Transaction
}

type Service struct {
	txs Creator
}

func NewService(txs Creator) *Service {
	return &Service{txs: txs}
}

// Import parses r and stores every row, or none of them if any row fails
// validation.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	profile, rows, err := Parse(r)
	if err != nil {
		return nil, err
	}

	payloads := make([]transaction.Payload, len(rows))

	for i, row := range rows {
		if _, err := row.Payload.Validate(); err != nil {
			return nil, &LineError{Line: row.Line, Err: err}
		}

		payloads[i] = row.Payload
	}

	if len(payloads) == 0 {
		return &Result{Profile: profile.Name}, nil
	}

	txs, err := s.txs.CreateBatch(ctx, payloads)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", profile.Name, err)
	}

	return &Result{Profile: profile.Name, Transactions: txs}, nil
}
