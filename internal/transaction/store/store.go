package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

// Store persists transactions through database/sql. The queries stay within the
// subset shared by PostgreSQL (pgx) and SQLite (modernc): positional $n
// placeholders used in order and timestamps supplied by the caller.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner.
// Expected column order: id, amount, type, description, date, created_at, updated_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx      transaction.Transaction
		typeStr string
		amount  decimal.Decimal
	)

	if err := s.Scan(&tx.ID, &amount, &typeStr, &tx.Description, &tx.Date, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return nil, err
	}

	tx.Amount = amount
	tx.Type = transaction.Type(typeStr)
	tx.Date = tx.Date.UTC()
	tx.CreatedAt = tx.CreatedAt.UTC()
	tx.UpdatedAt = tx.UpdatedAt.UTC()

	return &tx, nil
}

const selectTransactionColumns = `id, amount, type, description, date, created_at, updated_at`

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, transaction.ErrStorageUnavailable, err)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const insertTransactionQuery = `
	INSERT INTO transactions (id, amount, type, description, date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// timestamp reads the clock at the precision PostgreSQL keeps, so callers
// see exactly what a later read returns.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func insert(ctx context.Context, db execer, tx *transaction.Transaction, id uuid.UUID, now time.Time) error {
	_, err := db.ExecContext(ctx, insertTransactionQuery,
		id,
		tx.Amount.String(),
		string(tx.Type),
		tx.Description,
		tx.Date,
		now,
		now,
	)

	return err
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	id := uuid.New()
	now := s.timestamp()

	if err := insert(ctx, s.db, tx, id, now); err != nil {
		return unavailable("creating transaction", err)
	}

	tx.ID = id
	tx.CreatedAt = now
	tx.UpdatedAt = now

	return nil
}

// CreateTransactions inserts txs in one database transaction. On failure
// nothing is written and txs are left untouched.
func (s *Store) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("beginning batch", err)
	}
	defer dbTx.Rollback()

	ids := make([]uuid.UUID, len(txs))
	stamps := make([]time.Time, len(txs))
	now := s.timestamp()

	for i, tx := range txs {
		ids[i] = uuid.New()
		stamps[i] = now.Add(time.Duration(i) * time.Microsecond)

		if err := insert(ctx, dbTx, tx, ids[i], stamps[i]); err != nil {
			return unavailable(fmt.Sprintf("creating transaction %d of %d", i+1, len(txs)), err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return unavailable("committing batch", err)
	}

	for i, tx := range txs {
		tx.ID = ids[i]
		tx.CreatedAt = stamps[i]
		tx.UpdatedAt = stamps[i]
	}

	return nil
}

// UpdateTransaction moves updated_at strictly past its previous value even
// when the clock has not advanced since the last write.
func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("beginning update", err)
	}
	defer dbTx.Rollback()

	var createdAt, previous time.Time

	err = dbTx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM transactions WHERE id = $1`, tx.ID,
	).Scan(&createdAt, &previous)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return unavailable("updating transaction", err)
	}

	now := s.timestamp()
	if !now.After(previous) {
		now = previous.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}

	query := `
		UPDATE transactions
		SET amount = $1, type = $2, description = $3, date = $4, updated_at = $5
		WHERE id = $6
	`

	_, err = dbTx.ExecContext(ctx, query,
		tx.Amount.String(),
		string(tx.Type),
		tx.Description,
		tx.Date,
		now,
		tx.ID,
	)
	if err != nil {
		return unavailable("updating transaction", err)
	}

	if err := dbTx.Commit(); err != nil {
		return unavailable("committing update", err)
	}

	tx.CreatedAt = createdAt.UTC()
	tx.UpdatedAt = now

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return unavailable("deleting transaction", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("deleting transaction", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("listing transactions", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, unavailable("scanning transaction", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating transactions", err)
	}

	return txs, nil
}
