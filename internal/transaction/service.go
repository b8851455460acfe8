package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// CreateTransaction assigns tx.ID, tx.CreatedAt and tx.UpdatedAt.
	CreateTransaction(ctx context.Context, tx *Transaction) error
	// CreateTransactions inserts every tx or none of them.
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	// UpdateTransaction overwrites the mutable fields of the record with tx.ID,
	// refreshes tx.UpdatedAt and loads tx.CreatedAt. Returns ErrNotFound if absent.
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	// ListTransactions returns every record ordered by date, newest first.
	ListTransactions(ctx context.Context) ([]*Transaction, error)
}

// Notifier is told about every acknowledged write so that readers can re-fetch.
type Notifier interface {
	Publish(ctx context.Context, change Change) error
}

type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change invalidates any cached transaction list. It carries no ordering
// guarantee beyond being emitted after the write it describes.
type Change struct {
	Kind ChangeKind `json:"kind"`
	ID   uuid.UUID  `json:"id"`
	At   time.Time  `json:"at"`
}

type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService builds a Service. notifier may be nil.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) List(ctx context.Context) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

func (s *Service) Create(ctx context.Context, p Payload) (*Transaction, error) {
	fields, err := p.Validate()
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		Amount:      fields.Amount,
		Type:        fields.Type,
		Description: fields.Description,
		Date:        fields.Date,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.publish(ctx, ChangeCreated, tx.ID)

	return tx, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, p Payload) (*Transaction, error) {
	fields, err := p.Validate()
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		ID:          id,
		Amount:      fields.Amount,
		Type:        fields.Type,
		Description: fields.Description,
		Date:        fields.Date,
	}
	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.publish(ctx, ChangeUpdated, id)

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, ChangeDeleted, id)

	return nil
}

// CreateBatch validates every payload before writing any of them and then
// stores them in one atomic write. A validation failure names the 1-based
// position of the offending payload.
func (s *Service) CreateBatch(ctx context.Context, payloads []Payload) ([]*Transaction, error) {
	fields := make([]Fields, len(payloads))

	for i, p := range payloads {
		f, err := p.Validate()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}

		fields[i] = f
	}

	if len(fields) == 0 {
		return nil, nil
	}

	txs := make([]*Transaction, len(fields))
	for i, f := range fields {
		txs[i] = &Transaction{
			Amount:      f.Amount,
			Type:        f.Type,
			Description: f.Description,
			Date:        f.Date,
		}
	}

	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	for _, tx := range txs {
		s.publish(ctx, ChangeCreated, tx.ID)
	}

	return txs, nil
}

func (s *Service) publish(ctx context.Context, kind ChangeKind, id uuid.UUID) {
	if s.notifier == nil {
		return
	}

	change := Change{Kind: kind, ID: id, At: time.Now().UTC()}
	if err := s.notifier.Publish(ctx, change); err != nil {
		slog.WarnContext(ctx, "failed to publish change", "kind", kind, "id", id, "error", err)
	}
}
