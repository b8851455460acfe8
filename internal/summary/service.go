package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

// Lister supplies the full transaction list, newest first.
type Lister interface {
	List(ctx context.Context) ([]*transaction.Transaction, error)
}

// Dashboard is everything a presentation needs after a re-fetch.
type Dashboard struct {
	Transactions []*transaction.Transaction
	Summary      Summary
	Monthly      []Month
}

// Service recomputes aggregates from a fresh list on every call; nothing is cached.
type Service struct {
	txs Lister
	now func() time.Time
}

func NewService(txs Lister) *Service {
	return NewServiceWithClock(txs, time.Now)
}

// NewServiceWithClock decides the current month with now instead of the wall clock.
func NewServiceWithClock(txs Lister, now func() time.Time) *Service {
	return &Service{txs: txs, now: now}
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	txs, err := s.txs.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("listing transactions: %w", err)
	}

	return Summarize(txs, s.now()), nil
}

func (s *Service) Monthly(ctx context.Context) ([]Month, error) {
	txs, err := s.txs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return MonthlySeries(txs), nil
}

// Dashboard fetches once and derives both views from the same snapshot.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	txs, err := s.txs.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("listing transactions: %w", err)
	}

	return Dashboard{
		Transactions: txs,
		Summary:      Summarize(txs, s.now()),
		Monthly:      MonthlySeries(txs),
	}, nil
}
