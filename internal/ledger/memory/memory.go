// Package memory is an in-process remote ledger: it owns ID assignment
// and payout recomputation exactly like the real endpoint, which makes
// it the default backend for local runs and the double for tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"myks/internal/core"
	"myks/internal/ledger"
)

type Store struct {
	mu   sync.Mutex
	bets []core.Bet
	txs  []core.Transaction
	now  func() time.Time
}

// Ensure interface conformance
var _ ledger.Service = (*Store)(nil)

type Option func(*Store)

// WithNow pins the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) FetchBets(_ context.Context) ([]core.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Bet(nil), s.bets...)
	ledger.SortBetsByNewest(out)
	return out, nil
}

func (s *Store) AddBet(_ context.Context, in ledger.AddBetInput) (core.Bet, error) {
	if err := in.Validate(); err != nil {
		return core.Bet{}, err
	}

	createdAt := in.CreatedAt
	if createdAt.IsEmpty() {
		createdAt = core.NewTimestamp(s.now())
	}
	b := core.Bet{
		ID:          uuid.NewString(),
		Description: in.Description,
		Stake:       in.Stake,
		Odds:        in.Odds,
		Status:      in.Status,
		Payout:      core.ExpectedPayout(in.Stake, in.Odds, in.Status),
		CreatedAt:   createdAt,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bets = append(s.bets, b)
	return b, nil
}

func (s *Store) EditBet(_ context.Context, in ledger.EditBetInput) (core.Bet, error) {
	if err := in.Validate(); err != nil {
		return core.Bet{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.bets {
		if b.ID != in.ID {
			continue
		}
		b.Description = in.Description
		b.Stake = in.Stake
		b.Odds = in.Odds
		b.Status = in.Status
		b.Payout = core.ExpectedPayout(in.Stake, in.Odds, in.Status)
		if !in.CreatedAt.IsEmpty() {
			b.CreatedAt = in.CreatedAt
		}
		s.bets[i] = b
		return b, nil
	}
	return core.Bet{}, ledger.ErrNotFound
}

func (s *Store) UpdateBetStatus(_ context.Context, id string, status core.BetStatus) (core.Bet, error) {
	if !status.Valid() {
		return core.Bet{}, core.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.bets {
		if b.ID != id {
			continue
		}
		b.Status = status
		b.Payout = core.ExpectedPayout(b.Stake, b.Odds, status)
		s.bets[i] = b
		return b, nil
	}
	return core.Bet{}, ledger.ErrNotFound
}

func (s *Store) DeleteBet(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.bets {
		if b.ID == id {
			s.bets = append(s.bets[:i], s.bets[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) FetchTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.txs...)
	ledger.SortTransactionsByNewest(out)
	return out, nil
}

func (s *Store) AddTransaction(_ context.Context, in ledger.AddTransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		ID:          uuid.NewString(),
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		CreatedAt:   core.NewTimestamp(s.now()),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, tx)
	return tx, nil
}
