package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"myks/internal/core"
	"myks/internal/ledger"
)

func TestPayoutRecomputeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	won, err := s.AddBet(ctx, ledger.AddBetInput{
		Description: "final",
		Stake:       1000,
		Odds:        2.0,
		Status:      core.StatusWon,
	})
	if err != nil {
		t.Fatalf("AddBet: %v", err)
	}
	if won.Payout != 2000 {
		t.Fatalf("payout = %v, want 2000", won.Payout)
	}
	if won.ID == "" {
		t.Fatal("store must assign an id")
	}

	lost, err := s.UpdateBetStatus(ctx, won.ID, core.StatusLost)
	if err != nil {
		t.Fatalf("UpdateBetStatus: %v", err)
	}
	if lost.Payout != 0 {
		t.Fatalf("payout after LOST = %v, want 0", lost.Payout)
	}
}

func TestEditBetRecomputesPayout(t *testing.T) {
	ctx := context.Background()
	s := New()

	b, _ := s.AddBet(ctx, ledger.AddBetInput{
		Description: "opener", Stake: 100, Odds: 2, Status: core.StatusPending,
	})

	edited, err := s.EditBet(ctx, ledger.EditBetInput{
		ID: b.ID,
		AddBetInput: ledger.AddBetInput{
			Description: "opener", Stake: 200, Odds: 3, Status: core.StatusWon,
		},
	})
	if err != nil {
		t.Fatalf("EditBet: %v", err)
	}
	if edited.Payout != 600 {
		t.Fatalf("payout = %v, want 600", edited.Payout)
	}

	if _, err := s.EditBet(ctx, ledger.EditBetInput{
		ID:          "missing",
		AddBetInput: ledger.AddBetInput{Description: "x", Stake: 1, Odds: 2, Status: core.StatusPending},
	}); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBet(t *testing.T) {
	ctx := context.Background()
	s := New()

	b, _ := s.AddBet(ctx, ledger.AddBetInput{
		Description: "gone", Stake: 10, Odds: 2, Status: core.StatusPending,
	})
	if err := s.DeleteBet(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBet: %v", err)
	}
	bets, _ := s.FetchBets(ctx)
	if len(bets) != 0 {
		t.Fatalf("expected empty store, got %d bets", len(bets))
	}
	if err := s.DeleteBet(ctx, b.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchBetsSorted(t *testing.T) {
	ctx := context.Background()
	s := New()

	older, _ := s.AddBet(ctx, ledger.AddBetInput{
		Description: "older", Stake: 10, Odds: 2, Status: core.StatusPending,
		CreatedAt: core.DayTimestamp(2024, 1, 1),
	})
	newer, _ := s.AddBet(ctx, ledger.AddBetInput{
		Description: "newer", Stake: 10, Odds: 2, Status: core.StatusPending,
		CreatedAt: core.DayTimestamp(2024, 2, 1),
	})

	bets, _ := s.FetchBets(ctx)
	if bets[0].ID != newer.ID || bets[1].ID != older.ID {
		t.Fatalf("bets not sorted newest first: %v", bets)
	}
}

func TestTransactionsAppendOnly(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithNow(func() time.Time { return now }))

	tx, err := s.AddTransaction(ctx, ledger.AddTransactionInput{
		Type: core.Deposit, Amount: 10000,
	})
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if tx.ID == "" || !tx.CreatedAt.Equal(now) {
		t.Fatalf("unexpected record: %+v", tx)
	}

	if _, err := s.AddTransaction(ctx, ledger.AddTransactionInput{
		Type: core.Withdraw, Amount: -5,
	}); err == nil {
		t.Fatal("negative amount should fail validation")
	}

	txs, _ := s.FetchTransactions(ctx)
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
}
