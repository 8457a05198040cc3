package tracker

import (
	"context"
	"errors"
	"testing"

	"myks/internal/core"
	"myks/internal/ledger"
)

// fakeLedger scripts each operation; nil funcs fail the test if called.
type fakeLedger struct {
	t                 *testing.T
	fetchBets         func(ctx context.Context) ([]core.Bet, error)
	addBet            func(ctx context.Context, in ledger.AddBetInput) (core.Bet, error)
	editBet           func(ctx context.Context, in ledger.EditBetInput) (core.Bet, error)
	updateBetStatus   func(ctx context.Context, id string, status core.BetStatus) (core.Bet, error)
	deleteBet         func(ctx context.Context, id string) error
	fetchTransactions func(ctx context.Context) ([]core.Transaction, error)
	addTransaction    func(ctx context.Context, in ledger.AddTransactionInput) (core.Transaction, error)
}

func (f *fakeLedger) FetchBets(ctx context.Context) ([]core.Bet, error) {
	if f.fetchBets == nil {
		f.t.Fatal("unexpected FetchBets call")
	}
	return f.fetchBets(ctx)
}

func (f *fakeLedger) AddBet(ctx context.Context, in ledger.AddBetInput) (core.Bet, error) {
	if f.addBet == nil {
		f.t.Fatal("unexpected AddBet call")
	}
	return f.addBet(ctx, in)
}

func (f *fakeLedger) EditBet(ctx context.Context, in ledger.EditBetInput) (core.Bet, error) {
	if f.editBet == nil {
		f.t.Fatal("unexpected EditBet call")
	}
	return f.editBet(ctx, in)
}

func (f *fakeLedger) UpdateBetStatus(ctx context.Context, id string, status core.BetStatus) (core.Bet, error) {
	if f.updateBetStatus == nil {
		f.t.Fatal("unexpected UpdateBetStatus call")
	}
	return f.updateBetStatus(ctx, id, status)
}

func (f *fakeLedger) DeleteBet(ctx context.Context, id string) error {
	if f.deleteBet == nil {
		f.t.Fatal("unexpected DeleteBet call")
	}
	return f.deleteBet(ctx, id)
}

func (f *fakeLedger) FetchTransactions(ctx context.Context) ([]core.Transaction, error) {
	if f.fetchTransactions == nil {
		f.t.Fatal("unexpected FetchTransactions call")
	}
	return f.fetchTransactions(ctx)
}

func (f *fakeLedger) AddTransaction(ctx context.Context, in ledger.AddTransactionInput) (core.Transaction, error) {
	if f.addTransaction == nil {
		f.t.Fatal("unexpected AddTransaction call")
	}
	return f.addTransaction(ctx, in)
}

func betWithID(id string, year, month, day int) core.Bet {
	return core.Bet{
		ID: id, Stake: 100, Odds: 2, Status: core.StatusPending,
		CreatedAt: core.DayTimestamp(year, month, day),
	}
}

func TestSyncReplacesCollection(t *testing.T) {
	ctx := context.Background()
	fake := &fakeLedger{t: t, fetchBets: func(context.Context) ([]core.Bet, error) {
		return []core.Bet{betWithID("a", 2024, 2, 1), betWithID("b", 2024, 1, 1)}, nil
	}}
	m := NewBetManager(fake, nil)

	if err := m.Sync(ctx); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if got := m.Bets(); len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("unexpected collection: %v", got)
	}
	if m.State() != StateIdle {
		t.Fatalf("state = %v, want idle", m.State())
	}

	fake.fetchBets = func(context.Context) ([]core.Bet, error) {
		return []core.Bet{betWithID("c", 2024, 3, 1)}, nil
	}
	if err := m.Sync(ctx); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if got := m.Bets(); len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("sync should replace, got %v", got)
	}
}

func TestSyncFailureKeepsLastKnownGood(t *testing.T) {
	ctx := context.Background()
	fake := &fakeLedger{t: t, fetchBets: func(context.Context) ([]core.Bet, error) {
		return []core.Bet{betWithID("a", 2024, 2, 1)}, nil
	}}
	m := NewBetManager(fake, nil)
	if err := m.Sync(ctx); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	fake.fetchBets = func(context.Context) ([]core.Bet, error) {
		return nil, errors.New("boom")
	}
	if err := m.Sync(ctx); err == nil {
		t.Fatal("expected sync error")
	}
	if got := m.Bets(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("failed sync should keep last good contents, got %v", got)
	}
	if m.State() != StateError {
		t.Fatalf("state = %v, want error", m.State())
	}
	if m.Err() == "" {
		t.Fatal("error message should be retained")
	}

	// A fresh sync clears the retained error before attempting.
	fake.fetchBets = func(context.Context) ([]core.Bet, error) {
		return []core.Bet{}, nil
	}
	if err := m.Sync(ctx); err != nil {
		t.Fatalf("recovery Sync: %v", err)
	}
	if m.Err() != "" {
		t.Fatalf("error should be cleared, got %q", m.Err())
	}
}

func TestAddFailureLeavesCollectionAndReturnsError(t *testing.T) {
	ctx := context.Background()
	fake := &fakeLedger{
		t: t,
		fetchBets: func(context.Context) ([]core.Bet, error) {
			return []core.Bet{betWithID("a", 2024, 2, 1)}, nil
		},
		addBet: func(context.Context, ledger.AddBetInput) (core.Bet, error) {
			return core.Bet{}, errors.New("remote says no")
		},
	}
	m := NewBetManager(fake, nil)
	m.Sync(ctx)

	_, err := m.Add(ctx, ledger.AddBetInput{Description: "x", Stake: 10, Odds: 2, Status: core.StatusPending})
	if err == nil {
		t.Fatal("Add must return the failure to the caller")
	}
	if got := m.Bets(); len(got) != 1 {
		t.Fatalf("failed Add must leave the collection untouched, got %v", got)
	}
	if m.Err() == "" {
		t.Fatal("failure should be surfaced")
	}
}

func TestAddPrependsAndSorts(t *testing.T) {
	ctx := context.Background()
	added := betWithID("mid", 2024, 1, 15)
	fake := &fakeLedger{
		t: t,
		fetchBets: func(context.Context) ([]core.Bet, error) {
			return []core.Bet{betWithID("new", 2024, 2, 1), betWithID("old", 2024, 1, 1)}, nil
		},
		addBet: func(context.Context, ledger.AddBetInput) (core.Bet, error) {
			return added, nil
		},
	}
	m := NewBetManager(fake, nil)
	m.Sync(ctx)

	if _, err := m.Add(ctx, ledger.AddBetInput{Description: "x", Stake: 10, Odds: 2, Status: core.StatusPending}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got := m.Bets()
	if len(got) != 3 || got[0].ID != "new" || got[1].ID != "mid" || got[2].ID != "old" {
		t.Fatalf("collection not sorted newest first after add: %v", got)
	}
}

func TestUpdateStatusFailureDoesNotReturnError(t *testing.T) {
	ctx := context.Background()
	fake := &fakeLedger{
		t: t,
		fetchBets: func(context.Context) ([]core.Bet, error) {
			return []core.Bet{betWithID("a", 2024, 2, 1)}, nil
		},
		updateBetStatus: func(context.Context, string, core.BetStatus) (core.Bet, error) {
			return core.Bet{}, errors.New("boom")
		},
	}
	m := NewBetManager(fake, nil)
	m.Sync(ctx)

	// Fire-and-forget: no error escapes, collection is untouched, the
	// failure is surfaced.
	m.UpdateStatus(ctx, "a", core.StatusWon)
	got := m.Bets()
	if len(got) != 1 || got[0].Status != core.StatusPending {
		t.Fatalf("failed status update must leave the record, got %v", got)
	}
	if m.Err() == "" {
		t.Fatal("failure should be surfaced")
	}
}

func TestUpdateStatusPatchesInPlace(t *testing.T) {
	ctx := context.Background()
	settled := betWithID("a", 2024, 2, 1)
	settled.Status = core.StatusWon
	settled.Payout = 200
	fake := &fakeLedger{
		t: t,
		fetchBets: func(context.Context) ([]core.Bet, error) {
			return []core.Bet{betWithID("a", 2024, 2, 1), betWithID("b", 2024, 1, 1)}, nil
		},
		updateBetStatus: func(_ context.Context, id string, status core.BetStatus) (core.Bet, error) {
			return settled, nil
		},
	}
	m := NewBetManager(fake, nil)
	m.Sync(ctx)

	m.UpdateStatus(ctx, "a", core.StatusWon)
	got := m.Bets()
	if got[0].Status != core.StatusWon || got[0].Payout != 200 {
		t.Fatalf("record not patched: %+v", got[0])
	}
	if got[1].ID != "b" {
		t.Fatalf("order changed on status update: %v", got)
	}
}

func TestUpdatingFlagDuringMutation(t *testing.T) {
	ctx := context.Background()
	fake := &fakeLedger{t: t, fetchBets: func(context.Context) ([]core.Bet, error) {
		return []core.Bet{betWithID("a", 2024, 2, 1)}, nil
	}}
	m := NewBetManager(fake, nil)
	m.Sync(ctx)

	fake.updateBetStatus = func(_ context.Context, id string, _ core.BetStatus) (core.Bet, error) {
		if !m.Updating(id) {
			t.Error("record should be flagged in-flight during the call")
		}
		if m.Updating("other") {
			t.Error("only the affected record should be flagged")
		}
		return betWithID("a", 2024, 2, 1), nil
	}
	m.UpdateStatus(ctx, "a", core.StatusWon)
	if m.Updating("a") {
		t.Fatal("flag should clear after completion")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	fake := &fakeLedger{
		t: t,
		fetchBets: func(context.Context) ([]core.Bet, error) {
			return []core.Bet{betWithID("a", 2024, 2, 1), betWithID("b", 2024, 1, 1)}, nil
		},
		deleteBet: func(_ context.Context, id string) error { return nil },
	}
	m := NewBetManager(fake, nil)
	m.Sync(ctx)

	m.Delete(ctx, "a")
	if got := m.Bets(); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("delete should remove the record, got %v", got)
	}

	fake.deleteBet = func(context.Context, string) error { return errors.New("boom") }
	m.Delete(ctx, "b")
	if got := m.Bets(); len(got) != 1 {
		t.Fatalf("failed delete must leave the collection, got %v", got)
	}
	if m.Err() == "" {
		t.Fatal("failure should be surfaced")
	}
}

func TestErrRetainsOnlyMostRecent(t *testing.T) {
	ctx := context.Background()
	fake := &fakeLedger{
		t: t,
		addBet: func(context.Context, ledger.AddBetInput) (core.Bet, error) {
			return core.Bet{}, errors.New("first")
		},
	}
	m := NewBetManager(fake, nil)

	m.Add(ctx, ledger.AddBetInput{Description: "x", Stake: 1, Odds: 2, Status: core.StatusPending})
	first := m.Err()

	fake.addBet = func(context.Context, ledger.AddBetInput) (core.Bet, error) {
		return core.Bet{}, errors.New("second")
	}
	m.Add(ctx, ledger.AddBetInput{Description: "x", Stake: 1, Odds: 2, Status: core.StatusPending})
	if m.Err() == first {
		t.Fatal("most recent error should replace the previous one")
	}

	m.ClearErr()
	if m.Err() != "" {
		t.Fatal("ClearErr should dismiss the banner")
	}
}

func TestTransactionManager(t *testing.T) {
	ctx := context.Background()
	deposit := core.Transaction{ID: "t1", Type: core.Deposit, Amount: 500,
		CreatedAt: core.DayTimestamp(2024, 1, 2)}
	fake := &fakeLedger{
		t: t,
		fetchTransactions: func(context.Context) ([]core.Transaction, error) {
			return []core.Transaction{{ID: "t0", Type: core.Deposit, Amount: 100,
				CreatedAt: core.DayTimestamp(2024, 1, 1)}}, nil
		},
		addTransaction: func(context.Context, ledger.AddTransactionInput) (core.Transaction, error) {
			return deposit, nil
		},
	}
	m := NewTransactionManager(fake, nil)

	if err := m.Sync(ctx); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if _, err := m.Add(ctx, ledger.AddTransactionInput{Type: core.Deposit, Amount: 500}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got := m.Transactions()
	if len(got) != 2 || got[0].ID != "t1" {
		t.Fatalf("unexpected collection: %v", got)
	}

	fake.addTransaction = func(context.Context, ledger.AddTransactionInput) (core.Transaction, error) {
		return core.Transaction{}, errors.New("boom")
	}
	if _, err := m.Add(ctx, ledger.AddTransactionInput{Type: core.Withdraw, Amount: 50}); err == nil {
		t.Fatal("Add must return the failure to the caller")
	}
	if len(m.Transactions()) != 2 {
		t.Fatal("failed Add must leave the collection untouched")
	}
	if m.Err() == "" {
		t.Fatal("failure should be surfaced")
	}
}
