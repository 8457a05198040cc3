// Package ledger defines the port to the remote record store backing
// the tracker: a typed operation surface, the action-tagged wire
// requests, and the error taxonomy shared by all backends.
package ledger

import (
	"context"
	"sort"

	"myks/internal/core"
)

// Service is the typed contract every remote ledger backend satisfies.
// Fetch results are sorted by createdAt descending; mutation calls
// return the single affected record as the remote side stored it
// (payout always recomputed remotely, never trusted from the caller).
type Service interface {
	FetchBets(ctx context.Context) ([]core.Bet, error)
	AddBet(ctx context.Context, in AddBetInput) (core.Bet, error)
	EditBet(ctx context.Context, in EditBetInput) (core.Bet, error)
	UpdateBetStatus(ctx context.Context, id string, status core.BetStatus) (core.Bet, error)
	DeleteBet(ctx context.Context, id string) error
	FetchTransactions(ctx context.Context) ([]core.Transaction, error)
	AddTransaction(ctx context.Context, in AddTransactionInput) (core.Transaction, error)
}

// AddBetInput carries the client-settable bet fields. ID and payout
// are always assigned remotely.
type AddBetInput struct {
	Description string
	Stake       float64
	Odds        float64
	Status      core.BetStatus
	CreatedAt   core.Timestamp
}

func (in AddBetInput) Validate() error {
	b := core.Bet{
		Description: in.Description,
		Stake:       in.Stake,
		Odds:        in.Odds,
		Status:      in.Status,
	}
	return b.Validate()
}

// EditBetInput is a full edit of an existing bet.
type EditBetInput struct {
	ID string
	AddBetInput
}

// AddTransactionInput carries the client-settable transaction fields.
// CreatedAt is always assigned remotely.
type AddTransactionInput struct {
	Type        core.TransactionType
	Amount      float64
	Description string
}

func (in AddTransactionInput) Validate() error {
	t := core.Transaction{
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
	}
	return t.Validate()
}

// SortBetsByNewest orders bets by createdAt descending, in place.
func SortBetsByNewest(bets []core.Bet) {
	sort.SliceStable(bets, func(i, j int) bool {
		return bets[i].CreatedAt.After(bets[j].CreatedAt.Time)
	})
}

// SortTransactionsByNewest orders transactions by createdAt
// descending, in place.
func SortTransactionsByNewest(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt.Time)
	})
}
