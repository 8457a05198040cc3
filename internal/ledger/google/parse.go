package google

import (
	"fmt"
	"strconv"
	"strings"

	"myks/internal/core"
)

// Bets sheet layout, one bet per row starting at row 2:
//
//	A id | B description | C stake | D odds | E status | F payout | G createdAt
//
// Transactions sheet layout:
//
//	A id | B type | C amount | D description | E createdAt
const (
	betRowWidth = 7
	txRowWidth  = 5
)

func betFromRow(row []any) (core.Bet, error) {
	if len(row) < betRowWidth {
		return core.Bet{}, fmt.Errorf("bet row has %d cells, want %d", len(row), betRowWidth)
	}

	stake, err := cellFloat(row[2])
	if err != nil {
		return core.Bet{}, fmt.Errorf("stake: %w", err)
	}
	odds, err := cellFloat(row[3])
	if err != nil {
		return core.Bet{}, fmt.Errorf("odds: %w", err)
	}
	payout, err := cellFloat(row[5])
	if err != nil {
		return core.Bet{}, fmt.Errorf("payout: %w", err)
	}

	status := core.BetStatus(strings.ToUpper(cellString(row[4])))
	if !status.Valid() {
		return core.Bet{}, core.ErrInvalidStatus
	}

	createdAt, err := core.ParseTimestamp(cellString(row[6]))
	if err != nil {
		return core.Bet{}, fmt.Errorf("createdAt: %w", err)
	}

	return core.Bet{
		ID:          cellString(row[0]),
		Description: cellString(row[1]),
		Stake:       stake,
		Odds:        odds,
		Status:      status,
		Payout:      payout,
		CreatedAt:   createdAt,
	}, nil
}

func betToRow(b core.Bet) []any {
	return []any{
		b.ID,
		b.Description,
		b.Stake,
		b.Odds,
		string(b.Status),
		b.Payout,
		b.CreatedAt.String(),
	}
}

func transactionFromRow(row []any) (core.Transaction, error) {
	if len(row) < txRowWidth {
		return core.Transaction{}, fmt.Errorf("transaction row has %d cells, want %d", len(row), txRowWidth)
	}

	txType := core.TransactionType(strings.ToUpper(cellString(row[1])))
	if !txType.Valid() {
		return core.Transaction{}, core.ErrInvalidType
	}

	amount, err := cellFloat(row[2])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount: %w", err)
	}

	createdAt, err := core.ParseTimestamp(cellString(row[4]))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("createdAt: %w", err)
	}

	return core.Transaction{
		ID:          cellString(row[0]),
		Type:        txType,
		Amount:      amount,
		Description: cellString(row[3]),
		CreatedAt:   createdAt,
	}, nil
}

func transactionToRow(t core.Transaction) []any {
	return []any{
		t.ID,
		string(t.Type),
		t.Amount,
		t.Description,
		t.CreatedAt.String(),
	}
}

func cellString(v any) string {
	return strings.TrimSpace(fmt.Sprint(v))
}

// cellFloat reads a numeric cell. Sheets returns formatted values as
// strings, sometimes with a comma decimal separator.
func cellFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	s := strings.ReplaceAll(cellString(v), ",", ".")
	if s == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse numeric cell %q: %w", s, err)
	}
	return f, nil
}
