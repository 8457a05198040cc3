package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusPending BetStatus = "PENDING"
	StatusWon     BetStatus = "WON"
	StatusLost    BetStatus = "LOST"
)

const (
	Deposit  TransactionType = "DEPOSIT"
	Withdraw TransactionType = "WITHDRAW"
)

type (
	BetStatus string

	TransactionType string

	// Timestamp wraps time.Time so records survive the remote ledger's
	// loose date formats (RFC3339 with or without fractional seconds,
	// or a bare day).
	Timestamp struct {
		time.Time
	}

	Bet struct {
		ID          string    `json:"id"`
		Description string    `json:"description"`
		Stake       float64   `json:"stake"`
		Odds        float64   `json:"odds"`
		Status      BetStatus `json:"status"`
		Payout      float64   `json:"payout"`
		CreatedAt   Timestamp `json:"createdAt"`
	}

	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      float64         `json:"amount"`
		Description string          `json:"description"`
		CreatedAt   Timestamp       `json:"createdAt"`
	}
)

var (
	ErrInvalidStake     = errors.New("stake must be greater than zero")
	ErrInvalidOdds      = errors.New("odds must be greater than 1")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidStatus    = errors.New("invalid bet status")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrBalanceExceeded  = errors.New("amount exceeds available balance")
)

func (s BetStatus) Valid() bool {
	switch s {
	case StatusPending, StatusWon, StatusLost:
		return true
	default:
		return false
	}
}

// Settled reports whether the bet has reached a terminal status.
func (s BetStatus) Settled() bool {
	return s == StatusWon || s == StatusLost
}

func (t TransactionType) Valid() bool {
	switch t {
	case Deposit, Withdraw:
		return true
	default:
		return false
	}
}

// ExpectedPayout returns the payout the remote ledger computes for the
// given fields: stake*odds when WON, zero otherwise. The client never
// trusts a locally supplied payout; this exists for display and for
// backends that stand in for the remote side.
func ExpectedPayout(stake, odds float64, status BetStatus) float64 {
	if status == StatusWon {
		return stake * odds
	}
	return 0
}

func (b Bet) Validate() error {
	if len(strings.TrimSpace(b.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(b.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if b.Stake <= 0 {
		return ErrInvalidStake
	}
	if b.Odds <= 1 {
		return ErrInvalidOdds
	}
	if !b.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// NewTimestamp builds a Timestamp at an exact instant in UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// DayTimestamp builds a Timestamp at midnight UTC of the given day,
// matching how user-chosen bet dates are normalized on save.
func DayTimestamp(year, month, day int) Timestamp {
	return Timestamp{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// StartOfDay truncates the timestamp to midnight UTC.
func (ts Timestamp) StartOfDay() Timestamp {
	y, m, d := ts.UTC().Date()
	return DayTimestamp(y, int(m), d)
}

func (ts Timestamp) IsEmpty() bool {
	return ts.IsZero()
}

// timestampLayouts lists accepted wire formats, most specific first.
// The remote ledger emits RFC3339 with milliseconds; sheet cells
// edited by hand may hold a bare day.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a remote createdAt value.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, ErrInvalidTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t.UTC()}, nil
		}
	}
	return Timestamp{}, ErrInvalidTimestamp
}

// String formats the timestamp the way it is written to the wire.
func (ts Timestamp) String() string {
	return ts.UTC().Format(time.RFC3339)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.UTC().Format(time.RFC3339) + `"`), nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
