package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds emitted after successful ledger mutations.
const (
	KindBetAdded         = "bet_added"
	KindBetEdited        = "bet_edited"
	KindBetSettled       = "bet_settled"
	KindBetDeleted       = "bet_deleted"
	KindTransactionAdded = "transaction_added"
)

// LedgerEvent is a lightweight notification that a record changed.
// Consumers re-fetch whatever they need; the event carries no record
// body so stale payloads can never be replayed.
type LedgerEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(kind, id string) *LedgerEvent {
	return &LedgerEvent{Kind: kind, ID: id, Timestamp: time.Now().UTC()}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
