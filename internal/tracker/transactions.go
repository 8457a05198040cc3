package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"myks/internal/amqp"
	"myks/internal/core"
	"myks/internal/ledger"
)

// TransactionManager caches the remote cash ledger. Transactions are
// append-only: no edit, no delete.
type TransactionManager struct {
	svc    ledger.Service
	events *amqp.Client

	mu      sync.Mutex
	txs     []core.Transaction
	state   SyncState
	lastErr string
}

func NewTransactionManager(svc ledger.Service, events *amqp.Client) *TransactionManager {
	return &TransactionManager{svc: svc, events: events}
}

// Transactions returns a copy of the cached collection, newest first.
func (m *TransactionManager) Transactions() []core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Transaction(nil), m.txs...)
}

func (m *TransactionManager) State() SyncState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *TransactionManager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *TransactionManager) ClearErr() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = ""
}

// Sync replaces the whole cache with a fresh fetch; failures keep the
// last known-good contents.
func (m *TransactionManager) Sync(ctx context.Context) error {
	m.mu.Lock()
	m.state = StateSyncing
	m.lastErr = ""
	m.mu.Unlock()

	txs, err := m.svc.FetchTransactions(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = StateError
		m.lastErr = err.Error()
		slog.ErrorContext(ctx, "Transaction sync failed", "error", err)
		return err
	}
	m.txs = txs
	m.state = StateIdle
	slog.InfoContext(ctx, "Transaction collection synced", "count", len(txs))
	return nil
}

// Add records a deposit or withdrawal. On failure the cache is
// untouched and the error is surfaced and returned, so the form keeps
// its input.
func (m *TransactionManager) Add(ctx context.Context, in ledger.AddTransactionInput) (core.Transaction, error) {
	tx, err := m.svc.AddTransaction(ctx, in)
	if err != nil {
		m.setErr(fmt.Sprintf("Failed to add transaction: %s", err))
		return core.Transaction{}, err
	}

	m.mu.Lock()
	m.txs = append([]core.Transaction{tx}, m.txs...)
	ledger.SortTransactionsByNewest(m.txs)
	m.mu.Unlock()

	if m.events != nil {
		if err := m.events.PublishLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.KindTransactionAdded, tx.ID)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish ledger event",
				"kind", amqp.KindTransactionAdded, "id", tx.ID, "error", err)
		}
	}
	return tx, nil
}

func (m *TransactionManager) setErr(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = msg
}
