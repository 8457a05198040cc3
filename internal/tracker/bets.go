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

// BetManager caches the remote bet collection and applies optimistic
// patches after each successful mutation instead of re-fetching.
//
// Error contract: Add and Update surface the error AND return it, so a
// form can keep its input for correction. UpdateStatus and Delete are
// fire-and-forget row actions: they surface the error but do not
// return it. Exactly one message is retained at a time.
//
// Operations are not queued or deduplicated. Two in-flight mutations
// resolve in completion order, which can leave the cache stale until
// the next sync; accepted for a single human-paced user.
type BetManager struct {
	svc    ledger.Service
	events *amqp.Client

	mu       sync.Mutex
	bets     []core.Bet
	state    SyncState
	lastErr  string
	inFlight map[string]struct{}
}

func NewBetManager(svc ledger.Service, events *amqp.Client) *BetManager {
	return &BetManager{
		svc:      svc,
		events:   events,
		inFlight: make(map[string]struct{}),
	}
}

// Bets returns a copy of the cached collection, newest first.
func (m *BetManager) Bets() []core.Bet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Bet(nil), m.bets...)
}

func (m *BetManager) State() SyncState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the retained error message, empty when none.
func (m *BetManager) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// ClearErr dismisses the retained error banner.
func (m *BetManager) ClearErr() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = ""
}

// Updating reports whether the given record has an in-flight mutation,
// so the UI can disable only the affected row.
func (m *BetManager) Updating(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.inFlight[id]
	return ok
}

// Sync replaces the whole cache with a fresh fetch. A failed sync
// keeps the last known-good contents. The retained error is cleared
// before the attempt, so the banner always reflects the latest sync.
func (m *BetManager) Sync(ctx context.Context) error {
	m.mu.Lock()
	m.state = StateSyncing
	m.lastErr = ""
	m.mu.Unlock()

	bets, err := m.svc.FetchBets(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = StateError
		m.lastErr = err.Error()
		slog.ErrorContext(ctx, "Bet sync failed", "error", err)
		return err
	}
	m.bets = bets
	m.state = StateIdle
	slog.InfoContext(ctx, "Bet collection synced", "count", len(bets))
	return nil
}

// Add creates the bet remotely, then prepends the returned record and
// re-sorts. On failure the cache is untouched and the error is both
// surfaced and returned.
func (m *BetManager) Add(ctx context.Context, in ledger.AddBetInput) (core.Bet, error) {
	b, err := m.svc.AddBet(ctx, in)
	if err != nil {
		m.setErr(fmt.Sprintf("Failed to add bet: %s", err))
		return core.Bet{}, err
	}

	m.mu.Lock()
	m.bets = append([]core.Bet{b}, m.bets...)
	ledger.SortBetsByNewest(m.bets)
	m.mu.Unlock()

	m.publish(ctx, amqp.KindBetAdded, b.ID)
	return b, nil
}

// Update edits every client-settable field of an existing bet and
// re-sorts, since the edit may have moved createdAt.
func (m *BetManager) Update(ctx context.Context, in ledger.EditBetInput) (core.Bet, error) {
	m.markInFlight(in.ID)
	defer m.clearInFlight(in.ID)

	b, err := m.svc.EditBet(ctx, in)
	if err != nil {
		m.setErr(fmt.Sprintf("Failed to update bet: %s", err))
		return core.Bet{}, err
	}

	m.mu.Lock()
	m.replace(b)
	ledger.SortBetsByNewest(m.bets)
	m.mu.Unlock()

	m.publish(ctx, amqp.KindBetEdited, b.ID)
	return b, nil
}

// UpdateStatus settles a bet. No re-sort: createdAt is unaffected. No
// caller is awaiting the result, so the error is surfaced but not
// returned.
func (m *BetManager) UpdateStatus(ctx context.Context, id string, status core.BetStatus) {
	m.markInFlight(id)
	defer m.clearInFlight(id)

	b, err := m.svc.UpdateBetStatus(ctx, id, status)
	if err != nil {
		m.setErr(fmt.Sprintf("Failed to update bet status: %s", err))
		return
	}

	m.mu.Lock()
	m.replace(b)
	m.mu.Unlock()

	m.publish(ctx, amqp.KindBetSettled, id)
}

// Delete removes a bet. Fire-and-forget like UpdateStatus.
func (m *BetManager) Delete(ctx context.Context, id string) {
	m.markInFlight(id)
	defer m.clearInFlight(id)

	if err := m.svc.DeleteBet(ctx, id); err != nil {
		m.setErr(fmt.Sprintf("Failed to delete bet: %s", err))
		return
	}

	m.mu.Lock()
	for i, b := range m.bets {
		if b.ID == id {
			m.bets = append(m.bets[:i], m.bets[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	m.publish(ctx, amqp.KindBetDeleted, id)
}

// replace swaps the matching record in place; callers hold the lock.
func (m *BetManager) replace(b core.Bet) {
	for i := range m.bets {
		if m.bets[i].ID == b.ID {
			m.bets[i] = b
			return
		}
	}
}

func (m *BetManager) setErr(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = msg
}

func (m *BetManager) markInFlight(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight[id] = struct{}{}
}

func (m *BetManager) clearInFlight(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, id)
}

// publish emits a ledger event when a broker is configured. Event
// delivery never affects the mutation outcome.
func (m *BetManager) publish(ctx context.Context, kind, id string) {
	if m.events == nil {
		return
	}
	if err := m.events.PublishLedgerEvent(ctx, amqp.NewLedgerEvent(kind, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", kind, "id", id, "error", err)
	}
}
