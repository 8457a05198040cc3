// Package tracker holds the in-memory caches of the two remote
// collections. Each manager owns its slice exclusively: callers get
// copies, mutations go through the remote ledger first and patch the
// cache only on success.
package tracker

// SyncState describes a manager's last sync outcome.
type SyncState int

const (
	StateIdle SyncState = iota
	StateSyncing
	StateError
)

func (s SyncState) String() string {
	switch s {
	case StateSyncing:
		return "syncing"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}
