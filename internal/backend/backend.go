// Package backend selects and constructs the ledger service the
// tracker runs against: the Apps Script web app, the Sheets API
// directly, or an in-memory store for development and tests.
package backend

import (
	"context"

	"myks/internal/ledger"
	"myks/internal/ledger/webapp"
)

// Type identifies a ledger backend.
type Type string

const (
	WebAppBackend Type = "webapp"
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case WebAppBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result holds the constructed service and its optional cleanup.
type Result struct {
	Service ledger.Service
	Cleanup CleanupFunc
}

// Factory creates ledger backends based on configuration.
type Factory interface {
	// CreateBackend builds the ledger service for the configured
	// backend type. The URL source feeds the webapp backend and is
	// ignored by the others.
	CreateBackend(ctx context.Context, urls webapp.URLSource) (*Result, error)
}
