package http

import (
	"net/http"

	"myks/internal/stats"
)

// Statistics are always derived from the current caches; a stale cache
// yields stale numbers until the next sync, never an error.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	computed := stats.Compute(s.bets.Bets(), s.txs.Transactions())
	writeJSON(w, http.StatusOK, computed)
}
