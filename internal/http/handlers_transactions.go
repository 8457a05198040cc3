package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"myks/internal/core"
	"myks/internal/ledger"
	"myks/internal/log"
)

type transactionPayload struct {
	Type        string     `json:"type"`
	Amount      stakeValue `json:"amount"`
	Description string     `json:"description"`
}

type transactionListResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	SyncState    string             `json:"syncState"`
	SyncError    string             `json:"syncError,omitempty"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, transactionListResponse{
		Transactions: s.txs.Transactions(),
		SyncState:    s.txs.State().String(),
		SyncError:    s.txs.Err(),
	})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	in := ledger.AddTransactionInput{
		Type:        core.TransactionType(strings.ToUpper(strings.TrimSpace(payload.Type))),
		Amount:      float64(payload.Amount),
		Description: strings.TrimSpace(payload.Description),
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tx, err := s.txs.Add(r.Context(), in)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Add transaction failed",
			log.FieldOperation, log.OpAdd, log.FieldTxType, string(in.Type), log.FieldError, err)
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleSyncTransactions(w http.ResponseWriter, r *http.Request) {
	if err := s.txs.Sync(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Transaction sync failed",
			log.FieldOperation, log.OpSync, log.FieldError, err)
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transactionListResponse{
		Transactions: s.txs.Transactions(),
		SyncState:    s.txs.State().String(),
	})
}
