package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"myks/internal/ledger"
)

// All API responses share the remote ledger's envelope shape so
// callers can treat local and remote results uniformly.
type successEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(successEnvelope{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Status: "error", Message: message})
}

func writeErrorHint(w http.ResponseWriter, code int, message, hint string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Status: "error", Message: message, Hint: hint})
}

// writeLedgerError maps ledger failures onto HTTP statuses: a missing
// endpoint is a conflict the user can fix in settings, a broken or
// unreachable deployment is a bad gateway, an unknown record is 404.
func writeLedgerError(w http.ResponseWriter, err error) {
	var deployErr *ledger.DeploymentError
	var remoteErr *ledger.RemoteError

	switch {
	case errors.Is(err, ledger.ErrNotConfigured):
		writeErrorHint(w, http.StatusConflict, err.Error(),
			"Save the web-app URL under settings before syncing.")
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &deployErr):
		writeErrorHint(w, http.StatusBadGateway, deployErr.Error(), deployErr.Hint())
	case errors.As(err, &remoteErr):
		writeError(w, http.StatusBadGateway, remoteErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
