package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"myks/internal/core"
	"myks/internal/ledger"
	"myks/internal/listing"
	"myks/internal/log"
)

// betPayload is the write body for bet creation and editing. Stake and
// odds accept both JSON numbers and strings, since spreadsheet-minded
// clients tend to send "12,50".
type betPayload struct {
	Description string     `json:"description"`
	Stake       stakeValue `json:"stake"`
	Odds        oddsValue  `json:"odds"`
	Status      string     `json:"status"`
	CreatedAt   string     `json:"createdAt"`
}

type stakeValue float64

func (v *stakeValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := core.ParseAmount(s)
		if err != nil {
			return err
		}
		*v = stakeValue(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = stakeValue(f)
	return nil
}

type oddsValue float64

func (v *oddsValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := core.ParseOdds(s)
		if err != nil {
			return err
		}
		*v = oddsValue(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = oddsValue(f)
	return nil
}

func (p betPayload) toInput() (ledger.AddBetInput, error) {
	status := core.StatusPending
	if s := strings.TrimSpace(p.Status); s != "" {
		status = core.BetStatus(strings.ToUpper(s))
	}

	// User-chosen bet dates are day precision; any time component is
	// dropped so the stored record lands on midnight UTC.
	var createdAt core.Timestamp
	if s := strings.TrimSpace(p.CreatedAt); s != "" {
		parsed, err := core.ParseTimestamp(s)
		if err != nil {
			return ledger.AddBetInput{}, err
		}
		createdAt = parsed.StartOfDay()
	}

	return ledger.AddBetInput{
		Description: strings.TrimSpace(p.Description),
		Stake:       float64(p.Stake),
		Odds:        float64(p.Odds),
		Status:      status,
		CreatedAt:   createdAt,
	}, nil
}

// betListResponse is one page of the bet collection plus the sync
// surface the UI renders alongside it.
type betListResponse struct {
	Bets        []core.Bet `json:"bets"`
	Page        int        `json:"page"`
	TotalPages  int        `json:"totalPages"`
	ResultCount int        `json:"resultCount"`
	SyncState   string     `json:"syncState"`
	SyncError   string     `json:"syncError,omitempty"`
}

type syncStatusResponse struct {
	SyncState string `json:"syncState"`
	SyncError string `json:"syncError,omitempty"`
}

func (s *Server) handleListBets(w http.ResponseWriter, r *http.Request) {
	q := listing.NewQuery()
	if s.pageSize > 0 {
		q.PageSize = s.pageSize
	}

	params := r.URL.Query()
	if status := strings.TrimSpace(params.Get("status")); status != "" {
		switch {
		case strings.EqualFold(status, listing.StatusAll):
			q.Filter.Status = listing.StatusAll
		case core.BetStatus(strings.ToUpper(status)).Valid():
			q.Filter.Status = strings.ToUpper(status)
		default:
			writeError(w, http.StatusUnprocessableEntity, "unknown status filter: "+status)
			return
		}
	}

	for name, dst := range map[string]*time.Time{"from": &q.Filter.From, "to": &q.Filter.To} {
		if v := strings.TrimSpace(params.Get(name)); v != "" {
			ts, err := core.ParseTimestamp(v)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "invalid "+name+" date: "+v)
				return
			}
			*dst = ts.Time
		}
	}

	// Page size before page: SetPageSize resets the page index.
	pageSizeParam := params.Get("pageSize")
	if pageSizeParam == "" {
		pageSizeParam = params.Get("page_size")
	}
	if pageSizeParam != "" {
		if size, err := strconv.Atoi(pageSizeParam); err == nil {
			q.SetPageSize(size)
		}
	}
	if v := params.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			q.Page = page
		}
	}

	result := q.Run(s.bets.Bets())
	writeJSON(w, http.StatusOK, betListResponse{
		Bets:        result.Bets,
		Page:        result.Page,
		TotalPages:  result.TotalPages,
		ResultCount: result.ResultCount,
		SyncState:   s.bets.State().String(),
		SyncError:   s.bets.Err(),
	})
}

func (s *Server) handleAddBet(w http.ResponseWriter, r *http.Request) {
	var payload betPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	in, err := payload.toInput()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	bet, err := s.bets.Add(r.Context(), in)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Add bet failed",
			log.FieldOperation, log.OpAdd, log.FieldError, err)
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, bet)
}

func (s *Server) handleEditBet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var payload betPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	in, err := payload.toInput()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	edit := ledger.EditBetInput{ID: id, AddBetInput: in}
	if err := edit.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	bet, err := s.bets.Update(r.Context(), edit)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Edit bet failed",
			log.FieldOperation, log.OpEdit, log.FieldBetID, id, log.FieldError, err)
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) handleUpdateBetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	status := core.BetStatus(strings.ToUpper(strings.TrimSpace(payload.Status)))
	if !status.Valid() {
		writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidStatus.Error())
		return
	}

	// Fire-and-forget: the manager patches the cache once the remote
	// call succeeds; a failure lands on the sync-error surface rather
	// than this reply.
	s.bets.UpdateStatus(r.Context(), id, status)

	writeJSON(w, http.StatusAccepted, syncStatusResponse{
		SyncState: s.bets.State().String(),
		SyncError: s.bets.Err(),
	})
}

func (s *Server) handleDeleteBet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.bets.Delete(r.Context(), id)

	writeJSON(w, http.StatusAccepted, syncStatusResponse{
		SyncState: s.bets.State().String(),
		SyncError: s.bets.Err(),
	})
}

func (s *Server) handleSyncBets(w http.ResponseWriter, r *http.Request) {
	if err := s.bets.Sync(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Bet sync failed",
			log.FieldOperation, log.OpSync, log.FieldError, err)
		writeLedgerError(w, err)
		return
	}

	result := listing.NewQuery().Run(s.bets.Bets())
	writeJSON(w, http.StatusOK, betListResponse{
		Bets:        result.Bets,
		Page:        result.Page,
		TotalPages:  result.TotalPages,
		ResultCount: result.ResultCount,
		SyncState:   s.bets.State().String(),
	})
}
