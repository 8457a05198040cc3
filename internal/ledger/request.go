package ledger

import (
	"encoding/json"

	"myks/internal/core"
)

// Action tags a wire request for the remote ledger endpoint.
type Action string

const (
	ActionGetBets         Action = "GET_BETS"
	ActionAddBet          Action = "ADD_BET"
	ActionEditBet         Action = "EDIT_BET"
	ActionUpdateBet       Action = "UPDATE_BET"
	ActionDeleteBet       Action = "DELETE_BET"
	ActionGetTransactions Action = "GET_TRANSACTIONS"
	ActionAddTransaction  Action = "ADD_TRANSACTION"
)

// Request is the closed set of wire operations. Each variant knows its
// action tag; Encode flattens the variant into the remote contract's
// `{"action": ..., ...payload}` form. Keeping this a sealed interface
// instead of a string switch gives exhaustiveness at the type level.
type Request interface {
	Action() Action
	sealed()
}

type (
	GetBetsRequest struct{}

	AddBetRequest struct {
		Description string         `json:"description"`
		Stake       float64        `json:"stake"`
		Odds        float64        `json:"odds"`
		Status      core.BetStatus `json:"status"`
		CreatedAt   core.Timestamp `json:"createdAt"`
	}

	EditBetRequest struct {
		ID string `json:"id"`
		AddBetRequest
	}

	UpdateBetRequest struct {
		ID     string         `json:"id"`
		Status core.BetStatus `json:"status"`
	}

	DeleteBetRequest struct {
		ID string `json:"id"`
	}

	GetTransactionsRequest struct{}

	AddTransactionRequest struct {
		Type        core.TransactionType `json:"type"`
		Amount      float64              `json:"amount"`
		Description string               `json:"description"`
	}
)

func (GetBetsRequest) Action() Action         { return ActionGetBets }
func (AddBetRequest) Action() Action          { return ActionAddBet }
func (EditBetRequest) Action() Action         { return ActionEditBet }
func (UpdateBetRequest) Action() Action       { return ActionUpdateBet }
func (DeleteBetRequest) Action() Action       { return ActionDeleteBet }
func (GetTransactionsRequest) Action() Action { return ActionGetTransactions }
func (AddTransactionRequest) Action() Action  { return ActionAddTransaction }

func (GetBetsRequest) sealed()         {}
func (AddBetRequest) sealed()          {}
func (EditBetRequest) sealed()         {}
func (UpdateBetRequest) sealed()       {}
func (DeleteBetRequest) sealed()       {}
func (GetTransactionsRequest) sealed() {}
func (AddTransactionRequest) sealed()  {}

// Encode marshals a request into the action-tagged wire body.
func Encode(r Request) ([]byte, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	flat := map[string]any{}
	if err := json.Unmarshal(payload, &flat); err != nil {
		return nil, err
	}
	flat["action"] = r.Action()
	return json.Marshal(flat)
}
