// Package stats derives aggregate financial metrics from the bet and
// transaction collections. Compute is a pure function; callers rerun
// it whenever either collection changes.
package stats

import "myks/internal/core"

// Stats holds every derived figure the dashboard shows. Balance is the
// spendable ceiling offered to add-bet and withdrawal forms; it is an
// advisory figure only, never enforced by the remote ledger.
type Stats struct {
	WonStake     float64 `json:"wonStake"`
	LostStake    float64 `json:"lostStake"`
	PendingStake float64 `json:"pendingStake"`
	TotalPayout  float64 `json:"totalPayout"`
	NetProfit    float64 `json:"netProfit"`
	SettledStake float64 `json:"settledStake"`
	ROI          float64 `json:"roi"`
	WinRate      float64 `json:"winRate"`
	WonCount     int     `json:"wonCount"`
	LostCount    int     `json:"lostCount"`
	PendingCount int     `json:"pendingCount"`
	TotalWagered float64 `json:"totalWagered"`
	Deposits     float64 `json:"deposits"`
	Withdrawals  float64 `json:"withdrawals"`
	Equity       float64 `json:"equity"`
	Balance      float64 `json:"balance"`
}

// Compute aggregates both collections. Ratio figures (ROI, win rate)
// are guarded to 0 when there is no settled stake to divide by.
func Compute(bets []core.Bet, txs []core.Transaction) Stats {
	var s Stats

	for _, b := range bets {
		s.TotalWagered += b.Stake
		switch b.Status {
		case core.StatusWon:
			s.WonStake += b.Stake
			s.TotalPayout += b.Payout
			s.WonCount++
		case core.StatusLost:
			s.LostStake += b.Stake
			s.LostCount++
		case core.StatusPending:
			s.PendingStake += b.Stake
			s.PendingCount++
		}
	}

	s.NetProfit = s.TotalPayout - s.WonStake - s.LostStake
	s.SettledStake = s.WonStake + s.LostStake
	if s.SettledStake > 0 {
		s.ROI = s.NetProfit / s.SettledStake * 100
	}
	if settled := s.WonCount + s.LostCount; settled > 0 {
		s.WinRate = float64(s.WonCount) / float64(settled) * 100
	}

	for _, t := range txs {
		switch t.Type {
		case core.Deposit:
			s.Deposits += t.Amount
		case core.Withdraw:
			s.Withdrawals += t.Amount
		}
	}

	s.Equity = s.Deposits - s.Withdrawals + s.NetProfit
	s.Balance = s.Equity - s.PendingStake
	return s
}
