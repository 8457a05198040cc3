// Package webapp talks to the spreadsheet-backed web-app endpoint:
// one HTTP POST per operation carrying an action-tagged JSON body,
// answered by a {"status","data"|"message"} envelope.
package webapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"myks/internal/core"
	"myks/internal/ledger"
)

// URLSource resolves the configured web-app URL. An empty URL with a
// nil error means "not configured yet".
type URLSource interface {
	WebAppURL(ctx context.Context) (string, error)
}

// StaticURL is a URLSource for a fixed endpoint, used by tests and by
// the init CLI before anything is persisted.
type StaticURL string

func (u StaticURL) WebAppURL(context.Context) (string, error) { return string(u), nil }

type Client struct {
	httpClient *http.Client
	urls       URLSource
}

// Ensure interface conformance
var _ ledger.Service = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a client reading its endpoint from the given source on
// every call, so a settings change takes effect without a restart.
// No retries and no timeout beyond the transport default; callers own
// retry policy.
func New(urls URLSource, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		urls:       urls,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the fixed response contract of the remote endpoint.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) post(ctx context.Context, req ledger.Request) (json.RawMessage, error) {
	op := req.Action()

	endpoint, err := c.urls.WebAppURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve endpoint: %w", err)
	}
	if strings.TrimSpace(endpoint) == "" {
		return nil, ledger.ErrNotConfigured
	}

	body, err := ledger.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	// Apps-Script web apps answer text/plain posts without a CORS
	// preflight; keep the original contract's content type.
	httpReq.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isDeploymentFailure(err) {
			return nil, ledger.NewDeploymentError(op,
				"failed to connect to the web app; this is often a network, CORS, or deployment issue", err)
		}
		return nil, ledger.NewRemoteError(op, "network request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// A non-2xx landing page after the script's redirect chain
		// means the deployment, not the data, is broken.
		if wasRedirected(httpReq, resp) || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
			return nil, ledger.NewDeploymentError(op,
				fmt.Sprintf("unexpected response %s; verify the deployment", resp.Status), nil)
		}
		return nil, ledger.NewRemoteError(op, fmt.Sprintf("response was not ok: %s", resp.Status), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ledger.NewRemoteError(op, "read response body", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, ledger.NewRemoteError(op, "response was not valid JSON; verify the web-app URL", err)
	}
	if env.Status == "error" {
		return nil, ledger.NewRemoteError(op, env.Message, nil)
	}
	return env.Data, nil
}

func (c *Client) FetchBets(ctx context.Context) ([]core.Bet, error) {
	data, err := c.post(ctx, ledger.GetBetsRequest{})
	if err != nil {
		return nil, err
	}
	bets := []core.Bet{}
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &bets); err != nil {
			return nil, ledger.NewRemoteError(ledger.ActionGetBets, "decode bets", err)
		}
	}
	ledger.SortBetsByNewest(bets)
	slog.DebugContext(ctx, "Fetched bets", "count", len(bets))
	return bets, nil
}

func (c *Client) AddBet(ctx context.Context, in ledger.AddBetInput) (core.Bet, error) {
	data, err := c.post(ctx, ledger.AddBetRequest{
		Description: in.Description,
		Stake:       in.Stake,
		Odds:        in.Odds,
		Status:      in.Status,
		CreatedAt:   in.CreatedAt,
	})
	if err != nil {
		return core.Bet{}, err
	}
	return decodeBet(ledger.ActionAddBet, data)
}

func (c *Client) EditBet(ctx context.Context, in ledger.EditBetInput) (core.Bet, error) {
	data, err := c.post(ctx, ledger.EditBetRequest{
		ID: in.ID,
		AddBetRequest: ledger.AddBetRequest{
			Description: in.Description,
			Stake:       in.Stake,
			Odds:        in.Odds,
			Status:      in.Status,
			CreatedAt:   in.CreatedAt,
		},
	})
	if err != nil {
		return core.Bet{}, err
	}
	return decodeBet(ledger.ActionEditBet, data)
}

func (c *Client) UpdateBetStatus(ctx context.Context, id string, status core.BetStatus) (core.Bet, error) {
	data, err := c.post(ctx, ledger.UpdateBetRequest{ID: id, Status: status})
	if err != nil {
		return core.Bet{}, err
	}
	return decodeBet(ledger.ActionUpdateBet, data)
}

func (c *Client) DeleteBet(ctx context.Context, id string) error {
	_, err := c.post(ctx, ledger.DeleteBetRequest{ID: id})
	return err
}

func (c *Client) FetchTransactions(ctx context.Context) ([]core.Transaction, error) {
	data, err := c.post(ctx, ledger.GetTransactionsRequest{})
	if err != nil {
		return nil, err
	}
	txs := []core.Transaction{}
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &txs); err != nil {
			return nil, ledger.NewRemoteError(ledger.ActionGetTransactions, "decode transactions", err)
		}
	}
	ledger.SortTransactionsByNewest(txs)
	slog.DebugContext(ctx, "Fetched transactions", "count", len(txs))
	return txs, nil
}

func (c *Client) AddTransaction(ctx context.Context, in ledger.AddTransactionInput) (core.Transaction, error) {
	data, err := c.post(ctx, ledger.AddTransactionRequest{
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
	})
	if err != nil {
		return core.Transaction{}, err
	}
	var tx core.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return core.Transaction{}, ledger.NewRemoteError(ledger.ActionAddTransaction, "decode transaction", err)
	}
	return tx, nil
}

func decodeBet(op ledger.Action, data json.RawMessage) (core.Bet, error) {
	var b core.Bet
	if err := json.Unmarshal(data, &b); err != nil {
		return core.Bet{}, ledger.NewRemoteError(op, "decode bet", err)
	}
	return b, nil
}

// wasRedirected reports whether the response landed on a different URL
// than the one requested (the script's login/error interstitials do
// this).
func wasRedirected(req *http.Request, resp *http.Response) bool {
	return resp.Request != nil && resp.Request.URL.String() != req.URL.String()
}

// isDeploymentFailure classifies transport errors whose usual cause is
// a wrong URL or an undeployed script rather than a transient fault.
func isDeploymentFailure(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var dnsErr *net.DNSError
		if errors.As(urlErr.Err, &dnsErr) {
			return true
		}
		var opErr *net.OpError
		if errors.As(urlErr.Err, &opErr) {
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "stopped after") // redirect loop
}
