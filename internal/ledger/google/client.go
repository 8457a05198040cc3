// Package google implements the ledger service directly against the
// Google Sheets API, bypassing the Apps Script web app. It talks to
// the same spreadsheet the web app is bound to, so either backend can
// serve the tracker without data migration.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"myks/internal/cache"
	"myks/internal/core"
	"myks/internal/ledger"
)

const (
	cacheKeyBets = "bets"
	cacheKeyTxs  = "transactions"

	readCacheSize = 4
	readCacheTTL  = 30 * time.Second
)

// Config holds everything the client needs to reach the spreadsheet.
// Exactly one of ServiceAccountJSON or ServiceAccountFile should be
// set; when both are empty GOOGLE_APPLICATION_CREDENTIALS is tried.
type Config struct {
	SpreadsheetID      string
	BetsSheet          string
	TransactionsSheet  string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	betsSheet     string
	txSheet       string

	bets *cache.TTLCache[[]core.Bet]
	txs  *cache.TTLCache[[]core.Transaction]

	// numeric sheet IDs resolved lazily, needed for row deletion
	idMu     sync.Mutex
	sheetIDs map[string]int64

	now func() time.Time
}

var _ ledger.Service = (*Client)(nil)

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if cfg.BetsSheet == "" {
		cfg.BetsSheet = "Bets"
	}
	if cfg.TransactionsSheet == "" {
		cfg.TransactionsSheet = "Transactions"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		betsSheet:     cfg.BetsSheet,
		txSheet:       cfg.TransactionsSheet,
		bets:          cache.New[[]core.Bet](readCacheSize, readCacheTTL),
		txs:           cache.New[[]core.Transaction](readCacheSize, readCacheTTL),
		sheetIDs:      make(map[string]int64),
		now:           time.Now,
	}, nil
}

// newSheetsService initializes a Sheets service using service account
// credentials from config, falling back to GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) FetchBets(ctx context.Context) ([]core.Bet, error) {
	if cached, ok := c.bets.Get(cacheKeyBets); ok {
		out := make([]core.Bet, len(cached))
		copy(out, cached)
		return out, nil
	}

	rng := fmt.Sprintf("%s!A2:G", c.betsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	bets := make([]core.Bet, 0, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) == 0 || cellString(row[0]) == "" {
			continue
		}
		b, err := betFromRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed bet row", "sheet", c.betsSheet, "row", i+2, "error", err)
			continue
		}
		bets = append(bets, b)
	}
	ledger.SortBetsByNewest(bets)

	c.bets.Set(cacheKeyBets, bets)
	out := make([]core.Bet, len(bets))
	copy(out, bets)
	return out, nil
}

func (c *Client) AddBet(ctx context.Context, in ledger.AddBetInput) (core.Bet, error) {
	if err := in.Validate(); err != nil {
		return core.Bet{}, err
	}

	createdAt := in.CreatedAt
	if createdAt.IsEmpty() {
		createdAt = core.NewTimestamp(c.now())
	}
	bet := core.Bet{
		ID:          uuid.NewString(),
		Description: in.Description,
		Stake:       in.Stake,
		Odds:        in.Odds,
		Status:      in.Status,
		Payout:      core.ExpectedPayout(in.Stake, in.Odds, in.Status),
		CreatedAt:   createdAt,
	}

	rng := fmt.Sprintf("%s!A:G", c.betsSheet)
	vr := &gsheet.ValueRange{Values: [][]any{betToRow(bet)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return core.Bet{}, fmt.Errorf("append to sheet %s: %w", c.betsSheet, err)
	}

	c.bets.Clear()
	return bet, nil
}

func (c *Client) EditBet(ctx context.Context, in ledger.EditBetInput) (core.Bet, error) {
	if err := in.Validate(); err != nil {
		return core.Bet{}, err
	}

	row, existing, err := c.findBetRow(ctx, in.ID)
	if err != nil {
		return core.Bet{}, err
	}

	createdAt := in.CreatedAt
	if createdAt.IsEmpty() {
		createdAt = existing.CreatedAt
	}
	bet := core.Bet{
		ID:          in.ID,
		Description: in.Description,
		Stake:       in.Stake,
		Odds:        in.Odds,
		Status:      in.Status,
		Payout:      core.ExpectedPayout(in.Stake, in.Odds, in.Status),
		CreatedAt:   createdAt,
	}

	if err := c.writeBetRow(ctx, row, bet); err != nil {
		return core.Bet{}, err
	}

	c.bets.Clear()
	return bet, nil
}

func (c *Client) UpdateBetStatus(ctx context.Context, id string, status core.BetStatus) (core.Bet, error) {
	if !status.Valid() {
		return core.Bet{}, core.ErrInvalidStatus
	}

	row, bet, err := c.findBetRow(ctx, id)
	if err != nil {
		return core.Bet{}, err
	}

	bet.Status = status
	bet.Payout = core.ExpectedPayout(bet.Stake, bet.Odds, status)

	// Only E (status) and F (payout) change
	rng := fmt.Sprintf("%s!E%d:F%d", c.betsSheet, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{{string(bet.Status), bet.Payout}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return core.Bet{}, fmt.Errorf("update %s: %w", rng, err)
	}

	c.bets.Clear()
	return bet, nil
}

func (c *Client) DeleteBet(ctx context.Context, id string) error {
	row, _, err := c.findBetRow(ctx, id)
	if err != nil {
		return err
	}

	sheetID, err := c.sheetID(ctx, c.betsSheet)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete row %d from sheet %s: %w", row, c.betsSheet, err)
	}

	c.bets.Clear()
	return nil
}

func (c *Client) FetchTransactions(ctx context.Context) ([]core.Transaction, error) {
	if cached, ok := c.txs.Get(cacheKeyTxs); ok {
		out := make([]core.Transaction, len(cached))
		copy(out, cached)
		return out, nil
	}

	rng := fmt.Sprintf("%s!A2:E", c.txSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	txs := make([]core.Transaction, 0, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) == 0 || cellString(row[0]) == "" {
			continue
		}
		tx, err := transactionFromRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed transaction row", "sheet", c.txSheet, "row", i+2, "error", err)
			continue
		}
		txs = append(txs, tx)
	}
	ledger.SortTransactionsByNewest(txs)

	c.txs.Set(cacheKeyTxs, txs)
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	return out, nil
}

func (c *Client) AddTransaction(ctx context.Context, in ledger.AddTransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		ID:          uuid.NewString(),
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		CreatedAt:   core.NewTimestamp(c.now()),
	}

	rng := fmt.Sprintf("%s!A:E", c.txSheet)
	vr := &gsheet.ValueRange{Values: [][]any{transactionToRow(tx)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("append to sheet %s: %w", c.txSheet, err)
	}

	c.txs.Clear()
	return tx, nil
}

// CleanCaches drops expired read-cache entries and returns how many
// were removed. The backend factory runs this on a ticker for the
// lifetime of the client.
func (c *Client) CleanCaches() int {
	return c.bets.CleanExpired() + c.txs.CleanExpired()
}

// findBetRow scans the id column for the given bet and returns its
// 1-based sheet row along with the parsed record.
func (c *Client) findBetRow(ctx context.Context, id string) (int, core.Bet, error) {
	rng := fmt.Sprintf("%s!A2:G", c.betsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, core.Bet{}, fmt.Errorf("read %s: %w", rng, err)
	}

	for i, row := range resp.Values {
		if len(row) == 0 || cellString(row[0]) != id {
			continue
		}
		bet, err := betFromRow(row)
		if err != nil {
			return 0, core.Bet{}, fmt.Errorf("row %d: %w", i+2, err)
		}
		return i + 2, bet, nil
	}
	return 0, core.Bet{}, ledger.ErrNotFound
}

func (c *Client) writeBetRow(ctx context.Context, row int, bet core.Bet) error {
	rng := fmt.Sprintf("%s!A%d:G%d", c.betsSheet, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{betToRow(bet)}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// sheetID resolves a sheet title to its numeric ID, caching the result
// for the lifetime of the client.
func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	c.idMu.Lock()
	defer c.idMu.Unlock()

	if id, ok := c.sheetIDs[title]; ok {
		return id, nil
	}

	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			c.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
		}
	}

	id, ok := c.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("sheet %q not found in spreadsheet", title)
	}
	return id, nil
}
