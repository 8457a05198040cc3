package webapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"myks/internal/core"
	"myks/internal/ledger"
)

func successBody(data any) string {
	raw, _ := json.Marshal(map[string]any{"status": "success", "data": data})
	return string(raw)
}

func TestNotConfigured(t *testing.T) {
	c := New(StaticURL(""))
	_, err := c.FetchBets(context.Background())
	if !errors.Is(err, ledger.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestFetchBetsSortsNewestFirst(t *testing.T) {
	var gotAction string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotAction, _ = req["action"].(string)
		fmt.Fprint(w, successBody([]map[string]any{
			{"id": "old", "status": "PENDING", "stake": 10, "odds": 2, "createdAt": "2024-01-01T00:00:00Z"},
			{"id": "new", "status": "PENDING", "stake": 10, "odds": 2, "createdAt": "2024-02-01T00:00:00Z"},
		}))
	}))
	defer srv.Close()

	c := New(StaticURL(srv.URL))
	bets, err := c.FetchBets(context.Background())
	if err != nil {
		t.Fatalf("FetchBets: %v", err)
	}
	if gotAction != "GET_BETS" {
		t.Fatalf("action = %q, want GET_BETS", gotAction)
	}
	if len(bets) != 2 || bets[0].ID != "new" || bets[1].ID != "old" {
		t.Fatalf("bets not sorted newest first: %v", bets)
	}
}

func TestFetchBetsNullData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":null}`)
	}))
	defer srv.Close()

	c := New(StaticURL(srv.URL))
	bets, err := c.FetchBets(context.Background())
	if err != nil {
		t.Fatalf("FetchBets: %v", err)
	}
	if bets == nil || len(bets) != 0 {
		t.Fatalf("null data should yield empty slice, got %v", bets)
	}
}

func TestErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","message":"Bet not found to edit."}`)
	}))
	defer srv.Close()

	c := New(StaticURL(srv.URL))
	_, err := c.EditBet(context.Background(), ledger.EditBetInput{ID: "missing"})
	var re *ledger.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if re.Message != "Bet not found to edit." {
		t.Fatalf("message = %q", re.Message)
	}
	if ledger.IsDeployment(err) {
		t.Fatal("plain error body should not classify as deployment error")
	}
}

func TestNon2xxResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(StaticURL(srv.URL))
	_, err := c.FetchBets(context.Background())
	var re *ledger.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
}

func TestRedirectedFailureIsDeploymentError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/exec", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sign in", http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(StaticURL(srv.URL + "/exec"))
	_, err := c.FetchBets(context.Background())
	if !ledger.IsDeployment(err) {
		t.Fatalf("expected deployment error, got %v", err)
	}
	var de *ledger.DeploymentError
	if errors.As(err, &de) && de.Hint() == "" {
		t.Fatal("deployment error should carry a settings hint")
	}
}

func TestConnectionRefusedIsDeploymentError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := New(StaticURL(srv.URL))
	_, err := c.FetchBets(context.Background())
	if !ledger.IsDeployment(err) {
		t.Fatalf("expected deployment error, got %v", err)
	}
}

func TestAddBetDecodesRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["action"] != "ADD_BET" {
			t.Fatalf("action = %v, want ADD_BET", req["action"])
		}
		fmt.Fprint(w, successBody(map[string]any{
			"id": "uuid-1", "description": req["description"],
			"stake": req["stake"], "odds": req["odds"],
			"status": "WON", "payout": 2000.0,
			"createdAt": "2024-01-15T00:00:00.000Z",
		}))
	}))
	defer srv.Close()

	c := New(StaticURL(srv.URL))
	got, err := c.AddBet(context.Background(), ledger.AddBetInput{
		Description: "derby",
		Stake:       1000,
		Odds:        2.0,
		Status:      core.StatusWon,
		CreatedAt:   core.DayTimestamp(2024, 1, 15),
	})
	if err != nil {
		t.Fatalf("AddBet: %v", err)
	}
	if got.ID != "uuid-1" || got.Payout != 2000 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestDeleteBet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["action"] != "DELETE_BET" || req["id"] != "b1" {
			t.Fatalf("unexpected request: %v", req)
		}
		fmt.Fprint(w, successBody(map[string]string{"id": "b1"}))
	}))
	defer srv.Close()

	c := New(StaticURL(srv.URL))
	if err := c.DeleteBet(context.Background(), "b1"); err != nil {
		t.Fatalf("DeleteBet: %v", err)
	}
}
