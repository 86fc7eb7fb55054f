package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/fanta-auction/internal/domain/player"
	"github.com/riskibarqy/fanta-auction/internal/domain/team"
	"github.com/riskibarqy/fanta-auction/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fanta-auction/internal/platform/logging"
	"github.com/riskibarqy/fanta-auction/internal/usecase"
)

func newTestRouter(t *testing.T) (http.Handler, *clockwork.FakeClock) {
	t.Helper()

	teams := memory.NewTeamRepository([]team.Team{
		{ID: "monkey-d-united", Name: "Monkey D. United", Budget: 500, IsAdmin: true},
		{ID: "team-a", Name: "Team A", Budget: 500},
		{ID: "team-b", Name: "Team B", Budget: 300},
	})
	players := memory.NewPlayerRepository([]player.Player{
		{Name: "Rossi", Available: true},
		{Name: "Bianchi", Available: true},
	})

	clock := clockwork.NewFakeClock()
	service := usecase.NewAuctionService(
		teams,
		players,
		memory.NewHistoryRepository(),
		usecase.NopTxRunner{},
		30*time.Second,
		clock,
		nil,
		logging.NewNop(),
	)
	t.Cleanup(service.Close)

	handler := NewHandler(service, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), []string{"*"}), clock
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal %s %s response: %v (body %q)", method, path, err, rec.Body.String())
		}
	}

	return rec, envelope
}

func dataOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()

	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object in envelope, got %v", envelope)
	}
	return data
}

func errorOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()

	errObj, ok := envelope["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in envelope, got %v", envelope)
	}
	return errObj
}

func TestHandler_StatusIdle(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/auction/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got, _ := envelope["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", envelope["apiVersion"])
	}

	data := dataOf(t, envelope)
	if active, _ := data["active"].(bool); active {
		t.Fatalf("expected no active auction: %v", data)
	}
}

func TestHandler_StartBidStatus(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/auction/start",
		`{"team_id":"team-a","player":"Rossi","opening_bid":50}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	data := dataOf(t, envelope)
	if data["player"] != "Rossi" || data["highest_bid"] != float64(50) {
		t.Fatalf("unexpected start payload: %v", data)
	}

	rec, envelope = doJSON(t, router, http.MethodPost, "/v1/auction/bid",
		`{"team_id":"team-b","increment":25}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	data = dataOf(t, envelope)
	if data["highest_bid"] != float64(75) || data["leading_team"] != "team-b" {
		t.Fatalf("unexpected bid payload: %v", data)
	}
	if data["time_left"] != float64(30) {
		t.Fatalf("expected reset countdown, got %v", data["time_left"])
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/auction/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data = dataOf(t, envelope)
	if data["active"] != true || data["leading_team"] != "team-b" {
		t.Fatalf("unexpected status payload: %v", data)
	}
}

func TestHandler_InsufficientBudgetDetails(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/auction/start",
		`{"team_id":"team-a","player":"Rossi","opening_bid":100}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	// team-b holds 300; raising to 301 must fail with the shortfall.
	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/auction/bid",
		`{"team_id":"team-b","increment":201}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", rec.Code, rec.Body.String())
	}

	errObj := errorOf(t, envelope)
	if errObj["status"] != "FAILED_PRECONDITION" {
		t.Fatalf("expected FAILED_PRECONDITION, got %v", errObj["status"])
	}
	details, ok := errObj["details"].(map[string]any)
	if !ok {
		t.Fatalf("expected budget details, got %v", errObj)
	}
	if details["needed"] != float64(301) || details["remaining"] != float64(300) {
		t.Fatalf("unexpected budget details: %v", details)
	}
}

func TestHandler_ConfirmIsAdminGated(t *testing.T) {
	router, clock := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/auction/start",
		`{"team_id":"team-a","player":"Rossi","opening_bid":40}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	clock.BlockUntil(1)
	clock.Advance(30 * time.Second)
	waitForPendingSale(t, router)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/auction/confirm", `{"team_id":"team-a"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin confirm, got %d", rec.Code)
	}
	if errorOf(t, envelope)["status"] != "PERMISSION_DENIED" {
		t.Fatalf("unexpected error payload: %v", envelope)
	}

	rec, envelope = doJSON(t, router, http.MethodPost, "/v1/auction/confirm", `{"team_id":"monkey-d-united"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin confirm, got %d (%s)", rec.Code, rec.Body.String())
	}
	data := dataOf(t, envelope)
	if data["player"] != "Rossi" || data["winner"] != "team-a" || data["price"] != float64(40) {
		t.Fatalf("unexpected sale payload: %v", data)
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items, ok := envelope["data"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one history entry, got %v", envelope["data"])
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/budgets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	budgets, ok := dataOf(t, envelope)["budgets"].(map[string]any)
	if !ok {
		t.Fatalf("expected budgets map, got %v", envelope)
	}
	if budgets["team-a"] != float64(460) {
		t.Fatalf("expected team-a budget 460, got %v", budgets["team-a"])
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/players", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	names, ok := dataOf(t, envelope)["players"].([]any)
	if !ok {
		t.Fatalf("expected players list, got %v", envelope)
	}
	for _, name := range names {
		if name == "Rossi" {
			t.Fatalf("sold player must not be listed: %v", names)
		}
	}
}

func waitForPendingSale(t *testing.T, router http.Handler) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_, envelope := doJSON(t, router, http.MethodGet, "/v1/auction/status", "")
		data := dataOf(t, envelope)
		if pending, _ := data["awaiting_confirmation"].(bool); pending {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("auction never reached the confirmation step")
}

func TestHandler_ValidationFailures(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name string
		path string
		body string
	}{
		{"start missing team", "/v1/auction/start", `{"player":"Rossi"}`},
		{"start malformed json", "/v1/auction/start", `{"player":`},
		{"bid zero increment", "/v1/auction/bid", `{"team_id":"team-a","increment":0}`},
		{"bid negative increment", "/v1/auction/bid", `{"team_id":"team-a","increment":-3}`},
		{"confirm missing team", "/v1/auction/confirm", `{}`},
		{"delete missing id", "/v1/history/delete", `{"team_id":"monkey-d-united"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, envelope := doJSON(t, router, http.MethodPost, tc.path, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
			}
			if errorOf(t, envelope)["status"] != "INVALID_ARGUMENT" {
				t.Fatalf("unexpected error payload: %v", envelope)
			}
		})
	}
}

func TestHandler_DeleteUnknownHistoryEntry(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/history/delete",
		`{"team_id":"monkey-d-united","id":42}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", rec.Code, rec.Body.String())
	}
	if errorOf(t, envelope)["status"] != "NOT_FOUND" {
		t.Fatalf("unexpected error payload: %v", envelope)
	}
}

func TestHandler_CancelOpenToAllTeams(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/auction/start",
		`{"team_id":"team-a","player":"Rossi","opening_bid":10}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/auction/cancel", `{"team_id":"team-b"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if dataOf(t, envelope)["cancelled"] != true {
		t.Fatalf("unexpected cancel payload: %v", envelope)
	}

	_, envelope = doJSON(t, router, http.MethodGet, "/v1/auction/status", "")
	if dataOf(t, envelope)["active"] != false {
		t.Fatalf("expected idle auction after cancel: %v", envelope)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/auction/start", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
