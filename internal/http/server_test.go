package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"homebudget/internal/services"
	"homebudget/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc, err := services.NewBudgetService(context.Background(), memory.New(), nil)
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return NewServer(":0", svc)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec.Code)
	}
}

func TestBudgetEvaluation(t *testing.T) {
	s := newTestServer(t)

	payload := `{
		"myIncome": 60000, "partnerIncome": 40000,
		"essentials": {"rent": 40000},
		"emis": {"homeLoanEmi": 15000},
		"nonEssentials": {"diningOut": 10000}
	}`
	rec := do(t, s, http.MethodPost, "/api/budget", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Metrics struct {
			Income        float64 `json:"income"`
			TotalExpenses float64 `json:"totalExpenses"`
			SavingsRate   float64 `json:"savingsRate"`
		} `json:"metrics"`
		Formatted map[string]string `json:"formatted"`
		Health    []struct {
			Key    string `json:"key"`
			Status string `json:"status"`
		} `json:"health"`
	}
	decode(t, rec, &resp)

	if resp.Metrics.Income != 100000 {
		t.Errorf("income = %v, want 100000", resp.Metrics.Income)
	}
	if resp.Metrics.TotalExpenses != 65000 {
		t.Errorf("totalExpenses = %v, want 65000", resp.Metrics.TotalExpenses)
	}
	if resp.Metrics.SavingsRate != 35 {
		t.Errorf("savingsRate = %v, want 35", resp.Metrics.SavingsRate)
	}
	if got := resp.Formatted["income"]; got != "₹1,00,000" {
		t.Errorf("formatted income = %q", got)
	}
	if got := resp.Formatted["savingsRate"]; got != "35.0%" {
		t.Errorf("formatted savingsRate = %q", got)
	}
	if len(resp.Health) != 4 {
		t.Fatalf("health items = %d, want 4", len(resp.Health))
	}
	if resp.Health[0].Key != "essentials" || resp.Health[0].Status != "good" {
		t.Errorf("essentials health = %+v", resp.Health[0])
	}
}

func TestBudgetRejectsGarbage(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/budget", "{nope")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSnapshotSaveLoadDeleteCycle(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPost, "/api/budget", `{"myIncome": 50000, "partnerIncome": 0}`)

	if rec := do(t, s, http.MethodPost, "/api/snapshot/save?year=2024&month=3", ""); rec.Code != http.StatusOK {
		t.Fatalf("save status = %d", rec.Code)
	}

	// Clear the working snapshot, then load the saved month back.
	do(t, s, http.MethodPost, "/api/budget", `{"myIncome": 0, "partnerIncome": 0}`)
	rec := do(t, s, http.MethodPost, "/api/snapshot/load?year=2024&month=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("load status = %d", rec.Code)
	}
	var resp struct {
		Snapshot struct {
			Income float64 `json:"income"`
		} `json:"snapshot"`
	}
	decode(t, rec, &resp)
	if resp.Snapshot.Income != 50000 {
		t.Errorf("loaded income = %v, want 50000", resp.Snapshot.Income)
	}

	if rec := do(t, s, http.MethodPost, "/api/snapshot/delete?year=2024&month=3", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/snapshot/load?year=2024&month=3", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("load after delete status = %d, want 404", rec.Code)
	}
}

func TestSnapshotListOrderingAndIncome(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPost, "/api/budget", `{"myIncome": 70000, "partnerIncome": 0}`)
	do(t, s, http.MethodPost, "/api/snapshot/save?year=2024&month=3", "")
	do(t, s, http.MethodPost, "/api/budget", `{"myIncome": 80000, "partnerIncome": 0}`)
	do(t, s, http.MethodPost, "/api/snapshot/save?year=2023&month=11", "")
	do(t, s, http.MethodPost, "/api/snapshot/save?year=2024&month=1", "")

	rec := do(t, s, http.MethodGet, "/api/snapshots", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var resp struct {
		Snapshots []struct {
			Year   int     `json:"year"`
			Month  int     `json:"month"`
			Label  string  `json:"label"`
			Income float64 `json:"income"`
		} `json:"snapshots"`
	}
	decode(t, rec, &resp)

	if len(resp.Snapshots) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(resp.Snapshots))
	}
	// Newest first.
	if resp.Snapshots[0].Year != 2024 || resp.Snapshots[0].Month != 3 {
		t.Errorf("first = %d-%d, want 2024-3", resp.Snapshots[0].Year, resp.Snapshots[0].Month)
	}
	if resp.Snapshots[2].Year != 2023 || resp.Snapshots[2].Month != 11 {
		t.Errorf("last = %d-%d, want 2023-11", resp.Snapshots[2].Year, resp.Snapshots[2].Month)
	}
	if resp.Snapshots[0].Income != 70000 {
		t.Errorf("income of 2024-3 = %v, want 70000", resp.Snapshots[0].Income)
	}
	if resp.Snapshots[0].Label != "March" {
		t.Errorf("label = %q, want March", resp.Snapshots[0].Label)
	}
}

func TestSchemaEditFlow(t *testing.T) {
	s := newTestServer(t)

	// Edits outside a session are rejected.
	rec := do(t, s, http.MethodPost, "/api/schema/edit/rename", `{"category":"essentials","itemKey":"rent","label":"Mortgage"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("rename without session status = %d, want 409", rec.Code)
	}

	if rec := do(t, s, http.MethodPost, "/api/schema/edit/begin", ""); rec.Code != http.StatusOK {
		t.Fatalf("begin status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/schema/edit/rename", `{"category":"essentials","itemKey":"rent","label":"Mortgage"}`); rec.Code != http.StatusNoContent {
		t.Fatalf("rename status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/schema/edit/add", `{"category":"investments"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d", rec.Code)
	}
	var added struct {
		ItemKey string `json:"itemKey"`
	}
	decode(t, rec, &added)
	if !strings.HasPrefix(added.ItemKey, "custom_") {
		t.Errorf("itemKey = %q, want custom_ prefix", added.ItemKey)
	}

	if rec := do(t, s, http.MethodPost, "/api/schema/edit/commit", ""); rec.Code != http.StatusOK {
		t.Fatalf("commit status = %d", rec.Code)
	}

	// The live schema carries the rename.
	rec = do(t, s, http.MethodGet, "/api/schema", "")
	var schema struct {
		Categories map[string]struct {
			Items map[string]struct {
				Label string `json:"label"`
			} `json:"items"`
		} `json:"categories"`
	}
	decode(t, rec, &schema)
	if schema.Categories["essentials"].Items["rent"].Label != "Mortgage" {
		t.Errorf("rename not visible in committed schema")
	}
}

func TestSchemaEditLastItemDelete(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPost, "/api/schema/edit/begin", "")

	// Liabilities has six items; deleting five works, the sixth is refused.
	keys := []string{"homeLoan", "carLoan", "personalLoan", "educationalLoan", "businessLoan"}
	for _, k := range keys {
		rec := do(t, s, http.MethodPost, "/api/schema/edit/delete", `{"category":"liabilities","itemKey":"`+k+`"}`)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete %s status = %d", k, rec.Code)
		}
	}
	rec := do(t, s, http.MethodPost, "/api/schema/edit/delete", `{"category":"liabilities","itemKey":"otherLoans"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("last delete status = %d, want 422", rec.Code)
	}
}

func TestThemeEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/theme", "")
	var theme struct {
		Theme string `json:"theme"`
	}
	decode(t, rec, &theme)
	if theme.Theme != "dark" {
		t.Errorf("default theme = %q, want dark", theme.Theme)
	}

	if rec := do(t, s, http.MethodPost, "/api/theme", `{"theme":"light"}`); rec.Code != http.StatusOK {
		t.Fatalf("set theme status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/theme", `{"theme":"sepia"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid theme status = %d, want 422", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/theme", "")
	decode(t, rec, &theme)
	if theme.Theme != "light" {
		t.Errorf("theme after save = %q, want light", theme.Theme)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/api/snapshot/save", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET save status = %d, want 405", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/budget", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("DELETE budget status = %d, want 405", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/schema", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
