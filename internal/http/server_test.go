package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/store/file"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := file.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ts := services.NewTransactionService(s, nil)
	us := services.NewUserService(s)
	srv := NewServer(":0", "http://localhost:3000", ts, us)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

type apiResponse struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Pagination *core.PageInfo  `json:"pagination"`
	Errors     []string        `json:"errors"`
}

func do(t *testing.T, srv *Server, method, path string, body any) (int, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, resp
}

func createTransaction(t *testing.T, srv *Server, title, typ string, amount float64, category, date string) core.Transaction {
	t.Helper()
	code, resp := do(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"title":    title,
		"type":     typ,
		"amount":   amount,
		"category": category,
		"date":     date,
	})
	if code != http.StatusCreated || !resp.Success {
		t.Fatalf("create failed: %d %+v", code, resp)
	}
	var tx core.Transaction
	if err := json.Unmarshal(resp.Data, &tx); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}
	return tx
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	code, resp := do(t, srv, http.MethodGet, "/api/health", nil)
	if code != http.StatusOK || !resp.Success {
		t.Fatalf("got %d %+v", code, resp)
	}
}

func TestTransactionCRUD(t *testing.T) {
	srv := newTestServer(t)

	created := createTransaction(t, srv, "Grocery Shopping", "expense", 85.50, "food", "2024-01-15")
	if created.ID == "" {
		t.Fatalf("no id assigned: %+v", created)
	}

	code, resp := do(t, srv, http.MethodGet, "/api/transactions/"+created.ID, nil)
	if code != http.StatusOK {
		t.Fatalf("get: %d %+v", code, resp)
	}

	code, resp = do(t, srv, http.MethodPut, "/api/transactions/"+created.ID, map[string]any{
		"title":    "Weekly Groceries",
		"type":     "expense",
		"amount":   92.00,
		"category": "food",
		"date":     "2024-01-16",
	})
	if code != http.StatusOK {
		t.Fatalf("update: %d %+v", code, resp)
	}
	var updated core.Transaction
	if err := json.Unmarshal(resp.Data, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Title != "Weekly Groceries" || updated.Amount != 92.00 || updated.ID != created.ID {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	code, _ = do(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	code, _ = do(t, srv, http.MethodGet, "/api/transactions/"+created.ID, nil)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", code)
	}
}

func TestUnknownTransactionIs404(t *testing.T) {
	srv := newTestServer(t)
	for _, probe := range []struct{ method, path string }{
		{http.MethodGet, "/api/transactions/no-such-id"},
		{http.MethodDelete, "/api/transactions/no-such-id"},
	} {
		code, resp := do(t, srv, probe.method, probe.path, nil)
		if code != http.StatusNotFound || resp.Success {
			t.Fatalf("%s %s: got %d %+v", probe.method, probe.path, code, resp)
		}
	}
}

func TestCreateValidationErrorShape(t *testing.T) {
	srv := newTestServer(t)
	code, resp := do(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"title":    "",
		"type":     "transfer",
		"amount":   0,
		"category": "misc",
		"date":     "2024-01-15",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if resp.Success || resp.Message != "Validation failed" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if len(resp.Errors) < 3 {
		t.Fatalf("expected one message per violation, got %v", resp.Errors)
	}
}

func TestCreateRejectsMalformedDate(t *testing.T) {
	srv := newTestServer(t)
	code, resp := do(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"title":    "t",
		"type":     "expense",
		"amount":   10,
		"category": "food",
		"date":     "15/01/2024",
	})
	if code != http.StatusBadRequest || resp.Success {
		t.Fatalf("got %d %+v", code, resp)
	}
	// a supplied but unparseable date is a format problem, not a missing date
	if len(resp.Errors) != 1 || resp.Errors[0] != core.ErrInvalidDate.Error() {
		t.Fatalf("expected invalid-format error, got %v", resp.Errors)
	}
}

func TestListPaginationAndFiltering(t *testing.T) {
	srv := newTestServer(t)

	createTransaction(t, srv, "Monthly Salary", "income", 3500, "salary", "2024-01-01")
	createTransaction(t, srv, "Gas Bill", "expense", 120, "bills", "2024-01-10")
	createTransaction(t, srv, "Grocery Shopping", "expense", 85.50, "food", "2024-01-15")

	code, resp := do(t, srv, http.MethodGet, "/api/transactions?page=1&limit=2", nil)
	if code != http.StatusOK {
		t.Fatalf("list: %d", code)
	}
	var page []core.Transaction
	if err := json.Unmarshal(resp.Data, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 items on page 1, got %d", len(page))
	}
	if resp.Pagination == nil || resp.Pagination.Total != 3 || resp.Pagination.Pages != 2 {
		t.Fatalf("unexpected pagination %+v", resp.Pagination)
	}
	// newest date first
	if page[0].Title != "Grocery Shopping" || page[1].Title != "Gas Bill" {
		t.Fatalf("unexpected order: %q, %q", page[0].Title, page[1].Title)
	}

	code, resp = do(t, srv, http.MethodGet, "/api/transactions?type=expense&search="+url.QueryEscape("gROcery"), nil)
	if code != http.StatusOK {
		t.Fatalf("filtered list: %d", code)
	}
	if err := json.Unmarshal(resp.Data, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page) != 1 || page[0].Title != "Grocery Shopping" {
		t.Fatalf("unexpected filtered result: %+v", page)
	}

	// unknown type narrows nothing instead of failing
	code, resp = do(t, srv, http.MethodGet, "/api/transactions?type=transfer", nil)
	if code != http.StatusOK || resp.Pagination.Total != 3 {
		t.Fatalf("lenient type filter: %d %+v", code, resp.Pagination)
	}
}

func TestListEmptyCollection(t *testing.T) {
	srv := newTestServer(t)
	code, resp := do(t, srv, http.MethodGet, "/api/transactions", nil)
	if code != http.StatusOK {
		t.Fatalf("list: %d", code)
	}
	if string(resp.Data) != "[]" {
		t.Fatalf("empty listing must be an empty array, got %s", resp.Data)
	}
	if resp.Pagination == nil || resp.Pagination.Pages != 0 {
		t.Fatalf("unexpected pagination %+v", resp.Pagination)
	}
}

func TestSummaryAndBreakdownEndpoints(t *testing.T) {
	srv := newTestServer(t)

	createTransaction(t, srv, "Salary", "income", 100, "salary", "2024-01-01")
	createTransaction(t, srv, "Groceries", "expense", 40, "food", "2024-01-02")
	createTransaction(t, srv, "Rent", "expense", 60, "bills", "2024-01-03")

	code, resp := do(t, srv, http.MethodGet, "/api/transactions/summary/stats", nil)
	if code != http.StatusOK {
		t.Fatalf("summary: %d", code)
	}
	var sum core.Summary
	if err := json.Unmarshal(resp.Data, &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.TotalIncome != 100 || sum.TotalExpenses != 100 || sum.CurrentBalance != 0 || sum.TransactionCount != 3 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	code, resp = do(t, srv, http.MethodGet, "/api/transactions/summary/breakdown", nil)
	if code != http.StatusOK {
		t.Fatalf("breakdown: %d", code)
	}
	var entries []core.BreakdownEntry
	if err := json.Unmarshal(resp.Data, &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	if entries[0].Category != core.CategoryBills || entries[0].Percentage != 60 {
		t.Fatalf("unexpected leading entry %+v", entries[0])
	}
}

func TestDashboardCombinesSummaryAndBreakdown(t *testing.T) {
	srv := newTestServer(t)
	createTransaction(t, srv, "Salary", "income", 100, "salary", "2024-01-01")
	createTransaction(t, srv, "Rent", "expense", 60, "bills", "2024-01-02")

	code, resp := do(t, srv, http.MethodGet, "/api/dashboard", nil)
	if code != http.StatusOK {
		t.Fatalf("dashboard: %d", code)
	}
	var dash struct {
		Summary   core.Summary          `json:"summary"`
		Breakdown []core.BreakdownEntry `json:"breakdown"`
	}
	if err := json.Unmarshal(resp.Data, &dash); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dash.Summary.TransactionCount != 2 || len(dash.Breakdown) != 1 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
}

func TestRegisterLoginProfile(t *testing.T) {
	srv := newTestServer(t)

	code, resp := do(t, srv, http.MethodPost, "/api/users/register", map[string]any{
		"name":     "John Doe",
		"email":    "John.Doe@Example.com",
		"password": "password123",
	})
	if code != http.StatusCreated {
		t.Fatalf("register: %d %+v", code, resp)
	}
	var profile profileData
	if err := json.Unmarshal(resp.Data, &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.Email != "john.doe@example.com" {
		t.Fatalf("email not normalized: %q", profile.Email)
	}
	if bytes.Contains(resp.Data, []byte("password")) {
		t.Fatalf("profile must never expose the password hash: %s", resp.Data)
	}

	code, _ = do(t, srv, http.MethodPost, "/api/users/register", map[string]any{
		"name":     "Other",
		"email":    "john.doe@example.com",
		"password": "password123",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("duplicate email must be rejected, got %d", code)
	}

	code, _ = do(t, srv, http.MethodPost, "/api/users/login", map[string]any{
		"email":    "john.doe@example.com",
		"password": "password123",
	})
	if code != http.StatusOK {
		t.Fatalf("login: %d", code)
	}

	code, _ = do(t, srv, http.MethodPost, "/api/users/login", map[string]any{
		"email":    "john.doe@example.com",
		"password": "wrong-password",
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("wrong password must be 401, got %d", code)
	}

	code, resp = do(t, srv, http.MethodPut, "/api/users/profile/"+profile.ID, map[string]any{
		"name":          "John D.",
		"currency":      "EUR",
		"monthlyBudget": 2500,
	})
	if code != http.StatusOK {
		t.Fatalf("update profile: %d %+v", code, resp)
	}

	code, resp = do(t, srv, http.MethodGet, "/api/users/profile/"+profile.ID, nil)
	if code != http.StatusOK {
		t.Fatalf("get profile: %d", code)
	}
	if err := json.Unmarshal(resp.Data, &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.Name != "John D." || profile.Currency != "EUR" || profile.MonthlyBudget != 2500 {
		t.Fatalf("profile not updated: %+v", profile)
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	srv := newTestServer(t)
	code, resp := do(t, srv, http.MethodPost, "/api/users/login", map[string]any{"email": "a@b.co"})
	if code != http.StatusBadRequest || resp.Success {
		t.Fatalf("got %d %+v", code, resp)
	}
}

func TestParseListQuery(t *testing.T) {
	q := url.Values{}
	q.Set("type", "expense")
	q.Set("category", "food")
	q.Set("startDate", "2024-01-01")
	q.Set("endDate", "bogus")
	q.Set("search", " coffee ")
	q.Set("page", "3")
	q.Set("limit", "25")

	f, p := parseListQuery(q)
	if f.Type != core.Expense || f.Category != core.CategoryFood {
		t.Fatalf("unexpected filter %+v", f)
	}
	if f.StartDate.IsZero() {
		t.Fatalf("valid start date dropped")
	}
	if !f.EndDate.IsZero() {
		t.Fatalf("bogus end date must be dropped, got %v", f.EndDate)
	}
	if p.Number != 3 || p.Limit != 25 {
		t.Fatalf("unexpected page %+v", p)
	}

	// defaults
	f, p = parseListQuery(url.Values{})
	if f != (core.Filter{}) || p.Number != 1 || p.Limit != core.DefaultPageLimit {
		t.Fatalf("unexpected defaults %+v %+v", f, p)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/transactions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allowed origin header = %q", got)
	}
	if methods := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "POST") {
		t.Fatalf("POST missing from allowed methods %q", methods)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Fatalf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestRateLimitsMutations(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]any{"title": "t", "type": "expense", "amount": 10, "category": "food", "date": "2024-01-10"}
	for i := 0; i < 60; i++ {
		code, _ := do(t, srv, http.MethodPost, "/api/transactions", body)
		if code == http.StatusTooManyRequests {
			t.Fatalf("limited too early, request %d", i+1)
		}
	}

	code, resp := do(t, srv, http.MethodPost, "/api/transactions", body)
	if code != http.StatusTooManyRequests || resp.Success {
		t.Fatalf("expected 429 past the limit, got %d %+v", code, resp)
	}

	// reads are never limited
	code, _ = do(t, srv, http.MethodGet, "/api/transactions", nil)
	if code != http.StatusOK {
		t.Fatalf("read blocked: %d", code)
	}

	// another client is unaffected
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("other client limited: %d", rec.Code)
	}
}

func TestOwnerScopedListing(t *testing.T) {
	srv := newTestServer(t)

	for i, owner := range []string{"alice", "alice", "bob"} {
		code, resp := do(t, srv, http.MethodPost, "/api/transactions", map[string]any{
			"title":    fmt.Sprintf("t%d", i),
			"type":     "expense",
			"amount":   10,
			"category": "food",
			"date":     "2024-01-10",
			"ownerId":  owner,
		})
		if code != http.StatusCreated {
			t.Fatalf("create: %d %+v", code, resp)
		}
	}

	code, resp := do(t, srv, http.MethodGet, "/api/transactions?ownerId=alice", nil)
	if code != http.StatusOK || resp.Pagination.Total != 2 {
		t.Fatalf("owner listing: %d %+v", code, resp.Pagination)
	}
}
