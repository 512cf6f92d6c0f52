package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"usahaku/backend/internal/service"
	"usahaku/backend/internal/store/memory"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager
// and real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo)
	auth := NewAuthManager("test-secret-key", time.Hour, repo)

	return New(svc, auth, "*")
}

func loginAs(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d (body: %s)", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatalf("expected access token, got %v", body)
	}
	return token
}

func csrfToken(t *testing.T, handler http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/csrf-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("csrf token fetch failed: %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode csrf body: %v", err)
	}
	token, _ := body["csrf_token"].(string)
	if token == "" {
		t.Fatalf("expected csrf token")
	}
	return token
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleLogin_Success(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	token := loginAs(t, handler, "owner", "owner123")
	if token == "" {
		t.Fatalf("expected token")
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{
		"username": "owner",
		"password": "wrongpassword",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleLogin_RateLimit(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	// The loginLimiter allows 5 attempts per minute.
	// Fire 6 requests from the same "IP".
	payload, _ := json.Marshal(map[string]string{
		"username": "owner",
		"password": "badpass",
	})

	var lastCode int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after 6 attempts, got %d", lastCode)
	}
}

func TestHandleInventory_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleInventory_WithValidToken(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Items) == 0 {
		t.Fatalf("expected seeded inventory items")
	}
}

func TestMutatingRequestRequiresCSRFToken(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")

	payload, _ := json.Marshal(map[string]any{
		"name":        "Teh Celup",
		"price":       8.5,
		"quantity":    30,
		"description": "",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without CSRF token, got %d", rec.Code)
	}
}

func TestCreateInventoryItem(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")
	csrf := csrfToken(t, handler)

	payload, _ := json.Marshal(map[string]any{
		"name":        "Teh Celup",
		"price":       8.5,
		"quantity":    30,
		"description": "box of 25",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrf)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Item map[string]any `json:"item"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Item["id"] == "" || body.Item["id"] == nil {
		t.Fatalf("expected assigned item id, got %v", body.Item)
	}
}

func TestRecordSaleEndpoint(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")
	csrf := csrfToken(t, handler)

	// Find a seeded item to sell.
	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	listRec := httptest.NewRecorder()
	handler.ServeHTTP(listRec, listReq)

	var listBody struct {
		Items []struct {
			ID       string  `json:"id"`
			Price    float64 `json:"price"`
			Quantity int     `json:"quantity"`
		} `json:"items"`
	}
	if err := json.NewDecoder(listRec.Body).Decode(&listBody); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listBody.Items) == 0 {
		t.Fatalf("expected seeded items")
	}
	item := listBody.Items[0]

	payload, _ := json.Marshal(map[string]any{
		"item_id":  item.ID,
		"quantity": 2,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrf)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Sale struct {
			Total float64 `json:"total"`
		} `json:"sale"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode sale: %v", err)
	}
	if body.Sale.Total != item.Price*2 {
		t.Fatalf("expected total %v, got %v", item.Price*2, body.Sale.Total)
	}
}

func TestPayrollEndpointsRequireOwnerRole(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	staffToken := loginAs(t, handler, "staff", "staff123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/weekly-payments?week_start=2026-08-23", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff, got %d", rec.Code)
	}

	ownerToken := loginAs(t, handler, "owner", "owner123")
	req = httptest.NewRequest(http.MethodGet, "/api/v1/payroll/weekly-payments?week_start=2026-08-23", nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestAttendanceToggleEndpoint(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")
	csrf := csrfToken(t, handler)

	empReq := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	empReq.Header.Set("Authorization", "Bearer "+token)
	empRec := httptest.NewRecorder()
	handler.ServeHTTP(empRec, empReq)

	var empBody struct {
		Employees []struct {
			ID string `json:"id"`
		} `json:"employees"`
	}
	if err := json.NewDecoder(empRec.Body).Decode(&empBody); err != nil {
		t.Fatalf("decode employees: %v", err)
	}
	if len(empBody.Employees) == 0 {
		t.Fatalf("expected seeded employees")
	}

	toggle := func() bool {
		payload, _ := json.Marshal(map[string]string{
			"employee_id": empBody.Employees[0].ID,
			"date":        "2026-08-24",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/toggle", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-CSRF-Token", csrf)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("toggle failed: %d (body: %s)", rec.Code, rec.Body.String())
		}
		var body struct {
			Present bool `json:"present"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode toggle: %v", err)
		}
		return body.Present
	}

	if !toggle() {
		t.Fatalf("first toggle should mark present")
	}
	if toggle() {
		t.Fatalf("second toggle should mark absent")
	}
}

func TestStoreSummaryEndpoint(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "owner", "owner123")

	storesReq := httptest.NewRequest(http.MethodGet, "/api/v1/stores", nil)
	storesReq.Header.Set("Authorization", "Bearer "+token)
	storesRec := httptest.NewRecorder()
	handler.ServeHTTP(storesRec, storesReq)

	var storesBody struct {
		Stores []struct {
			ID string `json:"id"`
		} `json:"stores"`
	}
	if err := json.NewDecoder(storesRec.Body).Decode(&storesBody); err != nil {
		t.Fatalf("decode stores: %v", err)
	}
	if len(storesBody.Stores) == 0 {
		t.Fatalf("expected seeded stores")
	}

	url := fmt.Sprintf("/api/v1/analytics/summary?store_id=%s&start=2026-08-01&end=2026-08-07", storesBody.Stores[0].ID)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Summary struct {
			Days           int     `json:"days"`
			BreakEvenDaily float64 `json:"break_even_daily"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if body.Summary.Days != 7 {
		t.Fatalf("expected 7-day range, got %d", body.Summary.Days)
	}
}

func TestClearAllForbiddenForStaff(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")
	csrf := csrfToken(t, handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/clear-all", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrf)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff, got %d", rec.Code)
	}
}

func TestParsePositiveLimitCaps(t *testing.T) {
	if got := parsePositiveLimit("9999", 200, 1000); got != 1000 {
		t.Fatalf("expected capped limit 1000, got %d", got)
	}
	if got := parsePositiveLimit("", 200, 1000); got != 200 {
		t.Fatalf("expected fallback limit 200, got %d", got)
	}
	if got := parsePositiveLimit("-5", 200, 1000); got != 200 {
		t.Fatalf("expected fallback on negative input, got %d", got)
	}
}
