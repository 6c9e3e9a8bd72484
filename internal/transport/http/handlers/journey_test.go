package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/GimTech1/SistemadeRH-sub002/internal/app/server"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func testConfig(t *testing.T, dbURL string) config.Config {
	t.Helper()
	return config.Config{
		Addr:               ":0",
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		DataEncryptionKey:  "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		Environment:        "test",
		StorageDir:         t.TempDir(),
		SignedURLTTL:       time.Hour,
		MaxUploadBytes:     10 * 1024 * 1024,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		SeedAdminName:      "Administrador",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            true,
	}
}

func startApp(t *testing.T) (*server.App, *httptest.Server, config.Config) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(t, dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return app, ts, cfg
}

func TestRecognitionQuotaJourney(t *testing.T) {
	_, ts, cfg := startApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	departmentID := createDepartment(t, client, ts.URL, adminToken, fmt.Sprintf("Engenharia %d", time.Now().UnixNano()))

	giverEmail := fmt.Sprintf("giver-%d@example.com", time.Now().UnixNano())
	giverID := createProfile(t, client, ts.URL, adminToken, giverEmail, auth.RoleEmployee, departmentID)
	recipientEmail := fmt.Sprintf("recipient-%d@example.com", time.Now().UnixNano())
	recipientID := createProfile(t, client, ts.URL, adminToken, recipientEmail, auth.RoleEmployee, departmentID)
	_ = giverID

	giverToken := login(t, client, ts.URL, giverEmail, "Journey123!")

	status, raw := postJSONStatus(t, client, ts.URL+"/api/v1/recognition", giverToken, map[string]any{
		"recipientId": recipientID,
		"kind":        "star",
		"reason":      "colaboracao",
		"message":     "",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty message, got %d: %s", status, raw)
	}

	for i := 0; i < 3; i++ {
		resp := postJSON(t, client, ts.URL+"/api/v1/recognition", giverToken, map[string]any{
			"recipientId": recipientID,
			"kind":        "star",
			"reason":      "colaboracao",
			"message":     fmt.Sprintf("Obrigado pela ajuda %d", i+1),
		})
		var payload map[string]any
		if err := json.Unmarshal(resp.Data, &payload); err != nil {
			t.Fatalf("failed to decode award response: %v", err)
		}
		remaining, _ := payload["remaining"].(float64)
		if int(remaining) != 2-i {
			t.Fatalf("expected remaining %d after award %d, got %v", 2-i, i+1, payload["remaining"])
		}
	}

	status, raw = postJSONStatus(t, client, ts.URL+"/api/v1/recognition", giverToken, map[string]any{
		"recipientId": recipientID,
		"kind":        "star",
		"reason":      "colaboracao",
		"message":     "quarta tentativa",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 on fourth award, got %d: %s", status, raw)
	}
	if !bytes.Contains(raw, []byte("já usou todos")) {
		t.Fatalf("expected quota message, got %s", raw)
	}

	quota := getJSON(t, client, ts.URL+"/api/v1/recognition/quota?kind=star", giverToken)
	var quotaPayload map[string]any
	if err := json.Unmarshal(quota.Data, &quotaPayload); err != nil {
		t.Fatalf("failed to decode quota response: %v", err)
	}
	if available, _ := quotaPayload["available"].(float64); available != 0 {
		t.Fatalf("expected zero available after quota spent, got %v", quotaPayload["available"])
	}

	recipientToken := login(t, client, ts.URL, recipientEmail, "Journey123!")
	received := getJSON(t, client, ts.URL+"/api/v1/recognition/received", recipientToken)
	var events []map[string]any
	if err := json.Unmarshal(received.Data, &events); err != nil {
		t.Fatalf("failed to decode received response: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 received events, got %d", len(events))
	}

	notifs := getJSON(t, client, ts.URL+"/api/v1/notifications", recipientToken)
	var notifPayload struct {
		Unread int `json:"unread"`
	}
	if err := json.Unmarshal(notifs.Data, &notifPayload); err != nil {
		t.Fatalf("failed to decode notifications response: %v", err)
	}
	if notifPayload.Unread < 3 {
		t.Fatalf("expected at least 3 unread notifications, got %d", notifPayload.Unread)
	}
}

func TestExpenseReviewJourney(t *testing.T) {
	_, ts, cfg := startApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	departmentID := createDepartment(t, client, ts.URL, adminToken, fmt.Sprintf("Vendas %d", time.Now().UnixNano()))

	managerEmail := fmt.Sprintf("manager-%d@example.com", time.Now().UnixNano())
	createProfile(t, client, ts.URL, adminToken, managerEmail, auth.RoleManager, departmentID)
	employeeEmail := fmt.Sprintf("employee-%d@example.com", time.Now().UnixNano())
	createProfile(t, client, ts.URL, adminToken, employeeEmail, auth.RoleEmployee, departmentID)

	employeeToken := login(t, client, ts.URL, employeeEmail, "Journey123!")
	resp := postJSON(t, client, ts.URL+"/api/v1/expenses", employeeToken, map[string]any{
		"description": "Taxi para reuniao com cliente",
		"amount":      "87.50",
		"category":    "transporte",
	})
	var created map[string]any
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("failed to decode expense response: %v", err)
	}
	expenseID, _ := created["id"].(string)
	if expenseID == "" {
		t.Fatal("expected expense id")
	}

	// The owner holds the approve permission as a manager would, but may
	// never review their own expense.
	managerToken := login(t, client, ts.URL, managerEmail, "Journey123!")
	approve := postJSON(t, client, ts.URL+"/api/v1/expenses/"+expenseID+"/approve", managerToken, map[string]any{
		"note": "Dentro da politica",
	})
	var reviewed map[string]any
	if err := json.Unmarshal(approve.Data, &reviewed); err != nil {
		t.Fatalf("failed to decode approve response: %v", err)
	}
	if status, _ := reviewed["status"].(string); status != "approved" {
		t.Fatalf("expected status approved, got %v", reviewed["status"])
	}

	status, raw := postJSONStatus(t, client, ts.URL+"/api/v1/expenses/"+expenseID+"/reject", managerToken, map[string]any{
		"note": "mudou de ideia",
	})
	if status != http.StatusConflict {
		t.Fatalf("expected 409 on second review, got %d: %s", status, raw)
	}

	list := getJSON(t, client, ts.URL+"/api/v1/expenses", employeeToken)
	var expenses []map[string]any
	if err := json.Unmarshal(list.Data, &expenses); err != nil {
		t.Fatalf("failed to decode expense list: %v", err)
	}
	found := false
	for _, exp := range expenses {
		if exp["id"] == expenseID && exp["status"] == "approved" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected approved expense in employee list")
	}
}

func TestManagerCannotReviewOtherDepartmentExpense(t *testing.T) {
	_, ts, cfg := startApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	deptA := createDepartment(t, client, ts.URL, adminToken, fmt.Sprintf("Financeiro %d", time.Now().UnixNano()))
	deptB := createDepartment(t, client, ts.URL, adminToken, fmt.Sprintf("Marketing %d", time.Now().UnixNano()))

	managerEmail := fmt.Sprintf("manager-b-%d@example.com", time.Now().UnixNano())
	createProfile(t, client, ts.URL, adminToken, managerEmail, auth.RoleManager, deptB)
	employeeEmail := fmt.Sprintf("employee-a-%d@example.com", time.Now().UnixNano())
	createProfile(t, client, ts.URL, adminToken, employeeEmail, auth.RoleEmployee, deptA)

	employeeToken := login(t, client, ts.URL, employeeEmail, "Journey123!")
	resp := postJSON(t, client, ts.URL+"/api/v1/expenses", employeeToken, map[string]any{
		"description": "Almoco com fornecedor",
		"amount":      "45.00",
		"category":    "alimentacao",
	})
	var created map[string]any
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("failed to decode expense response: %v", err)
	}
	expenseID, _ := created["id"].(string)

	managerToken := login(t, client, ts.URL, managerEmail, "Journey123!")
	status, raw := postJSONStatus(t, client, ts.URL+"/api/v1/expenses/"+expenseID+"/approve", managerToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-department review, got %d: %s", status, raw)
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func createDepartment(t *testing.T, client *http.Client, baseURL, token, name string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/departments", token, map[string]any{
		"name": name,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode department response: %v", err)
	}
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("expected department id")
	}
	return id
}

func createProfile(t *testing.T, client *http.Client, baseURL, token, email, role, departmentID string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/profiles", token, map[string]any{
		"fullName":     "Journey Tester",
		"email":        email,
		"password":     "Journey123!",
		"role":         role,
		"departmentId": departmentID,
		"position":     "Analista",
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode profile response: %v", err)
	}
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("expected profile id")
	}
	return id
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	status, raw := doJSON(t, client, http.MethodPost, url, token, body)
	if status >= 400 {
		t.Fatalf("unexpected status %d: %s", status, raw)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, body any) (int, []byte) {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body)
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	status, raw := doJSON(t, client, http.MethodGet, url, token, nil)
	if status >= 400 {
		t.Fatalf("unexpected status %d: %s", status, raw)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	return resp.StatusCode, raw
}
