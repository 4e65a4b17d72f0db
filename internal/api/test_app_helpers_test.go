package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/config"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/db"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/i18n"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/security"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
)

const (
	testSecretKey = "0123456789abcdef0123456789abcdef"
	testAdminKey  = "sbk_test-operator-key"
)

type testApp struct {
	app     *fiber.App
	handler *Handler
	ledger  *services.LedgerService
}

func newLedgerTestApp(t *testing.T) *testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "siteboost-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repositories := db.NewRepositories(database)
	ledger := services.NewLedgerService(repositories, config.DefaultPolicy(), services.LedgerOptions{
		OperationTimeout: 5 * time.Second,
		IdempotencyTTL:   24 * time.Hour,
	})
	if err := ledger.SyncCatalog(context.Background()); err != nil {
		t.Fatalf("sync catalog: %v", err)
	}

	i18nManager, err := i18n.NewManager("en")
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	adminKeyHash, err := security.HashAdminKey(testAdminKey)
	if err != nil {
		t.Fatalf("hash admin key: %v", err)
	}

	handler, err := NewHandler(ledger, services.NewExportService(repositories.Transactions, 5*time.Second), testSecretKey, adminKeyHash, i18nManager)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	return &testApp{app: NewApp(handler), handler: handler, ledger: ledger}
}

func bearerFor(t *testing.T, userID string, verified bool) string {
	t.Helper()

	token, err := IssueAccessToken(testSecretKey, services.Identity{
		UserID:        userID,
		Email:         userID + "@example.com",
		EmailVerified: verified,
	}, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

type testRequest struct {
	method  string
	path    string
	body    string
	headers map[string]string
}

func (app *testApp) do(t *testing.T, request testRequest) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if request.body != "" {
		body = strings.NewReader(request.body)
	}
	httpRequest := httptest.NewRequest(request.method, request.path, body)
	if request.body != "" {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	for key, value := range request.headers {
		httpRequest.Header.Set(key, value)
	}

	response, err := app.app.Test(httpRequest, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.method, request.path, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return response, payload
}

func decodeJSON(t *testing.T, payload []byte, target any) {
	t.Helper()

	if err := json.Unmarshal(payload, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(payload), err)
	}
}

type apiErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func readAPIError(t *testing.T, payload []byte) apiErrorPayload {
	t.Helper()

	result := apiErrorPayload{}
	decodeJSON(t, payload, &result)
	return result
}
