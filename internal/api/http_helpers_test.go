package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
)

func TestLedgerErrorMapping(t *testing.T) {
	app := newLedgerTestApp(t)

	cases := []struct {
		name           string
		err            error
		wantStatus     int
		wantCode       string
		wantRetryAfter bool
	}{
		{name: "insufficient", err: services.ErrInsufficientCredits, wantStatus: http.StatusPaymentRequired, wantCode: codeInsufficientCredits},
		{name: "invalid category", err: services.ErrInvalidCategory, wantStatus: http.StatusBadRequest, wantCode: codeInvalidCategory},
		{name: "not verified", err: services.ErrEmailNotVerified, wantStatus: http.StatusForbidden, wantCode: codeEmailNotVerified},
		{name: "conflict", err: services.ErrIdempotencyConflict, wantStatus: http.StatusConflict, wantCode: codeIdempotencyConflict},
		{
			name:           "timeout",
			err:            fmt.Errorf("consume: %w: %w", services.ErrLedgerTimeout, context.DeadlineExceeded),
			wantStatus:     http.StatusServiceUnavailable,
			wantCode:       codeLedgerTimeout,
			wantRetryAfter: true,
		},
		{
			name:           "persistence",
			err:            fmt.Errorf("consume: %w: %w", services.ErrLedgerPersistence, errors.New("disk I/O error")),
			wantStatus:     http.StatusServiceUnavailable,
			wantCode:       codeLedgerUnavailable,
			wantRetryAfter: true,
		},
		{name: "unmapped", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: codeInternal},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			router := fiber.New()
			router.Get("/", func(c *fiber.Ctx) error {
				return app.handler.ledgerError(c, testCase.err)
			})

			response, err := router.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer response.Body.Close()

			if response.StatusCode != testCase.wantStatus {
				t.Fatalf("expected status %d, got %d", testCase.wantStatus, response.StatusCode)
			}
			if hasRetryAfter := response.Header.Get("Retry-After") != ""; hasRetryAfter != testCase.wantRetryAfter {
				t.Fatalf("expected Retry-After present=%v", testCase.wantRetryAfter)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "", want: 0},
		{query: "?limit=25", want: 25},
		{query: "?limit=0", wantErr: true},
		{query: "?limit=-3", wantErr: true},
		{query: "?limit=ten", wantErr: true},
	}

	for _, testCase := range cases {
		router := fiber.New()
		var got int
		var gotErr error
		router.Get("/", func(c *fiber.Ctx) error {
			got, gotErr = parseLimit(c)
			return c.SendStatus(fiber.StatusNoContent)
		})

		response, err := router.Test(httptest.NewRequest(http.MethodGet, "/"+testCase.query, nil), -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		response.Body.Close()

		if (gotErr != nil) != testCase.wantErr || (!testCase.wantErr && got != testCase.want) {
			t.Fatalf("parseLimit(%q) = %d, %v", testCase.query, got, gotErr)
		}
	}
}

func TestHealthMetricsAndNotFound(t *testing.T) {
	app := newLedgerTestApp(t)

	response, payload := app.do(t, testRequest{method: http.MethodGet, path: "/healthz"})
	if response.StatusCode != http.StatusOK || !strings.Contains(string(payload), `"ok"`) {
		t.Fatalf("unexpected health response %d: %s", response.StatusCode, payload)
	}

	app.do(t, testRequest{
		method:  http.MethodPost,
		path:    "/api/credits/consume",
		body:    `{"category":"seo"}`,
		headers: map[string]string{"Authorization": bearerFor(t, "user-metrics", true)},
	})
	response, payload = app.do(t, testRequest{method: http.MethodGet, path: "/metrics"})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected metrics status 200, got %d", response.StatusCode)
	}
	if !strings.Contains(string(payload), "siteboost_ledger_consumptions_total") {
		t.Fatal("expected ledger consumption counter in metrics output")
	}

	response, payload = app.do(t, testRequest{method: http.MethodGet, path: "/api/unknown"})
	if response.StatusCode != http.StatusNotFound || readAPIError(t, payload).Error != codeNotFound {
		t.Fatalf("expected JSON 404, got %d: %s", response.StatusCode, payload)
	}
}
