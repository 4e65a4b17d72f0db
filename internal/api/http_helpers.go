package api

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
)

const (
	codeUnauthenticated        = "unauthenticated"
	codeEmailNotVerified       = "email_not_verified"
	codeInvalidCategory        = "invalid_category"
	codeInvalidAmount          = "invalid_amount"
	codeInvalidTransactionType = "invalid_transaction_type"
	codeInvalidRequest         = "invalid_request"
	codeInvalidDateRange       = "invalid_date_range"
	codeInsufficientCredits    = "insufficient_credits"
	codeIdempotencyConflict    = "idempotency_conflict"
	codeLedgerTimeout          = "ledger_timeout"
	codeLedgerUnavailable      = "ledger_unavailable"
	codeForbidden              = "forbidden"
	codeTooManyAttempts        = "too_many_attempts"
	codeNotFound               = "not_found"
	codeInternal               = "internal"

	retryAfterSeconds = "1"
)

type ledgerErrorMapping struct {
	target error
	status int
	code   string
}

// Timeout precedes persistence so a deadline is never reported as a storage fault.
var ledgerErrorMappings = []ledgerErrorMapping{
	{target: services.ErrUnauthenticated, status: fiber.StatusUnauthorized, code: codeUnauthenticated},
	{target: services.ErrEmailNotVerified, status: fiber.StatusForbidden, code: codeEmailNotVerified},
	{target: services.ErrInvalidCategory, status: fiber.StatusBadRequest, code: codeInvalidCategory},
	{target: services.ErrInvalidAmount, status: fiber.StatusBadRequest, code: codeInvalidAmount},
	{target: services.ErrInvalidTransactionType, status: fiber.StatusBadRequest, code: codeInvalidTransactionType},
	{target: services.ErrInvalidLedgerRequest, status: fiber.StatusBadRequest, code: codeInvalidRequest},
	{target: services.ErrExportFromDateInvalid, status: fiber.StatusBadRequest, code: codeInvalidDateRange},
	{target: services.ErrExportToDateInvalid, status: fiber.StatusBadRequest, code: codeInvalidDateRange},
	{target: services.ErrExportRangeInvalid, status: fiber.StatusBadRequest, code: codeInvalidDateRange},
	{target: services.ErrInsufficientCredits, status: fiber.StatusPaymentRequired, code: codeInsufficientCredits},
	{target: services.ErrIdempotencyConflict, status: fiber.StatusConflict, code: codeIdempotencyConflict},
	{target: services.ErrLedgerTimeout, status: fiber.StatusServiceUnavailable, code: codeLedgerTimeout},
	{target: services.ErrLedgerPersistence, status: fiber.StatusServiceUnavailable, code: codeLedgerUnavailable},
}

func (handler *Handler) apiError(c *fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": handler.i18n.Translate(currentLanguage(c), "error."+code),
	})
}

func (handler *Handler) ledgerError(c *fiber.Ctx, err error) error {
	for _, mapping := range ledgerErrorMappings {
		if !errors.Is(err, mapping.target) {
			continue
		}
		if mapping.status == fiber.StatusServiceUnavailable {
			c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
		}
		return handler.apiError(c, mapping.status, mapping.code)
	}

	log.Printf("api: unmapped ledger error on %s %s: %v", c.Method(), c.Path(), err)
	return handler.apiError(c, fiber.StatusInternalServerError, codeInternal)
}

// ErrorHandler renders errors that escape handlers, such as fiber's own
// routing errors, in the same JSON shape as ledger errors.
func (handler *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return handler.apiError(c, fiber.StatusNotFound, codeNotFound)
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
			return handler.apiError(c, fiberErr.Code, codeInvalidRequest)
		}
	}

	log.Printf("api: request %s %s failed: %v", c.Method(), c.Path(), err)
	return handler.apiError(c, fiber.StatusInternalServerError, codeInternal)
}

// parseLimit reads the optional limit query parameter. Zero means the
// service default.
func parseLimit(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return limit, nil
}

func requestLimiterKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}
