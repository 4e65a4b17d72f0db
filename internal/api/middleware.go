package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
)

const (
	contextIdentityKey   = "current_identity"
	contextLanguageKey   = "current_language"
	idempotencyKeyHeader = "Idempotency-Key"
	adminKeyHeader       = "X-Admin-Key"
)

func currentIdentity(c *fiber.Ctx) (services.Identity, bool) {
	identity, ok := c.Locals(contextIdentityKey).(services.Identity)
	return identity, ok
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}
