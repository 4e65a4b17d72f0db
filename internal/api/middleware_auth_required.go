package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/security"
)

const (
	adminKeyAttemptLimit  = 5
	adminKeyAttemptWindow = 15 * time.Minute
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	identity, err := handler.authenticateRequest(c)
	if err != nil {
		return handler.apiError(c, fiber.StatusUnauthorized, codeUnauthenticated)
	}

	c.Locals(contextIdentityKey, identity)
	return c.Next()
}

// VerifiedEmailRequired runs after AuthRequired on routes that move credits.
func (handler *Handler) VerifiedEmailRequired(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, codeUnauthenticated)
	}
	if !identity.EmailVerified {
		return handler.apiError(c, fiber.StatusForbidden, codeEmailNotVerified)
	}
	return c.Next()
}

func (handler *Handler) AdminKeyRequired(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := handler.now()
	if handler.adminLimiter.blocked(limiterKey, now) {
		c.Set(fiber.HeaderRetryAfter, "900")
		return handler.apiError(c, fiber.StatusTooManyRequests, codeTooManyAttempts)
	}

	if !security.VerifyAdminKey(handler.adminKeyHash, c.Get(adminKeyHeader)) {
		handler.adminLimiter.recordFailure(limiterKey, now)
		return handler.apiError(c, fiber.StatusForbidden, codeForbidden)
	}

	handler.adminLimiter.reset(limiterKey)
	return c.Next()
}
