package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) ListAchievements(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, codeUnauthenticated)
	}

	progress, err := handler.ledger.ListAchievements(c.UserContext(), identity)
	if err != nil {
		return handler.ledgerError(c, err)
	}
	return c.JSON(fiber.Map{"achievements": newAchievementResponses(progress)})
}

func (handler *Handler) ListNotifications(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, codeUnauthenticated)
	}
	limit, err := parseLimit(c)
	if err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, codeInvalidRequest)
	}

	notifications, err := handler.ledger.ListNotifications(c.UserContext(), identity, limit)
	if err != nil {
		return handler.ledgerError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": newNotificationResponses(notifications)})
}
