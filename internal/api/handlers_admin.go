package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// GrantCredits is the operator route used by billing webhooks.
func (handler *Handler) GrantCredits(c *fiber.Ctx) error {
	input := creditInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, codeInvalidRequest)
	}

	userID := c.Params("id")
	result, err := handler.ledger.GrantCredits(c.UserContext(), userID, input.Amount, input.Description, input.Type)
	if err != nil {
		return handler.ledgerError(c, err)
	}

	log.Printf("api: operator granted %s credits to %s", result.CreditsAdded.String(), userID)
	return c.JSON(newCreditResponse(result))
}
