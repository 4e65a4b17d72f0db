package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
)

func (handler *Handler) GetBalance(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, codeUnauthenticated)
	}

	view, err := handler.ledger.GetBalance(c.UserContext(), identity)
	if err != nil {
		return handler.ledgerError(c, err)
	}
	return c.JSON(newBalanceResponse(view))
}

func (handler *Handler) Consume(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, codeUnauthenticated)
	}

	input := consumeInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, codeInvalidRequest)
	}

	result, err := handler.ledger.Consume(c.UserContext(), identity, input.Category, input.Metadata, c.Get(idempotencyKeyHeader))
	if err != nil {
		return handler.ledgerError(c, err)
	}
	return c.JSON(newConsumeResponse(result))
}

func (handler *Handler) AddCredits(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, codeUnauthenticated)
	}

	input := creditInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, codeInvalidRequest)
	}

	result, err := handler.ledger.AddCredits(c.UserContext(), identity, input.Amount, input.Description, input.Type)
	if err != nil {
		return handler.ledgerError(c, err)
	}
	return c.JSON(newCreditResponse(result))
}

func (handler *Handler) ListTransactions(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, codeUnauthenticated)
	}
	limit, err := parseLimit(c)
	if err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, codeInvalidRequest)
	}

	entries, err := handler.ledger.ListTransactions(c.UserContext(), identity, limit)
	if err != nil {
		return handler.ledgerError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": newTransactionResponses(entries)})
}

func newCreditResponse(result services.CreditResult) creditResponse {
	return creditResponse{
		CreditsAdded: result.CreditsAdded.InexactFloat64(),
		NewBalance:   result.NewBalance.InexactFloat64(),
	}
}
