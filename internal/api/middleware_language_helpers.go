package api

import "github.com/gofiber/fiber/v2"

// LanguageMiddleware picks the response language. An explicit lang query
// parameter wins over Accept-Language.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language := handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	if explicit := c.Query("lang"); explicit != "" {
		language = handler.i18n.NormalizeLanguage(explicit)
	}

	c.Locals(contextLanguageKey, language)
	c.Set(fiber.HeaderContentLanguage, language)
	return c.Next()
}
