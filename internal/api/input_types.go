package api

import "github.com/shopspring/decimal"

type consumeInput struct {
	Category string         `json:"category"`
	Metadata map[string]any `json:"metadata"`
}

// creditInput is shared by the self-service and operator credit routes.
// Amount accepts a JSON number or a decimal string.
type creditInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
}
