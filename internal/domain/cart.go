package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product inside a cart. Name, price and category are
// snapshots copied at add time: later catalog edits never change lines
// already in the cart or in past sales.
type CartLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	Quantity  int32           `json:"quantity"`
}

// LineTotal returns quantity times unit price.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt32(l.Quantity))
}
