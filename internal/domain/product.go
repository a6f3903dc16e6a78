// Package domain defines the point-of-sale entities: products, cart lines
// and sales.
package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. ID is unique and immutable after creation;
// all other fields are replaceable via catalog edit.
type Product struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}
