// Package cart implements the transient shopping cart. A cart is created
// empty, cleared on sale completion or explicit clear, and never persisted.
package cart

import (
	"github.com/abgdnv/bakerypos/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is an ordered sequence of cart lines; order is the insertion order of
// the first add per product. Cart is not safe for concurrent use, the owning
// session serializes access.
type Cart struct {
	lines []domain.CartLine
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts one unit of product into the cart. If a line for the product
// already exists its quantity is incremented, otherwise a new line is
// appended with a snapshot of the product's current name, price and category.
func (c *Cart) Add(p domain.Product) {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, domain.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Quantity:  1,
	})
}

// Remove deletes the line for productID entirely. No-op if absent.
func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// ChangeQuantity adds delta (may be negative) to the line's quantity.
// A resulting quantity of zero or below removes the line, it is never
// clamped. No-op if the line is absent.
func (c *Cart) ChangeQuantity(productID uuid.UUID, delta int32) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity += delta
			if c.lines[i].Quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			}
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Total is the canonical cart total: the sum of quantity times price over
// all lines. It is recomputed on every call, never cached.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
