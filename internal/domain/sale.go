package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates accepted payment methods. Cash is the only one.
type PaymentMethod string

const PaymentCash PaymentMethod = "cash"

// Sale is an immutable record of a completed transaction. The ledger keeps
// sales most-recent-first; sales are never edited or voided.
type Sale struct {
	ID             uuid.UUID       `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	Lines          []CartLine      `json:"lines"`
	Total          decimal.Decimal `json:"total"`
	AmountTendered decimal.Decimal `json:"amount_tendered"`
	ChangeReturned decimal.Decimal `json:"change_returned"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	Shift          Shift           `json:"shift,omitempty"`
}

// ItemCount returns the total quantity across all lines.
func (s Sale) ItemCount() int64 {
	var n int64
	for _, l := range s.Lines {
		n += int64(l.Quantity)
	}
	return n
}
