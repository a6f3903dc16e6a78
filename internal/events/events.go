package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/bakerypos/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleCompletedEvent is emitted after a sale is recorded in the ledger.
type SaleCompletedEvent struct {
	SaleID    uuid.UUID       `json:"sale_id"`
	Timestamp time.Time       `json:"timestamp"`
	Total     decimal.Decimal `json:"total"`
	Change    decimal.Decimal `json:"change"`
	Items     int64           `json:"items"`
	Shift     domain.Shift    `json:"shift,omitempty"`
}

func (e SaleCompletedEvent) Subject() string {
	return SubjectSaleCompleted
}

func (e SaleCompletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// CatalogChangedEvent is emitted after a product is added, updated or removed.
type CatalogChangedEvent struct {
	ProductID uuid.UUID `json:"product_id"`
	Action    string    `json:"action"` // added, updated, removed
	Count     int       `json:"count"`  // catalog size after the change
}

func (e CatalogChangedEvent) Subject() string {
	return SubjectCatalogChanged
}

func (e CatalogChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// FloatChangedEvent is emitted after the opening cash float is edited.
type FloatChangedEvent struct {
	Amount decimal.Decimal `json:"amount"`
}

func (e FloatChangedEvent) Subject() string {
	return SubjectFloatChanged
}

func (e FloatChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
