// Package sale implements the cash payment flow: quoting change for a
// tendered amount and converting a cart into an immutable ledger entry.
package sale

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/bakerypos/internal/cart"
	"github.com/abgdnv/bakerypos/internal/domain"
	poserrors "github.com/abgdnv/bakerypos/internal/errors"
	"github.com/abgdnv/bakerypos/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Denominations are the preset bill amounts offered to seed the tendered
// amount during payment.
func Denominations() []decimal.Decimal {
	return []decimal.Decimal{
		decimal.NewFromInt(20),
		decimal.NewFromInt(50),
		decimal.NewFromInt(100),
		decimal.NewFromInt(200),
		decimal.NewFromInt(500),
	}
}

// Quote reports the payment state for a tendered amount against a total.
// A shortfall disables confirmation; it is a gating condition, not an error.
type Quote struct {
	Total       decimal.Decimal `json:"total"`
	Tendered    decimal.Decimal `json:"tendered"`
	Change      decimal.Decimal `json:"change"`
	Shortfall   decimal.Decimal `json:"shortfall"`
	Confirmable bool            `json:"confirmable"`
}

// NewQuote computes change for a tendered amount. Payment is confirmable
// only when tendered > 0 and tendered >= total.
func NewQuote(total, tendered decimal.Decimal) Quote {
	q := Quote{
		Total:     total,
		Tendered:  tendered,
		Change:    decimal.Zero,
		Shortfall: decimal.Zero,
	}
	if tendered.IsPositive() && tendered.GreaterThanOrEqual(total) {
		q.Change = tendered.Sub(total)
		q.Confirmable = true
	} else {
		q.Shortfall = total.Sub(tendered)
	}
	return q
}

// Processor owns the sale ledger, most-recent-first, and appends to it as
// transactions complete. Sales are immutable once recorded.
//
// Processor is not safe for concurrent use, the owning session serializes access.
type Processor struct {
	kv           store.Store
	logger       *slog.Logger
	ledger       []domain.Sale
	salesCounter metric.Int64Counter
}

// NewProcessor creates a sale processor backed by the given store.
func NewProcessor(kv store.Store, logger *slog.Logger) *Processor {
	meter := otel.Meter("bakerypos")
	salesCounter, err := meter.Int64Counter("sales_completed",
		metric.WithDescription("Total number of completed sales"))
	if err != nil {
		panic(fmt.Sprintf("failed to create sales_completed counter: %v", err))
	}
	return &Processor{
		kv:           kv,
		logger:       logger.With("component", "sale"),
		salesCounter: salesCounter,
	}
}

// Load reads the persisted ledger. Absent or corrupt data yields an empty
// ledger; a corrupt blob is logged, not fatal.
func (p *Processor) Load(ctx context.Context) {
	ledger, state, err := store.LoadJSON[[]domain.Sale](ctx, p.kv, store.KeySales)
	if err != nil {
		p.logger.WarnContext(ctx, "Ledger read failed, starting empty", "error", err)
	}
	switch state {
	case store.Loaded:
		p.ledger = ledger
	case store.Corrupt:
		p.logger.WarnContext(ctx, "Stored ledger is corrupt, starting empty")
	}
}

// Ledger returns a copy of the sales, most recent first.
func (p *Processor) Ledger() []domain.Sale {
	out := make([]domain.Sale, len(p.ledger))
	copy(out, p.ledger)
	return out
}

// Begin validates entry into payment for the given cart and returns the
// opening quote with a zero tendered amount.
// Returns ErrEmptyCart if the cart has no lines.
func (p *Processor) Begin(c *cart.Cart) (Quote, error) {
	if c.IsEmpty() {
		return Quote{}, poserrors.ErrEmptyCart
	}
	return NewQuote(c.Total(), decimal.Zero), nil
}

// Confirm completes the transaction: it re-validates the cart and tendered
// amount, records the sale with its shift classification at the front of the
// ledger and clears the cart. The tendered amount must cover the total,
// otherwise ErrInsufficientPayment is returned and nothing changes.
func (p *Processor) Confirm(ctx context.Context, c *cart.Cart, tendered decimal.Decimal, now time.Time) (*domain.Sale, error) {
	if c.IsEmpty() {
		return nil, poserrors.ErrEmptyCart
	}
	total := c.Total()
	if !tendered.IsPositive() || tendered.LessThan(total) {
		return nil, fmt.Errorf("tendered %s below total %s: %w",
			tendered.StringFixed(2), total.StringFixed(2), poserrors.ErrInsufficientPayment)
	}

	s := domain.Sale{
		ID:             uuid.New(),
		Timestamp:      now,
		Lines:          c.Lines(),
		Total:          total,
		AmountTendered: tendered,
		ChangeReturned: tendered.Sub(total),
		PaymentMethod:  domain.PaymentCash,
		Shift:          domain.ClassifyShift(now),
	}

	p.ledger = append([]domain.Sale{s}, p.ledger...)
	c.Clear()
	p.persist(ctx)
	p.salesCounter.Add(ctx, 1)

	p.logger.InfoContext(ctx, "Sale completed",
		"sale_id", s.ID,
		"total", s.Total.StringFixed(2),
		"change", s.ChangeReturned.StringFixed(2),
		"shift", string(s.Shift),
	)
	return &s, nil
}

// persist writes the ledger through the store. Failures are logged and the
// register keeps running on in-memory state for the session.
func (p *Processor) persist(ctx context.Context) {
	if err := store.SaveJSON(ctx, p.kv, store.KeySales, p.ledger); err != nil {
		p.logger.ErrorContext(ctx, "Failed to persist ledger", "error", err)
	}
}
