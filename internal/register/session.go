// Package register implements the point-of-sale session: one explicit
// context object owning catalog, cart and ledger for a single register.
package register

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abgdnv/bakerypos/internal/cart"
	"github.com/abgdnv/bakerypos/internal/catalog"
	"github.com/abgdnv/bakerypos/internal/domain"
	poserrors "github.com/abgdnv/bakerypos/internal/errors"
	"github.com/abgdnv/bakerypos/internal/events"
	"github.com/abgdnv/bakerypos/internal/report"
	"github.com/abgdnv/bakerypos/internal/sale"
	"github.com/abgdnv/bakerypos/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultOpeningFloat is the cash float assumed on first run.
var DefaultOpeningFloat = decimal.RequireFromString("100.00")

// Options configures session startup behavior.
type Options struct {
	// SeedCatalog loads the sample catalog when no catalog is stored.
	SeedCatalog bool
	// DefaultFloat overrides DefaultOpeningFloat when positive.
	DefaultFloat decimal.Decimal
}

// CartView is the cart aggregate returned by every cart mutation, so the
// presentation layer never has to re-query after a change.
type CartView struct {
	Lines []domain.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

// Session owns all mutable register state. A single mutex enforces
// single-writer semantics: nothing in the design assumes multiple concurrent
// mutators, so every operation runs to completion under the lock.
type Session struct {
	mu           sync.Mutex
	kv           store.Store
	pub          events.Publisher
	logger       *slog.Logger
	catalog      *catalog.Service
	cart         *cart.Cart
	sales        *sale.Processor
	openingFloat decimal.Decimal
}

// NewSession loads persisted state and returns a ready session. Storage
// read failures degrade to defaults and are logged; they never prevent the
// register from opening.
func NewSession(ctx context.Context, kv store.Store, pub events.Publisher, logger *slog.Logger, opts Options) (*Session, error) {
	s := &Session{
		kv:      kv,
		pub:     pub,
		logger:  logger.With("component", "register"),
		catalog: catalog.NewService(kv, logger),
		cart:    cart.New(),
		sales:   sale.NewProcessor(kv, logger),
	}

	if err := s.catalog.Load(ctx, opts.SeedCatalog); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	s.sales.Load(ctx)

	defaultFloat := DefaultOpeningFloat
	if opts.DefaultFloat.IsPositive() {
		defaultFloat = opts.DefaultFloat
	}
	amount, state, err := store.LoadJSON[decimal.Decimal](ctx, kv, store.KeyOpeningFloat)
	if err != nil {
		s.logger.WarnContext(ctx, "Opening float read failed, using default", "error", err)
	}
	if state == store.Loaded {
		s.openingFloat = amount
	} else {
		if state == store.Corrupt {
			s.logger.WarnContext(ctx, "Stored opening float is corrupt, using default")
		}
		s.openingFloat = defaultFloat
	}

	return s, nil
}

// --- Catalog ---

// Products returns the catalog in insertion order.
func (s *Session) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Products()
}

// AddProduct validates and appends a new product to the catalog.
func (s *Session) AddProduct(ctx context.Context, in catalog.ProductInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.catalog.Add(ctx, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.CatalogChangedEvent{ProductID: p.ID, Action: "added", Count: len(s.catalog.Products())})
	return p, nil
}

// UpdateProduct replaces all fields of a product except its id.
func (s *Session) UpdateProduct(ctx context.Context, id uuid.UUID, in catalog.ProductInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.catalog.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.CatalogChangedEvent{ProductID: p.ID, Action: "updated", Count: len(s.catalog.Products())})
	return p, nil
}

// RemoveProduct deletes a product. Idempotent: absent ids are a no-op.
// Lines already in the cart or in past sales keep their snapshots.
func (s *Session) RemoveProduct(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog.Remove(ctx, id)
	s.publish(ctx, events.CatalogChangedEvent{ProductID: id, Action: "removed", Count: len(s.catalog.Products())})
}

// --- Cart ---

// Cart returns the current cart aggregate.
func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartView()
}

// AddToCart adds one unit of the product to the cart, snapshotting its
// current fields. Returns ErrProductNotFound for an unknown id.
func (s *Session) AddToCart(ctx context.Context, productID uuid.UUID) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.catalog.FindByID(productID)
	if err != nil {
		return CartView{}, err
	}
	s.cart.Add(*p)
	return s.cartView(), nil
}

// RemoveFromCart deletes the line for productID. No-op if absent.
func (s *Session) RemoveFromCart(productID uuid.UUID) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Remove(productID)
	return s.cartView()
}

// ChangeQuantity adds delta to the line's quantity, removing the line when
// the result drops to zero or below.
func (s *Session) ChangeQuantity(productID uuid.UUID, delta int32) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.ChangeQuantity(productID, delta)
	return s.cartView()
}

// ClearCart empties the cart unconditionally.
func (s *Session) ClearCart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	return s.cartView()
}

// --- Payment ---

// Denominations returns the preset bill amounts for payment seeding.
func (s *Session) Denominations() []decimal.Decimal {
	return sale.Denominations()
}

// QuotePayment reports the payment state for a tendered amount against the
// current cart. With exact set, the tendered amount is the cart total.
// Returns ErrEmptyCart when there is nothing to pay for.
func (s *Session) QuotePayment(tendered decimal.Decimal, exact bool) (sale.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return sale.Quote{}, poserrors.ErrEmptyCart
	}
	total := s.cart.Total()
	if exact {
		tendered = total
	}
	return sale.NewQuote(total, tendered), nil
}

// ConfirmSale completes the transaction: records the sale, clears the cart
// and emits a SaleCompleted event. With exact set, the tendered amount is
// the cart total.
func (s *Session) ConfirmSale(ctx context.Context, tendered decimal.Decimal, exact bool) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exact {
		tendered = s.cart.Total()
	}
	completed, err := s.sales.Confirm(ctx, s.cart, tendered, time.Now())
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.SaleCompletedEvent{
		SaleID:    completed.ID,
		Timestamp: completed.Timestamp,
		Total:     completed.Total,
		Change:    completed.ChangeReturned,
		Items:     completed.ItemCount(),
		Shift:     completed.Shift,
	})
	return completed, nil
}

// Sales returns the ledger, most recent first.
func (s *Session) Sales() []domain.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sales.Ledger()
}

// --- Reports ---

// Report aggregates the ledger for the period containing now.
func (s *Session) Report(period report.Period, now time.Time) report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return report.Build(s.sales.Ledger(), period, now)
}

// --- Opening float ---

// OpeningFloat returns the cash amount the register opened with.
func (s *Session) OpeningFloat() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openingFloat
}

// SetOpeningFloat replaces the opening float. Negative amounts are rejected
// with ErrInvalidAmount.
func (s *Session) SetOpeningFloat(ctx context.Context, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount.IsNegative() {
		return fmt.Errorf("opening float must not be negative: %w", poserrors.ErrInvalidAmount)
	}
	s.openingFloat = amount
	if err := store.SaveJSON(ctx, s.kv, store.KeyOpeningFloat, amount); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist opening float", "error", err)
	}
	s.publish(ctx, events.FloatChangedEvent{Amount: amount})
	return nil
}

// cartView builds the returned aggregate; callers must hold the lock.
func (s *Session) cartView() CartView {
	return CartView{
		Lines: s.cart.Lines(),
		Total: s.cart.Total(),
	}
}

// publish delivers a change event, best-effort. The event outlives the
// request context but is bounded so a slow broker cannot stall a mutation.
func (s *Session) publish(ctx context.Context, e events.Event) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := s.pub.Publish(pctx, e); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event", "subject", e.Subject(), "error", err)
	}
}
