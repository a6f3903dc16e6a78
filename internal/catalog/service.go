// Package catalog provides the implementation of product catalog business logic.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/bakerypos/internal/domain"
	poserrors "github.com/abgdnv/bakerypos/internal/errors"
	"github.com/abgdnv/bakerypos/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInput carries the mutable fields of a product for add and update.
type ProductInput struct {
	Name     string          `json:"name"     validate:"required,max=100"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category" validate:"required,max=50"`
}

// Service owns the product catalog, keeping it in memory and writing it
// through the key-value store after every successful mutation. The catalog
// is small; lookups scan linearly and order is insertion order.
//
// Service is not safe for concurrent use, the owning session serializes access.
type Service struct {
	kv       store.Store
	logger   *slog.Logger
	validate *validator.Validate
	products []domain.Product
}

// NewService creates a catalog service backed by the given store.
func NewService(kv store.Store, logger *slog.Logger) *Service {
	return &Service{
		kv:       kv,
		logger:   logger.With("component", "catalog"),
		validate: validator.New(),
	}
}

// Load reads the persisted catalog. An absent key on first run seeds the
// sample catalog (when seed is true); a corrupt blob is logged and treated
// the same way rather than crashing the register.
func (s *Service) Load(ctx context.Context, seed bool) error {
	products, state, err := store.LoadJSON[[]domain.Product](ctx, s.kv, store.KeyCatalog)
	if err != nil {
		s.logger.WarnContext(ctx, "Catalog read failed, starting with defaults", "error", err)
	}
	switch state {
	case store.Loaded:
		s.products = products
		if len(s.products) > 0 || !seed {
			return nil
		}
	case store.Corrupt:
		s.logger.WarnContext(ctx, "Stored catalog is corrupt, discarding it")
	}

	if seed {
		s.products = SeedProducts()
		s.persist(ctx)
	}
	return nil
}

// Products returns a copy of the catalog in insertion order.
func (s *Service) Products() []domain.Product {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// FindByID retrieves a single product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(id uuid.UUID) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, poserrors.ErrProductNotFound
}

// Add validates the input, assigns a new unique id and appends the product
// to the catalog. Returns ErrInvalidProduct on bad input.
func (s *Service) Add(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	p := domain.Product{
		ID:       uuid.New(),
		Name:     in.Name,
		Price:    in.Price,
		Category: in.Category,
	}
	s.products = append(s.products, p)
	s.persist(ctx)
	return &p, nil
}

// Update replaces all fields except the id, in place, preserving catalog
// order. Returns ErrProductNotFound if id is absent and ErrInvalidProduct on
// bad input.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in ProductInput) (*domain.Product, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Name = in.Name
			s.products[i].Price = in.Price
			s.products[i].Category = in.Category
			p := s.products[i]
			s.persist(ctx)
			return &p, nil
		}
	}
	return nil, poserrors.ErrProductNotFound
}

// Remove deletes the product with the given id. Removal is idempotent: an
// absent id is a no-op, not an error.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) {
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// check validates product input against the catalog rules.
func (s *Service) check(in ProductInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", poserrors.ErrInvalidProduct, err)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than zero", poserrors.ErrInvalidProduct)
	}
	return nil
}

// persist writes the catalog through the store. Failures are logged and the
// register keeps running on in-memory state for the session.
func (s *Service) persist(ctx context.Context) {
	if err := store.SaveJSON(ctx, s.kv, store.KeyCatalog, s.products); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist catalog", "error", err)
	}
}

// SeedProducts returns the sample catalog loaded on first run.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{ID: uuid.New(), Name: "Pan Dulce", Price: decimal.RequireFromString("15.00"), Category: "Panes"},
		{ID: uuid.New(), Name: "Croissant", Price: decimal.RequireFromString("25.00"), Category: "Panes"},
		{ID: uuid.New(), Name: "Donas Glaseadas", Price: decimal.RequireFromString("8.00"), Category: "Panes"},
		{ID: uuid.New(), Name: "Leche Entera", Price: decimal.RequireFromString("22.00"), Category: "Lácteos"},
		{ID: uuid.New(), Name: "Huevos (Docena)", Price: decimal.RequireFromString("35.00"), Category: "Lácteos"},
	}
}
