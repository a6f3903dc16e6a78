// Package rest provides the HTTP facade over the register session. Every
// operation returns plain data, so any front end can drive the core.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/bakerypos/internal/catalog"
	poserrors "github.com/abgdnv/bakerypos/internal/errors"
	"github.com/abgdnv/bakerypos/internal/register"
	"github.com/abgdnv/bakerypos/internal/report"
	"github.com/abgdnv/bakerypos/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handler struct {
	session  *register.Session
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates the HTTP facade for the given register session.
func NewHandler(session *register.Session, logger *slog.Logger) *Handler {
	return &Handler{
		session:  session,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the register.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Patch("/items/{id}", h.ChangeCartQuantity)
			r.Delete("/items/{id}", h.RemoveCartItem)
		})
		r.Post("/payment/quote", h.QuotePayment)
		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.ListSales)
			r.Post("/", h.ConfirmSale)
		})
		r.Get("/reports", h.GetReport)
		r.Route("/register", func(r chi.Router) {
			r.Get("/float", h.GetOpeningFloat)
			r.Put("/float", h.SetOpeningFloat)
			r.Get("/denominations", h.GetDenominations)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// ListProducts returns the whole catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, h.session.Products())
}

// CreateProduct adds a new product to the catalog.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	in, ok := h.decodeProductInput(w, r, mLogger)
	if !ok {
		return
	}
	created, err := h.session.AddProduct(r.Context(), in)
	if err != nil {
		h.respondCoreError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product created", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// UpdateProduct replaces a product's fields, keeping its id.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	in, ok := h.decodeProductInput(w, r, mLogger)
	if !ok {
		return
	}
	updated, err := h.session.UpdateProduct(r.Context(), id, in)
	if err != nil {
		h.respondCoreError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteProduct removes a product. Idempotent, always 204.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	h.session.RemoveProduct(r.Context(), id)
	web.RespondJSON(w, mLogger, http.StatusNoContent, nil)
}

// GetCart returns the current cart aggregate.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, h.session.Cart())
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// AddCartItem adds one unit of a product to the cart.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req addItemRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	id := uuid.MustParse(req.ProductID)
	view, err := h.session.AddToCart(r.Context(), id)
	if err != nil {
		h.respondCoreError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, view)
}

type quantityRequest struct {
	Delta int32 `json:"delta" validate:"required"`
}

// ChangeCartQuantity adjusts a line quantity by a signed delta.
func (h *Handler) ChangeCartQuantity(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var req quantityRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.session.ChangeQuantity(id, req.Delta))
}

// RemoveCartItem deletes a cart line entirely.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.session.RemoveFromCart(id))
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, h.session.ClearCart())
}

type paymentRequest struct {
	Tendered decimal.Decimal `json:"tendered"`
	Exact    bool            `json:"exact"`
}

// QuotePayment reports total, change and confirmability for a tendered amount.
func (h *Handler) QuotePayment(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	quote, err := h.session.QuotePayment(req.Tendered, req.Exact)
	if err != nil {
		h.respondCoreError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, quote)
}

// ConfirmSale completes the transaction for the current cart.
func (h *Handler) ConfirmSale(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	completed, err := h.session.ConfirmSale(r.Context(), req.Tendered, req.Exact)
	if err != nil {
		h.respondCoreError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusCreated, completed)
}

// ListSales returns the ledger, most recent first.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, h.session.Sales())
}

// GetReport aggregates the ledger for ?period=day|week|month.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	period, err := report.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.session.Report(period, time.Now()))
}

type floatResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

// GetOpeningFloat returns the opening cash float.
func (h *Handler) GetOpeningFloat(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, floatResponse{Amount: h.session.OpeningFloat()})
}

// SetOpeningFloat replaces the opening cash float.
func (h *Handler) SetOpeningFloat(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req floatResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.session.SetOpeningFloat(r.Context(), req.Amount); err != nil {
		h.respondCoreError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, floatResponse{Amount: req.Amount})
}

// GetDenominations returns the preset bill amounts.
func (h *Handler) GetDenominations(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, h.session.Denominations())
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeProductInput decodes and validates the product payload shared by
// create and update.
func (h *Handler) decodeProductInput(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (catalog.ProductInput, bool) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return in, false
	}
	if !h.validateStruct(w, r, mLogger, in) {
		return in, false
	}
	return in, true
}

// decodeAndValidate decodes the body into dst and runs struct validation.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return h.validateStruct(w, r, mLogger, dst)
}

func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, v any) bool {
	if err := h.validate.Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondCoreError maps core errors onto HTTP statuses.
func (h *Handler) respondCoreError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error) {
	switch {
	case errors.Is(err, poserrors.ErrProductNotFound):
		mLogger.WarnContext(r.Context(), "Product not found", "error", err)
		web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
	case errors.Is(err, poserrors.ErrInvalidProduct), errors.Is(err, poserrors.ErrInvalidAmount):
		mLogger.WarnContext(r.Context(), "Invalid input", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
	case errors.Is(err, poserrors.ErrEmptyCart):
		web.RespondError(w, mLogger, http.StatusConflict, "Cart is empty")
	case errors.Is(err, poserrors.ErrInsufficientPayment):
		web.RespondError(w, mLogger, http.StatusConflict, "Tendered amount does not cover the total")
	default:
		mLogger.ErrorContext(r.Context(), "Unexpected error", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// loggerWithReqID returns the handler logger enriched with the request id.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	return h.logger.With("request_id", middleware.GetReqID(r.Context()))
}
