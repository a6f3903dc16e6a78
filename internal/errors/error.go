// Package errors provides custom error types for point-of-sale operations.
package errors

import "errors"

var (
	// ErrProductNotFound is returned when a referenced product id is unknown.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProduct is returned when product input fails validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrEmptyCart is returned when payment is attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientPayment is returned when the tendered amount is below
	// the cart total at confirmation time.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrInvalidAmount is returned for negative or non-numeric money input.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrStorage wraps persistence failures. Reads degrade to defaults,
	// writes are best-effort; neither is fatal to the process.
	ErrStorage = errors.New("storage failure")
)
