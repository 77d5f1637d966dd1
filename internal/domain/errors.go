package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product has no row in the store
	ErrProductNotFound = errors.New("product not found")

	// ErrNoPriceHistory is returned when a product has no price records
	ErrNoPriceHistory = errors.New("no price history for product")

	// ErrEmptyImage is returned when a decoded image has no pixels
	ErrEmptyImage = errors.New("image has no pixels")

	// ErrUnknownProduct is returned when a name is not part of the catalog
	ErrUnknownProduct = errors.New("product not in catalog")

	// ErrInsufficientData is returned when a series is too short to fit a model
	ErrInsufficientData = errors.New("insufficient data for model fit")
)
