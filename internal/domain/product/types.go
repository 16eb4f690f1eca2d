package product

import "errors"

var (
	ErrEmptyProductID      = errors.New("product id cannot be empty")
	ErrNegativeInventory   = errors.New("total inventory cannot be negative")
	ErrInvalidVariantCount = errors.New("total variants must be at least 1")
)
