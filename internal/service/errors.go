package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoSession         = errors.New("no checkout in progress")
	ErrNotConfirmable    = errors.New("checkout session is not awaiting confirmation")
	ErrVariantRequired   = errors.New("product variant required")
	ErrUnknownVariant    = errors.New("unknown product variant")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidPageNumber = errors.New("page must not be negative")
)

// VariantRequiredError carries the variants the caller has to choose from.
type VariantRequiredError struct {
	ProductID uint
	Variants  []string
}

func (e *VariantRequiredError) Error() string {
	return fmt.Sprintf("product %d: choose one of %v", e.ProductID, e.Variants)
}

func (e *VariantRequiredError) Is(target error) bool {
	return target == ErrVariantRequired
}
