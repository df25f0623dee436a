package repo

import "errors"

var (
	// ErrProductNotFound is returned when a product is not in the store.
	ErrProductNotFound = errors.New("product not found")
	// ErrSaleNotFound is returned when a sale is not in the store.
	ErrSaleNotFound = errors.New("sale not found")
	// ErrOperatorNotFound is returned when an operator is not in the store.
	ErrOperatorNotFound = errors.New("operator not found")
	// ErrDuplicateSKU is returned when a create or update would reuse an
	// existing SKU.
	ErrDuplicateSKU = errors.New("sku already in use")
	// ErrInsufficientStock is returned when a mutation would drive a
	// product's quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrSKUMismatch is returned when a sale names a SKU that no longer
	// matches the product it references.
	ErrSKUMismatch = errors.New("sku does not match product")
)
