// =============================================================================
// Recycle Register - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - catalog
//   - ledger
//   - validation
//   - cmd
//
// =============================================================================

package types

import "github.com/shopspring/decimal"

// =============================================================================
// CATALOG TYPES
// =============================================================================

// Item is one entry of the item catalog.
type Item struct {
	// ID is the item number printed on the price tag.
	ID string

	// Name is the item's display name.
	Name string

	// InitialPrice is the price the item was listed at.
	InitialPrice decimal.Decimal

	// DiscountPrice is set when the item has been marked down.
	DiscountPrice decimal.NullDecimal

	// Row is the item's row in the catalog table (0-based, data rows only).
	Row int
}

// Price returns the price charged: the discount price when present,
// otherwise the initial price.
func (i Item) Price() decimal.Decimal {
	if i.DiscountPrice.Valid {
		return i.DiscountPrice.Decimal
	}
	return i.InitialPrice
}

// =============================================================================
// LEDGER TYPES
// =============================================================================

// Purchase is one recorded sale, joined with its catalog entry.
type Purchase struct {
	// Row is the purchase's row in the ledger (0-based, data rows only).
	Row int

	// CustomerID is the checkout number the sale was recorded under.
	CustomerID string

	// ItemID is the purchased item number.
	ItemID string

	// Matched reports whether ItemID was found in the catalog. Name and Price
	// are empty when it was not.
	Matched bool

	// Name is the item's name from the catalog.
	Name string

	// Price is the price charged.
	Price decimal.Decimal
}

// Receipt lists one customer's purchases.
type Receipt struct {
	// CustomerID is the checkout number.
	CustomerID string

	// Lines are the purchases in ledger order.
	Lines []Purchase

	// Total is the sum of the matched lines' prices.
	Total decimal.Decimal

	// Unmatched counts lines whose item number is not in the catalog.
	Unmatched int
}
