package models

import (
	"github.com/shopspring/decimal"
)

const (
	MovementPurchase = "purchase"
	MovementSale     = "sale"
)

// MoneyPlaces is the number of decimal places kept for prices and revenue.
const MoneyPlaces = 4

func init() {
	// prices leave the API as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// IsMovementType reports whether t names a known movement type.
func IsMovementType(t string) bool {
	return t == MovementPurchase || t == MovementSale
}
