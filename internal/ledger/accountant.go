// Package ledger holds the pure accounting rules of the portfolio: cost-basis
// weighted averages, fixed-precision rounding, and sufficiency checks. No I/O.
package ledger

import (
	"github.com/shopspring/decimal"

	"portfolio/internal/models"
)

// CashSymbol is the single supported cash unit.
const CashSymbol = "USD"

const (
	moneyPlaces    = 2
	quantityPlaces = 4
)

// RoundMoney rounds to 2 fractional digits. shopspring's Round is
// round-half-away-from-zero, which for the non-negative amounts the ledger
// handles is plain half-up: 2.345 -> 2.35.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// RoundQuantity rounds to 4 fractional digits, the stored precision of
// position quantities and average prices.
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(quantityPlaces)
}

// WeightedAverage combines an existing position with a new lot and returns the
// new quantity and cost-basis-weighted average price (4dp). Cash positions
// always carry an average price of exactly 1.
func WeightedAverage(assetType string, existingQty, existingAvg, addedQty, addedPrice decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	newQty := existingQty.Add(addedQty)
	if assetType == models.AssetTypeCash {
		return RoundQuantity(newQty), decimal.NewFromInt(1), nil
	}
	if newQty.IsZero() {
		return decimal.Zero, decimal.Zero, ErrZeroQuantity
	}
	newAvg := existingQty.Mul(existingAvg).Add(addedQty.Mul(addedPrice)).Div(newQty)
	return RoundQuantity(newQty), RoundQuantity(newAvg), nil
}

// SufficientCash reports whether balance covers cost. Exact decimal
// comparison, no tolerance epsilon.
func SufficientCash(balance, cost decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(cost)
}

// SufficientHoldings reports whether a held quantity covers a requested sell.
func SufficientHoldings(held, requested decimal.Decimal) bool {
	return held.GreaterThanOrEqual(requested)
}
