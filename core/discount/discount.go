// Package discount resolves volume-based quantity discounts.
//
// Sellers configure up to four breakpoints (3, 5, 8 and 10 units), each an
// optional percentage. A nil breakpoint means "not configured", which is not
// the same as a 0% discount: resolution skips it and keeps looking at lower
// breakpoints.
package discount

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/types"
)

// Table holds the per-product discount breakpoints.
type Table struct {
	ThreeUnits *decimal.Decimal
	FiveUnits  *decimal.Decimal
	EightUnits *decimal.Decimal
	TenUnits   *decimal.Decimal
}

// TableFromProduct builds a discount table from a catalog row.
func TableFromProduct(p *types.Product) Table {
	return Table{
		ThreeUnits: p.Discount3u,
		FiveUnits:  p.Discount5u,
		EightUnits: p.Discount8u,
		TenUnits:   p.Discount10u,
	}
}

// breakpoint pairs a quantity threshold with its configured discount.
type breakpoint struct {
	threshold int64
	percent   *decimal.Decimal
}

// Resolve returns the best applicable discount percentage (0-100) for the
// given quantity. Breakpoints are evaluated from highest to lowest; the
// first one whose threshold the quantity meets and whose value is configured
// wins. Quantities below 3 units never receive a discount.
func Resolve(quantity int64, table Table) decimal.Decimal {
	breakpoints := []breakpoint{
		{10, table.TenUnits},
		{8, table.EightUnits},
		{5, table.FiveUnits},
		{3, table.ThreeUnits},
	}

	for _, bp := range breakpoints {
		if quantity >= bp.threshold && bp.percent != nil {
			return *bp.percent
		}
	}

	return decimal.Zero
}
