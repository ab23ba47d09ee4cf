// Package cascade computes the landed-cost breakdown from precomputed
// product fields.
//
// The cascade is a linear chain of derived monetary amounts:
//
//	FOB -> freight -> CIF -> insurance -> taxable base -> tariff -> VAT -> total
//
// Every stage accepts a per-unit override: when a product carries a flat
// precomputed cost field instead of volumetric rates, the override is
// multiplied by the order quantity and takes precedence over deriving the
// stage from its inputs. Absent configuration is a zero-cost stage, never
// an error, so Compute is total over its input space.
package cascade

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/discount"
	"landed-cost/core/types"
)

var hundred = decimal.NewFromInt(100)

// Source records how a stage amount was produced.
type Source int

const (
	// SourceDerived means the amount came from the stage formula.
	SourceDerived Source = iota

	// SourceOverride means a precomputed per-unit value was used.
	SourceOverride
)

// Stage is one amount in the cascade together with its provenance. The
// explicit tag keeps the override precedence rule visible instead of
// burying it in nil checks.
type Stage struct {
	Amount decimal.Decimal
	Source Source
}

// Overridden reports whether the stage used a precomputed value.
func (s Stage) Overridden() bool {
	return s.Source == SourceOverride
}

func derived(amount decimal.Decimal) Stage {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return Stage{Amount: amount, Source: SourceDerived}
}

func overridden(perUnit decimal.Decimal, quantity decimal.Decimal) Stage {
	amount := perUnit.Mul(quantity)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return Stage{Amount: amount, Source: SourceOverride}
}

// Inputs are the optional logistics and tax inputs for one calculation.
// Rate fields drive the stage formulas; the override fields are precomputed
// per-unit amounts that win over derivation when present.
type Inputs struct {
	// Rate inputs
	VolumeM3                  *decimal.Decimal
	FreightCostPerM3          *decimal.Decimal
	OriginExpenses            *decimal.Decimal
	MarineInsurancePercentage *decimal.Decimal
	DestinationExpenses       *decimal.Decimal
	TariffPercentage          *decimal.Decimal
	VATPercentage             *decimal.Decimal

	// Per-unit overrides
	ShippingCostTotal   *decimal.Decimal
	CIFValue            *decimal.Decimal
	MarineInsuranceCost *decimal.Decimal
	TaxableBase         *decimal.Decimal
	TariffCost          *decimal.Decimal
	VATCost             *decimal.Decimal
	TotalCostWithTaxes  *decimal.Decimal
}

// Breakdown is the fully populated cascade result. Every stage is always
// present; absent inputs produce zero-amount stages.
type Breakdown struct {
	UnitPrice decimal.Decimal
	Quantity  int64

	// DiscountPercent is the resolved volume discount, 0-100. It is
	// surfaced for display; this code path does not subtract it from FOB.
	DiscountPercent decimal.Decimal

	FOB                 Stage
	Freight             Stage
	OriginExpenses      Stage
	CIF                 Stage
	Insurance           Stage
	DestinationExpenses Stage
	TaxableBase         Stage
	Tariff              Stage
	VAT                 Stage
	Total               Stage

	// PerUnit is Total divided by Quantity, zero when Quantity is zero.
	PerUnit decimal.Decimal
}

// Compute runs the cascade. It is a pure function: no I/O, no error
// conditions, negative intermediate results clamped to zero.
func Compute(unitPrice decimal.Decimal, quantity int64, table discount.Table, in Inputs) Breakdown {
	qty := decimal.NewFromInt(quantity)

	b := Breakdown{
		UnitPrice:       unitPrice,
		Quantity:        quantity,
		DiscountPercent: discount.Resolve(quantity, table),
	}

	b.FOB = derived(unitPrice.Mul(qty))

	switch {
	case in.ShippingCostTotal != nil:
		b.Freight = overridden(*in.ShippingCostTotal, qty)
	case in.VolumeM3 != nil && in.FreightCostPerM3 != nil:
		b.Freight = derived(in.VolumeM3.Mul(*in.FreightCostPerM3).Mul(qty))
	default:
		b.Freight = derived(decimal.Zero)
	}

	if in.OriginExpenses != nil {
		b.OriginExpenses = derived(*in.OriginExpenses)
	} else {
		b.OriginExpenses = derived(decimal.Zero)
	}

	if in.CIFValue != nil {
		b.CIF = overridden(*in.CIFValue, qty)
	} else {
		b.CIF = derived(b.FOB.Amount.Add(b.Freight.Amount).Add(b.OriginExpenses.Amount))
	}

	if in.MarineInsuranceCost != nil {
		b.Insurance = overridden(*in.MarineInsuranceCost, qty)
	} else {
		b.Insurance = derived(b.CIF.Amount.Mul(percent(in.MarineInsurancePercentage)))
	}

	if in.DestinationExpenses != nil {
		b.DestinationExpenses = derived(*in.DestinationExpenses)
	} else {
		b.DestinationExpenses = derived(decimal.Zero)
	}

	if in.TaxableBase != nil {
		b.TaxableBase = overridden(*in.TaxableBase, qty)
	} else {
		b.TaxableBase = derived(b.CIF.Amount.Add(b.Insurance.Amount).Add(b.DestinationExpenses.Amount))
	}

	if in.TariffCost != nil {
		b.Tariff = overridden(*in.TariffCost, qty)
	} else {
		b.Tariff = derived(b.TaxableBase.Amount.Mul(percent(in.TariffPercentage)))
	}

	if in.VATCost != nil {
		b.VAT = overridden(*in.VATCost, qty)
	} else {
		b.VAT = derived(b.TaxableBase.Amount.Add(b.Tariff.Amount).Mul(percent(in.VATPercentage)))
	}

	if in.TotalCostWithTaxes != nil {
		b.Total = overridden(*in.TotalCostWithTaxes, qty)
	} else {
		b.Total = derived(b.TaxableBase.Amount.Add(b.Tariff.Amount).Add(b.VAT.Amount))
	}

	// Guard the per-unit division: quantity zero displays as zero, never
	// as NaN or infinity.
	if quantity > 0 {
		b.PerUnit = b.Total.Amount.Div(qty)
	} else {
		b.PerUnit = decimal.Zero
	}

	return b
}

// percent converts a nullable 0-100 percentage into a multiplier.
func percent(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return p.Div(hundred)
}

// InputsFromProduct builds cascade inputs from a catalog row.
func InputsFromProduct(p *types.Product) Inputs {
	return Inputs{
		VolumeM3:                  p.VolumeM3,
		FreightCostPerM3:          p.FreightCostPerM3,
		OriginExpenses:            p.OriginExpenses,
		MarineInsurancePercentage: p.MarineInsurancePercentage,
		DestinationExpenses:       p.DestinationExpenses,
		TariffPercentage:          p.TariffPercentage,
		VATPercentage:             p.VATPercentage,
		ShippingCostTotal:         p.ShippingCostTotal,
		CIFValue:                  p.CIFValue,
		MarineInsuranceCost:       p.MarineInsuranceCost,
		TaxableBase:               p.TaxableBase,
		TariffCost:                p.TariffCost,
		VATCost:                   p.VATCost,
		TotalCostWithTaxes:        p.TotalCostWithTaxes,
	}
}
