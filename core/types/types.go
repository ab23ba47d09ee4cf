// Package types - Shared domain types for the landed-cost engine
package types

import "github.com/shopspring/decimal"

// Currency represents a currency code
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Symbol returns the display symbol for the currency
func (c Currency) Symbol() string {
	switch c {
	case CurrencyUSD:
		return "$"
	default:
		return "€"
	}
}

// Product is a catalog row as consumed by the calculation engine.
// Every numeric field except the unit price is nullable: absence means
// "not configured", which the cascade treats as a zero-cost stage, never
// as an error.
type Product struct {
	// ID uniquely identifies the product
	ID string `json:"id"`

	// SellerID identifies the manufacturer listing the product
	SellerID string `json:"seller_id,omitempty"`

	// Name is the product display name
	Name string `json:"name"`

	// Category is the product category, used for tariff lookup
	Category string `json:"category,omitempty"`

	// OriginPort is the default port of origin for shipments
	OriginPort string `json:"origin_port,omitempty"`

	// PriceUnit is the FOB unit price
	PriceUnit decimal.Decimal `json:"price_unit"`

	// MOQ is the minimum order quantity
	MOQ int64 `json:"moq"`

	// VolumeM3 is the packed volume per unit in cubic meters
	VolumeM3 *decimal.Decimal `json:"volume_m3,omitempty"`

	// WeightKg is the gross weight per unit in kilograms
	WeightKg *decimal.Decimal `json:"weight_kg,omitempty"`

	// LeadTimeDays is the production lead time in days
	LeadTimeDays *int `json:"lead_time_days,omitempty"`

	// FreightCostPerM3 is the maritime freight rate
	FreightCostPerM3 *decimal.Decimal `json:"freight_cost_per_m3,omitempty"`

	// OriginExpenses are pre-shipment local costs per shipment
	OriginExpenses *decimal.Decimal `json:"origin_expenses,omitempty"`

	// MarineInsurancePercentage is the insurance rate, 0-100
	MarineInsurancePercentage *decimal.Decimal `json:"marine_insurance_percentage,omitempty"`

	// DestinationExpenses are destination-side local costs per shipment
	DestinationExpenses *decimal.Decimal `json:"destination_expenses,omitempty"`

	// TariffPercentage is the import duty rate, 0-100
	TariffPercentage *decimal.Decimal `json:"tariff_percentage,omitempty"`

	// VATPercentage is the value-added tax rate, 0-100
	VATPercentage *decimal.Decimal `json:"vat_percentage,omitempty"`

	// Volume discount breakpoints, percentage 0-100 each, nil when the
	// seller has not configured the breakpoint.
	Discount3u  *decimal.Decimal `json:"discount_3u,omitempty"`
	Discount5u  *decimal.Decimal `json:"discount_5u,omitempty"`
	Discount8u  *decimal.Decimal `json:"discount_8u,omitempty"`
	Discount10u *decimal.Decimal `json:"discount_10u,omitempty"`

	// Precomputed per-unit totals. When set they take precedence over
	// deriving the matching cascade stage.
	ShippingCostTotal   *decimal.Decimal `json:"shipping_cost_total,omitempty"`
	CIFValue            *decimal.Decimal `json:"cif_value,omitempty"`
	MarineInsuranceCost *decimal.Decimal `json:"marine_insurance_cost,omitempty"`
	TaxableBase         *decimal.Decimal `json:"taxable_base,omitempty"`
	TariffCost          *decimal.Decimal `json:"tariff_cost,omitempty"`
	VATCost             *decimal.Decimal `json:"vat_cost,omitempty"`
	TotalCostWithTaxes  *decimal.Decimal `json:"total_cost_with_taxes,omitempty"`
}

// PtrFloat returns a pointer to a decimal built from a float literal.
func PtrFloat(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

// ValueOrZero dereferences a nullable decimal, defaulting to zero.
func ValueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
