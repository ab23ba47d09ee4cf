// Package api - Request and response types for the quote API.
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"landed-cost/core/cascade"
	"landed-cost/core/discount"
	"landed-cost/core/display"
)

// QuoteRequest carries the explicit inputs for a locally computed quote.
// This is the path used when no real-time calculation is requested: every
// numeric field is optional and absent fields mean "not configured".
type QuoteRequest struct {
	PriceUnit float64 `json:"price_unit"`
	Quantity  int64   `json:"quantity"`

	Discount3u  *float64 `json:"discount_3u,omitempty"`
	Discount5u  *float64 `json:"discount_5u,omitempty"`
	Discount8u  *float64 `json:"discount_8u,omitempty"`
	Discount10u *float64 `json:"discount_10u,omitempty"`

	VolumeM3                  *float64 `json:"volume_m3,omitempty"`
	FreightCostPerM3          *float64 `json:"freight_cost_per_m3,omitempty"`
	OriginExpenses            *float64 `json:"origin_expenses,omitempty"`
	MarineInsurancePercentage *float64 `json:"marine_insurance_percentage,omitempty"`
	DestinationExpenses       *float64 `json:"destination_expenses,omitempty"`
	TariffPercentage          *float64 `json:"tariff_percentage,omitempty"`
	VATPercentage             *float64 `json:"vat_percentage,omitempty"`

	ShippingCostTotal   *float64 `json:"shipping_cost_total,omitempty"`
	CIFValue            *float64 `json:"cif_value,omitempty"`
	MarineInsuranceCost *float64 `json:"marine_insurance_cost,omitempty"`
	TaxableBase         *float64 `json:"taxable_base,omitempty"`
	TariffCost          *float64 `json:"tariff_cost,omitempty"`
	VATCost             *float64 `json:"vat_cost,omitempty"`
	TotalCostWithTaxes  *float64 `json:"total_cost_with_taxes,omitempty"`
}

// DiscountTable converts the request breakpoints.
func (r *QuoteRequest) DiscountTable() discount.Table {
	return discount.Table{
		ThreeUnits: dec(r.Discount3u),
		FiveUnits:  dec(r.Discount5u),
		EightUnits: dec(r.Discount8u),
		TenUnits:   dec(r.Discount10u),
	}
}

// CascadeInputs converts the request logistics inputs.
func (r *QuoteRequest) CascadeInputs() cascade.Inputs {
	return cascade.Inputs{
		VolumeM3:                  dec(r.VolumeM3),
		FreightCostPerM3:          dec(r.FreightCostPerM3),
		OriginExpenses:            dec(r.OriginExpenses),
		MarineInsurancePercentage: dec(r.MarineInsurancePercentage),
		DestinationExpenses:       dec(r.DestinationExpenses),
		TariffPercentage:          dec(r.TariffPercentage),
		VATPercentage:             dec(r.VATPercentage),
		ShippingCostTotal:         dec(r.ShippingCostTotal),
		CIFValue:                  dec(r.CIFValue),
		MarineInsuranceCost:       dec(r.MarineInsuranceCost),
		TaxableBase:               dec(r.TaxableBase),
		TariffCost:                dec(r.TariffCost),
		VATCost:                   dec(r.VATCost),
		TotalCostWithTaxes:        dec(r.TotalCostWithTaxes),
	}
}

func dec(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

func decFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// QuoteBreakdown is the numeric cascade result on the wire.
type QuoteBreakdown struct {
	DiscountPercent     float64 `json:"discount_percent"`
	FOB                 float64 `json:"fob"`
	Freight             float64 `json:"freight"`
	OriginExpenses      float64 `json:"origin_expenses"`
	CIF                 float64 `json:"cif"`
	Insurance           float64 `json:"insurance"`
	DestinationExpenses float64 `json:"destination_expenses"`
	TaxableBase         float64 `json:"taxable_base"`
	Tariff              float64 `json:"tariff"`
	VAT                 float64 `json:"vat"`
	Total               float64 `json:"total"`
	PerUnit             float64 `json:"per_unit"`
}

// QuoteResponse is the reply to POST /quote.
type QuoteResponse struct {
	RequestID     string         `json:"request_id"`
	Timestamp     time.Time      `json:"timestamp"`
	Breakdown     QuoteBreakdown `json:"breakdown"`
	DisplayValues display.Values `json:"display_values"`
	DurationMs    int64          `json:"duration_ms"`
}

// ErrorResponse is the uniform error reply.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Error     string `json:"error"`
}

func breakdownWire(b cascade.Breakdown) QuoteBreakdown {
	return QuoteBreakdown{
		DiscountPercent:     f2(b.DiscountPercent),
		FOB:                 f2(b.FOB.Amount),
		Freight:             f2(b.Freight.Amount),
		OriginExpenses:      f2(b.OriginExpenses.Amount),
		CIF:                 f2(b.CIF.Amount),
		Insurance:           f2(b.Insurance.Amount),
		DestinationExpenses: f2(b.DestinationExpenses.Amount),
		TaxableBase:         f2(b.TaxableBase.Amount),
		Tariff:              f2(b.Tariff.Amount),
		VAT:                 f2(b.VAT.Amount),
		Total:               f2(b.Total.Amount),
		PerUnit:             f2(b.PerUnit),
	}
}

func f2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
