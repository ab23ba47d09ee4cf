// Package calc - Wire types for the real-time logistics calculation
// contract. The same shapes are produced by the calculation service and
// consumed by the quote orchestrator, so the two sides cannot drift.
package calc

import (
	"landed-cost/core/timeline"
	"landed-cost/internal/errors"
)

// Request identifies one calculation: a product, a quantity and a
// destination. Ports are optional; the service falls back to the product's
// origin port and the default destination lane.
type Request struct {
	ProductID          string `json:"product_id"`
	Quantity           int64  `json:"quantity"`
	DestinationCountry string `json:"destination_country"`
	DestinationPort    string `json:"destination_port,omitempty"`
	OriginPort         string `json:"origin_port,omitempty"`
}

// Validate checks the request for fields the service cannot default.
func (r *Request) Validate() error {
	if r.ProductID == "" {
		return errors.Input("product_id is required")
	}
	if r.Quantity <= 0 {
		return errors.Input("quantity must be positive")
	}
	if r.DestinationCountry == "" {
		return errors.Input("destination_country is required")
	}
	return nil
}

// Breakdown is the server-computed cost breakdown. All amounts are totals
// for the whole order, rounded to 2 decimals, in EUR.
type Breakdown struct {
	PriceUnit                float64 `json:"price_unit"`
	DiscountApplied          float64 `json:"discount_applied"`
	FOB                      float64 `json:"fob"`
	FreightBase              float64 `json:"freight_base"`
	VolumeSurcharge          float64 `json:"volume_surcharge"`
	Freight                  float64 `json:"freight"`
	TotalVolumeM3            float64 `json:"total_volume_m3"`
	OriginExpenses           float64 `json:"origin_expenses"`
	CIF                      float64 `json:"cif"`
	Insurance                float64 `json:"insurance"`
	DestinationVariableTotal float64 `json:"destination_variable_total"`
	DestinationFixedCost     float64 `json:"destination_fixed_cost"`
	DUACost                  float64 `json:"dua_cost"`
	DestinationExpenses      float64 `json:"destination_expenses"`
	TaxableBase              float64 `json:"taxable_base"`
	Tariff                   float64 `json:"tariff"`
	VAT                      float64 `json:"vat"`
	SubtotalShippingTaxes    float64 `json:"subtotal_shipping_taxes"`
	TotalWithoutTaxes        float64 `json:"total_without_taxes"`
	BuyerFee                 float64 `json:"buyer_fee"`
	BuyerFeePercentage       float64 `json:"buyer_fee_percentage"`
	Total                    float64 `json:"total"`
}

// Parameters echoes the rate inputs the service actually used.
type Parameters struct {
	FreightCostPerM3          float64 `json:"freight_cost_per_m3"`
	MarineInsurancePercentage float64 `json:"marine_insurance_percentage"`
	DestinationVariableCost   float64 `json:"destination_variable_cost"`
	TariffPercentage          float64 `json:"tariff_percentage"`
	VATPercentage             float64 `json:"vat_percentage"`
}

// TransitInfo names the ports the calculation assumed. IsStale is set when
// the requested lane was not in the rate table and defaults were used.
type TransitInfo struct {
	OriginPort      string `json:"origin_port"`
	DestinationPort string `json:"destination_port"`
	IsStale         bool   `json:"is_stale"`
}

// Calculation is the complete real-time response. It is immutable once
// returned: consumers either display it verbatim or recompute locally,
// never both for the same field.
type Calculation struct {
	Breakdown        *Breakdown         `json:"breakdown"`
	Parameters       *Parameters        `json:"parameters"`
	TransitInfo      *TransitInfo       `json:"transit_info,omitempty"`
	DeliveryTimeline *timeline.Estimate `json:"delivery_timeline,omitempty"`
}

// Validate checks the response shape before it is projected for display.
// A payload missing its nested objects fails into the error state instead
// of rendering undefined values.
func (c *Calculation) Validate() error {
	if c == nil {
		return errors.Calculation("calculation payload is empty", nil)
	}
	if c.Breakdown == nil {
		return errors.Calculation("calculation payload has no breakdown", nil)
	}
	if c.Parameters == nil {
		return errors.Calculation("calculation payload has no parameters", nil)
	}
	return nil
}

// Envelope is the transport wrapper for the calculation endpoint.
type Envelope struct {
	Success     bool         `json:"success"`
	Calculation *Calculation `json:"calculation,omitempty"`
	Error       string       `json:"error,omitempty"`
}
