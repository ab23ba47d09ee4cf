// Package display defines the single rendering contract for cost
// breakdowns. Two structurally different sources feed it - the locally
// computed cascade and the remote real-time calculation - each through its
// own pure mapper, so rendering code never branches on where the numbers
// came from.
package display

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/calc"
	"landed-cost/core/cascade"
)

// Values is the flat, pre-formatted projection the rendering layer
// consumes. Fields a source cannot produce are formatted zeros, never
// empty strings.
type Values struct {
	UnitPrice       string `json:"unit_price"`
	DiscountPercent string `json:"discount_percent"`
	DiscountApplied string `json:"discount_applied"`

	FOB                 string `json:"fob"`
	FreightBase         string `json:"freight_base"`
	VolumeSurcharge     string `json:"volume_surcharge"`
	Freight             string `json:"freight"`
	TotalVolumeM3       string `json:"total_volume_m3"`
	OriginExpenses      string `json:"origin_expenses"`
	CIF                 string `json:"cif"`
	Insurance           string `json:"insurance"`
	DestinationExpenses string `json:"destination_expenses"`
	TaxableBase         string `json:"taxable_base"`
	Tariff              string `json:"tariff"`
	VAT                 string `json:"vat"`
	BuyerFee            string `json:"buyer_fee"`
	BuyerFeePercent     string `json:"buyer_fee_percent"`
	Total               string `json:"total"`
	PerUnit             string `json:"per_unit"`

	InsurancePercent string `json:"insurance_percent"`
	TariffPercent    string `json:"tariff_percent"`
	VATPercent       string `json:"vat_percent"`
}

// FromCascade projects a locally computed breakdown. The inputs are passed
// alongside because the rate percentages are display values too and the
// cascade result only carries amounts.
func FromCascade(b cascade.Breakdown, in cascade.Inputs) Values {
	return Values{
		UnitPrice:       Currency(b.UnitPrice),
		DiscountPercent: Percent(b.DiscountPercent),
		DiscountApplied: Currency(decimal.Zero), // display-only discount on this path

		FOB:                 Currency(b.FOB.Amount),
		FreightBase:         Currency(b.Freight.Amount),
		VolumeSurcharge:     Currency(decimal.Zero),
		Freight:             Currency(b.Freight.Amount),
		TotalVolumeM3:       Number(totalVolume(b, in)),
		OriginExpenses:      Currency(b.OriginExpenses.Amount),
		CIF:                 Currency(b.CIF.Amount),
		Insurance:           Currency(b.Insurance.Amount),
		DestinationExpenses: Currency(b.DestinationExpenses.Amount),
		TaxableBase:         Currency(b.TaxableBase.Amount),
		Tariff:              Currency(b.Tariff.Amount),
		VAT:                 Currency(b.VAT.Amount),
		BuyerFee:            Currency(decimal.Zero),
		BuyerFeePercent:     "0%",
		Total:               Currency(b.Total.Amount),
		PerUnit:             Currency(b.PerUnit),

		InsurancePercent: PercentPtr(in.MarineInsurancePercentage),
		TariffPercent:    PercentPtr(in.TariffPercentage),
		VATPercent:       PercentPtr(in.VATPercentage),
	}
}

// FromCalculation projects a remote calculation. The quantity is the one
// the caller requested; the guard against dividing by zero lives here, at
// display time. A malformed payload is reported instead of being rendered
// as zeros.
func FromCalculation(c *calc.Calculation, quantity int64) (Values, error) {
	if err := c.Validate(); err != nil {
		return Values{}, err
	}

	b := c.Breakdown
	p := c.Parameters

	perUnit := decimal.Zero
	if quantity > 0 {
		perUnit = decimal.NewFromFloat(b.Total).Div(decimal.NewFromInt(quantity))
	}

	return Values{
		UnitPrice:       CurrencyFloat(b.PriceUnit),
		DiscountPercent: discountPercent(b),
		DiscountApplied: CurrencyFloat(b.DiscountApplied),

		FOB:                 CurrencyFloat(b.FOB),
		FreightBase:         CurrencyFloat(b.FreightBase),
		VolumeSurcharge:     CurrencyFloat(b.VolumeSurcharge),
		Freight:             CurrencyFloat(b.Freight),
		TotalVolumeM3:       Number(decimal.NewFromFloat(b.TotalVolumeM3)),
		OriginExpenses:      CurrencyFloat(b.OriginExpenses),
		CIF:                 CurrencyFloat(b.CIF),
		Insurance:           CurrencyFloat(b.Insurance),
		DestinationExpenses: CurrencyFloat(b.DestinationExpenses),
		TaxableBase:         CurrencyFloat(b.TaxableBase),
		Tariff:              CurrencyFloat(b.Tariff),
		VAT:                 CurrencyFloat(b.VAT),
		BuyerFee:            CurrencyFloat(b.BuyerFee),
		BuyerFeePercent:     PercentFloat(b.BuyerFeePercentage),
		Total:               CurrencyFloat(b.Total),
		PerUnit:             Currency(perUnit),

		InsurancePercent: PercentFloat(p.MarineInsurancePercentage),
		TariffPercent:    PercentFloat(p.TariffPercentage),
		VATPercent:       PercentFloat(p.VATPercentage),
	}, nil
}

// discountPercent recovers the applied percentage from the amounts.
func discountPercent(b *calc.Breakdown) string {
	gross := b.FOB + b.DiscountApplied
	if gross <= 0 || b.DiscountApplied <= 0 {
		return "0%"
	}
	pct := decimal.NewFromFloat(b.DiscountApplied).
		Div(decimal.NewFromFloat(gross)).
		Mul(decimal.NewFromInt(100))
	return Percent(pct)
}

func totalVolume(b cascade.Breakdown, in cascade.Inputs) decimal.Decimal {
	if in.VolumeM3 == nil {
		return decimal.Zero
	}
	return in.VolumeM3.Mul(decimal.NewFromInt(b.Quantity))
}
