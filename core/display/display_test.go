package display

import (
	"testing"

	"github.com/shopspring/decimal"

	"landed-cost/core/calc"
	"landed-cost/core/cascade"
	"landed-cost/core/discount"
	"landed-cost/core/timeline"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func ptr(f float64) *decimal.Decimal {
	v := decimal.NewFromFloat(f)
	return &v
}

func TestFromCascadeProjectsEveryStage(t *testing.T) {
	in := cascade.Inputs{
		VolumeM3:                  ptr(1),
		FreightCostPerM3:          ptr(115),
		MarineInsurancePercentage: ptr(1),
		DestinationExpenses:       ptr(350),
		TariffPercentage:          ptr(3),
		VATPercentage:             ptr(21),
	}
	b := cascade.Compute(dec(1000), 1, discount.Table{}, in)

	v := FromCascade(b, in)

	if v.FOB != "€1.000,00" {
		t.Errorf("FOB = %q", v.FOB)
	}
	if v.Freight != "€115,00" {
		t.Errorf("Freight = %q", v.Freight)
	}
	if v.CIF != "€1.115,00" {
		t.Errorf("CIF = %q", v.CIF)
	}
	if v.Insurance != "€11,15" {
		t.Errorf("Insurance = %q", v.Insurance)
	}
	if v.TaxableBase != "€1.476,15" {
		t.Errorf("TaxableBase = %q", v.TaxableBase)
	}
	if v.VATPercent != "21%" {
		t.Errorf("VATPercent = %q", v.VATPercent)
	}
	if v.TariffPercent != "3%" {
		t.Errorf("TariffPercent = %q", v.TariffPercent)
	}
	// Fields only the real-time source produces are formatted zeros, not
	// empty strings.
	if v.BuyerFee != "€0,00" {
		t.Errorf("BuyerFee = %q", v.BuyerFee)
	}
	if v.DiscountApplied != "€0,00" {
		t.Errorf("DiscountApplied = %q", v.DiscountApplied)
	}
}

func TestFromCalculationProjectsBreakdown(t *testing.T) {
	c := &calc.Calculation{
		Breakdown: &calc.Breakdown{
			PriceUnit:       1000,
			DiscountApplied: 0,
			FOB:             1000,
			Freight:         115,
			CIF:             1115,
			Insurance:       11.15,
			TaxableBase:     1661.15,
			Tariff:          49.83,
			VAT:             359.31,
			BuyerFee:        51.76,
			BuyerFeePercentage: 2.5,
			Total:           2122.05,
			TotalVolumeM3:   1,
		},
		Parameters: &calc.Parameters{
			FreightCostPerM3:          115,
			MarineInsurancePercentage: 1,
			TariffPercentage:          3,
			VATPercentage:             21,
		},
		DeliveryTimeline: &timeline.Estimate{TotalMinDays: 40, TotalMaxDays: 55, Complete: true},
	}

	v, err := FromCalculation(c, 1)
	if err != nil {
		t.Fatalf("FromCalculation: %v", err)
	}

	if v.Total != "€2.122,05" {
		t.Errorf("Total = %q", v.Total)
	}
	if v.PerUnit != "€2.122,05" {
		t.Errorf("PerUnit = %q", v.PerUnit)
	}
	if v.BuyerFeePercent != "3%" {
		// 2.5 rounds half away from zero
		t.Errorf("BuyerFeePercent = %q", v.BuyerFeePercent)
	}
	if v.VATPercent != "21%" {
		t.Errorf("VATPercent = %q", v.VATPercent)
	}
}

func TestFromCalculationQuantityZeroPerUnit(t *testing.T) {
	c := &calc.Calculation{
		Breakdown:  &calc.Breakdown{Total: 500},
		Parameters: &calc.Parameters{},
	}

	v, err := FromCalculation(c, 0)
	if err != nil {
		t.Fatalf("FromCalculation: %v", err)
	}
	if v.PerUnit != "€0,00" {
		t.Errorf("PerUnit = %q, want €0,00", v.PerUnit)
	}
}

func TestFromCalculationRejectsMalformedPayload(t *testing.T) {
	cases := []struct {
		name string
		c    *calc.Calculation
	}{
		{"nil calculation", nil},
		{"missing breakdown", &calc.Calculation{Parameters: &calc.Parameters{}}},
		{"missing parameters", &calc.Calculation{Breakdown: &calc.Breakdown{}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromCalculation(tc.c, 1); err == nil {
				t.Error("expected error for malformed payload")
			}
		})
	}
}
