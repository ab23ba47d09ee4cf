package cascade

import (
	"testing"

	"github.com/shopspring/decimal"

	"landed-cost/core/discount"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func dp(f float64) *decimal.Decimal {
	v := decimal.NewFromFloat(f)
	return &v
}

func assertAmount(t *testing.T, name string, got Stage, want float64) {
	t.Helper()
	if !got.Amount.Round(2).Equal(d(want).Round(2)) {
		t.Errorf("%s = %s, want %v", name, got.Amount, want)
	}
}

// Three units at 250 with a 1% breakpoint and no logistics configured:
// FOB only, every downstream stage zero, and the discount surfaced for
// display without reducing the total.
func TestComputeGoodsOnlyOrder(t *testing.T) {
	table := discount.Table{ThreeUnits: dp(1)}

	b := Compute(d(250), 3, table, Inputs{})

	if !b.DiscountPercent.Equal(d(1)) {
		t.Errorf("DiscountPercent = %s, want 1", b.DiscountPercent)
	}
	assertAmount(t, "FOB", b.FOB, 750)
	assertAmount(t, "Freight", b.Freight, 0)
	assertAmount(t, "OriginExpenses", b.OriginExpenses, 0)
	assertAmount(t, "CIF", b.CIF, 750)
	assertAmount(t, "Insurance", b.Insurance, 0)
	assertAmount(t, "DestinationExpenses", b.DestinationExpenses, 0)
	assertAmount(t, "TaxableBase", b.TaxableBase, 750)
	assertAmount(t, "Tariff", b.Tariff, 0)
	assertAmount(t, "VAT", b.VAT, 0)
	assertAmount(t, "Total", b.Total, 750)
	if !b.PerUnit.Equal(d(250)) {
		t.Errorf("PerUnit = %s, want 250", b.PerUnit)
	}
}

// Full logistics inputs: every stage derives from the one before it.
func TestComputeFullLogistics(t *testing.T) {
	in := Inputs{
		VolumeM3:                  dp(1),
		FreightCostPerM3:          dp(115),
		MarineInsurancePercentage: dp(1),
		DestinationExpenses:       dp(350),
		TariffPercentage:          dp(3),
		VATPercentage:             dp(21),
	}

	b := Compute(d(1000), 1, discount.Table{}, in)

	assertAmount(t, "FOB", b.FOB, 1000)
	assertAmount(t, "Freight", b.Freight, 115)
	assertAmount(t, "CIF", b.CIF, 1115)
	assertAmount(t, "Insurance", b.Insurance, 11.15)
	assertAmount(t, "TaxableBase", b.TaxableBase, 1476.15)
	assertAmount(t, "Tariff", b.Tariff, 44.28)
	assertAmount(t, "VAT", b.VAT, 319.29)

	// 1476.15 + 44.2845 + 319.291245
	diff := b.Total.Amount.Sub(d(1839.72)).Abs()
	if diff.GreaterThan(d(0.01)) {
		t.Errorf("Total = %s, want ~1839.72", b.Total.Amount)
	}
}

// The resolved discount is surfaced for display but is not subtracted
// from FOB on this code path. The real-time calculation service applies
// it; this cascade reproduces the precomputed-field behavior as shipped.
func TestComputeDiscountIsDisplayOnly(t *testing.T) {
	table := discount.Table{TenUnits: dp(10)}

	b := Compute(d(100), 10, table, Inputs{})

	if !b.DiscountPercent.Equal(d(10)) {
		t.Fatalf("DiscountPercent = %s, want 10", b.DiscountPercent)
	}
	assertAmount(t, "FOB", b.FOB, 1000)
	assertAmount(t, "Total", b.Total, 1000)
}

func TestComputeOverridePrecedence(t *testing.T) {
	// A per-unit taxable base wins over deriving from CIF, insurance and
	// destination expenses, and is multiplied by quantity exactly.
	in := Inputs{
		VolumeM3:                  dp(2),
		FreightCostPerM3:          dp(100),
		MarineInsurancePercentage: dp(5),
		DestinationExpenses:       dp(500),
		TaxableBase:               dp(1234.56),
	}

	b := Compute(d(100), 3, discount.Table{}, in)

	if !b.TaxableBase.Overridden() {
		t.Fatal("TaxableBase should be overridden")
	}
	want := d(1234.56).Mul(decimal.NewFromInt(3))
	if !b.TaxableBase.Amount.Equal(want) {
		t.Errorf("TaxableBase = %s, want %s", b.TaxableBase.Amount, want)
	}
}

func TestComputePerUnitOverrides(t *testing.T) {
	in := Inputs{
		ShippingCostTotal:   dp(50),
		CIFValue:            dp(1050),
		MarineInsuranceCost: dp(10.5),
		TariffCost:          dp(31.82),
		VATCost:             dp(229.39),
		TotalCostWithTaxes:  dp(1321.71),
	}

	b := Compute(d(1000), 2, discount.Table{}, in)

	assertAmount(t, "Freight", b.Freight, 100)
	assertAmount(t, "CIF", b.CIF, 2100)
	assertAmount(t, "Insurance", b.Insurance, 21)
	assertAmount(t, "Tariff", b.Tariff, 63.64)
	assertAmount(t, "VAT", b.VAT, 458.78)
	assertAmount(t, "Total", b.Total, 2643.42)

	for name, stage := range map[string]Stage{
		"Freight":   b.Freight,
		"CIF":       b.CIF,
		"Insurance": b.Insurance,
		"Tariff":    b.Tariff,
		"VAT":       b.VAT,
		"Total":     b.Total,
	} {
		if !stage.Overridden() {
			t.Errorf("%s should be overridden", name)
		}
	}
}

func TestComputeStagesNeverNegative(t *testing.T) {
	cases := []struct {
		name      string
		unitPrice decimal.Decimal
		quantity  int64
		in        Inputs
	}{
		{"no inputs", d(0), 1, Inputs{}},
		{"goods only", d(99.99), 7, Inputs{}},
		{"full rates", d(1500), 4, Inputs{
			VolumeM3:                  dp(0.5),
			FreightCostPerM3:          dp(120),
			OriginExpenses:            dp(80),
			MarineInsurancePercentage: dp(1),
			DestinationExpenses:       dp(350),
			TariffPercentage:          dp(3),
			VATPercentage:             dp(21),
		}},
		{"zero rates", d(10), 2, Inputs{
			VolumeM3:                  dp(0),
			FreightCostPerM3:          dp(0),
			MarineInsurancePercentage: dp(0),
			TariffPercentage:          dp(0),
			VATPercentage:             dp(0),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Compute(tc.unitPrice, tc.quantity, discount.Table{}, tc.in)
			stages := map[string]Stage{
				"FOB":                 b.FOB,
				"Freight":             b.Freight,
				"OriginExpenses":      b.OriginExpenses,
				"CIF":                 b.CIF,
				"Insurance":           b.Insurance,
				"DestinationExpenses": b.DestinationExpenses,
				"TaxableBase":         b.TaxableBase,
				"Tariff":              b.Tariff,
				"VAT":                 b.VAT,
				"Total":               b.Total,
			}
			for name, stage := range stages {
				if stage.Amount.IsNegative() {
					t.Errorf("%s = %s, negative stage", name, stage.Amount)
				}
			}
		})
	}
}

// Quantity zero must not produce NaN or infinity at per-unit display time.
func TestComputeQuantityZeroPerUnit(t *testing.T) {
	b := Compute(d(500), 0, discount.Table{}, Inputs{
		VolumeM3:         dp(1),
		FreightCostPerM3: dp(115),
	})

	if !b.PerUnit.IsZero() {
		t.Errorf("PerUnit = %s, want 0 for quantity 0", b.PerUnit)
	}
	assertAmount(t, "FOB", b.FOB, 0)
	assertAmount(t, "Total", b.Total, 0)
}

func TestComputeFreightNeedsBothVolumeAndRate(t *testing.T) {
	onlyVolume := Compute(d(100), 1, discount.Table{}, Inputs{VolumeM3: dp(2)})
	assertAmount(t, "Freight (volume only)", onlyVolume.Freight, 0)

	onlyRate := Compute(d(100), 1, discount.Table{}, Inputs{FreightCostPerM3: dp(115)})
	assertAmount(t, "Freight (rate only)", onlyRate.Freight, 0)

	both := Compute(d(100), 2, discount.Table{}, Inputs{VolumeM3: dp(2), FreightCostPerM3: dp(115)})
	assertAmount(t, "Freight (both)", both.Freight, 460)
}
