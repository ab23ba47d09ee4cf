// Package calc - Real-time landed-cost calculation service.
// This is the server side of the calculation contract: it derives the full
// breakdown from the product row and the rate tables. Unlike the
// precomputed cascade path, this path applies the volume discount to FOB.
package calc

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"landed-cost/core/discount"
	"landed-cost/core/timeline"
	"landed-cost/core/types"
	"landed-cost/rates"
)

var hundred = decimal.NewFromInt(100)

// Service computes real-time breakdowns.
type Service struct {
	table *rates.Table
	log   *zap.Logger
}

// NewService creates a calculation service over a loaded rate table.
func NewService(table *rates.Table, log *zap.Logger) *Service {
	return &Service{table: table, log: log}
}

// Calculate derives the full breakdown for one product order.
// The product row supplies per-product rates; the rate table fills every
// gap, so the result is always fully populated.
func (s *Service) Calculate(p *types.Product, req Request) (*Calculation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	qty := decimal.NewFromInt(req.Quantity)
	d := s.table.Defaults

	originPort := req.OriginPort
	if originPort == "" {
		originPort = p.OriginPort
	}
	destinationPort := req.DestinationPort
	if destinationPort == "" {
		destinationPort = defaultDestinationPort
	}

	route, routeKnown := s.table.Route(originPort, destinationPort)
	if !routeKnown {
		s.log.Debug("no rate-table route, using default lane rates",
			zap.String("origin_port", originPort),
			zap.String("destination_port", destinationPort))
	}

	// Goods value. The resolved discount is applied here, on the
	// server-computed path.
	grossFOB := p.PriceUnit.Mul(qty)
	discountPct := discount.Resolve(req.Quantity, discount.TableFromProduct(p))
	discountApplied := grossFOB.Mul(discountPct).Div(hundred)
	fob := grossFOB.Sub(discountApplied)

	// Freight: rate times total volume, with a surcharge above the
	// threshold for oversized shipments.
	totalVolume := types.ValueOrZero(p.VolumeM3).Mul(qty)
	freightRate := s.table.FreightRate(route)
	if p.FreightCostPerM3 != nil {
		freightRate = *p.FreightCostPerM3
	}
	freightBase := totalVolume.Mul(freightRate)
	volumeSurcharge := decimal.Zero
	if totalVolume.GreaterThan(decimal.NewFromFloat(d.VolumeSurchargeThresholdM3)) {
		volumeSurcharge = freightBase.Mul(decimal.NewFromFloat(d.VolumeSurchargePercentage)).Div(hundred)
	}
	freight := freightBase.Add(volumeSurcharge)

	originExpenses := types.ValueOrZero(p.OriginExpenses)
	cif := fob.Add(freight).Add(originExpenses)

	insurancePct := decimal.NewFromFloat(d.MarineInsurancePercentage)
	if p.MarineInsurancePercentage != nil {
		insurancePct = *p.MarineInsurancePercentage
	}
	insurance := cif.Mul(insurancePct).Div(hundred)

	// Destination-side costs: variable handling by volume, a fixed local
	// charge and the customs declaration (DUA) fee.
	destVariableRate := decimal.NewFromFloat(d.DestinationVariablePerM3)
	destVariable := destVariableRate.Mul(totalVolume)
	destFixed := decimal.NewFromFloat(d.DestinationFixedCost)
	if p.DestinationExpenses != nil {
		destFixed = *p.DestinationExpenses
	}
	duaCost := decimal.NewFromFloat(d.DUACost)
	destExpenses := destVariable.Add(destFixed).Add(duaCost)

	taxableBase := cif.Add(insurance).Add(destExpenses)

	tariffPct := s.table.TariffPercent(p.Category)
	if p.TariffPercentage != nil {
		tariffPct = *p.TariffPercentage
	}
	tariff := taxableBase.Mul(tariffPct).Div(hundred)

	vatPct := s.table.VATPercent(req.DestinationCountry)
	if p.VATPercentage != nil {
		vatPct = *p.VATPercentage
	}
	vat := taxableBase.Add(tariff).Mul(vatPct).Div(hundred)

	buyerFeePct := decimal.NewFromFloat(d.BuyerFeePercentage)
	buyerFee := taxableBase.Add(tariff).Add(vat).Mul(buyerFeePct).Div(hundred)
	total := taxableBase.Add(tariff).Add(vat).Add(buyerFee)

	subtotalShippingTaxes := freight.Add(insurance).Add(destExpenses).Add(tariff).Add(vat)

	calc := &Calculation{
		Breakdown: &Breakdown{
			PriceUnit:                round2(p.PriceUnit),
			DiscountApplied:          round2(discountApplied),
			FOB:                      round2(fob),
			FreightBase:              round2(freightBase),
			VolumeSurcharge:          round2(volumeSurcharge),
			Freight:                  round2(freight),
			TotalVolumeM3:            round2(totalVolume),
			OriginExpenses:           round2(originExpenses),
			CIF:                      round2(cif),
			Insurance:                round2(insurance),
			DestinationVariableTotal: round2(destVariable),
			DestinationFixedCost:     round2(destFixed),
			DUACost:                  round2(duaCost),
			DestinationExpenses:      round2(destExpenses),
			TaxableBase:              round2(taxableBase),
			Tariff:                   round2(tariff),
			VAT:                      round2(vat),
			SubtotalShippingTaxes:    round2(subtotalShippingTaxes),
			TotalWithoutTaxes:        round2(taxableBase),
			BuyerFee:                 round2(buyerFee),
			BuyerFeePercentage:       round2(buyerFeePct),
			Total:                    round2(total),
		},
		Parameters: &Parameters{
			FreightCostPerM3:          round2(freightRate),
			MarineInsurancePercentage: round2(insurancePct),
			DestinationVariableCost:   round2(destVariableRate),
			TariffPercentage:          round2(tariffPct),
			VATPercentage:             round2(vatPct),
		},
		TransitInfo: &TransitInfo{
			OriginPort:      originPort,
			DestinationPort: destinationPort,
			IsStale:         !routeKnown,
		},
	}

	calc.DeliveryTimeline = s.buildTimeline(p, route)

	return calc, nil
}

// defaultDestinationPort is assumed when the buyer has not picked one.
const defaultDestinationPort = "Valencia"

func (s *Service) buildTimeline(p *types.Product, route *rates.Route) *timeline.Estimate {
	seg := timeline.Segments{
		LogisticsToPortDays: s.table.Defaults.LogisticsToPortDays,
		CustomsMinDays:      s.table.Defaults.CustomsMinDays,
		CustomsMaxDays:      s.table.Defaults.CustomsMaxDays,
	}
	if p.LeadTimeDays != nil {
		seg.ProductionDays = *p.LeadTimeDays
	}
	if route != nil {
		seg.MaritimeMinDays = route.TransitMinDays
		seg.MaritimeMaxDays = route.TransitMaxDays
	}
	est := timeline.Build(seg)
	return &est
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
