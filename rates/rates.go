// Package rates loads the logistics rate tables used by the calculation
// service: freight rates per route, surcharge and insurance percentages,
// destination-side costs, tariff rates per product category and VAT rates
// per destination country.
//
// Tables are written in HCL and loaded once at startup. An embedded default
// table keeps the service usable without any external file.
package rates

import (
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"landed-cost/internal/errors"
)

// Defaults carries the table-wide rates applied when a product or route
// does not override them.
type Defaults struct {
	FreightCostPerM3           float64 `hcl:"freight_cost_per_m3"`
	MarineInsurancePercentage  float64 `hcl:"marine_insurance_percentage"`
	TariffPercentage           float64 `hcl:"tariff_percentage"`
	VATPercentage              float64 `hcl:"vat_percentage"`
	BuyerFeePercentage         float64 `hcl:"buyer_fee_percentage"`
	VolumeSurchargeThresholdM3 float64 `hcl:"volume_surcharge_threshold_m3"`
	VolumeSurchargePercentage  float64 `hcl:"volume_surcharge_percentage"`
	DestinationVariablePerM3   float64 `hcl:"destination_variable_per_m3"`
	DestinationFixedCost       float64 `hcl:"destination_fixed_cost"`
	DUACost                    float64 `hcl:"dua_cost"`
	LogisticsToPortDays        int     `hcl:"logistics_to_port_days"`
	CustomsMinDays             int     `hcl:"customs_clearance_min_days"`
	CustomsMaxDays             int     `hcl:"customs_clearance_max_days"`
}

// Route is one maritime lane with its freight rate and transit window.
type Route struct {
	Name             string   `hcl:"name,label"`
	OriginPort       string   `hcl:"origin_port"`
	DestinationPort  string   `hcl:"destination_port"`
	FreightCostPerM3 *float64 `hcl:"freight_cost_per_m3"`
	TransitMinDays   int      `hcl:"transit_min_days"`
	TransitMaxDays   int      `hcl:"transit_max_days"`
}

// TariffRate is the import duty for a product category.
type TariffRate struct {
	Category   string  `hcl:"category,label"`
	Percentage float64 `hcl:"percentage"`
}

// VATRate is the value-added tax for a destination country (ISO code).
type VATRate struct {
	Country    string  `hcl:"country,label"`
	Percentage float64 `hcl:"percentage"`
}

// file is the HCL document schema.
type file struct {
	Defaults *Defaults    `hcl:"defaults,block"`
	Routes   []Route      `hcl:"route,block"`
	Tariffs  []TariffRate `hcl:"tariff,block"`
	VATs     []VATRate    `hcl:"vat,block"`
}

// Table is a loaded, immutable rate table.
type Table struct {
	Defaults Defaults

	routes  []Route
	tariffs map[string]decimal.Decimal
	vats    map[string]decimal.Decimal
}

// Load reads and parses a rate-table file.
func Load(path string) (*Table, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Rates("failed to parse rate table", diags)
	}
	return decode(hclFile.Body)
}

// Parse parses a rate table from source bytes.
func Parse(src []byte, filename string) (*Table, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Rates("failed to parse rate table", diags)
	}
	return decode(hclFile.Body)
}

func decode(body hcl.Body) (*Table, error) {
	var f file
	if diags := gohcl.DecodeBody(body, nil, &f); diags.HasErrors() {
		return nil, errors.Rates("failed to decode rate table", diags)
	}
	if f.Defaults == nil {
		return nil, errors.New(errors.TypeRates, "rate table has no defaults block")
	}

	t := &Table{
		Defaults: *f.Defaults,
		routes:   f.Routes,
		tariffs:  make(map[string]decimal.Decimal, len(f.Tariffs)),
		vats:     make(map[string]decimal.Decimal, len(f.VATs)),
	}
	for _, tr := range f.Tariffs {
		t.tariffs[strings.ToLower(tr.Category)] = decimal.NewFromFloat(tr.Percentage)
	}
	for _, vr := range f.VATs {
		t.vats[strings.ToUpper(vr.Country)] = decimal.NewFromFloat(vr.Percentage)
	}
	return t, nil
}

// Route finds the lane between two ports. Matching is case-insensitive.
func (t *Table) Route(originPort, destinationPort string) (*Route, bool) {
	for i := range t.routes {
		r := &t.routes[i]
		if strings.EqualFold(r.OriginPort, originPort) && strings.EqualFold(r.DestinationPort, destinationPort) {
			return r, true
		}
	}
	return nil, false
}

// Routes returns all configured lanes.
func (t *Table) Routes() []Route {
	return t.routes
}

// FreightRate returns the freight rate for a route, falling back to the
// table default when the route carries no override.
func (t *Table) FreightRate(r *Route) decimal.Decimal {
	if r != nil && r.FreightCostPerM3 != nil {
		return decimal.NewFromFloat(*r.FreightCostPerM3)
	}
	return decimal.NewFromFloat(t.Defaults.FreightCostPerM3)
}

// TariffPercent returns the duty rate for a product category, falling back
// to the table default for unknown categories.
func (t *Table) TariffPercent(category string) decimal.Decimal {
	if p, ok := t.tariffs[strings.ToLower(category)]; ok {
		return p
	}
	return decimal.NewFromFloat(t.Defaults.TariffPercentage)
}

// VATPercent returns the VAT rate for a destination country, falling back
// to the table default for unknown countries.
func (t *Table) VATPercent(country string) decimal.Decimal {
	if p, ok := t.vats[strings.ToUpper(country)]; ok {
		return p
	}
	return decimal.NewFromFloat(t.Defaults.VATPercentage)
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the embedded rate table.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultHCL, "default.hcl")
	})
	return defaultTable, defaultErr
}
