// Package timeline estimates door-to-door delivery windows.
package timeline

// Estimate is the delivery window for one shipment, expressed in days.
// Totals are only meaningful when Complete is true; a missing segment
// leaves the estimate incomplete rather than guessing.
type Estimate struct {
	ProductionDays      int  `json:"production_days"`
	LogisticsToPortDays int  `json:"logistics_to_port_days"`
	MaritimeMinDays     int  `json:"maritime_transit_min_days"`
	MaritimeMaxDays     int  `json:"maritime_transit_max_days"`
	CustomsMinDays      int  `json:"customs_clearance_min_days"`
	CustomsMaxDays      int  `json:"customs_clearance_max_days"`
	TotalMinDays        int  `json:"total_min_days"`
	TotalMaxDays        int  `json:"total_max_days"`
	Complete            bool `json:"is_complete"`
}

// Segments are the known parts of the journey. Zero or negative values
// mean the segment is unknown.
type Segments struct {
	ProductionDays      int
	LogisticsToPortDays int
	MaritimeMinDays     int
	MaritimeMaxDays     int
	CustomsMinDays      int
	CustomsMaxDays      int
}

// Build aggregates the segments into a delivery estimate. Unknown segments
// contribute zero to the totals and clear the completeness flag.
func Build(s Segments) Estimate {
	e := Estimate{Complete: true}

	e.ProductionDays = known(s.ProductionDays, &e.Complete)
	e.LogisticsToPortDays = known(s.LogisticsToPortDays, &e.Complete)
	e.MaritimeMinDays = known(s.MaritimeMinDays, &e.Complete)
	e.MaritimeMaxDays = known(s.MaritimeMaxDays, &e.Complete)
	e.CustomsMinDays = known(s.CustomsMinDays, &e.Complete)
	e.CustomsMaxDays = known(s.CustomsMaxDays, &e.Complete)

	if e.MaritimeMaxDays < e.MaritimeMinDays {
		e.MaritimeMaxDays = e.MaritimeMinDays
	}
	if e.CustomsMaxDays < e.CustomsMinDays {
		e.CustomsMaxDays = e.CustomsMinDays
	}

	e.TotalMinDays = e.ProductionDays + e.LogisticsToPortDays + e.MaritimeMinDays + e.CustomsMinDays
	e.TotalMaxDays = e.ProductionDays + e.LogisticsToPortDays + e.MaritimeMaxDays + e.CustomsMaxDays

	return e
}

func known(days int, complete *bool) int {
	if days <= 0 {
		*complete = false
		return 0
	}
	return days
}
