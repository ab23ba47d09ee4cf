// Package cmd - rates command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"landed-cost/rates"
)

// ratesCmd inspects a rate-table file.
var ratesCmd = &cobra.Command{
	Use:   "rates [path]",
	Short: "Inspect a logistics rate table",
	Long: `Parse a rate-table HCL file and print its routes and rates.
Without a path the embedded default table is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRates,
}

func runRates(cmd *cobra.Command, args []string) error {
	var (
		table *rates.Table
		err   error
	)
	if len(args) > 0 {
		table, err = rates.Load(args[0])
	} else {
		table, err = rates.Default()
	}
	if err != nil {
		return err
	}

	d := table.Defaults
	fmt.Println("Defaults")
	fmt.Printf("  freight:          %.2f €/m3\n", d.FreightCostPerM3)
	fmt.Printf("  insurance:        %.2f %%\n", d.MarineInsurancePercentage)
	fmt.Printf("  tariff:           %.2f %%\n", d.TariffPercentage)
	fmt.Printf("  VAT:              %.2f %%\n", d.VATPercentage)
	fmt.Printf("  buyer fee:        %.2f %%\n", d.BuyerFeePercentage)
	fmt.Printf("  surcharge:        %.2f %% above %.1f m3\n", d.VolumeSurchargePercentage, d.VolumeSurchargeThresholdM3)
	fmt.Printf("  destination:      %.2f €/m3 + %.2f € fixed + %.2f € DUA\n",
		d.DestinationVariablePerM3, d.DestinationFixedCost, d.DUACost)
	fmt.Printf("  customs:          %d-%d days\n", d.CustomsMinDays, d.CustomsMaxDays)

	fmt.Println("\nRoutes")
	for _, r := range table.Routes() {
		rate := table.FreightRate(&r)
		fmt.Printf("  %-24s %s -> %s, %s €/m3, %d-%d days\n",
			r.Name, r.OriginPort, r.DestinationPort, rate.StringFixed(2), r.TransitMinDays, r.TransitMaxDays)
	}

	return nil
}
