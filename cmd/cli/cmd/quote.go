// Package cmd - quote command
package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"landed-cost/core/cascade"
	"landed-cost/core/discount"
	"landed-cost/core/display"
)

var (
	quotePrice       float64
	quoteQuantity    int64
	quoteVolume      float64
	quoteFreightRate float64
	quoteOrigin      float64
	quoteInsurance   float64
	quoteDestination float64
	quoteTariff      float64
	quoteVAT         float64
	quoteDiscount3   float64
	quoteDiscount5   float64
	quoteDiscount8   float64
	quoteDiscount10  float64
)

// quoteCmd computes a local cascade quote from explicit inputs.
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute a landed-cost quote from explicit inputs",
	Long: `Run the cost cascade locally: FOB, freight, CIF, insurance,
taxable base, tariff, VAT and total, from the rates given on the flags.

Unset rates are treated as not configured and produce zero-cost stages.

Examples:
  landed-cost quote --price 1000 --quantity 1 --volume 1 --freight-rate 115 \
    --insurance 1 --destination 350 --tariff 3 --vat 21`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().Float64Var(&quotePrice, "price", 0, "unit price (FOB)")
	quoteCmd.Flags().Int64VarP(&quoteQuantity, "quantity", "q", 1, "order quantity in units")
	quoteCmd.Flags().Float64Var(&quoteVolume, "volume", 0, "volume per unit in m3")
	quoteCmd.Flags().Float64Var(&quoteFreightRate, "freight-rate", 0, "freight cost per m3")
	quoteCmd.Flags().Float64Var(&quoteOrigin, "origin", 0, "origin expenses per shipment")
	quoteCmd.Flags().Float64Var(&quoteInsurance, "insurance", 0, "marine insurance percentage")
	quoteCmd.Flags().Float64Var(&quoteDestination, "destination", 0, "destination expenses per shipment")
	quoteCmd.Flags().Float64Var(&quoteTariff, "tariff", 0, "tariff percentage")
	quoteCmd.Flags().Float64Var(&quoteVAT, "vat", 0, "VAT percentage")
	quoteCmd.Flags().Float64Var(&quoteDiscount3, "discount-3u", 0, "discount percentage from 3 units")
	quoteCmd.Flags().Float64Var(&quoteDiscount5, "discount-5u", 0, "discount percentage from 5 units")
	quoteCmd.Flags().Float64Var(&quoteDiscount8, "discount-8u", 0, "discount percentage from 8 units")
	quoteCmd.Flags().Float64Var(&quoteDiscount10, "discount-10u", 0, "discount percentage from 10 units")

	_ = quoteCmd.MarkFlagRequired("price")
}

func runQuote(cmd *cobra.Command, args []string) error {
	if quotePrice < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if quoteQuantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}

	table := discount.Table{
		ThreeUnits: flagDec(cmd, "discount-3u", quoteDiscount3),
		FiveUnits:  flagDec(cmd, "discount-5u", quoteDiscount5),
		EightUnits: flagDec(cmd, "discount-8u", quoteDiscount8),
		TenUnits:   flagDec(cmd, "discount-10u", quoteDiscount10),
	}

	inputs := cascade.Inputs{
		VolumeM3:                  flagDec(cmd, "volume", quoteVolume),
		FreightCostPerM3:          flagDec(cmd, "freight-rate", quoteFreightRate),
		OriginExpenses:            flagDec(cmd, "origin", quoteOrigin),
		MarineInsurancePercentage: flagDec(cmd, "insurance", quoteInsurance),
		DestinationExpenses:       flagDec(cmd, "destination", quoteDestination),
		TariffPercentage:          flagDec(cmd, "tariff", quoteTariff),
		VATPercentage:             flagDec(cmd, "vat", quoteVAT),
	}

	b := cascade.Compute(decimal.NewFromFloat(quotePrice), quoteQuantity, table, inputs)
	v := display.FromCascade(b, inputs)

	fmt.Printf("Landed cost for %d unit(s)\n\n", quoteQuantity)
	fmt.Printf("  %-22s %12s\n", "Unit price", v.UnitPrice)
	fmt.Printf("  %-22s %12s\n", "Volume discount", v.DiscountPercent)
	fmt.Printf("  %-22s %12s\n", "FOB", v.FOB)
	fmt.Printf("  %-22s %12s\n", "Freight", v.Freight)
	fmt.Printf("  %-22s %12s\n", "Origin expenses", v.OriginExpenses)
	fmt.Printf("  %-22s %12s\n", "CIF", v.CIF)
	fmt.Printf("  %-22s %12s\n", "Insurance", v.Insurance)
	fmt.Printf("  %-22s %12s\n", "Destination expenses", v.DestinationExpenses)
	fmt.Printf("  %-22s %12s\n", "Taxable base", v.TaxableBase)
	fmt.Printf("  %-22s %12s\n", "Tariff", v.Tariff)
	fmt.Printf("  %-22s %12s\n", "VAT", v.VAT)
	fmt.Printf("  %-22s %12s\n", "Total", v.Total)
	fmt.Printf("  %-22s %12s\n", "Per unit", v.PerUnit)

	return nil
}

// flagDec distinguishes "flag not given" from an explicit zero, so an
// explicit --tariff 0 still produces a configured 0% stage.
func flagDec(cmd *cobra.Command, name string, value float64) *decimal.Decimal {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	d := decimal.NewFromFloat(value)
	return &d
}
