// Package cmd provides the CLI commands for landed-cost.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"landed-cost/internal/config"
	"landed-cost/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "landed-cost",
	Short: "Landed-cost quotes for imported industrial equipment",
	Long: `landed-cost computes the full landed cost of an import order:
goods value, maritime freight, insurance, destination expenses, duty and VAT.

Examples:
  landed-cost quote --price 1000 --quantity 1 --volume 1 --freight-rate 115
  landed-cost rates ./rates/default.hcl
  landed-cost version`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.landed-cost.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}
