// Package cli implements the eqcat command surface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "eqcat",
	Short: "eqcat - curate and harmonize earthquake catalogues",
	Long: `eqcat ingests earthquake bulletins in the International Seismological
Format (ISF), harmonizes the solutions of multiple reporting agencies into a
single catalogue, and exports the result.

One physical earthquake is reported many times: each agency publishes its own
origin solution and magnitude estimates. eqcat reads those bulletins, filters
them by agency, region, and magnitude, merges secondary catalogues into a
primary one with conflict detection, and renders the unified record as
delimited text, flat tables, or a Kafka event stream.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("eqcat v0.3.1")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}
