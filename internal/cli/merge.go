package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mergeCSVOut string

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge <primary> <secondary>...",
	Short: "Merge secondary ISF bulletins into a primary catalogue",
	Long: `Merge parses a primary bulletin, then refines it with one or more
secondary bulletins. Secondary origins join their matching primary event;
magnitudes are deduplicated with conflict detection. Events that appear only
in a secondary bulletin are dropped: the primary defines the event
population.

Example:
  eqcat merge isc_2004.txt gcmt_2004.txt --csv merged.csv`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	addSelectionFlags(mergeCmd)
	mergeCmd.Flags().StringVar(&mergeCSVOut, "csv", "", "write the merged quick export to this path")
}

func runMerge(cmd *cobra.Command, args []string) error {
	reader, err := buildReader()
	if err != nil {
		return err
	}

	primaryPath := args[0]
	id := catalogueIDFromPath(primaryPath)
	primary, stats, err := reader.ReadFile(primaryPath, id, id)
	if err != nil {
		return err
	}
	printParseSummary(cmd, primary, stats)

	for _, path := range args[1:] {
		secID := catalogueIDFromPath(path)
		secondary, secStats, err := reader.ReadFile(path, secID, secID)
		if err != nil {
			return err
		}
		printParseSummary(cmd, secondary, secStats)
		if err := primary.MergeSecondary(secondary); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "merged catalogue %s: %d events\n", primary.ID, primary.Len())
	if mergeCSVOut != "" {
		return writeQuickExport(primary, mergeCSVOut, ",")
	}
	return nil
}
