package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-catalogue-etl/internal/catalogue"
	"github.com/couchcryptid/quake-catalogue-etl/internal/config"
	"github.com/couchcryptid/quake-catalogue-etl/internal/isf"
)

var (
	ingestID        string
	ingestName      string
	selectionFile   string
	globalAgencies  bool
	csvOut          string
	xyzmOut         string
	rejectedOut     string
	exportDelimiter string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <bulletin>",
	Short: "Parse one ISF bulletin and report or export the catalogue",
	Long: `Ingest parses a single ISF bulletin into a catalogue, applying the
agency, region, magnitude, and keyword criteria of the selection profile.

Example:
  eqcat ingest isc_2004.txt --id ISC2004 --name "ISC Bulletin 2004"
  eqcat ingest isc_2004.txt --selection global.yaml --csv catalogue.csv
  eqcat ingest isc_2004.txt --global-agencies --xyzm catalogue.xyzm`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestID, "id", "", "catalogue identifier (default: bulletin file name)")
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "catalogue display name (default: identifier)")
	addSelectionFlags(ingestCmd)
	ingestCmd.Flags().StringVar(&csvOut, "csv", "", "write a delimited quick export to this path")
	ingestCmd.Flags().StringVar(&xyzmOut, "xyzm", "", "write a lon/lat/depth/magnitude export to this path")
	ingestCmd.Flags().StringVar(&rejectedOut, "rejected", "", "write the rejected events' quick export to this path")
	ingestCmd.Flags().StringVar(&exportDelimiter, "delimiter", ",", "field delimiter for quick exports")
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&selectionFile, "selection", "", "YAML selection profile")
	cmd.Flags().BoolVar(&globalAgencies, "global-agencies", false, "restrict to the standard global agency set")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	id := ingestID
	if id == "" {
		id = catalogueIDFromPath(path)
	}
	name := ingestName
	if name == "" {
		name = id
	}

	reader, err := buildReader()
	if err != nil {
		return err
	}
	cat, stats, err := reader.ReadFile(path, id, name)
	if err != nil {
		return err
	}

	printParseSummary(cmd, cat, stats)
	if cat.Len() == 0 {
		return fmt.Errorf("bulletin %s produced no events", path)
	}

	if csvOut != "" {
		if err := writeQuickExport(cat, csvOut, exportDelimiter); err != nil {
			return err
		}
	}
	if xyzmOut != "" {
		if err := writeXYZM(cat, xyzmOut); err != nil {
			return err
		}
	}
	if rejectedOut != "" && cat.Rejected != nil {
		if err := writeQuickExport(cat.Rejected, rejectedOut, exportDelimiter); err != nil {
			return err
		}
	}
	return nil
}

// buildReader constructs an ISF reader from the selection flags.
func buildReader() (*isf.Reader, error) {
	sel := &config.Selection{}
	if selectionFile != "" {
		loaded, err := config.LoadSelection(selectionFile)
		if err != nil {
			return nil, err
		}
		sel = loaded
	}
	if globalAgencies {
		sel.OriginAgencies = isf.DefaultGlobalAgencies
		sel.MagnitudeAgencies = isf.DefaultGlobalAgencies
	}
	cfg, err := sel.ReaderConfig()
	if err != nil {
		return nil, err
	}
	return isf.NewReader(cfg)
}

func printParseSummary(cmd *cobra.Command, cat *catalogue.Catalogue, stats isf.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "catalogue %s (%s): %d events\n", cat.ID, cat.Name, cat.Len())
	if cat.Rejected != nil {
		fmt.Fprintf(out, "rejected catalogue %s: %d events\n", cat.Rejected.ID, cat.Rejected.Len())
	}
	if verbose {
		fmt.Fprintf(out, "lines read:        %d\n", stats.LinesRead)
		fmt.Fprintf(out, "records skipped:   %d\n", stats.RecordsSkipped)
		fmt.Fprintf(out, "origins parsed:    %d\n", stats.OriginsParsed)
		fmt.Fprintf(out, "magnitudes parsed: %d\n", stats.MagnitudesParsed)
		fmt.Fprintf(out, "events filtered:   %d\n", stats.EventsFiltered)
		fmt.Fprintf(out, "events discarded:  %d\n", stats.EventsDiscarded)
	}
}

func writeQuickExport(cat *catalogue.Catalogue, path, delimiter string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("quick export: %w", err)
	}
	defer f.Close()
	return cat.QuickExport(f, delimiter)
}

func writeXYZM(cat *catalogue.Catalogue, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("xyzm export: %w", err)
	}
	defer f.Close()
	return cat.ExportXYZM(f, "")
}

func catalogueIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
