package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-catalogue-etl/internal/catalogue"
)

var (
	originsOut    string
	magnitudesOut string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <bulletin>",
	Short: "Parse a bulletin and write the flattened origin/magnitude tables",
	Long: `Export parses an ISF bulletin and flattens the catalogue into its two
fixed-schema tables: one row per origin and one row per magnitude.

Example:
  eqcat export isc_2004.txt --origins origins.csv --magnitudes magnitudes.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addSelectionFlags(exportCmd)
	exportCmd.Flags().StringVar(&originsOut, "origins", "origins.csv", "origins table output path")
	exportCmd.Flags().StringVar(&magnitudesOut, "magnitudes", "magnitudes.csv", "magnitudes table output path")
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	id := catalogueIDFromPath(path)

	reader, err := buildReader()
	if err != nil {
		return err
	}
	cat, stats, err := reader.ReadFile(path, id, id)
	if err != nil {
		return err
	}
	printParseSummary(cmd, cat, stats)

	origins, mags := cat.OriginMagnitudeTables()
	if err := writeOriginTable(originsOut, origins); err != nil {
		return err
	}
	if err := writeMagnitudeTable(magnitudesOut, mags); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d origins to %s, %d magnitudes to %s\n",
		len(origins), originsOut, len(mags), magnitudesOut)
	return nil
}

func writeOriginTable(path string, rows []catalogue.OriginRow) error {
	return writeTable(path, catalogue.OriginTableHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			r.EventID, r.OriginID, r.Author,
			strconv.Itoa(r.Year), strconv.Itoa(r.Month), strconv.Itoa(r.Day),
			strconv.Itoa(r.Hour), strconv.Itoa(r.Minute), formatCell(r.Second),
			formatCell(r.TimeError), formatCell(r.Longitude), formatCell(r.Latitude),
			formatCell(r.Depth), r.DepthSolution, formatCell(r.Semimajor90),
			formatCell(r.Semiminor90), formatCell(r.ErrorStrike),
			formatCell(r.DepthError), strconv.Itoa(r.Prime),
		}
	})
}

func writeMagnitudeTable(path string, rows []catalogue.MagnitudeRow) error {
	return writeTable(path, catalogue.MagnitudeTableHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			r.EventID, r.OriginID, r.MagnitudeID,
			formatCell(r.Value), formatCell(r.Sigma), r.Scale, r.Author,
		}
	})
}

func writeTable(path string, header []string, n int, row func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, strings.Join(header, ","))
	for i := 0; i < n; i++ {
		fmt.Fprintln(w, strings.Join(row(i), ","))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write table %s: %w", path, err)
	}
	return nil
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
