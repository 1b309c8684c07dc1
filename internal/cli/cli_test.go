package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const originTableHeader = "   Date       Time        Err   RMS Latitude Longitude  " +
	"Smaj  Smin  Az Depth   Err Ndef Nsta Gap  mdist  Mdist Qual   " +
	"Author      OrigID"

// fixedWidthRow places values at exact column offsets of a bulletin row.
func fixedWidthRow(length int, fields map[int]string) string {
	row := make([]byte, length)
	for i := range row {
		row[i] = ' '
	}
	for start, value := range fields {
		copy(row[start:], value)
	}
	return string(row)
}

func testOriginRow(author, originID string) string {
	return fixedWidthRow(136, map[int]string{
		0:   "2004/01/25",
		11:  "11:43:11.59",
		36:  "  -3.287",
		45:  "  102.008",
		71:  " 33.0",
		118: author,
		128: originID,
	})
}

func testMagnitudeRow(scale, value, author, originID string) string {
	return fixedWidthRow(38, map[int]string{
		0:  scale,
		6:  value,
		20: author,
		30: originID,
	})
}

// writeTestBulletin drops a single-event bulletin for the given event id,
// with one origin and one magnitude from the given agency.
func writeTestBulletin(t *testing.T, dir, name, eventID, agency, originID string) string {
	t.Helper()
	content := strings.Join([]string{
		"Event  " + eventID + " Southern Sumatra",
		originTableHeader,
		testOriginRow(agency, originID),
		" (#PRIME)",
		"Magnitude  Err Nsta Author      OrigID",
		testMagnitudeRow("mb", " 5.6", agency, originID),
		"STOP",
	}, "\n") + "\n"

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCatalogueIDFromPath(t *testing.T) {
	assert.Equal(t, "isc-2004", catalogueIDFromPath("/data/bulletins/isc-2004.txt"))
	assert.Equal(t, "bulletin", catalogueIDFromPath("bulletin"))
}

func TestBuildReader(t *testing.T) {
	t.Run("defaults keep everything", func(t *testing.T) {
		selectionFile, globalAgencies = "", false
		_, err := buildReader()
		require.NoError(t, err)
	})

	t.Run("selection profile is applied", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sel.yaml")
		require.NoError(t, os.WriteFile(path, []byte("bounding_box: [1, 2, 3]\n"), 0o600))
		selectionFile, globalAgencies = path, false
		defer func() { selectionFile = "" }()

		_, err := buildReader()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bounding box")
	})

	t.Run("missing selection file", func(t *testing.T) {
		selectionFile, globalAgencies = filepath.Join(t.TempDir(), "nope.yaml"), false
		defer func() { selectionFile = "" }()

		_, err := buildReader()
		require.Error(t, err)
	})
}

func TestIngestCommand(t *testing.T) {
	dir := t.TempDir()
	bulletin := writeTestBulletin(t, dir, "isc-2004.txt", "9606051", "ISC", "7104441")
	csvPath := filepath.Join(dir, "out.csv")
	xyzmPath := filepath.Join(dir, "out.xyzm")

	out, err := runCommand(t, "ingest", bulletin,
		"--id", "ISC2004", "--name", "ISC Bulletin 2004",
		"--csv", csvPath, "--xyzm", xyzmPath, "--delimiter", ",")
	require.NoError(t, err)
	assert.Contains(t, out, "catalogue ISC2004 (ISC Bulletin 2004): 1 events")

	csv, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(csv), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "eventID,Description,originID"))
	assert.Contains(t, lines[1], "9606051,'Southern Sumatra',7104441")

	xyzm, err := os.ReadFile(xyzmPath)
	require.NoError(t, err)
	assert.Equal(t, "102.008 -3.287 33.000 5.600\n", string(xyzm))
}

func TestIngestCommandEmptyBulletin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("STOP\n"), 0o600))

	_, err := runCommand(t, "ingest", path, "--id", "X", "--name", "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no events")
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	primary := writeTestBulletin(t, dir, "primary.txt", "9606051", "ISC", "7104441")
	secondary := writeTestBulletin(t, dir, "secondary.txt", "9606051", "GCMT", "7104442")
	csvPath := filepath.Join(dir, "merged.csv")

	out, err := runCommand(t, "merge", primary, secondary, "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "merged catalogue primary: 1 events")

	csv, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	// The merged event carries the primary's origin plus the secondary's.
	assert.Contains(t, string(csv), "7104441")
	assert.Contains(t, string(csv), "7104442")
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	bulletin := writeTestBulletin(t, dir, "isc-2004.txt", "9606051", "ISC", "7104441")
	originsPath := filepath.Join(dir, "origins.csv")
	magnitudesPath := filepath.Join(dir, "magnitudes.csv")

	out, err := runCommand(t, "export", bulletin,
		"--origins", originsPath, "--magnitudes", magnitudesPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 1 origins")

	origins, err := os.ReadFile(originsPath)
	require.NoError(t, err)
	originLines := strings.Split(strings.TrimRight(string(origins), "\n"), "\n")
	require.Len(t, originLines, 2)
	assert.True(t, strings.HasPrefix(originLines[0], "eventID,originID,Agency"))
	assert.Contains(t, originLines[1], "9606051,7104441,ISC,2004,1,25")

	magnitudes, err := os.ReadFile(magnitudesPath)
	require.NoError(t, err)
	magLines := strings.Split(strings.TrimRight(string(magnitudes), "\n"), "\n")
	require.Len(t, magLines, 2)
	assert.Contains(t, magLines[1], "7104441|ISC|5.60|mb")
}

func TestVersionCommand(t *testing.T) {
	_, err := runCommand(t, "version")
	require.NoError(t, err)
}
