package catalogue

import (
	"fmt"
	"io"
	"strings"
)

// OriginRow is one row of the flattened origins table. Optional source
// fields flatten to zero values so the table has a fixed schema.
type OriginRow struct {
	EventID       string
	OriginID      string
	Author        string
	Year          int
	Month         int
	Day           int
	Hour          int
	Minute        int
	Second        float64
	TimeError     float64
	Longitude     float64
	Latitude      float64
	Depth         float64
	DepthSolution string
	Semimajor90   float64
	Semiminor90   float64
	ErrorStrike   float64
	DepthError    float64
	Prime         int
}

// MagnitudeRow is one row of the flattened magnitudes table.
type MagnitudeRow struct {
	EventID     string
	OriginID    string
	MagnitudeID string
	Value       float64
	Sigma       float64
	Scale       string
	Author      string
}

// OriginTableHeader and MagnitudeTableHeader list the column names of the
// flattened tables, in row field order.
var (
	OriginTableHeader = []string{
		"eventID", "originID", "Agency", "year", "month", "day", "hour",
		"minute", "second", "time_error", "longitude", "latitude", "depth",
		"depthSolution", "semimajor90", "semiminor90", "error_strike",
		"depth_error", "prime",
	}
	MagnitudeTableHeader = []string{
		"eventID", "originID", "magnitudeID", "value", "sigma", "magType",
		"magAgency",
	}
)

// OriginMagnitudeTables flattens the catalogue into a fixed-schema origins
// table and magnitudes table for downstream tabular export.
func (c *Catalogue) OriginMagnitudeTables() ([]OriginRow, []MagnitudeRow) {
	var nOrigins, nMags int
	for _, e := range c.Events {
		nOrigins += len(e.Origins)
		nMags += len(e.Magnitudes)
	}
	origins := make([]OriginRow, 0, nOrigins)
	mags := make([]MagnitudeRow, 0, nMags)

	for _, e := range c.Events {
		for _, o := range e.Origins {
			row := OriginRow{
				EventID:   e.ID,
				OriginID:  o.ID,
				Author:    o.Author,
				Year:      o.Time.Year(),
				Month:     int(o.Time.Month()),
				Day:       o.Time.Day(),
				Hour:      o.Time.Hour(),
				Minute:    o.Time.Minute(),
				Second:    float64(o.Time.Second()) + float64(o.Time.Nanosecond())/1e9,
				Longitude: o.Location.Longitude,
				Latitude:  o.Location.Latitude,
			}
			if o.TimeError != nil {
				row.TimeError = *o.TimeError
			}
			if o.Location.Depth != nil {
				row.Depth = *o.Location.Depth
			}
			if o.Location.DepthSolution != nil {
				row.DepthSolution = *o.Location.DepthSolution
			}
			if o.Location.Semimajor90 != nil {
				row.Semimajor90 = *o.Location.Semimajor90
			}
			if o.Location.Semiminor90 != nil {
				row.Semiminor90 = *o.Location.Semiminor90
			}
			if o.Location.ErrorStrike != nil {
				row.ErrorStrike = *o.Location.ErrorStrike
			}
			if o.Location.DepthError != nil {
				row.DepthError = *o.Location.DepthError
			}
			if o.IsPrime {
				row.Prime = 1
			}
			origins = append(origins, row)
		}
		for _, m := range e.Magnitudes {
			row := MagnitudeRow{
				EventID:     m.EventID,
				OriginID:    m.OriginID,
				MagnitudeID: m.ID(),
				Value:       m.Value,
				Scale:       m.Scale,
				Author:      m.Author,
			}
			if m.Sigma != nil {
				row.Sigma = *m.Sigma
			}
			mags = append(mags, row)
		}
	}
	return origins, mags
}

// DecimalDates returns one fractional-year date per event, taken from the
// prime origin when one exists, otherwise from the first origin.
func (c *Catalogue) DecimalDates() ([]float64, error) {
	dates := make([]float64, len(c.Events))
	for i, e := range c.Events {
		if len(e.Origins) == 0 {
			return nil, fmt.Errorf("event %s has no origins", e.ID)
		}
		selected := e.Origins[0]
		for _, o := range e.Origins {
			if o.IsPrime {
				selected = o
				break
			}
		}
		dates[i] = DecimalTime(selected.Time)
	}
	return dates, nil
}

// SimpleRecord is one row of the simplified catalogue rendering: prime
// origin time and location plus the first magnitude assigned to it.
type SimpleRecord struct {
	EventID     string
	OriginID    string
	DecimalTime float64
	Latitude    float64
	Longitude   float64
	Depth       float64
	Magnitude   float64
}

// SimpleArray renders the catalogue to simple records using each event's
// prime origin. Events without a prime origin carrying at least one
// magnitude are skipped.
func (c *Catalogue) SimpleArray() ([]SimpleRecord, error) {
	dates, err := c.DecimalDates()
	if err != nil {
		return nil, err
	}
	records := make([]SimpleRecord, 0, len(c.Events))
	for i, e := range c.Events {
		for _, o := range e.Origins {
			if !o.IsPrime || len(o.Magnitudes) == 0 {
				continue
			}
			rec := SimpleRecord{
				EventID:     e.ID,
				OriginID:    o.ID,
				DecimalTime: dates[i],
				Latitude:    o.Location.Latitude,
				Longitude:   o.Location.Longitude,
				Magnitude:   o.Magnitudes[0].Value,
			}
			if o.Location.Depth != nil {
				rec.Depth = *o.Location.Depth
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// quickExportHeader is the column header of the delimited quick export.
const quickExportHeader = "eventID,Description,originID,year,month,day,hour," +
	"minute,second,longitude,latitude,depth,magOriginID,magAgency," +
	"magnitude,magScale"

// QuickExport writes the catalogue as delimited text, one line per origin:
// the event rendering, the origin rendering, and the renderings of every
// magnitude assigned to that origin.
func (c *Catalogue) QuickExport(w io.Writer, delimiter string) error {
	if _, err := fmt.Fprintln(w, quickExportHeader); err != nil {
		return fmt.Errorf("quick export: %w", err)
	}
	for _, e := range c.Events {
		base := e.String()
		for _, o := range e.Origins {
			fields := []string{base, o.String()}
			for _, m := range o.Magnitudes {
				fields = append(fields, m.String())
			}
			line := strings.ReplaceAll(strings.Join(fields, "|"), "|", delimiter)
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("quick export: %w", err)
			}
		}
	}
	return nil
}

// ExportXYZM writes longitude, latitude, depth, and magnitude columns of
// the simple rendering, one line per prime origin, using the given numeric
// format (e.g. "%.3f").
func (c *Catalogue) ExportXYZM(w io.Writer, format string) error {
	if format == "" {
		format = "%.3f"
	}
	records, err := c.SimpleArray()
	if err != nil {
		return fmt.Errorf("xyzm export: %w", err)
	}
	line := strings.Join([]string{format, format, format, format}, " ") + "\n"
	for _, rec := range records {
		if _, err := fmt.Fprintf(w, line, rec.Longitude, rec.Latitude, rec.Depth, rec.Magnitude); err != nil {
			return fmt.Errorf("xyzm export: %w", err)
		}
	}
	return nil
}
