package catalogue

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func buildTestCatalogue() *Catalogue {
	cat := New("ISC", "ISC Bulletin")

	prime := testOrigin("orig1", "ISC", 102.008, -3.287)
	prime.IsPrime = true
	prime.TimeError = floatPtr(0.24)
	prime.Location.Depth = floatPtr(33.0)
	prime.Location.Semimajor90 = floatPtr(12.3)
	prime.Location.Semiminor90 = floatPtr(8.4)
	prime.Location.ErrorStrike = floatPtr(45.0)

	centroid := testOrigin("orig2", "GCMT", 102.1, -3.2)
	centroid.IsCentroid = true

	event := &Event{
		ID:          "evt1",
		Description: "Southern Sumatra",
		Origins:     []*Origin{prime, centroid},
		Magnitudes: []Magnitude{
			NewMagnitude("evt1", "orig1", 5.6, "ISC", "mb"),
			NewMagnitude("evt1", "orig2", 5.9, "GCMT", "Mw"),
		},
	}
	event.Magnitudes[1].Sigma = floatPtr(0.1)
	event.AssignMagnitudesToOrigins()
	cat.Events = append(cat.Events, event)
	return cat
}

func TestOriginMagnitudeTables(t *testing.T) {
	cat := buildTestCatalogue()
	origins, mags := cat.OriginMagnitudeTables()

	require.Len(t, origins, 2)
	require.Len(t, mags, 2)

	prime := origins[0]
	assert.Equal(t, "evt1", prime.EventID)
	assert.Equal(t, "orig1", prime.OriginID)
	assert.Equal(t, "ISC", prime.Author)
	assert.Equal(t, 2004, prime.Year)
	assert.Equal(t, 1, prime.Month)
	assert.Equal(t, 25, prime.Day)
	assert.Equal(t, 11, prime.Hour)
	assert.Equal(t, 43, prime.Minute)
	assert.InDelta(t, 11.0, prime.Second, 1e-9)
	assert.Equal(t, 0.24, prime.TimeError)
	assert.Equal(t, 33.0, prime.Depth)
	assert.Equal(t, 12.3, prime.Semimajor90)
	assert.Equal(t, 1, prime.Prime)

	// Optional fields absent on the centroid flatten to zero values.
	second := origins[1]
	assert.Equal(t, 0.0, second.Depth)
	assert.Equal(t, 0.0, second.TimeError)
	assert.Equal(t, "", second.DepthSolution)
	assert.Equal(t, 0, second.Prime)

	assert.Equal(t, "orig1|ISC|5.60|mb", mags[0].MagnitudeID)
	assert.Equal(t, 0.0, mags[0].Sigma)
	assert.Equal(t, 0.1, mags[1].Sigma)
	assert.Equal(t, "Mw", mags[1].Scale)
}

func TestDecimalTime(t *testing.T) {
	t.Run("year start", func(t *testing.T) {
		got := DecimalTime(time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.InDelta(t, 1995.0, got, 1e-9)
	})

	t.Run("year end approaches next year", func(t *testing.T) {
		got := DecimalTime(time.Date(2003, 12, 31, 23, 59, 59, 0, time.UTC))
		assert.Greater(t, got, 2003.999)
		assert.Less(t, got, 2004.0)
	})

	t.Run("leap year shifts post-February dates", func(t *testing.T) {
		leap := DecimalTime(time.Date(2004, 3, 1, 0, 0, 0, 0, time.UTC))
		normal := DecimalTime(time.Date(2003, 3, 1, 0, 0, 0, 0, time.UTC))
		// 2004-03-01 is day 60 of 366; 2003-03-01 is day 59 of 365.
		assert.InDelta(t, 2004.0+60.0/366.0, leap, 1e-9)
		assert.InDelta(t, 2003.0+59.0/365.0, normal, 1e-9)
	})
}

func TestDecimalDates(t *testing.T) {
	t.Run("uses prime origin", func(t *testing.T) {
		cat := buildTestCatalogue()
		cat.Events[0].Origins[1].Time = time.Date(2010, 6, 1, 0, 0, 0, 0, time.UTC)

		dates, err := cat.DecimalDates()
		require.NoError(t, err)
		require.Len(t, dates, 1)
		assert.InDelta(t, 2004.06, dates[0], 0.01)
	})

	t.Run("falls back to first origin", func(t *testing.T) {
		cat := buildTestCatalogue()
		cat.Events[0].Origins[0].IsPrime = false
		cat.Events[0].Origins[0].Time = time.Date(2010, 7, 1, 0, 0, 0, 0, time.UTC)

		dates, err := cat.DecimalDates()
		require.NoError(t, err)
		assert.InDelta(t, 2010.5, dates[0], 0.01)
	})

	t.Run("event without origins is an error", func(t *testing.T) {
		cat := New("X", "X")
		cat.Events = append(cat.Events, &Event{ID: "evt-empty"})

		_, err := cat.DecimalDates()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "evt-empty")
	})
}

func TestSimpleArray(t *testing.T) {
	cat := buildTestCatalogue()
	records, err := cat.SimpleArray()
	require.NoError(t, err)

	// Only the prime origin qualifies; the centroid is skipped.
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "evt1", rec.EventID)
	assert.Equal(t, "orig1", rec.OriginID)
	assert.Equal(t, -3.287, rec.Latitude)
	assert.Equal(t, 102.008, rec.Longitude)
	assert.Equal(t, 33.0, rec.Depth)
	assert.Equal(t, 5.6, rec.Magnitude)
}

func TestQuickExport(t *testing.T) {
	cat := buildTestCatalogue()
	var buf bytes.Buffer
	require.NoError(t, cat.QuickExport(&buf, ","))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3) // header + one line per origin
	assert.True(t, strings.HasPrefix(lines[0], "eventID,Description,originID"))
	assert.True(t, strings.HasPrefix(lines[1], "evt1,'Southern Sumatra',orig1,2004,01,25,11,43,11"))
	assert.Contains(t, lines[1], "5.60,mb")
	assert.Contains(t, lines[2], "orig2")
}

func TestExportXYZM(t *testing.T) {
	cat := buildTestCatalogue()
	var buf bytes.Buffer
	require.NoError(t, cat.ExportXYZM(&buf, ""))

	assert.Equal(t, "102.008 -3.287 33.000 5.600\n", buf.String())
}

func TestStringRenderings(t *testing.T) {
	cat := buildTestCatalogue()
	event := cat.Events[0]

	assert.Equal(t, "evt1|'Southern Sumatra'", event.String())
	assert.Equal(t, "evt1", cat.EventIDs()[0])
	assert.Equal(t, []string{"ISC", "GCMT"}, event.Authors())

	origin := event.Origins[0]
	assert.Equal(t, "orig1|2004|01|25|11|43|11|102.008|-3.287|33", origin.String())

	t.Run("microseconds render when present", func(t *testing.T) {
		o := testOrigin("orig3", "ISC", 10.0, 20.0)
		o.Time = time.Date(2004, 1, 25, 11, 43, 11, 590000*1000, time.UTC)
		assert.Contains(t, o.String(), "11|43|11.590000")
	})

	t.Run("missing depth renders empty", func(t *testing.T) {
		o := testOrigin("orig4", "ISC", 10.0, 20.0)
		assert.Equal(t, "10|20|", o.Location.String())
	})
}

func TestMagnitudeString(t *testing.T) {
	cat := buildTestCatalogue()
	got := cat.Events[0].MagnitudeString(",")
	assert.Equal(t, "5.6,,mb,ISC,5.9,0.1,Mw,GCMT", got)
}
