package isf

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/couchcryptid/quake-catalogue-etl/internal/catalogue"
)

const (
	originRowLength    = 136
	magnitudeRowLength = 38
)

// DefaultGlobalAgencies is the allow-list conventionally used when building
// a global catalogue from ISC bulletins.
var DefaultGlobalAgencies = []string{"ISC", "EHB", "GCMT", "HRVD", "GUTE", "PAS", "NIED"}

// ParseEventHeader splits an "Event" header line into the event id and its
// free-text description. ok is false when the line carries no id token.
func ParseEventHeader(line string) (id, description string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "Event" {
		return "", "", false
	}
	return fields[1], strings.Join(fields[2:], " "), true
}

// ParseOriginLine decodes a 136-character origin data row. It returns
// (nil, nil) when an agency allow-list is configured and the row's author
// is not on it, and an error when a mandatory field (date, time, latitude,
// longitude) does not decode.
func ParseOriginLine(row string, allowed map[string]struct{}) (*catalogue.Origin, error) {
	originID := strings.TrimSpace(field(row, 128, -1))
	author := strings.TrimSpace(field(row, 118, 127))
	if len(allowed) > 0 {
		if _, ok := allowed[author]; !ok {
			return nil, nil
		}
	}

	when, err := parseOriginTime(row)
	if err != nil {
		return nil, err
	}
	latitude := toFloat(field(row, 36, 44))
	longitude := toFloat(field(row, 45, 54))
	if latitude == nil || longitude == nil {
		return nil, fmt.Errorf("origin %s: missing coordinates", originID)
	}

	location := catalogue.Location{
		OriginID:      originID,
		Longitude:     *longitude,
		Latitude:      *latitude,
		Depth:         toFloat(field(row, 71, 76)),
		DepthSolution: toString(field(row, 76, 78)),
		Semimajor90:   toFloat(field(row, 55, 60)),
		Semiminor90:   toFloat(field(row, 61, 66)),
		ErrorStrike:   toFloat(field(row, 67, 70)),
		DepthError:    toFloat(field(row, 78, 82)),
	}

	return &catalogue.Origin{
		ID:        originID,
		Time:      when,
		Location:  location,
		Author:    author,
		TimeError: toFloat(field(row, 24, 29)),
		TimeRMS:   toFloat(field(row, 30, 35)),
		Metadata:  parseOriginMetadata(row),
	}, nil
}

// parseOriginTime decodes the yyyy/mm/dd date and hh:mm:ss.ss time columns
// into a single UTC instant with microsecond resolution.
func parseOriginTime(row string) (time.Time, error) {
	ymd := strings.Split(field(row, 0, 10), "/")
	if len(ymd) != 3 {
		return time.Time{}, fmt.Errorf("malformed origin date %q", field(row, 0, 10))
	}
	year := toInt(ymd[0])
	month := toInt(ymd[1])
	day := toInt(ymd[2])
	if year == nil || month == nil || day == nil {
		return time.Time{}, fmt.Errorf("malformed origin date %q", field(row, 0, 10))
	}

	hms := strings.Split(field(row, 11, 22), ":")
	if len(hms) != 3 {
		return time.Time{}, fmt.Errorf("malformed origin time %q", field(row, 11, 22))
	}
	hour := toInt(hms[0])
	minute := toInt(hms[1])
	secs := toFloat(hms[2])
	if hour == nil || minute == nil || secs == nil {
		return time.Time{}, fmt.Errorf("malformed origin time %q", field(row, 11, 22))
	}
	whole := math.Floor(*secs)
	micros := int(math.Round((*secs - whole) * 1e6))

	return time.Date(*year, time.Month(*month), *day,
		*hour, *minute, int(whole), micros*1000, time.UTC), nil
}

func parseOriginMetadata(row string) catalogue.OriginMetadata {
	return catalogue.OriginMetadata{
		Phases:         toInt(field(row, 83, 87)),
		Stations:       toInt(field(row, 88, 92)),
		AzimuthGap:     toFloat(field(row, 93, 96)),
		MinDistance:    toFloat(field(row, 97, 103)),
		MaxDistance:    toFloat(field(row, 104, 110)),
		FixedTime:      toString(field(row, 22, 23)),
		AnalysisType:   toString(field(row, 111, 112)),
		LocationMethod: toString(field(row, 113, 114)),
		EventType:      toString(field(row, 115, 117)),
	}
}

// ParseMagnitudeLine decodes a 38-character magnitude data row belonging to
// the event with the given id. It returns (nil, nil) when an agency
// allow-list is configured and the row's author is not on it, and an error
// when the magnitude value column does not decode.
func ParseMagnitudeLine(row, eventID string, allowed map[string]struct{}) (*catalogue.Magnitude, error) {
	originID := strings.TrimSpace(field(row, 30, -1))
	author := strings.TrimSpace(field(row, 20, 29))
	if len(allowed) > 0 {
		if _, ok := allowed[author]; !ok {
			return nil, nil
		}
	}
	value := toFloat(field(row, 6, 10))
	if value == nil {
		return nil, fmt.Errorf("magnitude for origin %s: missing value", originID)
	}
	mag := catalogue.NewMagnitude(eventID, originID, *value, author,
		strings.TrimSpace(field(row, 0, 5)))
	mag.Sigma = toFloat(field(row, 11, 14))
	mag.Stations = toInt(field(row, 15, 19))
	return &mag, nil
}
