package catalogue

import (
	"fmt"
	"strconv"
	"time"
)

// Location is the spatial part of an origin solution. All error fields are
// optional: agencies routinely omit them by leaving the bulletin columns
// blank.
type Location struct {
	OriginID      string   `json:"origin_id"`
	Longitude     float64  `json:"longitude"`
	Latitude      float64  `json:"latitude"`
	Depth         *float64 `json:"depth,omitempty"`
	DepthSolution *string  `json:"depth_solution,omitempty"` // f = fixed depth, d = depth phases
	Semimajor90   *float64 `json:"semimajor90,omitempty"`    // 90% error ellipse semimajor axis (km)
	Semiminor90   *float64 `json:"semiminor90,omitempty"`    // 90% error ellipse semiminor axis (km)
	ErrorStrike   *float64 `json:"error_strike,omitempty"`   // strike of the semimajor axis
	DepthError    *float64 `json:"depth_error,omitempty"`
}

// String renders the location as "lon|lat|depth", with an empty depth field
// when no depth was reported.
func (l Location) String() string {
	depth := ""
	if l.Depth != nil {
		depth = formatFloat(*l.Depth)
	}
	return fmt.Sprintf("%s|%s|%s", formatFloat(l.Longitude), formatFloat(l.Latitude), depth)
}

// OriginMetadata carries the quality and classification block of an origin
// record. Every field is optional.
type OriginMetadata struct {
	Phases         *int     `json:"phases,omitempty"`   // number of defining phases
	Stations       *int     `json:"stations,omitempty"` // number of recording stations
	AzimuthGap     *float64 `json:"azimuth_gap,omitempty"`
	MinDistance    *float64 `json:"min_distance,omitempty"` // closest station distance (degrees)
	MaxDistance    *float64 `json:"max_distance,omitempty"` // furthest station distance (degrees)
	FixedTime      *string  `json:"fixed_time,omitempty"`
	AnalysisType   *string  `json:"analysis_type,omitempty"`
	LocationMethod *string  `json:"location_method,omitempty"`
	EventType      *string  `json:"event_type,omitempty"`
}

// Origin is a single agency's solution for where and when an event
// occurred. The id is unique within one catalogue, not globally.
type Origin struct {
	ID         string         `json:"id"`
	Time       time.Time      `json:"time"` // UTC, microsecond resolution
	Location   Location       `json:"location"`
	Author     string         `json:"author"`
	IsPrime    bool           `json:"is_prime"`
	IsCentroid bool           `json:"is_centroid"`
	TimeError  *float64       `json:"time_error,omitempty"`
	TimeRMS    *float64       `json:"time_rms,omitempty"`
	Metadata   OriginMetadata `json:"metadata"`
	Magnitudes []Magnitude    `json:"magnitudes"`
}

// MagnitudeScales returns the scales of all magnitudes assigned to this
// origin, or nil when it has none.
func (o *Origin) MagnitudeScales() []string {
	if len(o.Magnitudes) == 0 {
		return nil
	}
	scales := make([]string, len(o.Magnitudes))
	for i, m := range o.Magnitudes {
		scales[i] = m.Scale
	}
	return scales
}

// MagnitudeValues returns the values of all magnitudes assigned to this
// origin, or nil when it has none.
func (o *Origin) MagnitudeValues() []float64 {
	if len(o.Magnitudes) == 0 {
		return nil
	}
	values := make([]float64, len(o.Magnitudes))
	for i, m := range o.Magnitudes {
		values[i] = m.Value
	}
	return values
}

// MergeSecondaryMagnitudes folds magnitudes from a secondary catalogue's
// origin into this one. An origin with no magnitudes adopts the incoming
// list wholesale. Otherwise each incoming magnitude is appended unless an
// existing magnitude carries the same identity triple, in which case the
// values must agree within MagnitudeTolerance and the incoming duplicate is
// dropped. A value disagreement aborts the merge with a
// *MagnitudeConflictError.
func (o *Origin) MergeSecondaryMagnitudes(incoming []Magnitude) error {
	if len(o.Magnitudes) == 0 {
		o.Magnitudes = incoming
		return nil
	}
	for _, in := range incoming {
		duplicate := false
		for _, existing := range o.Magnitudes {
			same, err := existing.Equal(in)
			if err != nil {
				return err
			}
			if same {
				duplicate = true
				break
			}
		}
		if !duplicate {
			o.Magnitudes = append(o.Magnitudes, in)
		}
	}
	return nil
}

// String renders the origin as id, pipe-delimited date/time fields, and
// location.
func (o *Origin) String() string {
	return fmt.Sprintf("%s|%s|%s", o.ID, o.dateTimeString(), o.Location)
}

func (o *Origin) dateTimeString() string {
	s := o.Time.Format("2006|01|02|15|04|05")
	if us := o.Time.Nanosecond() / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
