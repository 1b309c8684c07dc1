package isf

import (
	"fmt"
	"strings"
)

// Bounds is a geographic bounding box in decimal degrees. Longitudes may
// use either the -180..180 or 0..360 convention, matching agency bulletins.
type Bounds struct {
	MinLongitude float64 `json:"min_longitude" yaml:"min_longitude"`
	MinLatitude  float64 `json:"min_latitude" yaml:"min_latitude"`
	MaxLongitude float64 `json:"max_longitude" yaml:"max_longitude"`
	MaxLatitude  float64 `json:"max_latitude" yaml:"max_latitude"`
}

// GlobalBounds covers the whole globe.
func GlobalBounds() Bounds {
	return Bounds{MinLongitude: -180, MinLatitude: -90, MaxLongitude: 360, MaxLatitude: 90}
}

// Contains reports whether the point lies inside the box, boundaries
// included.
func (b Bounds) Contains(longitude, latitude float64) bool {
	return longitude >= b.MinLongitude && longitude <= b.MaxLongitude &&
		latitude >= b.MinLatitude && latitude <= b.MaxLatitude
}

func (b Bounds) validate() error {
	if b.MinLongitude >= b.MaxLongitude {
		return fmt.Errorf("bounding box: min longitude %g not below max %g", b.MinLongitude, b.MaxLongitude)
	}
	if b.MinLatitude >= b.MaxLatitude {
		return fmt.Errorf("bounding box: min latitude %g not below max %g", b.MinLatitude, b.MaxLatitude)
	}
	if b.MinLatitude < -90 || b.MaxLatitude > 90 {
		return fmt.Errorf("bounding box: latitude range %g..%g outside -90..90", b.MinLatitude, b.MaxLatitude)
	}
	if b.MinLongitude < -180 || b.MaxLongitude > 360 {
		return fmt.Errorf("bounding box: longitude range %g..%g outside -180..360", b.MinLongitude, b.MaxLongitude)
	}
	return nil
}

// Config controls which records and events a Reader keeps. The zero value
// keeps everything: all agencies, the whole globe, any magnitude, no
// rejection keywords, comments retained.
type Config struct {
	// OriginAgencies and MagnitudeAgencies are allow-lists applied per
	// record. Empty means allow all.
	OriginAgencies    []string
	MagnitudeAgencies []string

	// RejectKeywords excludes events whose accumulated comment text
	// contains any keyword (case-insensitive). Rejected events land in the
	// catalogue's Rejected sub-catalogue.
	RejectKeywords []string

	// Bounds restricts events to those with at least one origin inside the
	// box. Nil means the whole globe.
	Bounds *Bounds

	// MagnitudeLower and MagnitudeUpper restrict events to those with at
	// least one magnitude inside [lower, upper]. Nil means unbounded.
	MagnitudeLower *float64
	MagnitudeUpper *float64

	// DiscardComments drops the accumulated comment text from accepted
	// events. Rejected events always keep theirs.
	DiscardComments bool
}

// validate fails fast on configurations that could only produce surprising
// parses, before any input is read.
func (c Config) validate() error {
	if c.MagnitudeLower != nil && c.MagnitudeUpper != nil && *c.MagnitudeLower > *c.MagnitudeUpper {
		return fmt.Errorf("magnitude bounds inverted: lower %g above upper %g", *c.MagnitudeLower, *c.MagnitudeUpper)
	}
	if c.Bounds != nil {
		if err := c.Bounds.validate(); err != nil {
			return err
		}
	}
	for _, kw := range c.RejectKeywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("rejection keywords must be non-blank")
		}
	}
	for _, agency := range c.MagnitudeAgencies {
		if strings.TrimSpace(agency) == "" {
			return fmt.Errorf("magnitude agency allow-list entries must be non-blank")
		}
	}
	for _, agency := range c.OriginAgencies {
		if strings.TrimSpace(agency) == "" {
			return fmt.Errorf("origin agency allow-list entries must be non-blank")
		}
	}
	return nil
}

func allowSet(agencies []string) map[string]struct{} {
	if len(agencies) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(agencies))
	for _, a := range agencies {
		set[a] = struct{}{}
	}
	return set
}
