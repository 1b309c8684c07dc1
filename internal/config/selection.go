package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/quake-catalogue-etl/internal/isf"
)

// Selection is a YAML-serializable curation profile: which agencies,
// magnitudes, and regions to keep when reading a bulletin. The zero value
// keeps everything.
type Selection struct {
	OriginAgencies    []string  `yaml:"origin_agencies"`
	MagnitudeAgencies []string  `yaml:"magnitude_agencies"`
	RejectKeywords    []string  `yaml:"reject_keywords"`
	BoundingBox       []float64 `yaml:"bounding_box"` // min-lon, min-lat, max-lon, max-lat
	MagnitudeLower    *float64  `yaml:"magnitude_lower"`
	MagnitudeUpper    *float64  `yaml:"magnitude_upper"`
	DiscardComments   bool      `yaml:"discard_comments"`
}

// LoadSelection reads a selection profile from a YAML file.
func LoadSelection(path string) (*Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load selection profile: %w", err)
	}
	var sel Selection
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("load selection profile %s: %w", path, err)
	}
	return &sel, nil
}

// GlobalSelection is the profile conventionally used for global catalogues:
// the standard global agency allow-list with no other restrictions.
func GlobalSelection() *Selection {
	return &Selection{
		OriginAgencies:    isf.DefaultGlobalAgencies,
		MagnitudeAgencies: isf.DefaultGlobalAgencies,
	}
}

// ReaderConfig converts the profile into a reader configuration. The
// bounding box must have exactly four values (min-lon, min-lat, max-lon,
// max-lat) or be absent.
func (s *Selection) ReaderConfig() (isf.Config, error) {
	cfg := isf.Config{
		OriginAgencies:    s.OriginAgencies,
		MagnitudeAgencies: s.MagnitudeAgencies,
		RejectKeywords:    s.RejectKeywords,
		MagnitudeLower:    s.MagnitudeLower,
		MagnitudeUpper:    s.MagnitudeUpper,
		DiscardComments:   s.DiscardComments,
	}
	switch len(s.BoundingBox) {
	case 0:
	case 4:
		cfg.Bounds = &isf.Bounds{
			MinLongitude: s.BoundingBox[0],
			MinLatitude:  s.BoundingBox[1],
			MaxLongitude: s.BoundingBox[2],
			MaxLatitude:  s.BoundingBox[3],
		}
	default:
		return isf.Config{}, fmt.Errorf("bounding box needs 4 values (min-lon, min-lat, max-lon, max-lat), got %d", len(s.BoundingBox))
	}
	return cfg, nil
}
