package catalogue

import (
	"fmt"
	"strconv"
	"strings"
)

// Event is one physical earthquake: the union of every agency's origin
// solutions and magnitude estimates for it, plus the free-text annotations
// accumulated from the source bulletin.
type Event struct {
	ID          string      `json:"id"`
	Description string      `json:"description,omitempty"`
	Origins     []*Origin   `json:"origins"`
	Magnitudes  []Magnitude `json:"magnitudes"`
	Comment     string      `json:"comment,omitempty"`
}

// OriginIDs returns the ids of all origins in bulletin order.
func (e *Event) OriginIDs() []string {
	ids := make([]string, len(e.Origins))
	for i, o := range e.Origins {
		ids[i] = o.ID
	}
	return ids
}

// Authors returns the reporting agency of each origin in bulletin order.
func (e *Event) Authors() []string {
	authors := make([]string, len(e.Origins))
	for i, o := range e.Origins {
		authors[i] = o.Author
	}
	return authors
}

// AssignMagnitudesToOrigins distributes the event-level magnitude list onto
// the origins they were computed from, matched by origin id. Assignment is
// many-to-one: a magnitude lands on exactly the origin whose id it carries.
func (e *Event) AssignMagnitudesToOrigins() {
	for _, origin := range e.Origins {
		for _, mag := range e.Magnitudes {
			if origin.ID == mag.OriginID {
				origin.Magnitudes = append(origin.Magnitudes, mag)
			}
		}
	}
}

// MergeSecondaryOrigins folds origins from a secondary catalogue's event
// into this one. An incoming origin whose id already exists contributes its
// magnitudes to the existing origin; an unknown id is appended wholesale
// with its magnitudes attached.
func (e *Event) MergeSecondaryOrigins(incoming []*Origin) error {
	index := make(map[string]*Origin, len(e.Origins))
	for _, o := range e.Origins {
		index[o.ID] = o
	}
	for _, in := range incoming {
		existing, ok := index[in.ID]
		if !ok {
			e.Origins = append(e.Origins, in)
			index[in.ID] = in
			continue
		}
		if err := existing.MergeSecondaryMagnitudes(in.Magnitudes); err != nil {
			return fmt.Errorf("merge origins of event %s: %w", e.ID, err)
		}
	}
	return nil
}

// MagnitudeString renders all event-level magnitudes as a delimited list of
// value, sigma, scale, author tuples.
func (e *Event) MagnitudeString(delimiter string) string {
	parts := make([]string, 0, 4*len(e.Magnitudes))
	for _, m := range e.Magnitudes {
		sigma := ""
		if m.Sigma != nil {
			sigma = strconv.FormatFloat(*m.Sigma, 'g', -1, 64)
		}
		parts = append(parts, formatFloat(m.Value), sigma, m.Scale, m.Author)
	}
	return strings.Join(parts, delimiter)
}

func (e *Event) String() string {
	return fmt.Sprintf("%s|'%s'", e.ID, e.Description)
}
