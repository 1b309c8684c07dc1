package catalogue

import "fmt"

// MagnitudeTolerance is the maximum value difference under which two
// magnitudes sharing the same (origin id, author, scale) identity are
// considered the same observation.
const MagnitudeTolerance = 1e-3

// Magnitude is one agency's size estimate for an event, computed from a
// specific origin solution. OriginID and EventID are back-references into
// the owning object graph, not ownership.
type Magnitude struct {
	EventID  string   `json:"event_id"`
	OriginID string   `json:"origin_id"`
	Value    float64  `json:"value"`
	Author   string   `json:"author"`
	Scale    string   `json:"scale"`
	Sigma    *float64 `json:"sigma,omitempty"`
	Stations *int     `json:"stations,omitempty"`
}

// NewMagnitude constructs a Magnitude, recording an absent scale as "UK"
// per ISC convention.
func NewMagnitude(eventID, originID string, value float64, author, scale string) Magnitude {
	if scale == "" {
		scale = "UK"
	}
	return Magnitude{
		EventID:  eventID,
		OriginID: originID,
		Value:    value,
		Author:   author,
		Scale:    scale,
	}
}

// ID returns the composite magnitude identifier used as the dedup key:
// origin id, author, value at fixed precision, and scale.
func (m Magnitude) ID() string {
	return fmt.Sprintf("%s|%s|%.2f|%s", m.OriginID, m.Author, m.Value, m.Scale)
}

// SameKey reports whether two magnitudes share the same identity triple
// (origin id, author, scale).
func (m Magnitude) SameKey(other Magnitude) bool {
	return m.OriginID == other.OriginID &&
		m.Author == other.Author &&
		m.Scale == other.Scale
}

// Equal reports whether other is the same observation as m. Magnitudes with
// different identity triples are simply not equal. Magnitudes with the same
// triple must agree on value within MagnitudeTolerance; a larger difference
// is a data-integrity failure and returns a *MagnitudeConflictError.
func (m Magnitude) Equal(other Magnitude) (bool, error) {
	if !m.SameKey(other) {
		return false, nil
	}
	diff := m.Value - other.Value
	if diff < 0 {
		diff = -diff
	}
	if diff > MagnitudeTolerance {
		return false, &MagnitudeConflictError{Existing: m, Incoming: other}
	}
	return true, nil
}

func (m Magnitude) String() string {
	return m.ID()
}
