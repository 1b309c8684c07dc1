package catalogue

import (
	"errors"
	"fmt"
)

// ErrMagnitudeConflict is the sentinel matched by errors.Is for magnitude
// data-integrity failures.
var ErrMagnitudeConflict = errors.New("magnitudes with identical identity differ in value")

// MagnitudeConflictError reports two magnitudes that share an identity
// triple (origin id, author, scale) but disagree on value beyond
// MagnitudeTolerance. This indicates corrupt or inconsistent source data
// and must surface to the caller rather than being resolved silently.
type MagnitudeConflictError struct {
	Existing Magnitude
	Incoming Magnitude
}

func (e *MagnitudeConflictError) Error() string {
	return fmt.Sprintf("magnitude conflict for %s|%s|%s: existing value %.3f, incoming value %.3f",
		e.Existing.OriginID, e.Existing.Author, e.Existing.Scale,
		e.Existing.Value, e.Incoming.Value)
}

func (e *MagnitudeConflictError) Is(target error) bool {
	return target == ErrMagnitudeConflict
}
