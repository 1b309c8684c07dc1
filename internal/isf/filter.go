package isf

import (
	"strings"

	"github.com/couchcryptid/quake-catalogue-etl/internal/catalogue"
)

// verdict is the outcome of the event acceptance filter.
type verdict int

const (
	verdictAccept verdict = iota
	verdictFilter // excluded silently (magnitude window or bounding box)
	verdictReject // excluded into the rejected side-catalogue (keyword match)
)

// evaluate applies the acceptance checks in fixed order: magnitude window,
// bounding box, rejection keywords. The first failure decides; only a
// keyword match produces a rejection record.
func (r *Reader) evaluate(event *catalogue.Event) verdict {
	if !r.anyMagnitudeInWindow(event) {
		return verdictFilter
	}
	if !r.anyOriginInBounds(event) {
		return verdictFilter
	}
	if r.matchesRejectKeyword(event) {
		return verdictReject
	}
	return verdictAccept
}

// anyMagnitudeInWindow reports whether at least one event magnitude falls
// inside the configured window ("any" quantifier, boundaries included).
func (r *Reader) anyMagnitudeInWindow(event *catalogue.Event) bool {
	for _, m := range event.Magnitudes {
		if m.Value >= r.magnitudeLower && m.Value <= r.magnitudeUpper {
			return true
		}
	}
	return false
}

// anyOriginInBounds reports whether at least one origin lies inside the
// configured bounding box.
func (r *Reader) anyOriginInBounds(event *catalogue.Event) bool {
	for _, o := range event.Origins {
		if r.bounds.Contains(o.Location.Longitude, o.Location.Latitude) {
			return true
		}
	}
	return false
}

// matchesRejectKeyword reports whether the event's accumulated comment text
// contains any configured keyword, case-insensitively.
func (r *Reader) matchesRejectKeyword(event *catalogue.Event) bool {
	if len(r.keywords) == 0 {
		return false
	}
	comment := strings.ToLower(event.Comment)
	for _, kw := range r.keywords {
		if strings.Contains(comment, kw) {
			return true
		}
	}
	return false
}
