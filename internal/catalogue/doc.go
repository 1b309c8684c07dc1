// Package catalogue models harmonized earthquake catalogues assembled from
// agency bulletins in the International Seismological Format (ISF).
//
// # Data Source
//
// Bulletins originate from seismological reporting agencies (ISC, GCMT,
// HRVD, EHB, national networks) that each publish their own solution for
// where and when an earthquake occurred. A single physical earthquake is
// therefore represented as one Event carrying many Origins (one per agency
// solution) and many Magnitudes (one per agency and magnitude scale).
//
// # Object Graph
//
// Ownership is strictly hierarchical:
//
//	Catalogue → Events → Origins → Magnitudes
//
// An Event additionally holds the flat union of its magnitudes before they
// are assigned to owning origins. Cross-references (the origin id on a
// Magnitude, the event id on a Magnitude) are lookup keys, never ownership.
//
// # ISF Conventions
//
// Origin solutions come in two kinds: hypocentral picks and moment-tensor
// centroids. The bulletin flags at most one origin per event as the "prime"
// (preferred) solution. Magnitude scales are free-form agency strings
// ("Mw", "mb", "Ms", ...); an absent scale is recorded as "UK" (unknown),
// following ISC practice.
//
// # Identity and Deduplication
//
// A magnitude's composite identifier is
//
//	<origin id>|<author>|<value %.2f>|<scale>
//
// Two magnitudes sharing (origin id, author, scale) must agree on value
// within MagnitudeTolerance. A disagreement beyond tolerance indicates
// corrupt or inconsistent source data and surfaces as a
// *MagnitudeConflictError rather than being silently resolved.
//
// # Merging
//
// Catalogue merging is a refinement, not a union: a secondary catalogue
// only enriches events that already exist in the primary (matched by exact
// event id). Secondary-only events are dropped: the primary catalogue
// defines the event population, secondary catalogues contribute additional
// solutions for it.
package catalogue
