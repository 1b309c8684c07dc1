// Package isf parses earthquake bulletins in the International
// Seismological Format (ISF), a fixed-width ASCII catalogue format.
//
// A bulletin is a flat sequence of lines that encodes a hierarchy: an
// "Event" header line opens a block, a column-header line introduces the
// origin table, a second column-header introduces the magnitude table, and
// data rows are recognized purely by their exact width (136 characters for
// origins, 38 for magnitudes). Parenthesized lines are free-text comments;
// the special comments "(#PRIME)" and "(#CENTROID)" flag the origin row
// immediately above them.
//
// The column offsets in this package are a compatibility contract with
// external agency data feeds and must not be adjusted.
//
// Agencies omit optional fields by leaving columns blank, so field decoding
// is deliberately lenient: a blank or unparsable numeric field decodes to
// "missing" rather than an error, and a malformed data row is dropped
// without aborting the run. The only fatal parse-time condition is a
// magnitude data-integrity conflict detected during catalogue merging.
package isf
