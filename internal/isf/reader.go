package isf

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/couchcryptid/quake-catalogue-etl/internal/catalogue"
)

// Canonical column-header lines marking the start of the origin and
// magnitude tables inside an event block.
const (
	originTableHeader = "   Date       Time        Err   RMS Latitude Longitude  " +
		"Smaj  Smin  Az Depth   Err Ndef Nsta Gap  mdist  Mdist Qual   " +
		"Author      OrigID"
	magnitudeTableHeader = "Magnitude  Err Nsta Author      OrigID"
)

// Literal markers flagging the origin row immediately above them.
const (
	primeMarker    = "(#PRIME)"
	centroidMarker = "(#CENTROID)"
)

// Bulletin boilerplate skipped without state changes.
const (
	dataTypePrefix = "DATA_TYPE "
	bulletinTitle  = "ISC Bulletin"
	stopMarker     = "STOP"
)

// commentRe matches a line whose entire content is a parenthesized
// annotation, capturing the bracketed text.
var commentRe = regexp.MustCompile(`^\s*\((.+)\)\s*$`)

// section is the reader's position inside an event block.
type section int

const (
	scanningForEvent section = iota
	inOriginSection
	inMagnitudeSection
)

// Stats summarizes one parse run.
type Stats struct {
	LinesRead        int
	RecordsSkipped   int
	OriginsParsed    int
	MagnitudesParsed int
	EventsAccepted   int
	EventsFiltered   int // failed the magnitude window or bounding box
	EventsRejected   int // matched a rejection keyword
	EventsDiscarded  int // assembled with zero origins or zero magnitudes
}

// Reader parses ISF bulletins into catalogues. A Reader holds only
// configuration; each Read call owns its own parse state, so one Reader may
// parse many files.
type Reader struct {
	originAllow     map[string]struct{}
	magnitudeAllow  map[string]struct{}
	keywords        []string
	bounds          Bounds
	magnitudeLower  float64
	magnitudeUpper  float64
	discardComments bool
}

// NewReader validates the configuration eagerly and returns a Reader.
func NewReader(cfg Config) (*Reader, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("isf reader config: %w", err)
	}
	r := &Reader{
		originAllow:     allowSet(cfg.OriginAgencies),
		magnitudeAllow:  allowSet(cfg.MagnitudeAgencies),
		bounds:          GlobalBounds(),
		magnitudeLower:  math.Inf(-1),
		magnitudeUpper:  math.Inf(1),
		discardComments: cfg.DiscardComments,
	}
	if cfg.Bounds != nil {
		r.bounds = *cfg.Bounds
	}
	if cfg.MagnitudeLower != nil {
		r.magnitudeLower = *cfg.MagnitudeLower
	}
	if cfg.MagnitudeUpper != nil {
		r.magnitudeUpper = *cfg.MagnitudeUpper
	}
	for _, kw := range cfg.RejectKeywords {
		r.keywords = append(r.keywords, strings.ToLower(kw))
	}
	return r, nil
}

// parseState is the mutable accumulator for the event block currently
// being assembled. It is created per Read call and threaded explicitly
// through line processing.
type parseState struct {
	section    section
	current    *catalogue.Event
	origins    []*catalogue.Origin
	magnitudes []catalogue.Magnitude
	comments   []string
	rejected   []*catalogue.Event
}

// ReadFile parses the bulletin at path into a catalogue with the given
// identifier and display name.
func (r *Reader) ReadFile(path, id, name string) (*catalogue.Catalogue, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read bulletin: %w", err)
	}
	defer f.Close()
	return r.Read(f, id, name)
}

// Read parses an ISF bulletin in a single sequential pass. Malformed lines
// are skipped, never fatal; the returned catalogue may carry a Rejected
// sub-catalogue when keyword rejections occurred.
func (r *Reader) Read(src io.Reader, id, name string) (*catalogue.Catalogue, Stats, error) {
	cat := catalogue.New(id, name)
	st := &parseState{}
	var stats Stats

	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		stats.LinesRead++
		r.processLine(strings.TrimRight(scanner.Text(), "\r"), cat, st, &stats)
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("read bulletin: %w", err)
	}

	// The last block has no following "Event" header to finalize it.
	r.finalizeEvent(cat, st, &stats)

	if len(st.rejected) > 0 {
		rejected := catalogue.New(id+"-R", name+" - Rejected")
		rejected.Events = st.rejected
		cat.Rejected = rejected
	}
	return cat, stats, nil
}

// processLine applies the line-handling rules in precedence order. Side
// effects are strictly file-ordered: the prime/centroid markers refer to
// the most recently appended origin.
func (r *Reader) processLine(line string, cat *catalogue.Catalogue, st *parseState, stats *Stats) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if strings.HasPrefix(line, dataTypePrefix) ||
		strings.TrimSpace(line) == bulletinTitle ||
		strings.TrimSpace(line) == stopMarker {
		return
	}
	if strings.Contains(line, primeMarker) {
		if len(st.origins) > 0 {
			st.origins[len(st.origins)-1].IsPrime = true
		}
		return
	}
	if strings.Contains(line, centroidMarker) {
		if len(st.origins) > 0 {
			st.origins[len(st.origins)-1].IsCentroid = true
		}
		return
	}
	if m := commentRe.FindStringSubmatch(line); m != nil {
		if st.current != nil {
			st.comments = append(st.comments, m[1])
		}
		return
	}
	if id, description, ok := ParseEventHeader(line); ok {
		r.finalizeEvent(cat, st, stats)
		st.current = &catalogue.Event{ID: id, Description: description}
		st.origins = nil
		st.magnitudes = nil
		st.comments = nil
		st.section = scanningForEvent
		return
	}
	if line == originTableHeader {
		st.section = inOriginSection
		return
	}
	if line == magnitudeTableHeader {
		st.section = inMagnitudeSection
		return
	}

	if st.section == inMagnitudeSection && len(line) == magnitudeRowLength && st.current != nil {
		mag, err := ParseMagnitudeLine(line, st.current.ID, r.magnitudeAllow)
		if err != nil {
			stats.RecordsSkipped++
			return
		}
		if mag != nil {
			st.magnitudes = append(st.magnitudes, *mag)
			stats.MagnitudesParsed++
		}
		return
	}
	if st.section == inOriginSection && len(line) == originRowLength && st.current != nil {
		origin, err := ParseOriginLine(line, r.originAllow)
		if err != nil {
			stats.RecordsSkipped++
			return
		}
		if origin != nil {
			st.origins = append(st.origins, origin)
			stats.OriginsParsed++
		}
		return
	}
	stats.RecordsSkipped++
}

// finalizeEvent completes the block in progress, cross-assigns magnitudes
// to origins, and routes the event through the acceptance filter. Events
// with no origins or no magnitudes are discarded without a rejection
// record.
func (r *Reader) finalizeEvent(cat *catalogue.Catalogue, st *parseState, stats *Stats) {
	if st.current == nil {
		return
	}
	event := st.current
	st.current = nil
	event.Origins = st.origins
	event.Magnitudes = st.magnitudes
	event.Comment = strings.Join(st.comments, "\n")

	if len(event.Origins) == 0 || len(event.Magnitudes) == 0 {
		stats.EventsDiscarded++
		return
	}
	event.AssignMagnitudesToOrigins()

	switch r.evaluate(event) {
	case verdictAccept:
		if r.discardComments {
			event.Comment = ""
		}
		cat.Events = append(cat.Events, event)
		stats.EventsAccepted++
	case verdictFilter:
		stats.EventsFiltered++
	case verdictReject:
		st.rejected = append(st.rejected, event)
		stats.EventsRejected++
	}
}
