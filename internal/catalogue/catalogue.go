package catalogue

import (
	"fmt"
	"time"
)

// Catalogue is an ordered collection of events from one source bulletin or
// one merge lineage. Event order is insertion order (file order), not
// chronological. Rejected holds events filtered out during parsing by
// keyword criteria; it is only populated when rejections occurred.
type Catalogue struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Events   []*Event   `json:"events"`
	Rejected *Catalogue `json:"rejected,omitempty"`
	ParsedAt time.Time  `json:"parsed_at"`
}

// New creates an empty catalogue stamped with the current clock time.
func New(id, name string) *Catalogue {
	return &Catalogue{
		ID:       id,
		Name:     name,
		ParsedAt: clock.Now().UTC(),
	}
}

// Len returns the number of accepted events.
func (c *Catalogue) Len() int {
	return len(c.Events)
}

// EventIDs returns the ids of all events in catalogue order.
func (c *Catalogue) EventIDs() []string {
	ids := make([]string, len(c.Events))
	for i, e := range c.Events {
		ids[i] = e.ID
	}
	return ids
}

// Event returns the event with the given id, or nil when absent.
func (c *Catalogue) Event(id string) *Event {
	for _, e := range c.Events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// MergeSecondary refines this catalogue with origins and magnitudes from a
// secondary one. Events are matched by exact id; matched events receive the
// secondary event's origins via Event.MergeSecondaryOrigins. Secondary
// events with no counterpart in the primary are dropped: merging enriches
// the existing event population, it never extends it.
func (c *Catalogue) MergeSecondary(secondary *Catalogue) error {
	index := make(map[string]*Event, len(c.Events))
	for _, e := range c.Events {
		index[e.ID] = e
	}
	for _, in := range secondary.Events {
		existing, ok := index[in.ID]
		if !ok {
			continue
		}
		if err := existing.MergeSecondaryOrigins(in.Origins); err != nil {
			return fmt.Errorf("merge catalogue %s into %s: %w", secondary.ID, c.ID, err)
		}
	}
	return nil
}
