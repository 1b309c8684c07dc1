package pipeline

import (
	"sync"
	"time"

	"github.com/couchcryptid/quake-catalogue-etl/internal/catalogue"
)

// Store guards the master catalogue assembled by the daemon. The first
// ingested bulletin becomes the primary catalogue and defines the event
// population; every later bulletin refines it through the merge engine, so
// events unknown to the primary are dropped.
type Store struct {
	mu         sync.RWMutex
	master     *catalogue.Catalogue
	bulletins  int
	lastIngest time.Time
}

// NewStore creates a Store with an empty master catalogue.
func NewStore(id, name string) *Store {
	return &Store{master: catalogue.New(id, name)}
}

// Merge folds a parsed bulletin into the master catalogue and reports the
// number of master events. A magnitude integrity conflict aborts the merge
// and surfaces to the caller.
func (s *Store) Merge(secondary *catalogue.Catalogue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.master.Events) == 0 {
		s.master.Events = secondary.Events
	} else if err := s.master.MergeSecondary(secondary); err != nil {
		return err
	}
	s.bulletins++
	s.lastIngest = secondary.ParsedAt
	return nil
}

// Summary is a point-in-time description of the master catalogue for the
// HTTP surface.
type Summary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Events     int       `json:"events"`
	Origins    int       `json:"origins"`
	Magnitudes int       `json:"magnitudes"`
	Bulletins  int       `json:"bulletins"`
	LastIngest time.Time `json:"last_ingest,omitzero"`
}

// Summary returns current master catalogue statistics.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := Summary{
		ID:         s.master.ID,
		Name:       s.master.Name,
		Events:     len(s.master.Events),
		Bulletins:  s.bulletins,
		LastIngest: s.lastIngest,
	}
	for _, e := range s.master.Events {
		sum.Origins += len(e.Origins)
		sum.Magnitudes += len(e.Magnitudes)
	}
	return sum
}
