// Package pipeline orchestrates the spool-to-catalogue ingestion loop:
// parse each incoming bulletin, merge it into the master catalogue, and
// publish the harmonized events.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/quake-catalogue-etl/internal/catalogue"
	"github.com/couchcryptid/quake-catalogue-etl/internal/isf"
	"github.com/couchcryptid/quake-catalogue-etl/internal/observability"
)

// Parser reads one ISF bulletin into a catalogue.
type Parser interface {
	ReadFile(path, id, name string) (*catalogue.Catalogue, isf.Stats, error)
}

// Publisher delivers harmonized events to the sink.
type Publisher interface {
	PublishBatch(ctx context.Context, catalogueID, runID string, events []*catalogue.Event) error
}

// Pipeline consumes bulletin paths and drives parse, merge, and publish
// with strictly sequential side effects.
type Pipeline struct {
	parser    Parser
	store     *Store
	publisher Publisher // nil disables publishing
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline. Pass a nil publisher to disable event delivery.
func New(parser Parser, store *Store, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		parser:    parser,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the pipeline has processed at least one
// bulletin, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not ingested any bulletins yet")
	}
	return nil
}

// Run processes bulletin paths until the channel closes or the context is
// cancelled. Individual bulletin failures are logged and skipped; they
// never stop the loop.
func (p *Pipeline) Run(ctx context.Context, bulletins <-chan string) error {
	p.logger.Info("pipeline started")
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case path, ok := <-bulletins:
			if !ok {
				p.logger.Info("pipeline stopping", "reason", "spool channel closed")
				return nil
			}
			p.processBulletin(ctx, path)
		}
	}
}

// processBulletin runs one parse-merge-publish cycle for a single file.
func (p *Pipeline) processBulletin(ctx context.Context, path string) {
	runID := uuid.NewString()
	start := time.Now()
	id := bulletinID(path)
	logger := p.logger.With("bulletin", id, "run_id", runID)

	cat, stats, err := p.parser.ReadFile(path, id, id)
	if err != nil {
		logger.Error("bulletin parse failed", "error", err)
		p.metrics.ParseErrors.Inc()
		return
	}
	p.recordStats(stats)
	if cat.Len() == 0 {
		logger.Warn("bulletin produced no events",
			"lines_read", stats.LinesRead, "records_skipped", stats.RecordsSkipped)
		return
	}

	if err := p.store.Merge(cat); err != nil {
		// Magnitude conflicts mean the source data disagrees with itself;
		// the bulletin is skipped and the conflict surfaced loudly.
		logger.Error("bulletin merge failed", "error", err)
		if errors.Is(err, catalogue.ErrMagnitudeConflict) {
			p.metrics.MergeConflicts.Inc()
		}
		return
	}

	if p.publisher != nil {
		if err := p.publisher.PublishBatch(ctx, cat.ID, runID, cat.Events); err != nil {
			logger.Error("event publish failed", "error", err, "events", cat.Len())
		} else {
			p.metrics.EventsPublished.Add(float64(cat.Len()))
		}
	}

	p.metrics.BulletinsParsed.Inc()
	p.metrics.ParseDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	rejected := 0
	if cat.Rejected != nil {
		rejected = cat.Rejected.Len()
	}
	logger.Info("bulletin ingested",
		"events", cat.Len(),
		"rejected", rejected,
		"origins", stats.OriginsParsed,
		"magnitudes", stats.MagnitudesParsed,
		"duration", time.Since(start))
}

func (p *Pipeline) recordStats(stats isf.Stats) {
	p.metrics.LinesRead.Add(float64(stats.LinesRead))
	p.metrics.RecordsSkipped.Add(float64(stats.RecordsSkipped))
	p.metrics.OriginsParsed.Add(float64(stats.OriginsParsed))
	p.metrics.MagnitudesParsed.Add(float64(stats.MagnitudesParsed))
	p.metrics.EventOutcomes.WithLabelValues("accepted").Add(float64(stats.EventsAccepted))
	p.metrics.EventOutcomes.WithLabelValues("filtered").Add(float64(stats.EventsFiltered))
	p.metrics.EventOutcomes.WithLabelValues("rejected").Add(float64(stats.EventsRejected))
	p.metrics.EventOutcomes.WithLabelValues("discarded").Add(float64(stats.EventsDiscarded))
}

// bulletinID derives a catalogue identifier from the file name, without
// directory or extension.
func bulletinID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
