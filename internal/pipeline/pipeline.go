package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/listing-enrichment-etl/internal/domain"
	"github.com/couchcryptid/listing-enrichment-etl/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Extractor reads the listings and climate tables.
type Extractor interface {
	Extract(ctx context.Context) (domain.Dataset, error)
}

// Transformer turns a dataset into output records.
type Transformer interface {
	Transform(ctx context.Context, ds domain.Dataset) (domain.Result, error)
}

// Loader writes output records to one destination.
type Loader interface {
	// Name labels the destination in logs and metrics.
	Name() string
	Load(ctx context.Context, records []domain.OutputRecord) error
}

// Pipeline runs one extract-transform-load pass.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	runID       string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock replaces the real clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithRunID sets the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(p *Pipeline) { p.runID = id }
}

// New creates a Pipeline. The extractor and transformer may be nil when the
// pipeline is only used to Replay records.
func New(e Extractor, t Transformer, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:   e,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
		clock:       clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runID == "" {
		p.runID = uuid.NewString()
	}
	p.logger = p.logger.With("run_id", p.runID)
	return p
}

// RunID returns the identifier attached to this run's logs and messages.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Run extracts both tables, transforms them and hands the records to every
// loader in order. The first failing loader stops the run.
func (p *Pipeline) Run(ctx context.Context) (domain.Stats, error) {
	start := p.clock.Now()
	p.logger.Info("pipeline started", "loaders", len(p.loaders))

	ds, err := p.extractor.Extract(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("extract: %w", err)
	}
	p.metrics.RowsRead.WithLabelValues("listings").Add(float64(len(ds.Listings)))
	p.metrics.RowsRead.WithLabelValues("climate").Add(float64(len(ds.Climate)))

	res, err := p.transformer.Transform(ctx, ds)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("transform: %w", err)
	}
	p.recordStats(res.Stats)

	if err := p.deliver(ctx, res.Records); err != nil {
		return res.Stats, err
	}
	p.finish(start, len(res.Records))
	return res.Stats, nil
}

// Replay loads records produced by an earlier run, skipping extract and
// transform.
func (p *Pipeline) Replay(ctx context.Context, records []domain.OutputRecord) error {
	start := p.clock.Now()
	p.logger.Info("replay started", "records", len(records), "loaders", len(p.loaders))

	if err := p.deliver(ctx, records); err != nil {
		return err
	}
	p.finish(start, len(records))
	return nil
}

func (p *Pipeline) deliver(ctx context.Context, records []domain.OutputRecord) error {
	for _, l := range p.loaders {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Load(ctx, records); err != nil {
			p.metrics.LoadErrors.WithLabelValues(l.Name()).Inc()
			p.logger.Error("load failed", "sink", l.Name(), "error", err)
			return fmt.Errorf("load %s: %w", l.Name(), err)
		}
		p.metrics.RecordsLoaded.WithLabelValues(l.Name()).Add(float64(len(records)))
		p.logger.Info("records loaded", "sink", l.Name(), "records", len(records))
	}
	return nil
}

func (p *Pipeline) recordStats(s domain.Stats) {
	for reason, n := range s.Dropped {
		p.metrics.RowsDropped.WithLabelValues(string(reason)).Add(float64(n))
	}
	p.metrics.Duplicates.Add(float64(s.Duplicates))
	p.metrics.ClimateMatches.Add(float64(s.Matched))
	p.metrics.RecordsOutput.Add(float64(s.Output))
}

func (p *Pipeline) finish(start time.Time, records int) {
	now := p.clock.Now()
	elapsed := now.Sub(start)
	p.metrics.RunDuration.Observe(elapsed.Seconds())
	p.metrics.LastSuccessSeconds.Set(float64(now.Unix()))
	p.logger.Info("pipeline finished", "records", records, "duration", elapsed)
}
