package services

import (
	"context"
	"fmt"

	"recipebox/metrics"
	"recipebox/models"
	"recipebox/storage"
	"recipebox/utils"
)

// RawSource produces the raw meals for one run
type RawSource interface {
	Collect(ctx context.Context) []models.RawRecord
}

// Seeder runs the whole pipeline: collect, normalize, dedupe, sample, persist
type Seeder struct {
	source     RawSource
	normalizer *Normalizer
	sampler    *Sampler
	sinks      []storage.CleanStorage
	rawStorage storage.RawStorage
	metrics    *metrics.Collector
	logger     *utils.Logger
	report     *models.SeedReport
}

// Option configures a Seeder
type Option func(*Seeder)

// WithRawStorage dumps raw meals before cleaning; failures there are not fatal
func WithRawStorage(rs storage.RawStorage) Option {
	return func(s *Seeder) { s.rawStorage = rs }
}

// WithMetrics records pipeline counters
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Seeder) { s.metrics = m }
}

// WithReport fills the given report instead of a fresh one
func WithReport(r *models.SeedReport) Option {
	return func(s *Seeder) { s.report = r }
}

// NewSeeder creates a Seeder writing to sinks in order. The first failing sink
// stops the run, so the seed document goes last.
func NewSeeder(source RawSource, sampler *Sampler, sinks []storage.CleanStorage, logger *utils.Logger, opts ...Option) *Seeder {
	s := &Seeder{
		source:     source,
		normalizer: NewNormalizer(logger),
		sampler:    sampler,
		sinks:      sinks,
		logger:     logger,
		report:     models.NewSeedReport(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report returns the counts gathered by the last Run
func (s *Seeder) Report() *models.SeedReport {
	return s.report
}

// Run executes one seed run and returns the document that was written.
// Branch failures are absorbed by the source; anything returned here is fatal.
func (s *Seeder) Run(ctx context.Context) (*models.Document, error) {
	raw := s.source.Collect(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collection interrupted: %w", err)
	}
	s.report.RawRecords = len(raw)

	if s.rawStorage != nil {
		if err := s.rawStorage.SaveRaw(raw); err != nil {
			s.logger.Error("Failed to write raw records: %v", err)
		}
	}

	usable := s.normalizer.Clean(raw)
	s.report.UsableRecipes = len(usable)
	s.dropped("unusable", len(raw)-len(usable))

	unique := s.normalizer.Dedupe(usable)
	s.report.UniqueRecipes = len(unique)
	s.dropped("duplicate", len(usable)-len(unique))

	final := s.sampler.Sample(unique)
	s.report.ByCategory = CategoryBreakdown(final)

	doc := ToDocument(final)
	for _, sink := range s.sinks {
		if err := sink.SaveClean(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to save recipes: %w", err)
		}
	}

	s.report.Written = len(doc.Recipes)
	if s.metrics != nil {
		s.metrics.RecipesWritten.Add(float64(len(doc.Recipes)))
	}
	return doc, nil
}

func (s *Seeder) dropped(reason string, n int) {
	if s.metrics != nil && n > 0 {
		s.metrics.RecipesDropped.WithLabelValues(reason).Add(float64(n))
	}
}
