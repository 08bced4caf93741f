package mealdb

import (
	"context"
	"fmt"

	"recipebox/config"
	"recipebox/metrics"
	"recipebox/models"
	"recipebox/utils"
)

// Collector gathers raw meals from the three query strategies
type Collector struct {
	client  *Client
	cfg     *config.Config
	logger  *utils.Logger
	metrics *metrics.Collector
	report  *models.SeedReport
}

// NewCollector creates a new Collector. report may be nil.
func NewCollector(client *Client, cfg *config.Config, logger *utils.Logger, m *metrics.Collector, report *models.SeedReport) *Collector {
	return &Collector{
		client:  client,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		report:  report,
	}
}

// Collect runs search terms, then categories, then areas, one branch at a time.
// A failing branch is logged and contributes nothing; the rest carry on.
// Duplicates across strategies are kept.
func (c *Collector) Collect(ctx context.Context) []models.RawRecord {
	var raw []models.RawRecord

	for _, term := range c.cfg.SearchTerms {
		meals, err := c.client.Search(ctx, term)
		if err != nil {
			c.branchFailed(models.StrategySearch, term, err)
			continue
		}
		raw = append(raw, meals...)
		c.fetched(models.StrategySearch, term, len(meals))
	}

	for _, category := range c.cfg.Categories {
		meals, err := c.collectFiltered(ctx, FilterCategory, category)
		if err != nil {
			c.branchFailed(models.StrategyCategory, category, err)
			continue
		}
		raw = append(raw, meals...)
		c.fetched(models.StrategyCategory, category, len(meals))
	}

	for _, area := range c.cfg.Areas {
		meals, err := c.collectFiltered(ctx, FilterArea, area)
		if err != nil {
			c.branchFailed(models.StrategyArea, area, err)
			continue
		}
		raw = append(raw, meals...)
		c.fetched(models.StrategyArea, area, len(meals))
	}

	c.logger.Info("Collection complete. Total raw records: %d", len(raw))
	return raw
}

// collectFiltered lists the ids for one category or area and resolves them in order
func (c *Collector) collectFiltered(ctx context.Context, kind FilterKind, value string) ([]models.RawRecord, error) {
	ids, err := c.client.FilterIDs(ctx, kind, value)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	type lookupResult struct {
		record models.RawRecord
		found  bool
	}
	results, err := utils.MapOrdered(ctx, ids, c.cfg.FetchConcurrency, func(ctx context.Context, id string) (lookupResult, error) {
		rec, ok, err := c.client.Lookup(ctx, id)
		if err != nil {
			return lookupResult{}, fmt.Errorf("lookup %s: %w", id, err)
		}
		return lookupResult{record: rec, found: ok}, nil
	})
	if err != nil {
		return nil, err
	}

	meals := make([]models.RawRecord, 0, len(results))
	for _, r := range results {
		if r.found {
			meals = append(meals, r.record)
		}
	}
	return meals, nil
}

func (c *Collector) fetched(strategy models.Strategy, value string, n int) {
	c.logger.Info("%s '%s': collected %d records", strategy, value, n)
	if c.metrics != nil {
		c.metrics.RecordsFetched.WithLabelValues(string(strategy)).Add(float64(n))
	}
	if c.report != nil {
		c.report.Fetched[strategy] += n
	}
}

func (c *Collector) branchFailed(strategy models.Strategy, value string, err error) {
	c.logger.Warn("%s '%s' failed: %v", strategy, value, err)
	if c.metrics != nil {
		c.metrics.BranchFailures.WithLabelValues(string(strategy)).Inc()
	}
	if c.report != nil {
		c.report.FailedBranches[strategy]++
	}
}
