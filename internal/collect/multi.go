package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/factlens/factlens/internal/cache"
	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/worker"
)

// MultiCollector fans keyword queries out across several archives
// concurrently. Each (source, query) pair is an independent job; a
// failing pair is dropped and the rest of the corpus still comes back.
type MultiCollector struct {
	sources  []Collector
	limiter  *worker.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
	workers  int
	log      *slog.Logger
}

// MultiOption configures a MultiCollector
type MultiOption func(*MultiCollector)

// WithCache enables result caching with the given TTL
func WithCache(c cache.Cache, ttl time.Duration) MultiOption {
	return func(m *MultiCollector) {
		m.cache = c
		m.cacheTTL = ttl
	}
}

// WithWorkers sets the number of concurrent collection jobs
func WithWorkers(n int) MultiOption {
	return func(m *MultiCollector) {
		m.workers = n
	}
}

// NewMultiCollector combines the given sources under one Collector.
// requestsPerSecond applies per source, not globally.
func NewMultiCollector(sources []Collector, requestsPerSecond float64, log *slog.Logger, opts ...MultiOption) *MultiCollector {
	if log == nil {
		log = slog.Default()
	}

	m := &MultiCollector{
		sources: sources,
		limiter: worker.NewLimiter(requestsPerSecond, 1),
		workers: 4,
		log:     log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the source identifier
func (m *MultiCollector) Name() string { return "multi" }

// collectJob is one (source, query) unit of work
type collectJob struct {
	parent *MultiCollector
	source Collector
	query  string
}

// collectResult implements worker.Result
type collectResult struct {
	records []model.RawRecord
	err     error
}

func (r *collectResult) GetError() error { return r.err }

func (j *collectJob) Execute(ctx context.Context) worker.Result {
	records, err := j.parent.collectOne(ctx, j.source, j.query)
	if err != nil {
		return &collectResult{err: fmt.Errorf("%s %q: %w", j.source.Name(), j.query, err)}
	}
	return &collectResult{records: records}
}

// Collect runs every query against every source and returns the union
// of all records that could be gathered
func (m *MultiCollector) Collect(ctx context.Context, queries []string) ([]model.RawRecord, error) {
	if len(queries) == 0 || len(m.sources) == 0 {
		return nil, nil
	}

	// Every job is submitted before Wait drains a single result, so the
	// pool's queues must hold the full job set or Submit blocks forever.
	pool := worker.NewSizedPool(m.workers, len(m.sources)*len(queries))
	pool.Start()

	for _, source := range m.sources {
		for _, query := range queries {
			pool.Submit(&collectJob{parent: m, source: source, query: query})
		}
	}

	var records []model.RawRecord
	failures := 0
	for _, res := range pool.Wait() {
		if err := res.GetError(); err != nil {
			m.log.Warn("collection job failed", "error", err)
			failures++
			continue
		}
		records = append(records, res.(*collectResult).records...)
	}

	m.log.Info("collection finished",
		"sources", len(m.sources), "queries", len(queries),
		"records", len(records), "failed_jobs", failures)

	return records, nil
}

func (m *MultiCollector) collectOne(ctx context.Context, source Collector, query string) ([]model.RawRecord, error) {
	key := cache.Key(source.Name(), query)

	if m.cache != nil {
		if data, found := m.cache.Get(key); found {
			var cached []model.RawRecord
			if err := json.Unmarshal(data, &cached); err == nil {
				m.log.Debug("cache hit", "source", source.Name(), "query", query)
				return cached, nil
			}
			// Unreadable entry, refetch
			_ = m.cache.Delete(key)
		}
	}

	if err := m.limiter.Wait(ctx, source.Name()); err != nil {
		return nil, err
	}

	records, err := source.Collect(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if data, err := json.Marshal(records); err == nil {
			_ = m.cache.Set(key, data, m.cacheTTL)
		}
	}

	return records, nil
}
