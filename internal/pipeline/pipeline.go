// Package pipeline orchestrates the batch derivation: read point tables,
// resolve each event's series and kinematics, summarize, and aggregate
// across events in deterministic order.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/heliophys/cme-kinematics/internal/aggregate"
	"github.com/heliophys/cme-kinematics/internal/domain"
	"github.com/heliophys/cme-kinematics/internal/observability"
)

// TableReader loads all point tables for a run.
type TableReader interface {
	ReadTables() ([]domain.PointTable, error)
}

// ResultWriter persists per-event series and the cross-event table.
type ResultWriter interface {
	WriteEvent(series domain.EventSeries, speeds, rates []float64, sum domain.EventSummary) error
	WriteCrossEvent(t *aggregate.Table) error
}

// SummaryPublisher pushes finished event summaries downstream.
type SummaryPublisher interface {
	PublishSummaries(ctx context.Context, summaries []domain.EventSummary) error
}

// Pipeline runs the whole batch. Events are independent and may be
// processed concurrently; aggregation happens afterwards in ascending
// sorted event-identifier order, so output is deterministic regardless of
// completion order.
type Pipeline struct {
	reader    TableReader
	writer    ResultWriter
	publisher SummaryPublisher // nil disables publishing
	logger    *slog.Logger
	metrics   *observability.Metrics
	workers   int
	ready     atomic.Bool
}

// New creates a Pipeline. Pass a nil publisher to disable the summary
// sink. workers bounds concurrent event processing and must be >= 1.
func New(reader TableReader, writer ResultWriter, publisher SummaryPublisher,
	logger *slog.Logger, metrics *observability.Metrics, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		reader:    reader,
		writer:    writer,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		workers:   workers,
	}
}

// CheckReadiness returns nil once at least one event has been summarized.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no events summarized yet")
	}
	return nil
}

// eventResult carries one event's outcome from a worker to the ordered
// aggregation step.
type eventResult struct {
	series  domain.EventSeries
	speeds  []float64
	rates   []float64
	summary domain.EventSummary
	excl    domain.Exclusions
	rows    int
	err     error
}

// Run executes the batch and returns the run report. A per-event failure
// is recorded and skipped; only reader or writer failures abort the run.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	tables, err := p.reader.ReadTables()
	if err != nil {
		return nil, err
	}

	// Aggregation order is the sorted event-identifier order, whatever
	// order the reader discovered the tables in.
	sort.SliceStable(tables, func(i, j int) bool {
		return tables[i].EventID < tables[j].EventID
	})

	p.logger.Info("batch started", "events", len(tables), "workers", p.workers)

	results := make([]eventResult, len(tables))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	for i := range tables {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = p.processEvent(tables[i])
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		p.logger.Info("batch cancelled", "reason", err)
		return nil, err
	}

	report := newRunReport()
	agg := aggregate.New()
	var published []domain.EventSummary

	for i, res := range results {
		table := tables[i]
		if res.err != nil {
			p.logger.Warn("event failed, excluded from aggregation",
				"event_id", table.EventID,
				"error", res.err,
			)
			p.metrics.EventsFailed.Inc()
			report.addFailure(table.EventID, res.rows, res.excl, res.err)
			continue
		}

		if err := p.writer.WriteEvent(res.series, res.speeds, res.rates, res.summary); err != nil {
			return nil, err
		}
		p.metrics.EventsSummarized.Inc()
		p.ready.Store(true)
		agg.Add(res.summary)
		published = append(published, res.summary)
		report.addEvent(table.EventID, res.rows, len(res.series.Samples), res.excl)
	}

	switch {
	case agg.Events() >= 2:
		if err := agg.Finalize(); err != nil {
			p.logger.Warn("cross-event fit failed", "error", err)
			report.CrossEventErr = err
		} else if err := p.writer.WriteCrossEvent(agg); err != nil {
			return nil, err
		} else {
			report.CrossEvent = agg
		}
	default:
		p.logger.Warn("too few events for cross-event aggregation", "events", agg.Events())
		report.CrossEventErr = &domain.UnderdeterminedFitError{Points: agg.Events()}
	}

	if p.publisher != nil && len(published) > 0 {
		if err := p.publisher.PublishSummaries(ctx, published); err != nil {
			// Publishing is a convenience sink; the derived files already
			// exist, so report the failure without discarding the run.
			p.logger.Error("summary publish failed", "error", err)
			report.PublishErr = err
		}
	}

	p.logger.Info("batch finished",
		"events_summarized", len(published),
		"events_failed", len(report.Failed),
	)
	return report, nil
}

// processEvent derives one event end to end: series build, differencing,
// fit, and summary.
func (p *Pipeline) processEvent(table domain.PointTable) eventResult {
	start := time.Now()
	defer func() {
		p.metrics.EventDuration.Observe(time.Since(start).Seconds())
	}()

	res := eventResult{rows: len(table.Records)}

	series, excl, err := domain.BuildEventSeries(table)
	res.excl = excl
	p.countExclusions(excl)
	if err != nil {
		res.err = err
		return res
	}
	p.metrics.RowsUsed.Add(float64(len(series.Samples)))

	speeds, err := domain.SpeedSeries(series)
	if err != nil {
		res.err = err
		return res
	}
	rates, err := domain.ExpansionRateSeries(series)
	if err != nil {
		res.err = err
		return res
	}
	summary, err := domain.Summarize(series, speeds, rates)
	if err != nil {
		res.err = err
		return res
	}

	res.series = series
	res.speeds = speeds
	res.rates = rates
	res.summary = summary
	return res
}

func (p *Pipeline) countExclusions(excl domain.Exclusions) {
	if excl.EmptyAngleList > 0 {
		p.metrics.RowsExcluded.WithLabelValues("empty_list").Add(float64(excl.EmptyAngleList))
	}
	if excl.Malformed > 0 {
		p.metrics.RowsExcluded.WithLabelValues("malformed").Add(float64(excl.Malformed))
	}
	if excl.BadTimestamp > 0 {
		p.metrics.RowsExcluded.WithLabelValues("bad_timestamp").Add(float64(excl.BadTimestamp))
	}
}
