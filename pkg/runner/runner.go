// Package runner drives batches of reviews through analysis for operational
// use: a bounded worker pool around the core analyzer, with idempotency
// skips, metrics and trace spans. The core stays synchronous; concurrency
// lives here.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/ingest"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/logging"
	"github.com/otherjamesbrown/guestpulse/pkg/metrics"
	"github.com/otherjamesbrown/guestpulse/pkg/observability"
	"github.com/otherjamesbrown/guestpulse/pkg/tracker"
)

// DefaultConcurrency is the default number of worker goroutines.
const DefaultConcurrency = 4

// Config configures a runner.
type Config struct {
	// Concurrency is the number of worker goroutines.
	Concurrency int

	// Kind labels the run in logs, metrics and the run log
	// (e.g. "backfill", "weekly").
	Kind string

	// Reanalyze processes reviews even when the tracker has seen them.
	Reanalyze bool
}

// RunResult contains the outcome of one batch run.
type RunResult struct {
	RunID       string
	Total       int
	Analyzed    int
	Skipped     int
	Failed      int
	StartedAt   time.Time
	CompletedAt time.Time
	Success     bool
	Results     []analyze.Result
	Errors      []ReviewError
}

// ReviewError records a per-review failure.
type ReviewError struct {
	ReviewID string
	Error    string
}

// Runner analyzes batches of ingested reviews.
type Runner struct {
	cfg     Config
	lex     *lexicon.Lexicon
	tracker tracker.Tracker
	metrics *metrics.PipelineMetrics
	tracer  *observability.Tracer
	logger  logging.Logger

	mu sync.Mutex
}

// New creates a runner. A nil tracker gets an in-memory one, nil metrics a
// private registry, so single-shot CLI runs need no external services.
func New(lex *lexicon.Lexicon, trk tracker.Tracker, m *metrics.PipelineMetrics, logger logging.Logger, cfg Config) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Kind == "" {
		cfg.Kind = "adhoc"
	}
	if trk == nil {
		trk = tracker.NewMemory()
	}
	if m == nil {
		m = metrics.NewPipelineMetrics(prometheus.NewRegistry())
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Runner{
		cfg:     cfg,
		lex:     lex,
		tracker: trk,
		metrics: m,
		tracer:  observability.NewTracer(),
		logger:  logger.With(logging.F("component", "runner")),
	}
}

type reviewOutcome struct {
	record ingest.Record
	status string // metrics.StatusAnalyzed, StatusSkipped, StatusFailed
	result analyze.Result
	err    error
}

// Run analyzes all records and returns the collected outcome. Per-review
// failures are recorded in the result, not returned: one bad row must not
// sink a backfill.
func (r *Runner) Run(ctx context.Context, records []ingest.Record) (*RunResult, error) {
	runID := uuid.New().String()
	ctx = context.WithValue(ctx, logging.RunIDKey, runID)
	log := r.logger.WithContext(ctx)

	ctx, span := r.tracer.StartRunSpan(ctx, runID, r.cfg.Kind)
	defer span.End()
	helper := observability.NewSpanHelper(span)

	result := &RunResult{
		RunID:     runID,
		Total:     len(records),
		StartedAt: time.Now(),
		Errors:    []ReviewError{},
	}

	log.Info("run started",
		logging.F("kind", r.cfg.Kind),
		logging.F("reviews", len(records)),
		logging.F("concurrency", r.cfg.Concurrency))

	if r.cfg.Concurrency == 1 {
		r.runSequential(ctx, records, result)
	} else {
		r.runParallel(ctx, records, result)
	}

	// Mark everything analyzed in one round trip.
	if len(result.Results) > 0 {
		ids := make([]string, 0, len(result.Results))
		for _, res := range result.Results {
			ids = append(ids, res.ReviewID)
		}
		if err := r.tracker.MarkReviews(ctx, ids...); err != nil {
			log.Warn("failed to mark processed reviews", logging.Err(err))
		}
	}

	result.CompletedAt = time.Now()
	result.Success = result.Failed == 0

	status := "ok"
	if !result.Success {
		status = "failed"
	}
	helper.SetCounts(result.Analyzed, result.Skipped, result.Failed)
	if err := ctx.Err(); err != nil {
		helper.SetError(err)
	} else {
		helper.SetSuccess()
	}
	r.metrics.RecordRun(r.cfg.Kind, status, result.CompletedAt.Sub(result.StartedAt).Seconds())

	log.Info("run finished",
		logging.F("analyzed", result.Analyzed),
		logging.F("skipped", result.Skipped),
		logging.F("failed", result.Failed),
		logging.F("duration", result.CompletedAt.Sub(result.StartedAt)))

	return result, nil
}

func (r *Runner) runSequential(ctx context.Context, records []ingest.Record, result *RunResult) {
	for _, rec := range records {
		if ctx.Err() != nil {
			r.recordOutcome(reviewOutcome{record: rec, status: metrics.StatusSkipped}, result)
			continue
		}
		r.recordOutcome(r.processRecord(ctx, rec), result)
	}
}

func (r *Runner) runParallel(ctx context.Context, records []ingest.Record, result *RunResult) {
	recordsCh := make(chan ingest.Record, len(records))
	outcomesCh := make(chan reviewOutcome, len(records))

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range recordsCh {
				if ctx.Err() != nil {
					outcomesCh <- reviewOutcome{record: rec, status: metrics.StatusSkipped}
					continue
				}
				outcomesCh <- r.processRecord(ctx, rec)
			}
		}()
	}

	for _, rec := range records {
		recordsCh <- rec
	}
	close(recordsCh)

	go func() {
		wg.Wait()
		close(outcomesCh)
	}()

	for o := range outcomesCh {
		r.recordOutcome(o, result)
	}
}

func (r *Runner) processRecord(ctx context.Context, rec ingest.Record) reviewOutcome {
	if !r.cfg.Reanalyze {
		seen, err := r.tracker.SeenReview(ctx, rec.Input.ReviewID)
		if err != nil {
			r.logger.Warn("tracker lookup failed, processing anyway",
				logging.Err(err),
				logging.F("review_id", rec.Input.ReviewID))
		} else if seen {
			return reviewOutcome{record: rec, status: metrics.StatusSkipped}
		}
	}

	start := time.Now()
	res, err := analyze.Analyze(rec.Input, r.lex)
	r.metrics.ObserveAnalysis(rec.Input.Source, time.Since(start).Seconds())
	if err != nil {
		r.logger.Error("analysis failed",
			logging.Err(err),
			logging.F("review_id", rec.Input.ReviewID))
		return reviewOutcome{record: rec, status: metrics.StatusFailed, err: err}
	}

	return reviewOutcome{record: rec, status: metrics.StatusAnalyzed, result: res}
}

func (r *Runner) recordOutcome(o reviewOutcome, result *RunResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metrics.RecordReview(o.status, o.record.Input.Source)

	switch o.status {
	case metrics.StatusAnalyzed:
		result.Analyzed++
		result.Results = append(result.Results, o.result)
	case metrics.StatusSkipped:
		result.Skipped++
	case metrics.StatusFailed:
		result.Failed++
		result.Errors = append(result.Errors, ReviewError{
			ReviewID: o.record.Input.ReviewID,
			Error:    o.err.Error(),
		})
	}
}
