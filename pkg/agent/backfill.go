// Package agent wires the pipeline stages into the two operational flows:
// backfill (bulk import of an export file) and weekly (report for the last
// complete ISO week).
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/otherjamesbrown/guestpulse/pkg/aggregate"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/export/sheetmirror"
	"github.com/otherjamesbrown/guestpulse/pkg/history"
	"github.com/otherjamesbrown/guestpulse/pkg/ingest"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/logging"
	"github.com/otherjamesbrown/guestpulse/pkg/metrics"
	"github.com/otherjamesbrown/guestpulse/pkg/runner"
	"github.com/otherjamesbrown/guestpulse/pkg/tracker"
)

// Backfill imports a review export end to end: ingest, analyze, persist,
// recompute rollups for every period the batch touches, optionally mirror
// the worksheet layout.
type Backfill struct {
	reader  *ingest.Reader
	store   history.Store
	lex     *lexicon.Lexicon
	tracker tracker.Tracker
	mirror  *sheetmirror.Mirror
	metrics *metrics.PipelineMetrics
	logger  logging.Logger
}

// BackfillOptions narrows a run.
type BackfillOptions struct {
	// Since/Until keep only rows dated inside the window (inclusive).
	// Zero values mean unbounded.
	Since time.Time
	Until time.Time

	// Reanalyze processes reviews the tracker has already seen.
	Reanalyze bool
}

// BackfillResult summarizes a completed backfill.
type BackfillResult struct {
	Run        *runner.RunResult
	Ingest     ingest.Summary
	RowErrors  []error
	KPIRows    int
	SourceRows int
	AspectRows int
	PairRows   int
}

// NewBackfill creates a backfill agent. The mirror may be nil.
func NewBackfill(lex *lexicon.Lexicon, store history.Store, trk tracker.Tracker, m *metrics.PipelineMetrics, mirror *sheetmirror.Mirror, logger logging.Logger) *Backfill {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Backfill{
		reader:  ingest.NewReader(),
		store:   store,
		lex:     lex,
		tracker: trk,
		mirror:  mirror,
		metrics: m,
		logger:  logger.With(logging.F("component", "backfill")),
	}
}

// Run imports one export file.
func (b *Backfill) Run(ctx context.Context, path string, opts BackfillOptions) (*BackfillResult, error) {
	records, summary, rowErrs, err := b.reader.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	records = filterWindow(records, opts.Since, opts.Until)

	b.logger.Info("export ingested",
		logging.F("path", path),
		logging.F("rows", summary.Rows),
		logging.F("records", len(records)),
		logging.F("row_errors", len(rowErrs)))

	r := runner.New(b.lex, b.tracker, b.metrics, b.logger, runner.Config{
		Kind:      "backfill",
		Reanalyze: opts.Reanalyze,
	})
	run, err := r.Run(ctx, records)
	if err != nil {
		return nil, err
	}

	result := &BackfillResult{Run: run, Ingest: summary, RowErrors: rowErrs}

	if len(run.Results) > 0 {
		if err := b.store.SaveResults(ctx, run.Results); err != nil {
			return nil, fmt.Errorf("saving results: %w", err)
		}
		if err := b.recomputeRollups(ctx, run.Results, result); err != nil {
			return nil, err
		}
	}

	rec := history.RunRecord{
		RunID:      run.RunID,
		Kind:       "backfill",
		StartedAt:  run.StartedAt,
		FinishedAt: run.CompletedAt,
		Analyzed:   run.Analyzed,
		Skipped:    run.Skipped,
		Failed:     run.Failed,
		Note:       path,
	}
	if err := b.store.LogRun(ctx, rec); err != nil {
		b.logger.Warn("failed to log run", logging.Err(err))
	}

	return result, nil
}

// recomputeRollups rebuilds every rollup row for the periods the batch
// touches. Rollups are computed from the full store content of those years,
// not just the batch, so partial imports never shrink an existing period.
func (b *Backfill) recomputeRollups(ctx context.Context, batch []analyze.Result, out *BackfillResult) error {
	from, to := yearSpan(batch)
	stored, err := b.store.ResultsBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("loading stored results: %w", err)
	}
	results := aggregate.Dedupe(stored)

	kpi := aggregate.KPIRows(results)
	src := aggregate.SourceWeeklyRows(results)
	asp := aggregate.AspectRows(results)
	pairs := aggregate.PairRows(results, b.lex)

	if err := b.store.SaveKPIRows(ctx, kpi); err != nil {
		return fmt.Errorf("saving kpi rows: %w", err)
	}
	if err := b.store.SaveSourceRows(ctx, src); err != nil {
		return fmt.Errorf("saving source rows: %w", err)
	}
	if err := b.store.SaveAspectRows(ctx, asp); err != nil {
		return fmt.Errorf("saving aspect rows: %w", err)
	}
	if err := b.store.SavePairRows(ctx, pairs); err != nil {
		return fmt.Errorf("saving pair rows: %w", err)
	}

	out.KPIRows = len(kpi)
	out.SourceRows = len(src)
	out.AspectRows = len(asp)
	out.PairRows = len(pairs)

	if b.metrics != nil {
		b.metrics.RecordRowsStored("reviews", len(batch))
		b.metrics.RecordRowsStored("kpi_history", len(kpi))
		b.metrics.RecordRowsStored("sources_weekly", len(src))
		b.metrics.RecordRowsStored("aspects_period", len(asp))
		b.metrics.RecordRowsStored("pairs_period", len(pairs))
	}

	if b.mirror != nil {
		b.mirrorAll(ctx, results, kpi, src, asp, pairs)
	}

	return nil
}

// mirrorAll pushes the rollups to the legacy sheet sink. Mirror failures are
// logged, never fatal: the store already holds the truth.
func (b *Backfill) mirrorAll(ctx context.Context, results []analyze.Result, kpi []aggregate.KPIRow, src []aggregate.SourceRow, asp []aggregate.AspectRow, pairs []aggregate.PairRow) {
	steps := []struct {
		tab string
		fn  func() error
	}{
		{sheetmirror.TabSemanticRaw, func() error { return b.mirror.MirrorResults(ctx, results) }},
		{sheetmirror.TabKPIHistory, func() error { return b.mirror.MirrorKPI(ctx, kpi) }},
		{sheetmirror.TabSourcesWeekly, func() error { return b.mirror.MirrorSources(ctx, src) }},
		{sheetmirror.TabAspectsPeriod, func() error { return b.mirror.MirrorAspects(ctx, asp) }},
		{sheetmirror.TabPairsPeriod, func() error { return b.mirror.MirrorPairs(ctx, pairs) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			b.logger.Warn("sheet mirror write failed",
				logging.Err(err),
				logging.F("tab", s.tab))
		}
	}
}

// filterWindow keeps records dated inside [since, until]. Records whose date
// did not parse stay in: the analyzer is the one that reports those.
func filterWindow(records []ingest.Record, since, until time.Time) []ingest.Record {
	if since.IsZero() && until.IsZero() {
		return records
	}
	out := make([]ingest.Record, 0, len(records))
	for _, rec := range records {
		d, err := time.Parse("2006-01-02", rec.Input.CreatedAt)
		if err != nil {
			out = append(out, rec)
			continue
		}
		if !since.IsZero() && d.Before(since) {
			continue
		}
		if !until.IsZero() && d.After(until) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// yearSpan returns the calendar-year window covering every result, so period
// rollups (up to year granularity) see all sibling data.
func yearSpan(results []analyze.Result) (time.Time, time.Time) {
	minYear, maxYear := results[0].CreatedAt.Year(), results[0].CreatedAt.Year()
	for _, r := range results[1:] {
		y := r.CreatedAt.Year()
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	from := time.Date(minYear, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(maxYear, 12, 31, 0, 0, 0, 0, time.UTC)
	return from, to
}
