package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/otherjamesbrown/guestpulse/pkg/aggregate"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/history"
	"github.com/otherjamesbrown/guestpulse/pkg/impact"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/logging"
	"github.com/otherjamesbrown/guestpulse/pkg/metrics"
	"github.com/otherjamesbrown/guestpulse/pkg/period"
	"github.com/otherjamesbrown/guestpulse/pkg/report"
	"github.com/otherjamesbrown/guestpulse/pkg/tracker"
)

// DefaultMinMentions is the mention threshold for the weekly impact tables.
// Single-mention aspects are noise at weekly volume.
const DefaultMinMentions = 2

// Weekly builds and optionally delivers the report for the last complete
// ISO week.
type Weekly struct {
	clock   clockwork.Clock
	store   history.Store
	lex     *lexicon.Lexicon
	tracker tracker.Tracker
	mailer  *report.Mailer
	metrics *metrics.PipelineMetrics
	logger  logging.Logger
}

// WeeklyOptions controls one weekly run.
type WeeklyOptions struct {
	// AsOf overrides "now" for week resolution. Zero means the clock's now.
	AsOf time.Time

	// Send delivers the rendered report by email.
	Send bool

	// Force sends even when the tracker says the week already went out.
	Force bool

	// MinMentions is the impact-table threshold; 0 means DefaultMinMentions.
	MinMentions int
}

// WeeklyResult is the outcome of one weekly run.
type WeeklyResult struct {
	WeekKey     string
	Reviews     int
	Data        report.Data
	HTML        []byte
	Delivered   bool
	AlreadySent bool
}

// NewWeekly creates a weekly agent. The mailer may be nil when the run only
// renders. A nil clock means real time.
func NewWeekly(clock clockwork.Clock, store history.Store, lex *lexicon.Lexicon, trk tracker.Tracker, mailer *report.Mailer, m *metrics.PipelineMetrics, logger logging.Logger) *Weekly {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if trk == nil {
		trk = tracker.NewMemory()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Weekly{
		clock:   clock,
		store:   store,
		lex:     lex,
		tracker: trk,
		mailer:  mailer,
		metrics: m,
		logger:  logger.With(logging.F("component", "weekly")),
	}
}

// Run resolves the last complete week, builds its report from stored
// results, and delivers it when asked.
func (w *Weekly) Run(ctx context.Context, opts WeeklyOptions) (*WeeklyResult, error) {
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = w.clock.Now()
	}
	weekKey := period.LastCompleteWeek(asOf)
	log := w.logger.With(logging.F("week", weekKey))
	started := w.clock.Now()

	result := &WeeklyResult{WeekKey: weekKey}

	if opts.Send && !opts.Force {
		sent, err := w.tracker.Delivered(ctx, "weekly", weekKey)
		if err != nil {
			log.Warn("delivery check failed, proceeding", logging.Err(err))
		} else if sent {
			log.Info("week already delivered, skipping")
			result.AlreadySent = true
			return result, nil
		}
	}

	weekResults, err := w.store.ResultsForWeek(ctx, weekKey)
	if err != nil {
		return nil, fmt.Errorf("loading week results: %w", err)
	}
	weekResults = aggregate.Dedupe(weekResults)
	result.Reviews = len(weekResults)

	if len(weekResults) == 0 {
		log.Warn("no reviews stored for week")
	}

	// Summaries need the surrounding periods, including last year's YTD.
	window, err := w.loadSummaryWindow(ctx, weekKey)
	if err != nil {
		return nil, err
	}

	if err := w.saveWeekRollups(ctx, weekKey, weekResults); err != nil {
		return nil, err
	}

	summaries, err := aggregate.Summaries(window, weekKey)
	if err != nil {
		return nil, fmt.Errorf("computing summaries: %w", err)
	}

	minMentions := opts.MinMentions
	if minMentions <= 0 {
		minMentions = DefaultMinMentions
	}
	hits := collectHits(weekResults)
	impactRows := impact.FilterMinMentions(impact.Aggregate(weekResults, hits), minMentions)

	quotes := aggregate.Quotes(weekResults, w.lex)
	sources := aggregate.SourceWeeklyRows(weekResults)

	result.Data = report.Build(weekKey, summaries, sources, impactRows, quotes, w.clock.Now())
	result.HTML, err = report.RenderHTML(result.Data)
	if err != nil {
		return nil, err
	}

	if opts.Send {
		if w.mailer == nil {
			return nil, fmt.Errorf("send requested but smtp is not configured")
		}
		if err := w.mailer.Send(ctx, report.Subject(weekKey), result.HTML); err != nil {
			return nil, fmt.Errorf("delivering report: %w", err)
		}
		result.Delivered = true
		if err := w.tracker.MarkDelivered(ctx, "weekly", weekKey); err != nil {
			log.Warn("failed to mark week delivered", logging.Err(err))
		}
		if w.metrics != nil {
			w.metrics.RecordReportSent("weekly")
		}
	}

	rec := history.RunRecord{
		RunID:      uuid.New().String(),
		Kind:       "weekly",
		StartedAt:  started,
		FinishedAt: w.clock.Now(),
		Analyzed:   len(weekResults),
		Note:       weekKey,
	}
	if err := w.store.LogRun(ctx, rec); err != nil {
		log.Warn("failed to log run", logging.Err(err))
	}

	log.Info("weekly run finished",
		logging.F("reviews", len(weekResults)),
		logging.F("delivered", result.Delivered))

	return result, nil
}

// loadSummaryWindow fetches everything the delta calculations can touch:
// from the first day of last year through the end of the reported week.
func (w *Weekly) loadSummaryWindow(ctx context.Context, weekKey string) ([]analyze.Result, error) {
	weekStart, err := period.WeekStart(weekKey)
	if err != nil {
		return nil, err
	}
	weekEnd, err := period.WeekEnd(weekKey)
	if err != nil {
		return nil, err
	}
	from := time.Date(weekStart.Year()-1, 1, 1, 0, 0, 0, 0, time.UTC)
	window, err := w.store.ResultsBetween(ctx, from, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("loading summary window: %w", err)
	}
	return aggregate.Dedupe(window), nil
}

// saveWeekRollups refreshes the stored rollups with this week's data so ad
// hoc report/impact commands read current rows.
func (w *Weekly) saveWeekRollups(ctx context.Context, weekKey string, weekResults []analyze.Result) error {
	if len(weekResults) == 0 {
		return nil
	}
	src := aggregate.SourceWeeklyRows(weekResults)
	if err := w.store.SaveSourceRows(ctx, src); err != nil {
		return fmt.Errorf("saving source rows: %w", err)
	}

	// Only week-level rows are derivable from a single week's slice.
	var kpi []aggregate.KPIRow
	for _, row := range aggregate.KPIRows(weekResults) {
		if row.PeriodType == period.LevelWeek && row.PeriodKey == weekKey {
			kpi = append(kpi, row)
		}
	}
	if err := w.store.SaveKPIRows(ctx, kpi); err != nil {
		return fmt.Errorf("saving kpi rows: %w", err)
	}

	var asp []aggregate.AspectRow
	for _, row := range aggregate.AspectRows(weekResults) {
		if row.PeriodType == period.LevelWeek && row.PeriodKey == weekKey {
			asp = append(asp, row)
		}
	}
	if err := w.store.SaveAspectRows(ctx, asp); err != nil {
		return fmt.Errorf("saving aspect rows: %w", err)
	}

	var pairs []aggregate.PairRow
	for _, row := range aggregate.PairRows(weekResults, w.lex) {
		if row.PeriodType == period.LevelWeek && row.PeriodKey == weekKey {
			pairs = append(pairs, row)
		}
	}
	if err := w.store.SavePairRows(ctx, pairs); err != nil {
		return fmt.Errorf("saving pair rows: %w", err)
	}
	return nil
}

func collectHits(results []analyze.Result) []analyze.AspectHit {
	var hits []analyze.AspectHit
	for _, r := range results {
		hits = append(hits, r.Aspects...)
	}
	return hits
}
