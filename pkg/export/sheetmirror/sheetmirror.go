// Package sheetmirror mirrors analysis output into the legacy worksheet
// layout. Downstream consumers still read the old spreadsheet tabs
// (semantic_raw, kpi_history, aspects_period, pairs_period, sources_weekly),
// so each tab is kept as plain text rows in a single Postgres table:
// one row = (tab, row_no, cells TEXT[]). Row 0 is always the header.
//
// The mirror is write-only and optional: it stays disabled unless a DSN is
// configured.
package sheetmirror

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/otherjamesbrown/guestpulse/pkg/aggregate"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/logging"
)

// Tab names match the worksheet titles of the legacy spreadsheet.
const (
	TabSemanticRaw   = "semantic_raw"
	TabKPIHistory    = "kpi_history"
	TabAspectsPeriod = "aspects_period"
	TabPairsPeriod   = "pairs_period"
	TabSourcesWeekly = "sources_weekly"
)

// Config holds the mirror connection settings.
type Config struct {
	// DSN is a lib/pq connection string. Empty means the mirror is disabled.
	DSN string `yaml:"dsn"`
}

// IsConfigured reports whether a mirror target is set.
func (c *Config) IsConfigured() bool {
	return c != nil && c.DSN != ""
}

// Mirror writes worksheet-shaped rows to the legacy sink.
type Mirror struct {
	db     *sql.DB
	logger logging.Logger
}

// New opens a connection to the mirror database and ensures the sheet_rows
// table exists.
func New(cfg *Config, logger logging.Logger) (*Mirror, error) {
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("sheet mirror not configured")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening mirror database: %w", err)
	}

	// The mirror sees one short burst of writes per run.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	m := &Mirror{db: db, logger: logger}
	if err := m.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

func (m *Mirror) migrate() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS sheet_rows (
			tab     TEXT    NOT NULL,
			row_no  INTEGER NOT NULL,
			cells   TEXT[]  NOT NULL,
			PRIMARY KEY (tab, row_no)
		)`
	if _, err := m.db.Exec(schema); err != nil {
		return fmt.Errorf("creating sheet_rows table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (m *Mirror) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// Ping checks the mirror connection.
func (m *Mirror) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// replaceTab rewrites a whole tab in one transaction, matching how the old
// exporter cleared and re-filled each worksheet.
func (m *Mirror) replaceTab(ctx context.Context, tab string, header []string, rows [][]string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting mirror transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE tab = $1`, tab); err != nil {
		return fmt.Errorf("clearing tab %s: %w", tab, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sheet_rows (tab, row_no, cells) VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, tab, 0, pq.Array(header)); err != nil {
		return fmt.Errorf("writing header for tab %s: %w", tab, err)
	}
	for i, cells := range rows {
		if _, err := stmt.ExecContext(ctx, tab, i+1, pq.Array(cells)); err != nil {
			return fmt.Errorf("writing row %d of tab %s: %w", i+1, tab, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tab %s: %w", tab, err)
	}

	m.logger.Debug("mirrored tab",
		logging.F("tab", tab),
		logging.F("rows", len(rows)))
	return nil
}

// MirrorResults rewrites the semantic_raw tab from per-review results.
func (m *Mirror) MirrorResults(ctx context.Context, results []analyze.Result) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, resultCells(r))
	}
	return m.replaceTab(ctx, TabSemanticRaw, semanticRawHeader(), rows)
}

// MirrorKPI rewrites the kpi_history tab.
func (m *Mirror) MirrorKPI(ctx context.Context, kpi []aggregate.KPIRow) error {
	rows := make([][]string, 0, len(kpi))
	for _, k := range kpi {
		rows = append(rows, kpiCells(k))
	}
	return m.replaceTab(ctx, TabKPIHistory, kpiHeader(), rows)
}

// MirrorSources rewrites the sources_weekly tab.
func (m *Mirror) MirrorSources(ctx context.Context, src []aggregate.SourceRow) error {
	rows := make([][]string, 0, len(src))
	for _, s := range src {
		rows = append(rows, sourceCells(s))
	}
	return m.replaceTab(ctx, TabSourcesWeekly, sourceHeader(), rows)
}

// MirrorAspects rewrites the aspects_period tab.
func (m *Mirror) MirrorAspects(ctx context.Context, rows []aggregate.AspectRow) error {
	out := make([][]string, 0, len(rows))
	for _, a := range rows {
		out = append(out, aspectCells(a))
	}
	return m.replaceTab(ctx, TabAspectsPeriod, aspectHeader(), out)
}

// MirrorPairs rewrites the pairs_period tab.
func (m *Mirror) MirrorPairs(ctx context.Context, rows []aggregate.PairRow) error {
	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		out = append(out, pairCells(p))
	}
	return m.replaceTab(ctx, TabPairsPeriod, pairHeader(), out)
}

func semanticRawHeader() []string {
	return []string{
		"review_id", "date", "week", "source", "rating", "language",
		"sentiment", "score", "topics", "aspects", "text",
	}
}

func resultCells(r analyze.Result) []string {
	topics := make([]string, 0, len(r.TopicHits))
	for _, t := range r.TopicHits {
		topics = append(topics, t.Topic+":"+t.Subtopic)
	}
	aspects := make([]string, 0, len(r.Aspects))
	for _, h := range r.Aspects {
		aspects = append(aspects, h.AspectCode)
	}
	return []string{
		r.ReviewID,
		r.CreatedAt.Format("2006-01-02"),
		r.WeekKey,
		r.Source,
		fmtRating(r.Rating),
		r.Language,
		string(r.SentimentOverall),
		fmtFloat(r.SentimentScore),
		strings.Join(topics, ";"),
		strings.Join(aspects, ";"),
		r.RawText,
	}
}

func kpiHeader() []string {
	return []string{
		"period_type", "period_key", "reviews", "avg_rating10",
		"positive", "neutral", "negative", "mixed",
	}
}

func kpiCells(k aggregate.KPIRow) []string {
	return []string{
		string(k.PeriodType),
		k.PeriodKey,
		fmtInt(k.Reviews),
		fmtRating(k.AvgRating10),
		fmtInt(k.Positive),
		fmtInt(k.Neutral),
		fmtInt(k.Negative),
		fmtInt(k.Mixed),
	}
}

func sourceHeader() []string {
	return []string{
		"week", "source", "reviews", "avg_rating10",
		"positive", "neutral", "negative", "mixed",
	}
}

func sourceCells(s aggregate.SourceRow) []string {
	return []string{
		s.WeekKey,
		s.Source,
		fmtInt(s.Reviews),
		fmtRating(s.AvgRating10),
		fmtInt(s.Positive),
		fmtInt(s.Neutral),
		fmtInt(s.Negative),
		fmtInt(s.Mixed),
	}
}

func aspectHeader() []string {
	return []string{
		"period_type", "period_key", "source_scope", "aspect_code",
		"mentions", "pos_mentions", "neg_mentions", "neu_mentions",
		"pos_share", "neg_share", "pos_weight", "neg_weight",
	}
}

func aspectCells(a aggregate.AspectRow) []string {
	return []string{
		string(a.PeriodType),
		a.PeriodKey,
		a.SourceScope,
		a.AspectCode,
		fmtInt(a.Mentions),
		fmtInt(a.PosMentions),
		fmtInt(a.NegMentions),
		fmtInt(a.NeuMentions),
		fmtFloat(a.PosShare),
		fmtFloat(a.NegShare),
		fmtFloat(a.PosWeight),
		fmtFloat(a.NegWeight),
	}
}

func pairHeader() []string {
	return []string{
		"period_type", "period_key", "pair_key", "category",
		"distinct_reviews", "example_quote",
	}
}

func pairCells(p aggregate.PairRow) []string {
	return []string{
		string(p.PeriodType),
		p.PeriodKey,
		p.PairKey,
		p.Category,
		fmtInt(p.DistinctReviews),
		p.ExampleQuote,
	}
}

func fmtInt(n int) string {
	return strconv.Itoa(n)
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// fmtRating renders an optional rating; unrated reviews keep the cell empty,
// same as the old sheet.
func fmtRating(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}
