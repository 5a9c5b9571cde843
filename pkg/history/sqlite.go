package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/otherjamesbrown/guestpulse/pkg/aggregate"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/logging"
	"github.com/otherjamesbrown/guestpulse/pkg/period"
)

// SQLiteStore persists history in a single local database file.
// Use ":memory:" for tests.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

// NewSQLite opens (creating if needed) the history database at path.
func NewSQLite(path string, logger logging.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under the agents' write bursts.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history db: %w", err)
	}
	logger.Debug("history database ready", logging.F("path", path))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reviews (
		review_id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL,
		week_key TEXT NOT NULL,
		rating REAL,
		language TEXT NOT NULL,
		sentiment_overall TEXT NOT NULL,
		sentiment_score REAL NOT NULL,
		raw_text TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reviews_week ON reviews(week_key);
	CREATE INDEX IF NOT EXISTS idx_reviews_created ON reviews(created_at);

	CREATE TABLE IF NOT EXISTS topic_hits (
		review_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		subtopic TEXT NOT NULL,
		PRIMARY KEY (review_id, topic, subtopic)
	);

	CREATE TABLE IF NOT EXISTS aspect_hits (
		review_id TEXT NOT NULL,
		aspect_code TEXT NOT NULL,
		topic TEXT NOT NULL,
		subtopic TEXT NOT NULL,
		polarity TEXT NOT NULL,
		PRIMARY KEY (review_id, aspect_code, topic, subtopic)
	);
	CREATE INDEX IF NOT EXISTS idx_aspect_hits_code ON aspect_hits(aspect_code);

	CREATE TABLE IF NOT EXISTS kpi_history (
		period_type TEXT NOT NULL,
		period_key TEXT NOT NULL,
		reviews INTEGER NOT NULL,
		avg_rating10 REAL,
		positive INTEGER NOT NULL,
		neutral INTEGER NOT NULL,
		negative INTEGER NOT NULL,
		mixed INTEGER NOT NULL,
		PRIMARY KEY (period_type, period_key)
	);

	CREATE TABLE IF NOT EXISTS sources_weekly (
		week_key TEXT NOT NULL,
		source TEXT NOT NULL,
		reviews INTEGER NOT NULL,
		avg_rating10 REAL,
		positive INTEGER NOT NULL,
		neutral INTEGER NOT NULL,
		negative INTEGER NOT NULL,
		mixed INTEGER NOT NULL,
		PRIMARY KEY (week_key, source)
	);

	CREATE TABLE IF NOT EXISTS aspects_period (
		period_type TEXT NOT NULL,
		period_key TEXT NOT NULL,
		source_scope TEXT NOT NULL,
		aspect_code TEXT NOT NULL,
		mentions_total INTEGER NOT NULL,
		pos_mentions INTEGER NOT NULL,
		neg_mentions INTEGER NOT NULL,
		neu_mentions INTEGER NOT NULL,
		pos_share REAL NOT NULL,
		neg_share REAL NOT NULL,
		pos_weight REAL NOT NULL,
		neg_weight REAL NOT NULL,
		PRIMARY KEY (period_type, period_key, source_scope, aspect_code)
	);

	CREATE TABLE IF NOT EXISTS pairs_period (
		period_type TEXT NOT NULL,
		period_key TEXT NOT NULL,
		pair_key TEXT NOT NULL,
		category TEXT NOT NULL,
		distinct_reviews INTEGER NOT NULL,
		example_quote TEXT,
		PRIMARY KEY (period_type, period_key, pair_key)
	);

	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		analyzed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		note TEXT
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const dateLayout = "2006-01-02"

// SaveResults upserts reviews plus their topic and aspect hit rows.
func (s *SQLiteStore) SaveResults(ctx context.Context, results []analyze.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	reviewStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reviews (review_id, source, created_at, week_key, rating, language, sentiment_overall, sentiment_score, raw_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(review_id) DO UPDATE SET
			rating = excluded.rating,
			sentiment_overall = excluded.sentiment_overall,
			sentiment_score = excluded.sentiment_score,
			raw_text = excluded.raw_text
	`)
	if err != nil {
		return err
	}
	defer reviewStmt.Close()

	topicStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO topic_hits (review_id, topic, subtopic) VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer topicStmt.Close()

	aspectStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO aspect_hits (review_id, aspect_code, topic, subtopic, polarity) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer aspectStmt.Close()

	for _, r := range results {
		var rating sql.NullFloat64
		if r.Rating != nil {
			rating = sql.NullFloat64{Float64: *r.Rating, Valid: true}
		}
		if _, err := reviewStmt.ExecContext(ctx,
			r.ReviewID, r.Source, r.CreatedAt.Format(dateLayout), r.WeekKey,
			rating, r.Language, string(r.SentimentOverall), r.SentimentScore, r.RawText,
		); err != nil {
			return fmt.Errorf("saving review %s: %w", r.ReviewID, err)
		}
		for _, t := range r.TopicHits {
			if _, err := topicStmt.ExecContext(ctx, r.ReviewID, t.Topic, t.Subtopic); err != nil {
				return fmt.Errorf("saving topic hit for %s: %w", r.ReviewID, err)
			}
		}
		for _, h := range r.Aspects {
			if _, err := aspectStmt.ExecContext(ctx, r.ReviewID, h.AspectCode, h.Topic, h.Subtopic, string(h.Polarity)); err != nil {
				return fmt.Errorf("saving aspect hit for %s: %w", r.ReviewID, err)
			}
		}
	}
	return tx.Commit()
}

// ResultsBetween loads results with created_at in [from, to], day-inclusive,
// hits reattached.
func (s *SQLiteStore) ResultsBetween(ctx context.Context, from, to time.Time) ([]analyze.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT review_id, source, created_at, week_key, rating, language, sentiment_overall, sentiment_score, raw_text
		FROM reviews
		WHERE created_at >= ? AND created_at <= ?
		ORDER BY created_at, review_id
	`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []analyze.Result
	index := map[string]int{}
	for rows.Next() {
		var (
			r       analyze.Result
			created string
			rating  sql.NullFloat64
			label   string
		)
		if err := rows.Scan(&r.ReviewID, &r.Source, &created, &r.WeekKey, &rating, &r.Language, &label, &r.SentimentScore, &r.RawText); err != nil {
			return nil, err
		}
		r.CreatedAt, err = time.Parse(dateLayout, created)
		if err != nil {
			return nil, fmt.Errorf("corrupt created_at for %s: %w", r.ReviewID, err)
		}
		if rating.Valid {
			v := rating.Float64
			r.Rating = &v
		}
		r.SentimentOverall = analyze.Label(label)
		index[r.ReviewID] = len(results)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	if err := s.attachTopicHits(ctx, results, index); err != nil {
		return nil, err
	}
	if err := s.attachAspectHits(ctx, results, index); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *SQLiteStore) attachTopicHits(ctx context.Context, results []analyze.Result, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT th.review_id, th.topic, th.subtopic
		FROM topic_hits th JOIN reviews r ON r.review_id = th.review_id
		WHERE r.created_at >= ? AND r.created_at <= ?
		ORDER BY th.topic, th.subtopic
	`, results[0].CreatedAt.Format(dateLayout), results[len(results)-1].CreatedAt.Format(dateLayout))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var p analyze.TopicPair
		if err := rows.Scan(&id, &p.Topic, &p.Subtopic); err != nil {
			return err
		}
		if i, ok := index[id]; ok {
			results[i].TopicHits = append(results[i].TopicHits, p)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) attachAspectHits(ctx context.Context, results []analyze.Result, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ah.review_id, ah.aspect_code, ah.topic, ah.subtopic, ah.polarity
		FROM aspect_hits ah JOIN reviews r ON r.review_id = ah.review_id
		WHERE r.created_at >= ? AND r.created_at <= ?
		ORDER BY ah.aspect_code, ah.topic, ah.subtopic
	`, results[0].CreatedAt.Format(dateLayout), results[len(results)-1].CreatedAt.Format(dateLayout))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id, code, topic, subtopic, polarity string
		if err := rows.Scan(&id, &code, &topic, &subtopic, &polarity); err != nil {
			return err
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		r := &results[i]
		r.Aspects = append(r.Aspects, analyze.AspectHit{
			ReviewID:         r.ReviewID,
			AspectCode:       code,
			Topic:            topic,
			Subtopic:         subtopic,
			Polarity:         lexicon.Polarity(polarity),
			CreatedAt:        r.CreatedAt,
			WeekKey:          r.WeekKey,
			Source:           r.Source,
			Rating:           r.Rating,
			SentimentOverall: r.SentimentOverall,
			Language:         r.Language,
		})
	}
	return rows.Err()
}

// ResultsForWeek loads the results of one ISO week.
func (s *SQLiteStore) ResultsForWeek(ctx context.Context, weekKey string) ([]analyze.Result, error) {
	start, err := period.WeekStart(weekKey)
	if err != nil {
		return nil, err
	}
	end, err := period.WeekEnd(weekKey)
	if err != nil {
		return nil, err
	}
	return s.ResultsBetween(ctx, start, end)
}

// SaveKPIRows upserts KPI history rows.
func (s *SQLiteStore) SaveKPIRows(ctx context.Context, rows []aggregate.KPIRow) error {
	return s.inTx(ctx, `
		INSERT INTO kpi_history (period_type, period_key, reviews, avg_rating10, positive, neutral, negative, mixed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(period_type, period_key) DO UPDATE SET
			reviews = excluded.reviews,
			avg_rating10 = excluded.avg_rating10,
			positive = excluded.positive,
			neutral = excluded.neutral,
			negative = excluded.negative,
			mixed = excluded.mixed
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		_, err := stmt.ExecContext(ctx, string(r.PeriodType), r.PeriodKey, r.Reviews, nullable(r.AvgRating10), r.Positive, r.Neutral, r.Negative, r.Mixed)
		return err
	})
}

// SaveSourceRows upserts per-source weekly rows.
func (s *SQLiteStore) SaveSourceRows(ctx context.Context, rows []aggregate.SourceRow) error {
	return s.inTx(ctx, `
		INSERT INTO sources_weekly (week_key, source, reviews, avg_rating10, positive, neutral, negative, mixed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(week_key, source) DO UPDATE SET
			reviews = excluded.reviews,
			avg_rating10 = excluded.avg_rating10,
			positive = excluded.positive,
			neutral = excluded.neutral,
			negative = excluded.negative,
			mixed = excluded.mixed
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		_, err := stmt.ExecContext(ctx, r.WeekKey, r.Source, r.Reviews, nullable(r.AvgRating10), r.Positive, r.Neutral, r.Negative, r.Mixed)
		return err
	})
}

// SaveAspectRows upserts aspect period rows.
func (s *SQLiteStore) SaveAspectRows(ctx context.Context, rows []aggregate.AspectRow) error {
	return s.inTx(ctx, `
		INSERT INTO aspects_period (period_type, period_key, source_scope, aspect_code, mentions_total, pos_mentions, neg_mentions, neu_mentions, pos_share, neg_share, pos_weight, neg_weight)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(period_type, period_key, source_scope, aspect_code) DO UPDATE SET
			mentions_total = excluded.mentions_total,
			pos_mentions = excluded.pos_mentions,
			neg_mentions = excluded.neg_mentions,
			neu_mentions = excluded.neu_mentions,
			pos_share = excluded.pos_share,
			neg_share = excluded.neg_share,
			pos_weight = excluded.pos_weight,
			neg_weight = excluded.neg_weight
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		_, err := stmt.ExecContext(ctx, string(r.PeriodType), r.PeriodKey, r.SourceScope, r.AspectCode,
			r.Mentions, r.PosMentions, r.NegMentions, r.NeuMentions, r.PosShare, r.NegShare, r.PosWeight, r.NegWeight)
		return err
	})
}

// SavePairRows upserts aspect pair rows.
func (s *SQLiteStore) SavePairRows(ctx context.Context, rows []aggregate.PairRow) error {
	return s.inTx(ctx, `
		INSERT INTO pairs_period (period_type, period_key, pair_key, category, distinct_reviews, example_quote)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(period_type, period_key, pair_key) DO UPDATE SET
			category = excluded.category,
			distinct_reviews = excluded.distinct_reviews,
			example_quote = excluded.example_quote
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		_, err := stmt.ExecContext(ctx, string(r.PeriodType), r.PeriodKey, r.PairKey, r.Category, r.DistinctReviews, r.ExampleQuote)
		return err
	})
}

// LogRun records an agent run.
func (s *SQLiteStore) LogRun(ctx context.Context, rec RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, kind, started_at, finished_at, analyzed, skipped, failed, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.RunID, rec.Kind, rec.StartedAt.UTC().Format(time.RFC3339), rec.FinishedAt.UTC().Format(time.RFC3339),
		rec.Analyzed, rec.Skipped, rec.Failed, rec.Note)
	return err
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) inTx(ctx context.Context, query string, n int, exec func(*sql.Stmt, int) error) error {
	if n == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
