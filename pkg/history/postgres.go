package history

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/otherjamesbrown/guestpulse/pkg/aggregate"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
	"github.com/otherjamesbrown/guestpulse/pkg/lexicon"
	"github.com/otherjamesbrown/guestpulse/pkg/logging"
	"github.com/otherjamesbrown/guestpulse/pkg/period"
)

// PostgresConfig holds PostgreSQL connection configuration for shared
// deployments where several agents write the same history.
type PostgresConfig struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultPostgresConfig returns a PostgresConfig with sensible defaults.
func DefaultPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		Database:        "guestpulse",
		User:            "guestpulse",
		Password:        "",
		SSLMode:         "disable",
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
		ConnectTimeout:  10 * time.Second,
	}
}

// PostgresConfigFromEnv creates a PostgresConfig from environment variables.
// Environment variables:
//   - GUESTPULSE_DB_HOST: Database host (default: localhost)
//   - GUESTPULSE_DB_PORT: Database port (default: 5432)
//   - GUESTPULSE_DB_NAME: Database name (default: guestpulse)
//   - GUESTPULSE_DB_USER: Database user (default: guestpulse)
//   - GUESTPULSE_DB_PASSWORD: Database password
//   - GUESTPULSE_DB_SSLMODE: SSL mode (default: disable)
//   - GUESTPULSE_DB_MAX_CONNS: Maximum connections (default: 10)
//   - GUESTPULSE_DB_MIN_CONNS: Minimum connections (default: 2)
func PostgresConfigFromEnv() *PostgresConfig {
	cfg := DefaultPostgresConfig()

	if host := os.Getenv("GUESTPULSE_DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("GUESTPULSE_DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if database := os.Getenv("GUESTPULSE_DB_NAME"); database != "" {
		cfg.Database = database
	}
	if user := os.Getenv("GUESTPULSE_DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("GUESTPULSE_DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if sslmode := os.Getenv("GUESTPULSE_DB_SSLMODE"); sslmode != "" {
		cfg.SSLMode = sslmode
	}
	if maxConns := os.Getenv("GUESTPULSE_DB_MAX_CONNS"); maxConns != "" {
		if mc, err := strconv.ParseInt(maxConns, 10, 32); err == nil {
			cfg.MaxConns = int32(mc)
		}
	}
	if minConns := os.Getenv("GUESTPULSE_DB_MIN_CONNS"); minConns != "" {
		if mc, err := strconv.ParseInt(minConns, 10, 32); err == nil {
			cfg.MinConns = int32(mc)
		}
	}

	return cfg
}

// ConnectionString builds a PostgreSQL connection string from the config.
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
		int(c.ConnectTimeout.Seconds()),
	)
}

// Validate checks if the config has required fields set.
func (c *PostgresConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}
	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.MaxConns < c.MinConns {
		return fmt.Errorf("max connections (%d) must be >= min connections (%d)", c.MaxConns, c.MinConns)
	}
	return nil
}

// PostgresStore persists history in PostgreSQL via a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewPostgres connects, verifies the connection, and applies the schema.
func NewPostgres(ctx context.Context, cfg *PostgresConfig, logger logging.Logger) (*PostgresStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool, logger: logger}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrating history schema: %w", err)
	}
	logger.Debug("postgres history ready", logging.F("host", cfg.Host), logging.F("database", cfg.Database))
	return s, nil
}

// Pool exposes the underlying pool for metrics collectors.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reviews (
		review_id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at DATE NOT NULL,
		week_key TEXT NOT NULL,
		rating DOUBLE PRECISION,
		language TEXT NOT NULL,
		sentiment_overall TEXT NOT NULL,
		sentiment_score DOUBLE PRECISION NOT NULL,
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
		avg_rating10 DOUBLE PRECISION,
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
		avg_rating10 DOUBLE PRECISION,
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
		pos_share DOUBLE PRECISION NOT NULL,
		neg_share DOUBLE PRECISION NOT NULL,
		pos_weight DOUBLE PRECISION NOT NULL,
		neg_weight DOUBLE PRECISION NOT NULL,
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
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		analyzed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		note TEXT
	);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// SaveResults upserts reviews and their hit rows in one transaction.
func (s *PostgresStore) SaveResults(ctx context.Context, results []analyze.Result) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, r := range results {
			if _, err := tx.Exec(ctx, `
				INSERT INTO reviews (review_id, source, created_at, week_key, rating, language, sentiment_overall, sentiment_score, raw_text)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (review_id) DO UPDATE SET
					rating = EXCLUDED.rating,
					sentiment_overall = EXCLUDED.sentiment_overall,
					sentiment_score = EXCLUDED.sentiment_score,
					raw_text = EXCLUDED.raw_text
			`, r.ReviewID, r.Source, r.CreatedAt, r.WeekKey, r.Rating, r.Language,
				string(r.SentimentOverall), r.SentimentScore, r.RawText); err != nil {
				return fmt.Errorf("saving review %s: %w", r.ReviewID, err)
			}
			for _, t := range r.TopicHits {
				if _, err := tx.Exec(ctx, `
					INSERT INTO topic_hits (review_id, topic, subtopic) VALUES ($1, $2, $3)
					ON CONFLICT DO NOTHING
				`, r.ReviewID, t.Topic, t.Subtopic); err != nil {
					return fmt.Errorf("saving topic hit for %s: %w", r.ReviewID, err)
				}
			}
			for _, h := range r.Aspects {
				if _, err := tx.Exec(ctx, `
					INSERT INTO aspect_hits (review_id, aspect_code, topic, subtopic, polarity) VALUES ($1, $2, $3, $4, $5)
					ON CONFLICT DO NOTHING
				`, r.ReviewID, h.AspectCode, h.Topic, h.Subtopic, string(h.Polarity)); err != nil {
					return fmt.Errorf("saving aspect hit for %s: %w", r.ReviewID, err)
				}
			}
		}
		return nil
	})
}

// ResultsBetween loads results with created_at in [from, to], hits attached.
func (s *PostgresStore) ResultsBetween(ctx context.Context, from, to time.Time) ([]analyze.Result, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT review_id, source, created_at, week_key, rating, language, sentiment_overall, sentiment_score, raw_text
		FROM reviews
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at, review_id
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []analyze.Result
	index := map[string]int{}
	for rows.Next() {
		var (
			r     analyze.Result
			label string
		)
		if err := rows.Scan(&r.ReviewID, &r.Source, &r.CreatedAt, &r.WeekKey, &r.Rating, &r.Language, &label, &r.SentimentScore, &r.RawText); err != nil {
			return nil, err
		}
		r.CreatedAt = r.CreatedAt.UTC()
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

	thRows, err := s.pool.Query(ctx, `
		SELECT th.review_id, th.topic, th.subtopic
		FROM topic_hits th JOIN reviews r ON r.review_id = th.review_id
		WHERE r.created_at >= $1 AND r.created_at <= $2
		ORDER BY th.topic, th.subtopic
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer thRows.Close()
	for thRows.Next() {
		var id string
		var p analyze.TopicPair
		if err := thRows.Scan(&id, &p.Topic, &p.Subtopic); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			results[i].TopicHits = append(results[i].TopicHits, p)
		}
	}
	if err := thRows.Err(); err != nil {
		return nil, err
	}

	ahRows, err := s.pool.Query(ctx, `
		SELECT ah.review_id, ah.aspect_code, ah.topic, ah.subtopic, ah.polarity
		FROM aspect_hits ah JOIN reviews r ON r.review_id = ah.review_id
		WHERE r.created_at >= $1 AND r.created_at <= $2
		ORDER BY ah.aspect_code, ah.topic, ah.subtopic
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer ahRows.Close()
	for ahRows.Next() {
		var id, code, topic, subtopic, polarity string
		if err := ahRows.Scan(&id, &code, &topic, &subtopic, &polarity); err != nil {
			return nil, err
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
	return results, ahRows.Err()
}

// ResultsForWeek loads the results of one ISO week.
func (s *PostgresStore) ResultsForWeek(ctx context.Context, weekKey string) ([]analyze.Result, error) {
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
func (s *PostgresStore) SaveKPIRows(ctx context.Context, rows []aggregate.KPIRow) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, r := range rows {
			if _, err := tx.Exec(ctx, `
				INSERT INTO kpi_history (period_type, period_key, reviews, avg_rating10, positive, neutral, negative, mixed)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (period_type, period_key) DO UPDATE SET
					reviews = EXCLUDED.reviews,
					avg_rating10 = EXCLUDED.avg_rating10,
					positive = EXCLUDED.positive,
					neutral = EXCLUDED.neutral,
					negative = EXCLUDED.negative,
					mixed = EXCLUDED.mixed
			`, string(r.PeriodType), r.PeriodKey, r.Reviews, r.AvgRating10, r.Positive, r.Neutral, r.Negative, r.Mixed); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveSourceRows upserts per-source weekly rows.
func (s *PostgresStore) SaveSourceRows(ctx context.Context, rows []aggregate.SourceRow) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, r := range rows {
			if _, err := tx.Exec(ctx, `
				INSERT INTO sources_weekly (week_key, source, reviews, avg_rating10, positive, neutral, negative, mixed)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (week_key, source) DO UPDATE SET
					reviews = EXCLUDED.reviews,
					avg_rating10 = EXCLUDED.avg_rating10,
					positive = EXCLUDED.positive,
					neutral = EXCLUDED.neutral,
					negative = EXCLUDED.negative,
					mixed = EXCLUDED.mixed
			`, r.WeekKey, r.Source, r.Reviews, r.AvgRating10, r.Positive, r.Neutral, r.Negative, r.Mixed); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveAspectRows upserts aspect period rows.
func (s *PostgresStore) SaveAspectRows(ctx context.Context, rows []aggregate.AspectRow) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, r := range rows {
			if _, err := tx.Exec(ctx, `
				INSERT INTO aspects_period (period_type, period_key, source_scope, aspect_code, mentions_total, pos_mentions, neg_mentions, neu_mentions, pos_share, neg_share, pos_weight, neg_weight)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				ON CONFLICT (period_type, period_key, source_scope, aspect_code) DO UPDATE SET
					mentions_total = EXCLUDED.mentions_total,
					pos_mentions = EXCLUDED.pos_mentions,
					neg_mentions = EXCLUDED.neg_mentions,
					neu_mentions = EXCLUDED.neu_mentions,
					pos_share = EXCLUDED.pos_share,
					neg_share = EXCLUDED.neg_share,
					pos_weight = EXCLUDED.pos_weight,
					neg_weight = EXCLUDED.neg_weight
			`, string(r.PeriodType), r.PeriodKey, r.SourceScope, r.AspectCode, r.Mentions,
				r.PosMentions, r.NegMentions, r.NeuMentions, r.PosShare, r.NegShare, r.PosWeight, r.NegWeight); err != nil {
				return err
			}
		}
		return nil
	})
}

// SavePairRows upserts aspect pair rows.
func (s *PostgresStore) SavePairRows(ctx context.Context, rows []aggregate.PairRow) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, r := range rows {
			if _, err := tx.Exec(ctx, `
				INSERT INTO pairs_period (period_type, period_key, pair_key, category, distinct_reviews, example_quote)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (period_type, period_key, pair_key) DO UPDATE SET
					category = EXCLUDED.category,
					distinct_reviews = EXCLUDED.distinct_reviews,
					example_quote = EXCLUDED.example_quote
			`, string(r.PeriodType), r.PeriodKey, r.PairKey, r.Category, r.DistinctReviews, r.ExampleQuote); err != nil {
				return err
			}
		}
		return nil
	})
}

// LogRun records an agent run.
func (s *PostgresStore) LogRun(ctx context.Context, rec RunRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO runs (run_id, kind, started_at, finished_at, analyzed, skipped, failed, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.RunID, rec.Kind, rec.StartedAt, rec.FinishedAt, rec.Analyzed, rec.Skipped, rec.Failed, rec.Note)
	return err
}

// Ping verifies the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
