// Package history is the persistence layer for analysis results and period
// rollups. The row shapes mirror the rollup types one-to-one so readers can
// rebuild a report from the store without re-analyzing text. Two backends
// implement Store: a local sqlite file (default) and postgres for shared
// deployments.
package history

import (
	"context"
	"time"

	"github.com/otherjamesbrown/guestpulse/pkg/aggregate"
	"github.com/otherjamesbrown/guestpulse/pkg/analyze"
)

// RunRecord is one agent run's ledger entry.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	Kind       string    `json:"kind"` // backfill, weekly
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Analyzed   int       `json:"analyzed"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Note       string    `json:"note,omitempty"`
}

// Store is what the agents need from persistence. Writes are upserts keyed
// on the rows' natural keys, so re-running a backfill over the same period
// converges instead of duplicating. Loaded results carry everything except
// the per-bucket sentiment flags, which are derivable and not stored.
type Store interface {
	SaveResults(ctx context.Context, results []analyze.Result) error
	ResultsBetween(ctx context.Context, from, to time.Time) ([]analyze.Result, error)
	ResultsForWeek(ctx context.Context, weekKey string) ([]analyze.Result, error)

	SaveKPIRows(ctx context.Context, rows []aggregate.KPIRow) error
	SaveSourceRows(ctx context.Context, rows []aggregate.SourceRow) error
	SaveAspectRows(ctx context.Context, rows []aggregate.AspectRow) error
	SavePairRows(ctx context.Context, rows []aggregate.PairRow) error

	LogRun(ctx context.Context, rec RunRecord) error

	Ping(ctx context.Context) error
	Close() error
}

// Drivers selectable via history.driver in the config file.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)
