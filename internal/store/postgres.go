package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rotisserie/eris"

	"github.com/sells-group/ctrm-fit/internal/db"
	"github.com/sells-group/ctrm-fit/internal/model"
)

// PostgresStore implements Store using a pgx pool.
type PostgresStore struct {
	pool db.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgres connects to Postgres with the given pool settings.
func NewPostgres(ctx context.Context, connString string, poolCfg db.PoolConfig) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS feedback_records (
	record_id               TEXT PRIMARY KEY,
	recorded_at             TIMESTAMPTZ NOT NULL,
	feedback_rating         TEXT NOT NULL,
	feedback_comment        TEXT,
	user_corrected_ideal    TEXT,
	user_corrected_strong   TEXT,
	priority_weights        TEXT,
	generated_suggestion    TEXT,
	original_ideal_product  TEXT NOT NULL,
	original_strong_product TEXT NOT NULL,
	industry                TEXT NOT NULL DEFAULT '',
	org_size                TEXT NOT NULL DEFAULT '',
	users                   INTEGER NOT NULL DEFAULT 0,
	budget_min              BIGINT,
	budget_max              BIGINT,
	go_live_timeline        TEXT NOT NULL DEFAULT '',
	trading_type            TEXT NOT NULL DEFAULT '',
	current_system          TEXT NOT NULL DEFAULT '',
	priorities              TEXT NOT NULL DEFAULT '',
	region                  TEXT NOT NULL DEFAULT '',
	integrations            TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_feedback_records_recorded_at ON feedback_records(recorded_at DESC);
CREATE INDEX IF NOT EXISTS idx_feedback_records_rating ON feedback_records(feedback_rating);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveRecord(ctx context.Context, r model.Record) error {
	placeholders := make([]string, 21)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO feedback_records (`+recordColumns+`) VALUES (`+strings.Join(placeholders, ", ")+`)
			ON CONFLICT (record_id) DO NOTHING`,
		recordArgs(r, r.Timestamp.UTC())...,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert record %s", r.RecordID)
	}
	return nil
}

func (s *PostgresStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.Record, error) {
	var (
		where []string
		args  []any
	)
	if filter.Rating != "" {
		args = append(args, string(filter.Rating))
		where = append(where, fmt.Sprintf("feedback_rating = $%d", len(args)))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since.UTC())
		where = append(where, fmt.Sprintf("recorded_at >= $%d", len(args)))
	}

	query := `SELECT ` + recordColumns + ` FROM feedback_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.limit())
	query += fmt.Sprintf(" ORDER BY recorded_at DESC, record_id LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		r, err := scanPostgresRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate records")
}

func scanPostgresRecord(rows pgx.Rows) (model.Record, error) {
	var (
		r                               model.Record
		rating                          string
		comment, ideal, strong, weights pgtype.Text
		suggestion                      pgtype.Text
		budgetMin, budgetMax            pgtype.Int8
	)
	err := rows.Scan(
		&r.RecordID, &r.Timestamp, &rating, &comment,
		&ideal, &strong, &weights, &suggestion,
		&r.OriginalIdealProduct, &r.OriginalStrongProduct, &r.Industry, &r.OrgSize, &r.Users,
		&budgetMin, &budgetMax, &r.GoLiveTimeline, &r.TradingType, &r.CurrentSystem,
		&r.Priorities, &r.Region, &r.Integrations,
	)
	if err != nil {
		return model.Record{}, eris.Wrap(err, "postgres: scan record")
	}

	r.Timestamp = r.Timestamp.UTC()
	r.FeedbackRating = model.Rating(rating)
	r.FeedbackComment = pgText(comment)
	r.UserCorrectedIdeal = pgText(ideal)
	r.UserCorrectedStrong = pgText(strong)
	r.PriorityWeights = pgText(weights)
	r.GeneratedSuggestion = pgText(suggestion)
	r.BudgetMin = pgInt8(budgetMin)
	r.BudgetMax = pgInt8(budgetMax)
	return r, nil
}

func pgText(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func pgInt8(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
