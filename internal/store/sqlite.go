package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/ctrm-fit/internal/model"
)

// sqliteTimeLayout is fixed width so text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS feedback_records (
	record_id               TEXT PRIMARY KEY,
	recorded_at             TEXT NOT NULL,
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
	budget_min              INTEGER,
	budget_max              INTEGER,
	go_live_timeline        TEXT NOT NULL DEFAULT '',
	trading_type            TEXT NOT NULL DEFAULT '',
	current_system          TEXT NOT NULL DEFAULT '',
	priorities              TEXT NOT NULL DEFAULT '',
	region                  TEXT NOT NULL DEFAULT '',
	integrations            TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_feedback_records_recorded_at ON feedback_records(recorded_at);
CREATE INDEX IF NOT EXISTS idx_feedback_records_rating ON feedback_records(feedback_rating);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRecord(ctx context.Context, r model.Record) error {
	ts := r.Timestamp.UTC().Format(sqliteTimeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback_records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (record_id) DO NOTHING`,
		recordArgs(r, ts)...,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert record %s", r.RecordID)
	}
	return nil
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.Record, error) {
	var (
		where []string
		args  []any
	)
	if filter.Rating != "" {
		where = append(where, "feedback_rating = ?")
		args = append(args, string(filter.Rating))
	}
	if !filter.Since.IsZero() {
		where = append(where, "recorded_at >= ?")
		args = append(args, filter.Since.UTC().Format(sqliteTimeLayout))
	}

	query := `SELECT ` + recordColumns + ` FROM feedback_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY recorded_at DESC, record_id LIMIT ?"
	args = append(args, filter.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Record
	for rows.Next() {
		r, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate records")
}

func scanSQLiteRecord(rows *sql.Rows) (model.Record, error) {
	var (
		r                               model.Record
		ts, rating                      string
		comment, ideal, strong, weights sql.NullString
		suggestion                      sql.NullString
		budgetMin, budgetMax            sql.NullInt64
	)
	err := rows.Scan(
		&r.RecordID, &ts, &rating, &comment,
		&ideal, &strong, &weights, &suggestion,
		&r.OriginalIdealProduct, &r.OriginalStrongProduct, &r.Industry, &r.OrgSize, &r.Users,
		&budgetMin, &budgetMax, &r.GoLiveTimeline, &r.TradingType, &r.CurrentSystem,
		&r.Priorities, &r.Region, &r.Integrations,
	)
	if err != nil {
		return model.Record{}, eris.Wrap(err, "sqlite: scan record")
	}

	r.Timestamp, err = time.Parse(sqliteTimeLayout, ts)
	if err != nil {
		return model.Record{}, eris.Wrapf(err, "sqlite: parse timestamp of %s", r.RecordID)
	}
	r.FeedbackRating = model.Rating(rating)
	r.FeedbackComment = nullString(comment)
	r.UserCorrectedIdeal = nullString(ideal)
	r.UserCorrectedStrong = nullString(strong)
	r.PriorityWeights = nullString(weights)
	r.GeneratedSuggestion = nullString(suggestion)
	r.BudgetMin = nullInt64(budgetMin)
	r.BudgetMax = nullInt64(budgetMax)
	return r, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
