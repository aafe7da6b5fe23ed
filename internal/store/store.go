// Package store persists feedback records in SQLite or Postgres.
package store

import (
	"context"
	"time"

	"github.com/sells-group/ctrm-fit/internal/model"
)

// DefaultListLimit caps ListRecords when the filter sets no limit.
const DefaultListLimit = 50

// RecordFilter narrows ListRecords. Zero values match everything.
type RecordFilter struct {
	Rating model.Rating `json:"rating,omitempty"`
	Since  time.Time    `json:"since,omitempty"`
	Limit  int          `json:"limit,omitempty"`
}

func (f RecordFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

// Store persists feedback records.
type Store interface {
	// SaveRecord inserts r. Saving a record id that already exists is a
	// no-op, so a retried submission never duplicates a row.
	SaveRecord(ctx context.Context, r model.Record) error
	// ListRecords returns matching records, newest first.
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.Record, error)

	Migrate(ctx context.Context) error
	Close() error
}

// recordColumns is the column list shared by both backends, in scan order.
const recordColumns = `record_id, recorded_at, feedback_rating, feedback_comment,
	user_corrected_ideal, user_corrected_strong, priority_weights, generated_suggestion,
	original_ideal_product, original_strong_product, industry, org_size, users,
	budget_min, budget_max, go_live_timeline, trading_type, current_system,
	priorities, region, integrations`

// recordArgs returns r's values in recordColumns order, with the timestamp
// left to the caller.
func recordArgs(r model.Record, ts any) []any {
	return []any{
		r.RecordID, ts, string(r.FeedbackRating), r.FeedbackComment,
		r.UserCorrectedIdeal, r.UserCorrectedStrong, r.PriorityWeights, r.GeneratedSuggestion,
		r.OriginalIdealProduct, r.OriginalStrongProduct, r.Industry, r.OrgSize, r.Users,
		r.BudgetMin, r.BudgetMax, r.GoLiveTimeline, r.TradingType, r.CurrentSystem,
		r.Priorities, r.Region, r.Integrations,
	}
}
