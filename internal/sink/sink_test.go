package sink

import (
	"context"
	"time"

	"github.com/sells-group/ctrm-fit/internal/model"
)

func ptr[T any](v T) *T { return &v }

func testRecord(id string) model.Record {
	return model.Record{
		Timestamp:             time.Date(2026, 6, 2, 15, 4, 5, 0, time.UTC),
		RecordID:              id,
		FeedbackRating:        model.RatingInaccurate,
		FeedbackComment:       ptr("Too heavy for our desk"),
		UserCorrectedIdeal:    ptr("triplepoint"),
		UserCorrectedStrong:   ptr("allegro"),
		PriorityWeights:       ptr(`{"expectedBudget":40,"priorities":60}`),
		OriginalIdealProduct:  "Openlink",
		OriginalStrongProduct: "TriplePoint",
		Industry:              "Financial Services",
		OrgSize:               "Enterprise",
		Users:                 500,
		BudgetMin:             ptr(int64(1_200_000)),
		GoLiveTimeline:        "12+ months",
		TradingType:           "Financial",
		Priorities:            "Risk, Regulatory Compliance",
		Region:                "Global",
		Integrations:          "ERP, Market Data Feeds",
	}
}

// funcSink adapts a function to Sink.
type funcSink struct {
	name string
	fn   func(ctx context.Context, r model.Record) error
}

func (f funcSink) Name() string { return f.name }

func (f funcSink) Persist(ctx context.Context, r model.Record) error { return f.fn(ctx, r) }
