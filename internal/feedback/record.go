package feedback

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/ctrm-fit/internal/model"
	"github.com/sells-group/ctrm-fit/internal/scorer"
)

// ListSeparator joins multi-select answers in a record.
const ListSeparator = ", "

// BuildRecord flattens answers, the recommendation they produced and the
// feedback on it into one record. newID supplies the record id; nil uses a
// random UUID.
func BuildRecord(answers model.UserAnswers, rec scorer.Recommendation, fb model.Feedback, now time.Time, newID func() string) (model.Record, error) {
	if newID == nil {
		newID = uuid.NewString
	}

	r := model.Record{
		Timestamp:             now.UTC(),
		RecordID:              newID(),
		FeedbackRating:        fb.Rating,
		FeedbackComment:       optional(fb.Comment),
		GeneratedSuggestion:   optional(fb.GeneratedSuggestion),
		OriginalIdealProduct:  rec.Ideal.Name,
		OriginalStrongProduct: rec.Strong.Name,
		Industry:              string(answers.Industry),
		OrgSize:               string(answers.OrgSize),
		Users:                 answers.Users,
		BudgetMin:             answers.ExpectedBudget.Min,
		BudgetMax:             answers.ExpectedBudget.Max,
		GoLiveTimeline:        string(answers.GoLiveTimeline),
		TradingType:           string(answers.TradingType),
		CurrentSystem:         string(answers.CurrentSystem),
		Priorities:            strings.Join(answers.PriorityNames(), ListSeparator),
		Region:                string(answers.Region),
		Integrations:          strings.Join(answers.IntegrationNames(), ListSeparator),
	}

	if c := fb.UserCorrection; c != nil {
		r.UserCorrectedIdeal = optional(string(c.Ideal))
		r.UserCorrectedStrong = optional(string(c.Strong))
	}

	if fb.PriorityWeights != nil {
		b, err := json.Marshal(fb.PriorityWeights)
		if err != nil {
			return model.Record{}, eris.Wrap(err, "feedback: marshal priority weights")
		}
		s := string(b)
		r.PriorityWeights = &s
	}

	return r, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
