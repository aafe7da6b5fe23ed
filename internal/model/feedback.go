package model

import "time"

// Rating is the user's verdict on a recommendation.
type Rating string

// Rating values.
const (
	RatingAccurate   Rating = "accurate"
	RatingInaccurate Rating = "inaccurate"
)

// Factor is a ranking factor the user can weight when correcting a
// recommendation.
type Factor string

// Factor keys, in form order.
const (
	FactorPriorities  Factor = "priorities"
	FactorBudget      Factor = "expectedBudget"
	FactorTimeline    Factor = "goLiveTimeline"
	FactorUsers       Factor = "users"
	FactorTradingType Factor = "tradingType"
	FactorIntegration Factor = "integrations"
)

// Factors lists every weightable factor in form order.
var Factors = []Factor{
	FactorPriorities, FactorBudget, FactorTimeline, FactorUsers, FactorTradingType, FactorIntegration,
}

// FactorLabels holds the display label for each factor.
var FactorLabels = map[Factor]string{
	FactorPriorities:  "Key Business Priorities (Trading, Risk, etc.)",
	FactorBudget:      "Annual Budget",
	FactorTimeline:    "Go-Live Timeline",
	FactorUsers:       "Number of Users",
	FactorTradingType: "Trading Style (Physical vs. Financial)",
	FactorIntegration: "System Integration Needs",
}

// UserCorrection is the user's own ideal / strong pick.
type UserCorrection struct {
	Ideal  ProductID `json:"ideal"`
	Strong ProductID `json:"strong,omitempty"`
}

// Feedback is the validated, terminal feedback on one recommendation.
// Accurate feedback uses GeneratedSuggestion only; inaccurate feedback uses
// Comment, UserCorrection and PriorityWeights.
type Feedback struct {
	Rating              Rating          `json:"rating"`
	Comment             string          `json:"comment,omitempty"`
	UserCorrection      *UserCorrection `json:"userCorrection,omitempty"`
	PriorityWeights     map[Factor]int  `json:"priorityWeights,omitempty"`
	GeneratedSuggestion string          `json:"generatedSuggestion,omitempty"`
}

// Record is the flat row handed to a persistence sink. JSON names match the
// spreadsheet header row.
type Record struct {
	Timestamp             time.Time `json:"timestamp"`
	RecordID              string    `json:"recordId"`
	FeedbackRating        Rating    `json:"feedbackRating"`
	FeedbackComment       *string   `json:"feedbackComment"`
	UserCorrectedIdeal    *string   `json:"userCorrectedIdeal"`
	UserCorrectedStrong   *string   `json:"userCorrectedStrong"`
	PriorityWeights       *string   `json:"priorityWeights"`
	GeneratedSuggestion   *string   `json:"generatedSuggestion"`
	OriginalIdealProduct  string    `json:"originalIdealProduct"`
	OriginalStrongProduct string    `json:"originalStrongProduct"`
	Industry              string    `json:"industry"`
	OrgSize               string    `json:"orgSize"`
	Users                 int       `json:"users"`
	BudgetMin             *int64    `json:"budgetMin"`
	BudgetMax             *int64    `json:"budgetMax"`
	GoLiveTimeline        string    `json:"goLiveTimeline"`
	TradingType           string    `json:"tradingType"`
	CurrentSystem         string    `json:"currentSystem"`
	Priorities            string    `json:"priorities"`
	Region                string    `json:"region"`
	Integrations          string    `json:"integrations"`
}

// RecordColumns lists the record's column headers in sheet order.
var RecordColumns = []string{
	"timestamp", "recordId", "feedbackRating", "feedbackComment",
	"userCorrectedIdeal", "userCorrectedStrong", "priorityWeights",
	"generatedSuggestion", "originalIdealProduct", "originalStrongProduct",
	"industry", "orgSize", "users", "budgetMin", "budgetMax", "goLiveTimeline",
	"tradingType", "currentSystem", "priorities", "region", "integrations",
}

// Values returns the record as a column-name keyed map. Absent optional
// fields map to nil.
func (r Record) Values() map[string]any {
	return map[string]any{
		"timestamp":             r.Timestamp.UTC().Format(time.RFC3339),
		"recordId":              r.RecordID,
		"feedbackRating":        string(r.FeedbackRating),
		"feedbackComment":       derefString(r.FeedbackComment),
		"userCorrectedIdeal":    derefString(r.UserCorrectedIdeal),
		"userCorrectedStrong":   derefString(r.UserCorrectedStrong),
		"priorityWeights":       derefString(r.PriorityWeights),
		"generatedSuggestion":   derefString(r.GeneratedSuggestion),
		"originalIdealProduct":  r.OriginalIdealProduct,
		"originalStrongProduct": r.OriginalStrongProduct,
		"industry":              r.Industry,
		"orgSize":               r.OrgSize,
		"users":                 r.Users,
		"budgetMin":             derefInt64(r.BudgetMin),
		"budgetMax":             derefInt64(r.BudgetMax),
		"goLiveTimeline":        r.GoLiveTimeline,
		"tradingType":           r.TradingType,
		"currentSystem":         r.CurrentSystem,
		"priorities":            r.Priorities,
		"region":                r.Region,
		"integrations":          r.Integrations,
	}
}

func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
