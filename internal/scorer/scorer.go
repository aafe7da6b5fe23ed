// Package scorer ranks the product catalog against a prospect's questionnaire
// answers using a fixed additive rule table.
package scorer

import (
	"github.com/sells-group/ctrm-fit/internal/model"
)

// Scores maps each catalog product to its total score.
type Scores map[model.ProductID]int

// Contribution is what a single rule group added to every product.
type Contribution struct {
	Group string `json:"group"`
	// Match names the answer value or bracket that fired; empty when the
	// group did not fire.
	Match string `json:"match,omitempty"`
	Delta Delta  `json:"delta"`
}

// Score computes the score of every catalog product for the given answers.
// Every product starts at 0; unset answers contribute nothing.
func Score(answers model.UserAnswers, catalog []model.Product) Scores {
	scores := make(Scores, len(catalog))
	for _, p := range catalog {
		scores[p.ID] = 0
	}
	for _, c := range Explain(answers) {
		for _, p := range catalog {
			scores[p.ID] += c.Delta[p.ID]
		}
	}
	return scores
}

// Explain returns the contribution of each rule group, in evaluation order.
// Priorities contribute once per selected priority, so the priorities group
// may appear several times. Groups that do not fire are omitted.
func Explain(answers model.UserAnswers) []Contribution {
	var out []Contribution
	add := func(group, match string, delta Delta, ok bool) {
		if ok {
			out = append(out, Contribution{Group: group, Match: match, Delta: delta})
		}
	}

	delta, ok := orgSizeRules[answers.OrgSize]
	add(GroupOrgSize, string(answers.OrgSize), delta, ok)

	delta, ok = industryRules[answers.Industry]
	add(GroupIndustry, string(answers.Industry), delta, ok)

	for _, p := range answers.Priorities {
		delta, ok = priorityRules[p]
		add(GroupPriorities, string(p), delta, ok)
	}

	delta, ok = tradingTypeRules[answers.TradingType]
	add(GroupTradingType, string(answers.TradingType), delta, ok)

	if b := userBracket(answers.Users); b != nil {
		add(GroupUsers, b.Label, b.Delta, true)
	}

	delta, ok = currentSystemRules[answers.CurrentSystem]
	add(GroupCurrentSystem, string(answers.CurrentSystem), delta, ok)

	if b := budgetBracket(answers.ExpectedBudget.Average()); b != nil {
		add(GroupBudget, b.Label, b.Delta, true)
	}

	delta, ok = timelineRules[answers.GoLiveTimeline]
	add(GroupTimeline, string(answers.GoLiveTimeline), delta, ok)

	return out
}
