package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ctrm-fit/internal/model"
)

// Delta is the fixed score adjustment a rule applies to each product.
// Products missing from a Delta receive 0.
type Delta map[model.ProductID]int

// d builds a Delta in catalog order: aspect, rightangle, triplepoint,
// openlink, allegro.
func d(aspect, rightangle, triplepoint, openlink, allegro int) Delta {
	return Delta{
		model.ProductAspect:      aspect,
		model.ProductRightAngle:  rightangle,
		model.ProductTriplePoint: triplepoint,
		model.ProductOpenlink:    openlink,
		model.ProductAllegro:     allegro,
	}
}

// Rule group names, in evaluation order.
const (
	GroupOrgSize       = "org_size"
	GroupIndustry      = "industry"
	GroupPriorities    = "priorities"
	GroupTradingType   = "trading_type"
	GroupUsers         = "users"
	GroupCurrentSystem = "current_system"
	GroupBudget        = "budget"
	GroupTimeline      = "timeline"
)

// Groups lists every rule group in evaluation order.
var Groups = []string{
	GroupOrgSize, GroupIndustry, GroupPriorities, GroupTradingType,
	GroupUsers, GroupCurrentSystem, GroupBudget, GroupTimeline,
}

// Rule tables. Columns follow d(): aspect, rightangle, triplepoint, openlink, allegro.
// Groups 1-6 only ever add points to the products an answer favours; options
// that favour no product carry an all-zero delta.

var orgSizeRules = map[model.OrgSize]Delta{
	model.OrgSizeSmall:      d(3, 0, 0, 0, 0),
	model.OrgSizeMedium:     d(1, 1, 0, 0, 1),
	model.OrgSizeEnterprise: d(0, 1, 2, 3, 0),
}

var industryRules = map[model.Industry]Delta{
	model.IndustryOilGas:          d(1, 2, 0, 0, 0),
	model.IndustryPowerUtilities:  d(0, 2, 0, 0, 3),
	model.IndustryMetals:          d(2, 0, 0, 0, 0),
	model.IndustryAgriCommodities: d(2, 0, 0, 0, 0),
	model.IndustryFinancial:       d(0, 0, 0, 2, 0),
	model.IndustryMultiCommodity:  d(0, 0, 1, 2, 0),
}

var priorityRules = map[model.Priority]Delta{
	model.PriorityTrading:     d(0, 0, 0, 0, 0),
	model.PriorityRisk:        d(0, 0, 3, 0, 0),
	model.PriorityLogistics:   d(0, 2, 0, 0, 0),
	model.PrioritySettlements: d(0, 0, 0, 0, 0),
	model.PriorityCompliance:  d(0, 0, 1, 1, 0),
	model.PriorityAccounting:  d(0, 0, 1, 1, 0),
	model.PriorityForecasting: d(0, 0, 0, 0, 0),
	model.PriorityETRM:        d(0, 0, 0, 0, 2),
}

var tradingTypeRules = map[model.TradingType]Delta{
	model.TradingPhysical:  d(0, 1, 0, 0, 1),
	model.TradingFinancial: d(0, 0, 1, 1, 0),
	model.TradingBoth:      d(0, 0, 0, 0, 0),
}

var currentSystemRules = map[model.CurrentSystem]Delta{
	model.SystemManual:    d(0, 0, 0, 0, 0),
	model.SystemInHouse:   d(0, 1, 1, 1, 0),
	model.SystemOtherCTRM: d(0, 1, 1, 1, 0),
	model.SystemNone:      d(0, 0, 0, 0, 0),
}

var timelineRules = map[model.Timeline]Delta{
	model.TimelineWithin3Months: d(3, -1, -1, -2, 0),
	model.Timeline3To6Months:    d(1, 1, 0, -1, 1),
	model.Timeline6To12Months:   d(-1, 1, 1, 1, 0),
	model.Timeline12PlusMonths:  d(-2, 0, 1, 2, 0),
}

// Bracket is an upper-bounded band of a numeric answer. A bracket matches
// values up to and including Max (users) or strictly below Max (budget);
// Max == 0 marks the open-ended final band.
type Bracket struct {
	Label string
	Max   int64
	Delta Delta
}

// userBrackets are inclusive upper bounds: <=20, <=100, <=200, >200. Large
// teams cost aspect a point from 101 users on.
var userBrackets = []Bracket{
	{Label: "<=20", Max: 20, Delta: d(0, 0, 0, 0, 0)},
	{Label: "<=100", Max: 100, Delta: d(0, 0, 0, 0, 0)},
	{Label: "<=200", Max: 200, Delta: d(-1, 0, 0, 0, 0)},
	{Label: ">200", Delta: d(-1, 0, 1, 1, 0)},
}

// budgetBrackets are exclusive upper bounds: <50k, <200k, <500k, <1M, >=1M.
var budgetBrackets = []Bracket{
	{Label: "<50k", Max: 50_000, Delta: d(3, -1, -2, -3, -1)},
	{Label: "<200k", Max: 200_000, Delta: d(2, 1, -1, -2, 1)},
	{Label: "<500k", Max: 500_000, Delta: d(0, 2, 1, -1, 1)},
	{Label: "<1M", Max: 1_000_000, Delta: d(-1, 1, 2, 1, 1)},
	{Label: ">=1M", Delta: d(-2, 0, 2, 3, 0)},
}

// userBracket returns the bracket for a user count, or nil when users is unset.
func userBracket(users int) *Bracket {
	if users <= 0 {
		return nil
	}
	for i := range userBrackets {
		b := &userBrackets[i]
		if b.Max == 0 || int64(users) <= b.Max {
			return b
		}
	}
	return nil
}

// budgetBracket returns the bracket for an average budget, or nil when the
// average is 0.
func budgetBracket(avg float64) *Bracket {
	if avg == 0 {
		return nil
	}
	for i := range budgetBrackets {
		b := &budgetBrackets[i]
		if b.Max == 0 || avg < float64(b.Max) {
			return b
		}
	}
	return nil
}

// ValidateRules checks the rule table against a catalog: every enumeration
// value has a rule, every rule names only catalog products and covers all of
// them, and brackets are strictly increasing with a single open-ended tail.
func ValidateRules(catalog []model.Product) error {
	var errs []string

	ids := make(map[model.ProductID]bool, len(catalog))
	for _, p := range catalog {
		ids[p.ID] = true
	}
	checkDelta := func(where string, delta Delta) {
		for id := range delta {
			if !ids[id] {
				errs = append(errs, fmt.Sprintf("%s: unknown product %q", where, id))
			}
		}
		for id := range ids {
			if _, ok := delta[id]; !ok {
				errs = append(errs, fmt.Sprintf("%s: missing product %q", where, id))
			}
		}
	}

	checkEnum(&errs, GroupOrgSize, model.OrgSizes, orgSizeRules, checkDelta)
	checkEnum(&errs, GroupIndustry, model.Industries, industryRules, checkDelta)
	checkEnum(&errs, GroupPriorities, model.Priorities, priorityRules, checkDelta)
	checkEnum(&errs, GroupTradingType, model.TradingTypes, tradingTypeRules, checkDelta)
	checkEnum(&errs, GroupCurrentSystem, model.CurrentSystems, currentSystemRules, checkDelta)
	checkEnum(&errs, GroupTimeline, model.Timelines, timelineRules, checkDelta)
	checkBrackets(&errs, GroupUsers, userBrackets, checkDelta)
	checkBrackets(&errs, GroupBudget, budgetBrackets, checkDelta)

	if len(errs) > 0 {
		return eris.Errorf("scorer: rule table validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func checkEnum[K ~string](errs *[]string, group string, values []K, rules map[K]Delta, checkDelta func(string, Delta)) {
	for _, v := range values {
		delta, ok := rules[v]
		if !ok {
			*errs = append(*errs, fmt.Sprintf("%s: no rule for %q", group, v))
			continue
		}
		checkDelta(fmt.Sprintf("%s[%s]", group, v), delta)
	}
	if len(rules) != len(values) {
		*errs = append(*errs, fmt.Sprintf("%s: %d rules for %d values", group, len(rules), len(values)))
	}
}

func checkBrackets(errs *[]string, group string, brackets []Bracket, checkDelta func(string, Delta)) {
	if len(brackets) == 0 {
		*errs = append(*errs, fmt.Sprintf("%s: no brackets", group))
		return
	}
	var prev int64
	for i, b := range brackets {
		last := i == len(brackets)-1
		switch {
		case last && b.Max != 0:
			*errs = append(*errs, fmt.Sprintf("%s[%s]: final bracket must be open-ended", group, b.Label))
		case !last && b.Max <= prev:
			*errs = append(*errs, fmt.Sprintf("%s[%s]: bounds must strictly increase", group, b.Label))
		}
		prev = b.Max
		checkDelta(fmt.Sprintf("%s[%s]", group, b.Label), b.Delta)
	}
}
