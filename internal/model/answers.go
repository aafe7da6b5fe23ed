package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
)

// Industry is the prospect's commodity focus.
type Industry string

// Industry values.
const (
	IndustryOilGas          Industry = "Oil & Gas"
	IndustryPowerUtilities  Industry = "Power & Utilities"
	IndustryMetals          Industry = "Metals"
	IndustryAgriCommodities Industry = "Agri-Commodities"
	IndustryFinancial       Industry = "Financial Services"
	IndustryMultiCommodity  Industry = "Multi-Commodity"
)

// Industries lists every Industry in questionnaire order.
var Industries = []Industry{
	IndustryOilGas, IndustryPowerUtilities, IndustryMetals,
	IndustryAgriCommodities, IndustryFinancial, IndustryMultiCommodity,
}

// OrgSize is the prospect's organization size.
type OrgSize string

// OrgSize values.
const (
	OrgSizeSmall      OrgSize = "Small/Startup"
	OrgSizeMedium     OrgSize = "Medium"
	OrgSizeEnterprise OrgSize = "Enterprise"
)

// OrgSizes lists every OrgSize in questionnaire order.
var OrgSizes = []OrgSize{OrgSizeSmall, OrgSizeMedium, OrgSizeEnterprise}

// Timeline is the desired go-live timeline. Values are ordered by duration.
type Timeline string

// Timeline values, shortest first.
const (
	TimelineWithin3Months Timeline = "Within 3 months"
	Timeline3To6Months    Timeline = "3-6 months"
	Timeline6To12Months   Timeline = "6-12 months"
	Timeline12PlusMonths  Timeline = "12+ months"
)

// Timelines lists every Timeline, shortest first.
var Timelines = []Timeline{
	TimelineWithin3Months, Timeline3To6Months, Timeline6To12Months, Timeline12PlusMonths,
}

// Rank returns the position of t in Timelines, or -1 when unset or unknown.
func (t Timeline) Rank() int {
	return slices.Index(Timelines, t)
}

// TradingType is the kind of trading the prospect engages in.
type TradingType string

// TradingType values.
const (
	TradingPhysical  TradingType = "Physical"
	TradingFinancial TradingType = "Financial"
	TradingBoth      TradingType = "Both"
)

// TradingTypes lists every TradingType in questionnaire order.
var TradingTypes = []TradingType{TradingPhysical, TradingFinancial, TradingBoth}

// CurrentSystem describes the prospect's existing setup.
type CurrentSystem string

// CurrentSystem values.
const (
	SystemManual    CurrentSystem = "Manual/Spreadsheets"
	SystemInHouse   CurrentSystem = "In-house Tool"
	SystemOtherCTRM CurrentSystem = "Other CTRM System"
	SystemNone      CurrentSystem = "None"
)

// CurrentSystems lists every CurrentSystem in questionnaire order.
var CurrentSystems = []CurrentSystem{SystemManual, SystemInHouse, SystemOtherCTRM, SystemNone}

// Priority is a business priority the prospect cares about.
type Priority string

// Priority values.
const (
	PriorityTrading     Priority = "Trading"
	PriorityRisk        Priority = "Risk"
	PriorityLogistics   Priority = "Logistics"
	PrioritySettlements Priority = "Settlements"
	PriorityCompliance  Priority = "Regulatory Compliance"
	PriorityAccounting  Priority = "Accounting"
	PriorityForecasting Priority = "Forecasting"
	PriorityETRM        Priority = "ETRM Integration"
)

// Priorities lists every Priority in questionnaire order.
var Priorities = []Priority{
	PriorityTrading, PriorityRisk, PriorityLogistics, PrioritySettlements,
	PriorityCompliance, PriorityAccounting, PriorityForecasting, PriorityETRM,
}

// Region is the prospect's primary geography.
type Region string

// Region values.
const (
	RegionNorthAmerica Region = "North America"
	RegionEurope       Region = "Europe"
	RegionAPAC         Region = "APAC"
	RegionMENA         Region = "MENA"
	RegionSouthAmerica Region = "South America"
	RegionGlobal       Region = "Global"
)

// Regions lists every Region in questionnaire order.
var Regions = []Region{
	RegionNorthAmerica, RegionEurope, RegionAPAC, RegionMENA, RegionSouthAmerica, RegionGlobal,
}

// Integration is an existing system the prospect needs to integrate with.
type Integration string

// Integration values.
const (
	IntegrationERP        Integration = "ERP"
	IntegrationRisk       Integration = "Risk Engines"
	IntegrationMarketData Integration = "Market Data Feeds"
	IntegrationNone       Integration = "None"
	IntegrationOther      Integration = "Other"
)

// Integrations lists every Integration in questionnaire order.
var Integrations = []Integration{
	IntegrationERP, IntegrationRisk, IntegrationMarketData, IntegrationNone, IntegrationOther,
}

// Budget is the expected annual budget range in USD. Either bound may be nil.
type Budget struct {
	Min *int64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *int64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Average returns the midpoint when both bounds are present, the present
// bound when only one is, and 0 otherwise. The midpoint is not truncated, so
// a 0-1 range averages to 0.5. Bounds are not reordered: a range with
// Min > Max still yields their arithmetic mean.
func (b Budget) Average() float64 {
	switch {
	case b.Min != nil && b.Max != nil:
		return (float64(*b.Min) + float64(*b.Max)) / 2
	case b.Min != nil:
		return float64(*b.Min)
	case b.Max != nil:
		return float64(*b.Max)
	default:
		return 0
	}
}

// UserAnswers is one completed questionnaire run. Zero values mean unset.
type UserAnswers struct {
	Industry       Industry      `json:"industry,omitempty" yaml:"industry,omitempty"`
	OrgSize        OrgSize       `json:"orgSize,omitempty" yaml:"orgSize,omitempty"`
	Users          int           `json:"users,omitempty" yaml:"users,omitempty"`
	ExpectedBudget Budget        `json:"expectedBudget" yaml:"expectedBudget,omitempty"`
	GoLiveTimeline Timeline      `json:"goLiveTimeline,omitempty" yaml:"goLiveTimeline,omitempty"`
	TradingType    TradingType   `json:"tradingType,omitempty" yaml:"tradingType,omitempty"`
	CurrentSystem  CurrentSystem `json:"currentSystem,omitempty" yaml:"currentSystem,omitempty"`
	Priorities     []Priority    `json:"priorities" yaml:"priorities,omitempty"`
	Region         Region        `json:"region,omitempty" yaml:"region,omitempty"`
	Integrations   []Integration `json:"integrations" yaml:"integrations,omitempty"`
}

// HasPriority reports whether p was selected.
func (a UserAnswers) HasPriority(p Priority) bool {
	return slices.Contains(a.Priorities, p)
}

// PriorityNames returns the selected priorities as plain strings.
func (a UserAnswers) PriorityNames() []string {
	return toStrings(a.Priorities)
}

// IntegrationNames returns the selected integrations as plain strings.
func (a UserAnswers) IntegrationNames() []string {
	return toStrings(a.Integrations)
}

// Validate checks every set field against its enumeration and the budget
// range for sign and ordering. All problems are reported together.
func (a UserAnswers) Validate() error {
	var errs []string

	check := func(field, value string, ok bool) {
		if value != "" && !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown value %q", field, value))
		}
	}
	check("industry", string(a.Industry), slices.Contains(Industries, a.Industry))
	check("orgSize", string(a.OrgSize), slices.Contains(OrgSizes, a.OrgSize))
	check("goLiveTimeline", string(a.GoLiveTimeline), slices.Contains(Timelines, a.GoLiveTimeline))
	check("tradingType", string(a.TradingType), slices.Contains(TradingTypes, a.TradingType))
	check("currentSystem", string(a.CurrentSystem), slices.Contains(CurrentSystems, a.CurrentSystem))
	check("region", string(a.Region), slices.Contains(Regions, a.Region))

	for _, p := range a.Priorities {
		check("priorities", string(p), slices.Contains(Priorities, p))
	}
	for _, in := range a.Integrations {
		check("integrations", string(in), slices.Contains(Integrations, in))
	}

	if a.Users < 0 {
		errs = append(errs, "users: must be >= 0")
	}

	b := a.ExpectedBudget
	if b.Min != nil && *b.Min < 0 {
		errs = append(errs, "expectedBudget.min: must be >= 0")
	}
	if b.Max != nil && *b.Max < 0 {
		errs = append(errs, "expectedBudget.max: must be >= 0")
	}
	if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
		errs = append(errs, "expectedBudget: min must be <= max")
	}

	if len(errs) > 0 {
		return eris.Errorf("model: invalid answers: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Normalize returns a copy with duplicate priorities and integrations removed,
// keeping first occurrence order.
func (a UserAnswers) Normalize() UserAnswers {
	out := a
	out.Priorities = dedupe(a.Priorities)
	out.Integrations = dedupe(a.Integrations)
	return out
}

func dedupe[T comparable](in []T) []T {
	if in == nil {
		return nil
	}
	seen := make(map[T]bool, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func toStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
