package model

// QuestionType controls how a question is answered.
type QuestionType string

// QuestionType values.
const (
	QuestionSelect      QuestionType = "select"
	QuestionMultiSelect QuestionType = "multiselect"
	QuestionNumber      QuestionType = "number"
	QuestionDropdown    QuestionType = "dropdown"
	QuestionBudgetRange QuestionType = "budget-range"
)

// Question is one step of the questionnaire. ID is the UserAnswers JSON field
// it fills.
type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
}

// Questions returns the questionnaire steps in presentation order.
func Questions() []Question {
	return []Question{
		{ID: "industry", Text: "What is your industry or commodity focus?", Type: QuestionSelect, Options: toStrings(Industries)},
		{ID: "orgSize", Text: "What is your organization size?", Type: QuestionSelect, Options: toStrings(OrgSizes)},
		{ID: "users", Text: "How many business users do you have?", Type: QuestionNumber},
		{ID: "expectedBudget", Text: "What's your expected annual budget? (USD)", Type: QuestionBudgetRange},
		{ID: "goLiveTimeline", Text: "What is your desired go-live timeline?", Type: QuestionSelect, Options: toStrings(Timelines)},
		{ID: "tradingType", Text: "What type of trading do you engage in?", Type: QuestionSelect, Options: toStrings(TradingTypes)},
		{ID: "currentSystem", Text: "What is your current system setup?", Type: QuestionSelect, Options: toStrings(CurrentSystems)},
		{ID: "priorities", Text: "What are your key priorities? (select all that apply)", Type: QuestionMultiSelect, Options: toStrings(Priorities)},
		{ID: "region", Text: "What geography or region do you primarily operate in?", Type: QuestionDropdown, Options: toStrings(Regions)},
		{ID: "integrations", Text: "Do you require integration with any existing systems? (select all that apply)", Type: QuestionMultiSelect, Options: toStrings(Integrations)},
	}
}
