package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ctrm-fit/internal/feedback"
	"github.com/sells-group/ctrm-fit/internal/model"
	"github.com/sells-group/ctrm-fit/pkg/notion"
)

// Notion property names.
const (
	propName          = "Name"
	propRecordID      = "Record ID"
	propRecordedAt    = "Recorded At"
	propRating        = "Rating"
	propComment       = "Comment"
	propCorrectIdeal  = "Corrected Ideal"
	propCorrectStrong = "Corrected Strong"
	propWeights       = "Priority Weights"
	propSuggestion    = "Suggestion"
	propIdeal         = "Ideal Product"
	propStrong        = "Strong Product"
	propIndustry      = "Industry"
	propOrgSize       = "Org Size"
	propUsers         = "Users"
	propBudgetMin     = "Budget Min"
	propBudgetMax     = "Budget Max"
	propTimeline      = "Go-Live Timeline"
	propTradingType   = "Trading Type"
	propCurrentSystem = "Current System"
	propPriorities    = "Priorities"
	propRegion        = "Region"
	propIntegrations  = "Integrations"
)

// NotionSink creates one page per record in a Notion database.
type NotionSink struct {
	client notion.Client
	dbID   string
}

// NewNotion returns a NotionSink writing to the database dbID.
func NewNotion(client notion.Client, dbID string) *NotionSink {
	return &NotionSink{client: client, dbID: dbID}
}

func (s *NotionSink) Name() string { return KindNotion }

func (s *NotionSink) Persist(ctx context.Context, r model.Record) error {
	existing, err := notion.FindPageByText(ctx, s.client, s.dbID, propRecordID, r.RecordID)
	if err != nil {
		return eris.Wrapf(err, "notion: look up record %s", r.RecordID)
	}
	if existing != "" {
		zap.L().Debug("notion: record already stored",
			zap.String("record_id", r.RecordID),
			zap.String("page_id", existing),
		)
		return nil
	}

	_, err = s.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(s.dbID),
		},
		Properties: notionProperties(r),
	})
	if err != nil {
		return eris.Wrapf(err, "notion: create page for record %s", r.RecordID)
	}
	return nil
}

func notionProperties(r model.Record) notionapi.Properties {
	props := notionapi.Properties{
		propName:       notion.Title(fmt.Sprintf("%s / %s", r.OriginalIdealProduct, r.OriginalStrongProduct)),
		propRecordID:   notion.Text(r.RecordID),
		propRecordedAt: notion.Date(r.Timestamp.UTC()),
		propRating:     notion.Select(string(r.FeedbackRating)),
		propIdeal:      notion.Select(r.OriginalIdealProduct),
		propStrong:     notion.Select(r.OriginalStrongProduct),
		propUsers:      notion.Number(float64(r.Users)),
	}

	// Notion rejects empty select options, so unset answers are left out.
	for name, v := range map[string]string{
		propIndustry:      r.Industry,
		propOrgSize:       r.OrgSize,
		propTimeline:      r.GoLiveTimeline,
		propTradingType:   r.TradingType,
		propCurrentSystem: r.CurrentSystem,
		propRegion:        r.Region,
	} {
		if v != "" {
			props[name] = notion.Select(v)
		}
	}

	if r.FeedbackComment != nil {
		props[propComment] = notion.Text(*r.FeedbackComment)
	}
	if r.UserCorrectedIdeal != nil {
		props[propCorrectIdeal] = notion.Select(*r.UserCorrectedIdeal)
	}
	if r.UserCorrectedStrong != nil {
		props[propCorrectStrong] = notion.Select(*r.UserCorrectedStrong)
	}
	if r.PriorityWeights != nil {
		props[propWeights] = notion.Text(*r.PriorityWeights)
	}
	if r.GeneratedSuggestion != nil {
		props[propSuggestion] = notion.Text(*r.GeneratedSuggestion)
	}
	if r.BudgetMin != nil {
		props[propBudgetMin] = notion.Number(float64(*r.BudgetMin))
	}
	if r.BudgetMax != nil {
		props[propBudgetMax] = notion.Number(float64(*r.BudgetMax))
	}
	if names := splitList(r.Priorities); len(names) > 0 {
		props[propPriorities] = notion.MultiSelect(names)
	}
	if names := splitList(r.Integrations); len(names) > 0 {
		props[propIntegrations] = notion.MultiSelect(names)
	}
	return props
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, feedback.ListSeparator)
}
