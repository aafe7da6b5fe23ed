package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ctrm-fit/internal/feedback"
	"github.com/sells-group/ctrm-fit/internal/justify"
	"github.com/sells-group/ctrm-fit/internal/model"
	"github.com/sells-group/ctrm-fit/internal/resilience"
)

type recordingSink struct {
	err     error
	records []model.Record
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Persist(_ context.Context, r model.Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, r)
	return nil
}

var fixedNow = time.Date(2026, 6, 2, 15, 4, 5, 0, time.UTC)

func newTestAdvisor(s *recordingSink) *Advisor {
	return New(model.Catalog(), justify.Fallback{}, s,
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(func() string { return "rec-1" }),
	)
}

func ptrInt64(v int64) *int64 { return &v }

func enterpriseAnswers() model.UserAnswers {
	return model.UserAnswers{
		Industry:       model.IndustryFinancial,
		OrgSize:        model.OrgSizeEnterprise,
		Users:          500,
		ExpectedBudget: model.Budget{Min: ptrInt64(1_200_000), Max: ptrInt64(1_500_000)},
		GoLiveTimeline: model.Timeline12PlusMonths,
		TradingType:    model.TradingFinancial,
		CurrentSystem:  model.SystemOtherCTRM,
		Priorities:     []model.Priority{model.PriorityRisk, model.PriorityCompliance, model.PriorityRisk},
		Region:         model.RegionGlobal,
		Integrations:   []model.Integration{model.IntegrationERP, model.IntegrationMarketData},
	}
}

func TestRecommend(t *testing.T) {
	a := newTestAdvisor(&recordingSink{})
	res, err := a.Recommend(context.Background(), enterpriseAnswers(), true)
	require.NoError(t, err)

	assert.Equal(t, model.ProductOpenlink, res.Ideal.ID)
	assert.Equal(t, model.ProductTriplePoint, res.Strong.ID)
	assert.Contains(t, res.Justification, "Openlink is an excellent choice")
	require.Len(t, res.Ranking, len(model.Catalog()))
	assert.Equal(t, model.ProductOpenlink, res.Ranking[0].Product.ID)
	assert.NotEmpty(t, res.Explanation)
	// Duplicates are removed before scoring.
	assert.Len(t, res.Answers.Priorities, 2)
}

func TestRecommend_InvalidAnswers(t *testing.T) {
	a := newTestAdvisor(&recordingSink{})
	answers := enterpriseAnswers()
	answers.Industry = "Crypto"

	_, err := a.Recommend(context.Background(), answers, false)
	var ae *AnswersError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, err.Error(), `industry: unknown value "Crypto"`)
}

func TestSuggest(t *testing.T) {
	a := newTestAdvisor(&recordingSink{})

	p, text, err := a.Suggest(context.Background(), enterpriseAnswers(), "")
	require.NoError(t, err)
	assert.Equal(t, model.ProductOpenlink, p.ID)
	assert.Contains(t, text, "Openlink")

	p, _, err = a.Suggest(context.Background(), enterpriseAnswers(), model.ProductAllegro)
	require.NoError(t, err)
	assert.Equal(t, model.ProductAllegro, p.ID)

	_, _, err = a.Suggest(context.Background(), enterpriseAnswers(), "sap")
	var ve *feedback.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestSubmit_Accurate(t *testing.T) {
	s := &recordingSink{}
	a := newTestAdvisor(s)

	rec, err := a.Submit(context.Background(), enterpriseAnswers(), feedback.Input{
		Rating:              model.RatingAccurate,
		Comment:             "ignored for accurate feedback",
		GeneratedSuggestion: "Start with the risk workstream.",
	})
	require.NoError(t, err)
	require.Len(t, s.records, 1)
	assert.Equal(t, rec, s.records[0])

	assert.Equal(t, "rec-1", rec.RecordID)
	assert.Equal(t, fixedNow, rec.Timestamp)
	assert.Equal(t, "Openlink", rec.OriginalIdealProduct)
	assert.Equal(t, "TriplePoint", rec.OriginalStrongProduct)
	assert.Nil(t, rec.FeedbackComment)
	require.NotNil(t, rec.GeneratedSuggestion)
	assert.Equal(t, "Start with the risk workstream.", *rec.GeneratedSuggestion)
	assert.Equal(t, "Risk, Regulatory Compliance", rec.Priorities)
}

func TestSubmit_InvalidFeedbackNotPersisted(t *testing.T) {
	s := &recordingSink{}
	a := newTestAdvisor(s)

	_, err := a.Submit(context.Background(), enterpriseAnswers(), feedback.Input{
		Rating:          model.RatingInaccurate,
		UserCorrection:  &feedback.Correction{Ideal: model.ProductAspect},
		PriorityWeights: map[string]any{"priorities": 60, "users": 39},
	})
	var ve *feedback.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, s.records)
}

func TestSubmit_PersistFailureKeepsRecord(t *testing.T) {
	s := &recordingSink{err: resilience.NewTransientError(errors.New("sheet unavailable"), 503)}
	a := newTestAdvisor(s)

	rec, err := a.Submit(context.Background(), enterpriseAnswers(), feedback.Input{Rating: model.RatingAccurate})
	require.Error(t, err)

	var pe *PersistError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "rec-1", pe.Record.RecordID)
	assert.Equal(t, rec, pe.Record)
	assert.True(t, resilience.IsTransient(err))
}

func TestSubmitAs_KeepsRecordID(t *testing.T) {
	s := &recordingSink{}
	a := newTestAdvisor(s)

	const id = "0b6f4c1e-8f7d-4b8a-9a43-3c1f2d9e7a10"
	rec, err := a.SubmitAs(context.Background(), strings.ToUpper(id), enterpriseAnswers(), feedback.Input{Rating: model.RatingAccurate})
	require.NoError(t, err)
	assert.Equal(t, id, rec.RecordID, "ids are stored in canonical form")
	require.Len(t, s.records, 1)
	assert.Equal(t, id, s.records[0].RecordID)
}

func TestPrepareAs_RejectsMalformedID(t *testing.T) {
	a := newTestAdvisor(&recordingSink{})

	_, err := a.PrepareAs("rec-1", enterpriseAnswers(), feedback.Input{Rating: model.RatingAccurate})
	var ve *feedback.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"recordId: must be a UUID"}, ve.Reasons)
}

func TestNew_Defaults(t *testing.T) {
	a := New(model.Catalog(), nil, nil)
	assert.Equal(t, "log", a.Sink().Name())
	assert.Len(t, a.Catalog(), 5)
}

func TestNew_PanicsOnSmallCatalog(t *testing.T) {
	assert.Panics(t, func() { New(model.Catalog()[:1], nil, nil) })
}
