package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/ctrm-fit/internal/advisor"
	"github.com/sells-group/ctrm-fit/internal/feedback"
	"github.com/sells-group/ctrm-fit/internal/justify"
	"github.com/sells-group/ctrm-fit/internal/model"
)

const enterpriseAnswersYAML = `industry: Financial Services
orgSize: Enterprise
users: 500
expectedBudget:
  min: 1200000
  max: 1500000
goLiveTimeline: 12+ months
tradingType: Financial
priorities:
  - Risk
  - Regulatory Compliance
region: Global
`

const enterpriseAnswersJSON = `{
  "industry": "Financial Services",
  "orgSize": "Enterprise",
  "users": 500,
  "expectedBudget": {"min": 1200000, "max": 1500000},
  "goLiveTimeline": "12+ months",
  "tradingType": "Financial",
  "priorities": ["Risk", "Regulatory Compliance"],
  "region": "Global"
}`

const inaccurateFeedbackYAML = `rating: inaccurate
comment: We run a physical book first.
userCorrection:
  ideal: triplepoint
  strong: rightangle
priorityWeights:
  priorities: 40
  expectedBudget: 30
  goLiveTimeline: 10
  users: 10
  tradingType: 5
  integrations: 5
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// recordingSink stores records in memory and fails with err when set. With
// failures > 0 only the first failures calls fail.
type recordingSink struct {
	mu       sync.Mutex
	err      error
	failures int
	calls    int
	records  []model.Record
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Persist(_ context.Context, r model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil && (s.failures == 0 || s.calls <= s.failures) {
		return s.err
	}
	s.records = append(s.records, r)
	return nil
}

func newTestAdvisor(s *recordingSink) *advisor.Advisor {
	return advisor.New(model.Catalog(), justify.Fallback{}, s,
		advisor.WithClock(func() time.Time { return time.Date(2026, 6, 2, 15, 4, 5, 0, time.UTC) }),
		advisor.WithIDs(func() string { return "rec-1" }),
	)
}

func mustReadAnswers(t *testing.T) model.UserAnswers {
	t.Helper()
	path := writeFile(t, t.TempDir(), "answers.yaml", enterpriseAnswersYAML)
	a, err := readAnswers(path, nil)
	require.NoError(t, err)
	return a
}

func feedbackAccurate() feedback.Input {
	return feedback.Input{Rating: model.RatingAccurate, GeneratedSuggestion: "Start with the risk workstream."}
}
