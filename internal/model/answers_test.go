package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrInt64(v int64) *int64 { return &v }

func TestBudgetAverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		budget Budget
		want   float64
	}{
		{"both bounds", Budget{Min: ptrInt64(10_000), Max: ptrInt64(30_000)}, 20_000},
		{"min only", Budget{Min: ptrInt64(75_000)}, 75_000},
		{"max only", Budget{Max: ptrInt64(400_000)}, 400_000},
		{"unset", Budget{}, 0},
		{"inverted range averages as-is", Budget{Min: ptrInt64(500_000), Max: ptrInt64(100_000)}, 300_000},
		{"odd total keeps the half", Budget{Min: ptrInt64(0), Max: ptrInt64(1)}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.budget.Average(), 1e-9)
		})
	}
}

func TestTimelineRank(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, TimelineWithin3Months.Rank())
	assert.Equal(t, 3, Timeline12PlusMonths.Rank())
	assert.Less(t, Timeline3To6Months.Rank(), Timeline6To12Months.Rank())
	assert.Equal(t, -1, Timeline("").Rank())
	assert.Equal(t, -1, Timeline("someday").Rank())
}

func TestUserAnswersValidate(t *testing.T) {
	t.Parallel()

	t.Run("empty answers are valid", func(t *testing.T) {
		assert.NoError(t, UserAnswers{}.Validate())
	})

	t.Run("fully populated answers are valid", func(t *testing.T) {
		a := UserAnswers{
			Industry:       IndustryMetals,
			OrgSize:        OrgSizeMedium,
			Users:          45,
			ExpectedBudget: Budget{Min: ptrInt64(100_000), Max: ptrInt64(250_000)},
			GoLiveTimeline: Timeline6To12Months,
			TradingType:    TradingBoth,
			CurrentSystem:  SystemInHouse,
			Priorities:     []Priority{PriorityRisk, PriorityLogistics},
			Region:         RegionEurope,
			Integrations:   []Integration{IntegrationERP},
		}
		assert.NoError(t, a.Validate())
	})

	t.Run("unknown enum values are reported together", func(t *testing.T) {
		a := UserAnswers{
			Industry:     "Crypto",
			Region:       "Antarctica",
			Priorities:   []Priority{PriorityRisk, "Vibes"},
			Integrations: []Integration{"Mainframe"},
		}
		err := a.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `industry: unknown value "Crypto"`)
		assert.Contains(t, err.Error(), `region: unknown value "Antarctica"`)
		assert.Contains(t, err.Error(), `priorities: unknown value "Vibes"`)
		assert.Contains(t, err.Error(), `integrations: unknown value "Mainframe"`)
	})

	t.Run("budget min greater than max is rejected", func(t *testing.T) {
		a := UserAnswers{ExpectedBudget: Budget{Min: ptrInt64(900_000), Max: ptrInt64(100_000)}}
		err := a.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min must be <= max")
	})

	t.Run("negative values are rejected", func(t *testing.T) {
		a := UserAnswers{Users: -3, ExpectedBudget: Budget{Min: ptrInt64(-1)}}
		err := a.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "users: must be >= 0")
		assert.Contains(t, err.Error(), "expectedBudget.min: must be >= 0")
	})
}

func TestUserAnswersNormalize(t *testing.T) {
	t.Parallel()

	a := UserAnswers{
		Priorities:   []Priority{PriorityRisk, PriorityTrading, PriorityRisk},
		Integrations: []Integration{IntegrationERP, IntegrationERP},
	}
	n := a.Normalize()
	assert.Equal(t, []Priority{PriorityRisk, PriorityTrading}, n.Priorities)
	assert.Equal(t, []Integration{IntegrationERP}, n.Integrations)
	assert.Len(t, a.Priorities, 3, "original must not be mutated")

	assert.Nil(t, UserAnswers{}.Normalize().Priorities)
}

func TestUserAnswersHelpers(t *testing.T) {
	t.Parallel()

	a := UserAnswers{
		Priorities:   []Priority{PriorityCompliance, PriorityETRM},
		Integrations: []Integration{IntegrationMarketData},
	}
	assert.True(t, a.HasPriority(PriorityETRM))
	assert.False(t, a.HasPriority(PriorityRisk))
	assert.Equal(t, []string{"Regulatory Compliance", "ETRM Integration"}, a.PriorityNames())
	assert.Equal(t, []string{"Market Data Feeds"}, a.IntegrationNames())
}
