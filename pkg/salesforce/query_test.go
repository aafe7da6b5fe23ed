package salesforce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Query(ctx context.Context, soql string, out any) error {
	args := m.Called(ctx, soql, out)
	return args.Error(0)
}

func (m *MockClient) InsertOne(ctx context.Context, sObjectName string, record map[string]any) (string, error) {
	args := m.Called(ctx, sObjectName, record)
	return args.String(0), args.Error(1)
}

func TestFindIDByField(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("Query", ctx, "SELECT Id FROM CTRM_Feedback__c WHERE Record_Id__c = 'rec-1' LIMIT 1", mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(2).(*[]recordRef)
			*out = []recordRef{{ID: "a01xx"}}
		}).
		Return(nil)

	id, err := FindIDByField(ctx, mc, "CTRM_Feedback__c", "Record_Id__c", "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "a01xx", id)
	mc.AssertExpectations(t)
}

func TestFindIDByField_NotFound(t *testing.T) {
	mc := new(MockClient)
	mc.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	id, err := FindIDByField(context.Background(), mc, "CTRM_Feedback__c", "Record_Id__c", "missing")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestFindIDByField_Error(t *testing.T) {
	mc := new(MockClient)
	mc.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := FindIDByField(context.Background(), mc, "CTRM_Feedback__c", "Record_Id__c", "rec-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sf: find CTRM_Feedback__c by Record_Id__c")
}

func TestEscapeSoql(t *testing.T) {
	assert.Equal(t, `O\'Brien`, escapeSoql("O'Brien"))
	assert.Equal(t, `a\\b`, escapeSoql(`a\b`))
	assert.Equal(t, "plain", escapeSoql("plain"))
}
