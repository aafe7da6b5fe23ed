package sink

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotion struct {
	mock.Mock
}

func (m *mockNotion) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

func (m *mockNotion) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func TestNotion_CreatesPage(t *testing.T) {
	m := new(mockNotion)
	m.On("QueryDatabase", mock.Anything, "db-1", mock.Anything).
		Return(&notionapi.DatabaseQueryResponse{}, nil)

	var req *notionapi.PageCreateRequest
	m.On("CreatePage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { req = args.Get(1).(*notionapi.PageCreateRequest) }).
		Return(&notionapi.Page{ID: "page-1"}, nil)

	require.NoError(t, NewNotion(m, "db-1").Persist(context.Background(), testRecord("rec-1")))
	require.NotNil(t, req)

	assert.Equal(t, notionapi.DatabaseID("db-1"), req.Parent.DatabaseID)
	props := req.Properties

	title := props[propName].(notionapi.TitleProperty)
	assert.Equal(t, "Openlink / TriplePoint", title.Title[0].Text.Content)
	assert.Equal(t, "rec-1", props[propRecordID].(notionapi.RichTextProperty).RichText[0].Text.Content)
	assert.Equal(t, "inaccurate", props[propRating].(notionapi.SelectProperty).Select.Name)
	assert.Equal(t, "triplepoint", props[propCorrectIdeal].(notionapi.SelectProperty).Select.Name)
	assert.Equal(t, 1_200_000.0, props[propBudgetMin].(notionapi.NumberProperty).Number)

	prios := props[propPriorities].(notionapi.MultiSelectProperty).MultiSelect
	require.Len(t, prios, 2)
	assert.Equal(t, "Risk", prios[0].Name)
	assert.Equal(t, "Regulatory Compliance", prios[1].Name)

	assert.NotContains(t, props, propBudgetMax)
	assert.NotContains(t, props, propSuggestion)
	assert.NotContains(t, props, propCurrentSystem)
}

func TestNotion_SkipsExisting(t *testing.T) {
	m := new(mockNotion)
	m.On("QueryDatabase", mock.Anything, "db-1", mock.Anything).
		Return(&notionapi.DatabaseQueryResponse{Results: []notionapi.Page{{ID: "page-old"}}}, nil)

	require.NoError(t, NewNotion(m, "db-1").Persist(context.Background(), testRecord("rec-1")))
	m.AssertNotCalled(t, "CreatePage", mock.Anything, mock.Anything)
}

func TestNotion_CreateError(t *testing.T) {
	m := new(mockNotion)
	m.On("QueryDatabase", mock.Anything, "db-1", mock.Anything).
		Return(&notionapi.DatabaseQueryResponse{}, nil)
	m.On("CreatePage", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	err := NewNotion(m, "db-1").Persist(context.Background(), testRecord("rec-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion: create page for record rec-1")
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList("  "))
	assert.Equal(t, []string{"ERP"}, splitList("ERP"))
}
