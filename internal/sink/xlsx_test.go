package sink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/ctrm-fit/internal/model"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, f.Sheets)

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.String()
		}
		rows = append(rows, cells)
	}
	return rows
}

func TestXLSX_CreatesWorkbookWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.xlsx")
	s := NewXLSX(path)

	require.NoError(t, s.Persist(context.Background(), testRecord("rec-1")))
	require.NoError(t, s.Persist(context.Background(), testRecord("rec-2")))

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, model.RecordColumns, rows[0])

	col := func(name string) int {
		for i, h := range rows[0] {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %s missing", name)
		return -1
	}
	assert.Equal(t, "rec-1", rows[1][col("recordId")])
	assert.Equal(t, "rec-2", rows[2][col("recordId")])
	assert.Equal(t, "500", rows[1][col("users")])
	assert.Equal(t, "Openlink", rows[1][col("originalIdealProduct")])
	assert.Empty(t, rows[1][col("budgetMax")])
}

func TestXLSX_FollowsExistingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	header := sheet.AddRow()
	for _, h := range []string{"feedbackRating", "notes", "recordId"} {
		header.AddCell().SetString(h)
	}
	require.NoError(t, f.Save(path))

	require.NoError(t, NewXLSX(path).Persist(context.Background(), testRecord("rec-9")))

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"inaccurate", "", "rec-9"}, rows[1])
}

func TestXLSX_CancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.xlsx")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewXLSX(path).Persist(ctx, testRecord("rec-1"))
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestXLSX_UnwritableDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "feedback.xlsx")
	err := NewXLSX(path).Persist(context.Background(), testRecord("rec-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx: save")
}
