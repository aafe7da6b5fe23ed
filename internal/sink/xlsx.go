package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/ctrm-fit/internal/model"
)

// DefaultSheetName names the sheet created in a new workbook.
const DefaultSheetName = "Feedback"

// XLSXSink appends records to the first sheet of a local workbook. Cells are
// placed by the sheet's header row, so columns may be reordered or extended
// by hand; unknown headers get an empty cell. A missing workbook is created
// with the standard header row.
type XLSXSink struct {
	path string
	mu   sync.Mutex
}

// NewXLSX returns an XLSXSink writing to path.
func NewXLSX(path string) *XLSXSink {
	return &XLSXSink{path: path}
}

func (s *XLSXSink) Name() string { return KindXLSX }

func (s *XLSXSink) Persist(ctx context.Context, r model.Record) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "xlsx: persist")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, sheet, err := s.open()
	if err != nil {
		return err
	}

	if len(sheet.Rows) == 0 {
		header := sheet.AddRow()
		for _, col := range model.RecordColumns {
			header.AddCell().SetString(col)
		}
	}

	values := r.Values()
	row := sheet.AddRow()
	for _, h := range sheet.Rows[0].Cells {
		setCell(row.AddCell(), values[strings.TrimSpace(h.String())])
	}

	tmp := s.path + ".tmp"
	if err := f.Save(tmp); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", s.path)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return eris.Wrapf(err, "xlsx: replace %s", s.path)
	}
	return nil
}

func (s *XLSXSink) open() (*xlsx.File, *xlsx.Sheet, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		f := xlsx.NewFile()
		sheet, err := f.AddSheet(DefaultSheetName)
		if err != nil {
			return nil, nil, eris.Wrap(err, "xlsx: add sheet")
		}
		return f, sheet, nil
	}

	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "xlsx: open %s", s.path)
	}
	if len(f.Sheets) == 0 {
		sheet, err := f.AddSheet(DefaultSheetName)
		if err != nil {
			return nil, nil, eris.Wrap(err, "xlsx: add sheet")
		}
		return f, sheet, nil
	}
	return f, f.Sheets[0], nil
}

func setCell(c *xlsx.Cell, v any) {
	switch v := v.(type) {
	case nil:
	case string:
		c.SetString(v)
	case int:
		c.SetInt(v)
	case int64:
		c.SetInt(int(v))
	default:
		c.SetString(fmt.Sprint(v))
	}
}
