package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/showheat/showheat"
)

// FromWorkbook reads a ratings grid from an xlsx workbook. The sheet
// named in opts.Sheet is used, or the first sheet when empty. Cell
// values go through the same grid conventions as FromCSV.
func FromWorkbook(path string, opts LoadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &showheat.DataError{Row: -1, Col: -1, Err: showheat.ErrNoData}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromGrid(rows, opts)
}
