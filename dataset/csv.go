package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/showheat/showheat"
)

// LoadOptions controls grid parsing for tabular sources.
type LoadOptions struct {
	// Header consumes the first row as column labels.
	Header bool
	// RowLabels consumes the first column as row labels.
	RowLabels bool
	// MaskZero converts zero ratings to missing cells. Rating feeds
	// commonly store unaired episodes as 0.
	MaskZero bool
	// Comma overrides the CSV field separator. Zero means ','.
	Comma rune
	// Sheet selects the workbook sheet. Empty means the first sheet.
	Sheet string
}

// FromCSV parses a ratings grid. Blank cells and the conventional
// "-", "na", and "n/a" markers become missing cells; any other
// non-numeric cell is a data error naming the offending position.
func FromCSV(r io.Reader, opts LoadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromGrid(records, opts)
}

// fromGrid converts raw string records into a Table. Row and column
// indices in errors refer to the data grid, after any header row and
// label column are consumed.
func fromGrid(records [][]string, opts LoadOptions) (*Table, error) {
	t := &Table{}

	if opts.Header && len(records) > 0 {
		header := records[0]
		records = records[1:]
		if opts.RowLabels && len(header) > 0 {
			header = header[1:]
		}
		t.ColLabels = append(t.ColLabels, header...)
	}
	if len(records) == 0 {
		return nil, &showheat.DataError{Row: -1, Col: -1, Err: showheat.ErrNoData}
	}

	for i, record := range records {
		if opts.RowLabels {
			label := ""
			if len(record) > 0 {
				label = strings.TrimSpace(record[0])
				record = record[1:]
			}
			t.RowLabels = append(t.RowLabels, label)
		}

		row := make([]float64, 0, len(record))
		for j, cell := range record {
			v, err := parseCell(cell)
			if err != nil {
				return nil, showheat.NewDataError(i, j, err)
			}
			if opts.MaskZero && v == 0 {
				v = showheat.Missing()
			}
			row = append(row, v)
		}
		t.Cells = append(t.Cells, row)
	}

	if len(t.RowLabels) == 0 {
		t.RowLabels = nil
	}
	if len(t.ColLabels) == 0 {
		t.ColLabels = nil
	}
	return t, nil
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "-", "na", "n/a":
		return showheat.Missing(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, showheat.ErrBadValue
	}
	return v, nil
}
