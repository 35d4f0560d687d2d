package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/showheat/showheat"
)

// ErrUnsupportedFormat reports an input file whose extension maps to
// no known loader.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// FromJSON decodes a show document.
func FromJSON(r io.Reader) (*Show, error) {
	var s Show
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if len(s.Seasons) == 0 {
		return nil, &showheat.DataError{Row: -1, Col: -1, Err: showheat.ErrNoData}
	}
	return &s, nil
}

// FromYAML decodes a show document.
func FromYAML(r io.Reader) (*Show, error) {
	var s Show
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(s.Seasons) == 0 {
		return nil, &showheat.DataError{Row: -1, Col: -1, Err: showheat.ErrNoData}
	}
	return &s, nil
}

// Load reads a ratings table from path, picking the loader by file
// extension. CSV and TSV files are parsed as grids under opts; JSON
// and YAML files are parsed as show documents and flattened; xlsx
// workbooks read the sheet selected by opts.
func Load(path string, opts LoadOptions) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		t   *Table
		err error
	)
	switch ext {
	case ".csv":
		t, err = loadGridFile(path, opts)
	case ".tsv":
		tsv := opts
		tsv.Comma = '\t'
		t, err = loadGridFile(path, tsv)
	case ".json":
		t, err = loadShowFile(path, opts, FromJSON)
	case ".yaml", ".yml":
		t, err = loadShowFile(path, opts, FromYAML)
	case ".xlsx":
		t, err = FromWorkbook(path, opts)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

func loadGridFile(path string, opts LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromCSV(f, opts)
}

func loadShowFile(path string, opts LoadOptions, decode func(io.Reader) (*Show, error)) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := decode(f)
	if err != nil {
		return nil, err
	}
	t, err := s.Table()
	if err != nil {
		return nil, err
	}
	if opts.MaskZero {
		for _, row := range t.Cells {
			for j, v := range row {
				if v == 0 {
					row[j] = showheat.Missing()
				}
			}
		}
	}
	return t, nil
}
