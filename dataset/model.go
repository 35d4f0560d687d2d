// Package dataset loads season-by-episode ratings from CSV, TSV,
// JSON, YAML, and XLSX sources and converts them into renderable
// matrices. Structured documents describe a Show; tabular sources
// parse into a bare labeled grid.
package dataset

import (
	"fmt"

	"github.com/showheat/showheat"
)

// Show represents a TV show with its per-season episode ratings.
type Show struct {
	Title   string   `json:"title" yaml:"title"`
	Year    int      `json:"year,omitempty" yaml:"year,omitempty"`
	Seasons []Season `json:"seasons" yaml:"seasons"`
}

// Season groups the rated episodes of one broadcast season.
type Season struct {
	Number   int       `json:"number" yaml:"number"`
	Episodes []Episode `json:"episodes" yaml:"episodes"`
}

// Episode carries one episode's rating. A nil Rating means the
// episode is unaired or unrated and renders as a missing cell.
type Episode struct {
	Number int      `json:"number" yaml:"number"`
	Title  string   `json:"title,omitempty" yaml:"title,omitempty"`
	Rating *float64 `json:"rating" yaml:"rating"`
}

// maxEpisodeSlots bounds the episode number accepted in a season, so
// a typo in a document cannot allocate an absurd grid.
const maxEpisodeSlots = 1000

// Table is a labeled ratings grid ready for rendering: rows are
// seasons, columns are episode slots, missing cells are the showheat
// missing sentinel.
type Table struct {
	Title     string
	RowLabels []string
	ColLabels []string
	Cells     [][]float64
}

// Table flattens the show into a grid. Episodes with a positive
// Number land in that episode slot; unnumbered episodes fall back to
// their list position. Seasons shorter than the widest one pad with
// missing cells.
func (s *Show) Table() (*Table, error) {
	if len(s.Seasons) == 0 {
		return nil, &showheat.DataError{Row: -1, Col: -1, Err: showheat.ErrNoData}
	}

	width := 0
	for i, season := range s.Seasons {
		n := len(season.Episodes)
		for j, ep := range season.Episodes {
			if ep.Number > maxEpisodeSlots {
				return nil, showheat.NewDataError(i, j, showheat.ErrBadValue)
			}
			if ep.Number > n {
				n = ep.Number
			}
		}
		if n > width {
			width = n
		}
	}
	if width == 0 {
		return nil, &showheat.DataError{Row: -1, Col: -1, Err: showheat.ErrNoData}
	}

	t := &Table{
		Title:     s.Title,
		RowLabels: make([]string, len(s.Seasons)),
		ColLabels: episodeLabels(width),
		Cells:     make([][]float64, len(s.Seasons)),
	}
	for i, season := range s.Seasons {
		t.RowLabels[i] = seasonLabel(season.Number, i)
		row := make([]float64, width)
		for j := range row {
			row[j] = showheat.Missing()
		}
		for j, ep := range season.Episodes {
			idx := j
			if ep.Number > 0 {
				idx = ep.Number - 1
			}
			if ep.Rating != nil {
				row[idx] = *ep.Rating
			}
		}
		t.Cells[i] = row
	}
	return t, nil
}

// Matrix converts the grid into a showheat matrix.
func (t *Table) Matrix() (*showheat.Matrix, error) {
	return showheat.NewMatrix(t.Cells)
}

// Options returns rendering options carrying the table's labels,
// applied over the given base (nil means DefaultOptions).
func (t *Table) Options(base *showheat.Options) *showheat.Options {
	if base == nil {
		base = showheat.DefaultOptions()
	}
	if len(t.RowLabels) > 0 {
		base.YLabels = t.RowLabels
	}
	if len(t.ColLabels) > 0 {
		base.XLabels = t.ColLabels
	}
	return base
}

func seasonLabel(number, index int) string {
	if number > 0 {
		return fmt.Sprintf("S%d", number)
	}
	return fmt.Sprintf("S%d", index+1)
}

func episodeLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("E%d", i+1)
	}
	return out
}
