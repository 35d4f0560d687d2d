// Package showheat renders season-by-episode rating grids as heatmap
// images. Each cell is drawn as a colored shape (rounded rectangle or
// ellipse) whose fill comes from a named colormap over the grid's value
// range, optionally annotated with the formatted rating. Output can be
// rasterized to PNG/JPEG or exported as SVG.
package showheat

import "math"

// Matrix holds an ordered grid of ratings. Rows are seasons, columns
// are episodes. Cells may be missing (unaired or unrated episodes);
// missing cells render as empty shapes and never carry annotations.
type Matrix struct {
	vals [][]float64
	rows int
	cols int
}

// Missing returns the sentinel used for absent ratings.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing-rating sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// NewMatrix builds a Matrix from rows of ratings.
// Ragged rows are padded to the widest row with missing cells.
// An empty grid yields a DataError wrapping ErrEmptyMatrix; an
// infinite rating yields a DataError locating the offending cell.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if len(rows) == 0 || cols == 0 {
		return nil, &DataError{Row: -1, Col: -1, Err: ErrEmptyMatrix}
	}

	vals := make([][]float64, len(rows))
	for i, row := range rows {
		vals[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			if j >= len(row) {
				vals[i][j] = Missing()
				continue
			}
			v := row[j]
			if math.IsInf(v, 0) {
				return nil, NewDataError(i, j, ErrBadValue)
			}
			vals[i][j] = v
		}
	}
	return &Matrix{vals: vals, rows: len(rows), cols: cols}, nil
}

// Rows returns the number of seasons.
func (m *Matrix) Rows() int {
	return m.rows
}

// Cols returns the number of episode slots per season.
func (m *Matrix) Cols() int {
	return m.cols
}

// At returns the rating at (row, col), or the missing sentinel when
// the position is out of range.
func (m *Matrix) At(row, col int) float64 {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return Missing()
	}
	return m.vals[row][col]
}

// Values returns a copy of the grid.
func (m *Matrix) Values() [][]float64 {
	out := make([][]float64, m.rows)
	for i, row := range m.vals {
		out[i] = make([]float64, m.cols)
		copy(out[i], row)
	}
	return out
}

// Range returns the minimum and maximum rating over non-missing cells.
// ok is false when every cell is missing.
func (m *Matrix) Range() (min, max float64, ok bool) {
	for _, row := range m.vals {
		for _, v := range row {
			if IsMissing(v) {
				continue
			}
			if !ok || v < min {
				min = v
			}
			if !ok || v > max {
				max = v
			}
			ok = true
		}
	}
	return min, max, ok
}

// MaskValue converts every cell equal to v into a missing cell and
// returns the matrix for chaining. Rating feeds commonly store unaired
// episodes as 0; masking keeps them from skewing the color range.
func (m *Matrix) MaskValue(v float64) *Matrix {
	if IsMissing(v) {
		return m
	}
	for _, row := range m.vals {
		for j, cell := range row {
			if cell == v {
				row[j] = Missing()
			}
		}
	}
	return m
}
