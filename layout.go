package showheat

import (
	"fmt"
	"image"
	"math"
)

// textMeasurer reports the rendered width and line height of a string
// in the given font, in pixels. The raster path measures with real
// faces; the vector path estimates from the point size.
type textMeasurer func(f *Font, s string) (w, h int)

// pointToPx converts a point size to pixels at the given DPI.
func pointToPx(pt, dpi float64) float64 {
	return pt * dpi / 72.0
}

// layout fixes the pixel geometry of one figure: the label gutters on
// the top and left edges, the cell grid, and the optional colorbar.
type layout struct {
	cell   int
	rows   int
	cols   int
	left   int // grid origin x
	top    int // grid origin y
	width  int
	height int
	pad    int
	bar    image.Rectangle // colorbar; zero when disabled
}

// computeLayout sizes the figure. Gutters collapse to the base padding
// when an axis has no visible labels, so unlabeled figures stay tight.
func computeLayout(rows, cols, cell int, opts *Options, barLabels []string, measure textMeasurer) layout {
	pad := cell / 8
	if pad < 4 {
		pad = 4
	}

	maxYW := 0
	for _, s := range opts.YLabels {
		if s == "" {
			continue
		}
		w, _ := measure(opts.YLabelFont, s)
		if w > maxYW {
			maxYW = w
		}
	}
	left := pad
	if maxYW > 0 {
		left = pad + maxYW + pad
	}

	maxXH := 0
	rad := opts.XLabelRotation * math.Pi / 180
	for _, s := range opts.XLabels {
		if s == "" {
			continue
		}
		w, h := measure(opts.XLabelFont, s)
		bh := h
		if opts.XLabelRotation != 0 {
			bh = int(math.Ceil(math.Abs(math.Sin(rad))*float64(w) + math.Abs(math.Cos(rad))*float64(h)))
		}
		if bh > maxXH {
			maxXH = bh
		}
	}
	top := pad
	if maxXH > 0 {
		top = pad + maxXH + pad
	}

	l := layout{
		cell:   cell,
		rows:   rows,
		cols:   cols,
		left:   left,
		top:    top,
		width:  left + cols*cell + pad,
		height: top + rows*cell + pad,
		pad:    pad,
	}

	if opts.ShowColorbar {
		barW := cell / 3
		if barW < 8 {
			barW = 8
		}
		maxLabW := 0
		for _, s := range barLabels {
			w, _ := measure(opts.XLabelFont, s)
			if w > maxLabW {
				maxLabW = w
			}
		}
		x0 := l.left + cols*cell + pad
		l.bar = image.Rect(x0, l.top, x0+barW, l.top+rows*cell)
		l.width = l.bar.Max.X + pad + maxLabW + pad
	}

	return l
}

// cellRect returns the grid cell at (row, col).
func (l layout) cellRect(row, col int) image.Rectangle {
	x := l.left + col*l.cell
	y := l.top + row*l.cell
	return image.Rect(x, y, x+l.cell, y+l.cell)
}

// defaultColLabels generates episode labels "E1".."En".
func defaultColLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("E%d", i+1)
	}
	return out
}

// defaultRowLabels generates season labels "S1".."Sm".
func defaultRowLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("S%d", i+1)
	}
	return out
}
