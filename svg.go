package showheat

import (
	"fmt"
	"html/template"
	"io"
	"math"
)

// WriteSVG renders the matrix as a vector heatmap. Geometry matches
// the raster output at Oversample 1; text metrics are estimated from
// the point size since the viewer resolves fonts itself.
func WriteSVG(w io.Writer, m *Matrix, opts *Options) error {
	opts, cm, min, max, err := prepare(m, opts)
	if err != nil {
		return err
	}

	var barLabels []string
	if opts.ShowColorbar {
		barLabels = []string{
			fmt.Sprintf(opts.ValueFormat, max),
			fmt.Sprintf(opts.ValueFormat, min),
		}
	}

	lay := computeLayout(m.rows, m.cols, opts.CellSize, opts, barLabels, estimateText)
	doc := buildSVGDoc(lay, m, opts, cm, min, max, barLabels)
	return svgTmpl.Execute(w, doc)
}

// estimateText approximates text extent without loading fonts; SVG
// viewers lay out the real glyphs.
func estimateText(f *Font, s string) (int, int) {
	size := pointToPx(float64(f.Size), 96)
	w := int(math.Ceil(0.6 * size * float64(len([]rune(s)))))
	h := int(math.Ceil(1.25 * size))
	return w, h
}

// --- view models ---

type svgDoc struct {
	Width      int
	Height     int
	Background string
	Cells      []svgCell
	Texts      []svgText
	Bar        *svgBar
}

type svgCell struct {
	Ellipse        bool
	X, Y, W, H, R  float64
	CX, CY, RX, RY float64
	Fill           string
	Stroke         string
	StrokeWidth    int
}

type svgText struct {
	X, Y      float64
	Text      string
	Anchor    string
	Baseline  string
	Transform string
	Font      svgFont
}

type svgFont struct {
	Family string
	Size   float64
	Weight string
	Style  string
	Fill   string
}

type svgBar struct {
	X, Y, W, H  float64
	Stops       []svgStop
	Stroke      string
	StrokeWidth int
}

type svgStop struct {
	Offset string
	Color  string
}

func makeSVGFont(f *Font) svgFont {
	family := f.Name
	if family == "" {
		family = "DejaVu Sans"
	}
	weight := "normal"
	if f.Bold {
		weight = "bold"
	}
	style := "normal"
	if f.Italic {
		style = "italic"
	}
	return svgFont{
		Family: family,
		Size:   round2(pointToPx(float64(f.Size), 96)),
		Weight: weight,
		Style:  style,
		Fill:   f.Color.Hex(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func buildSVGDoc(lay layout, m *Matrix, opts *Options, cm Colormap, min, max float64, barLabels []string) svgDoc {
	doc := svgDoc{
		Width:      lay.width,
		Height:     lay.height,
		Background: opts.Background.Hex(),
	}
	valueFont := makeSVGFont(opts.ValueFont)
	xFont := makeSVGFont(opts.XLabelFont)
	yFont := makeSVGFont(opts.YLabelFont)

	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			rect := lay.cellRect(row, col)
			v := m.vals[row][col]

			fill := opts.MissingFill.Hex()
			if !IsMissing(v) {
				fill = cm.HexAt(normalizeValue(v, min, max))
			}

			s := shapeForCell(opts.Shape, float64(rect.Min.X), float64(rect.Min.Y), float64(lay.cell), opts)
			cell := svgCell{
				Fill:        fill,
				Stroke:      opts.OutlineColor.Hex(),
				StrokeWidth: opts.OutlineWidth,
			}
			if s.kind == ShapeEllipse {
				cell.Ellipse = true
				cell.RX = round2(s.w / 2)
				cell.RY = round2(s.h / 2)
				cell.CX = round2(s.x + s.w/2)
				cell.CY = round2(s.y + s.h/2)
			} else {
				cell.X = round2(s.x)
				cell.Y = round2(s.y)
				cell.W = round2(s.w)
				cell.H = round2(s.h)
				cell.R = round2(s.radius)
			}
			doc.Cells = append(doc.Cells, cell)

			if opts.Annotate && !IsMissing(v) {
				doc.Texts = append(doc.Texts, svgText{
					X:        float64(rect.Min.X + lay.cell/2),
					Y:        float64(rect.Min.Y + lay.cell/2),
					Text:     fmt.Sprintf(opts.ValueFormat, v),
					Anchor:   "middle",
					Baseline: "central",
					Font:     valueFont,
				})
			}
		}
	}

	for row := 0; row < m.rows; row++ {
		s := labelAt(opts.YLabels, row)
		if s == "" {
			continue
		}
		doc.Texts = append(doc.Texts, svgText{
			X:        float64(lay.left - lay.pad),
			Y:        float64(lay.top + row*lay.cell + lay.cell/2),
			Text:     s,
			Anchor:   "end",
			Baseline: "central",
			Font:     yFont,
		})
	}

	for col := 0; col < m.cols; col++ {
		s := labelAt(opts.XLabels, col)
		if s == "" {
			continue
		}
		cx := float64(lay.left + col*lay.cell + lay.cell/2)
		y := float64(lay.top - lay.pad)
		t := svgText{
			X:      cx,
			Y:      y,
			Text:   s,
			Anchor: "middle",
			Font:   xFont,
		}
		if opts.XLabelRotation != 0 {
			t.Transform = fmt.Sprintf("rotate(%v %v %v)", round2(-opts.XLabelRotation), cx, y)
			t.Anchor = "start"
		}
		doc.Texts = append(doc.Texts, t)
	}

	if opts.ShowColorbar && !lay.bar.Empty() {
		bar := &svgBar{
			X:           float64(lay.bar.Min.X),
			Y:           float64(lay.bar.Min.Y),
			W:           float64(lay.bar.Dx()),
			H:           float64(lay.bar.Dy()),
			Stroke:      opts.OutlineColor.Hex(),
			StrokeWidth: opts.OutlineWidth,
		}
		n := len(cm.stops)
		for i, stop := range cm.stops {
			offset := 0.0
			if n > 1 {
				offset = float64(i) / float64(n-1)
			}
			bar.Stops = append(bar.Stops, svgStop{
				Offset: fmt.Sprintf("%.1f%%", offset*100),
				Color:  stop.Clamped().Hex(),
			})
		}
		doc.Bar = bar

		_, lineH := estimateText(opts.XLabelFont, "0")
		x := float64(lay.bar.Max.X + lay.pad/2)
		if len(barLabels) > 0 && barLabels[0] != "" {
			doc.Texts = append(doc.Texts, svgText{
				X: x, Y: float64(lay.bar.Min.Y + lineH), Text: barLabels[0], Anchor: "start", Font: xFont,
			})
		}
		if len(barLabels) > 1 && barLabels[1] != "" {
			doc.Texts = append(doc.Texts, svgText{
				X: x, Y: float64(lay.bar.Max.Y), Text: barLabels[1], Anchor: "start", Font: xFont,
			})
		}
	}

	return doc
}

var svgTmpl = template.Must(template.New("heatmap").Parse(svgTemplate))

const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
{{- if .Bar}}
  <defs>
    <linearGradient id="ramp" x1="0" y1="1" x2="0" y2="0">
{{- range .Bar.Stops}}
      <stop offset="{{.Offset}}" stop-color="{{.Color}}"/>
{{- end}}
    </linearGradient>
  </defs>
{{- end}}
  <rect width="{{.Width}}" height="{{.Height}}" fill="{{.Background}}"/>
{{- range .Cells}}
{{- if .Ellipse}}
  <ellipse cx="{{.CX}}" cy="{{.CY}}" rx="{{.RX}}" ry="{{.RY}}" fill="{{.Fill}}" stroke="{{.Stroke}}" stroke-width="{{.StrokeWidth}}"/>
{{- else}}
  <rect x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" rx="{{.R}}" fill="{{.Fill}}" stroke="{{.Stroke}}" stroke-width="{{.StrokeWidth}}"/>
{{- end}}
{{- end}}
{{- if .Bar}}
  <rect x="{{.Bar.X}}" y="{{.Bar.Y}}" width="{{.Bar.W}}" height="{{.Bar.H}}" fill="url(#ramp)" stroke="{{.Bar.Stroke}}" stroke-width="{{.Bar.StrokeWidth}}"/>
{{- end}}
{{- range .Texts}}
  <text x="{{.X}}" y="{{.Y}}" fill="{{.Font.Fill}}" font-family="{{.Font.Family}}" font-size="{{.Font.Size}}" font-weight="{{.Font.Weight}}" font-style="{{.Font.Style}}" text-anchor="{{.Anchor}}"{{if .Baseline}} dominant-baseline="{{.Baseline}}"{{end}}{{if .Transform}} transform="{{.Transform}}"{{end}}>{{.Text}}</text>
{{- end}}
</svg>
`
