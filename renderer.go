package showheat

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Render draws the matrix as a heatmap image. Every cell becomes one
// shape, filled from the colormap across the matrix value range and
// optionally annotated with the formatted rating. Missing cells keep
// the MissingFill color and are never annotated. Axis labels run along
// the top and left edges.
func Render(m *Matrix, opts *Options) (image.Image, error) {
	opts, cm, min, max, err := prepare(m, opts)
	if err != nil {
		return nil, err
	}

	scale := opts.Oversample
	cell := opts.CellSize * scale

	r := &renderer{
		scale: float64(scale),
		dpi:   opts.DPI,
		fonts: opts.FontCache,
	}
	if r.fonts == nil {
		r.fonts = NewFontCache(opts.FontDirs...)
	}

	var barLabels []string
	if opts.ShowColorbar {
		barLabels = []string{
			fmt.Sprintf(opts.ValueFormat, max),
			fmt.Sprintf(opts.ValueFormat, min),
		}
	}

	lay := computeLayout(m.rows, m.cols, cell, opts, barLabels, r.measureText)

	r.img = image.NewRGBA(image.Rect(0, 0, lay.width, lay.height))
	draw.Draw(r.img, r.img.Bounds(), &image.Uniform{argbToRGBA(opts.Background)}, image.Point{}, draw.Src)

	r.drawAxisLabels(lay, opts)
	r.drawCells(lay, m, opts, cm, min, max)
	if opts.ShowColorbar {
		r.drawColorbar(lay, opts, cm, barLabels)
	}

	if scale > 1 {
		return imaging.Resize(r.img, lay.width/scale, lay.height/scale, imaging.Lanczos), nil
	}
	return r.img, nil
}

// prepare validates the matrix and options and resolves the state
// shared by the raster and vector paths: normalized options with
// generated labels, the colormap, and the color domain.
func prepare(m *Matrix, opts *Options) (*Options, Colormap, float64, float64, error) {
	if m == nil || m.rows == 0 || m.cols == 0 {
		return nil, Colormap{}, 0, 0, &DataError{Row: -1, Col: -1, Err: ErrEmptyMatrix}
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	opts = opts.normalized()
	if err := opts.Validate(); err != nil {
		return nil, Colormap{}, 0, 0, err
	}
	if !opts.Shape.valid() {
		return nil, Colormap{}, 0, 0, NewConfigError("shape", string(opts.Shape), ErrUnknownShape)
	}
	cm, err := ColormapByName(opts.Colormap)
	if err != nil {
		return nil, Colormap{}, 0, 0, err
	}
	if opts.XLabels == nil {
		opts.XLabels = defaultColLabels(m.cols)
	}
	if opts.YLabels == nil {
		opts.YLabels = defaultRowLabels(m.rows)
	}

	min, max, _ := m.Range()
	if opts.DomainMin != nil {
		min = *opts.DomainMin
	}
	if opts.DomainMax != nil {
		max = *opts.DomainMax
	}
	return opts, cm, min, max, nil
}

// normalizeValue maps v onto [0, 1] across the value range. A
// degenerate range maps to 1 so uniform grids keep the full ramp color.
func normalizeValue(v, min, max float64) float64 {
	if max <= min {
		return 1
	}
	return (v - min) / (max - min)
}

func labelAt(labels []string, i int) string {
	if i < 0 || i >= len(labels) {
		return ""
	}
	return labels[i]
}

// --- renderer ---

type renderer struct {
	img   *image.RGBA
	scale float64
	dpi   float64
	fonts *FontCache
}

// measureText reports rendered text extent with the resolved face.
func (r *renderer) measureText(f *Font, s string) (int, int) {
	face := r.getFace(f)
	return font.MeasureString(face, s).Ceil(), face.Metrics().Height.Ceil()
}

func (r *renderer) drawCells(lay layout, m *Matrix, opts *Options, cm Colormap, min, max float64) {
	outline := argbToRGBA(opts.OutlineColor)
	missing := argbToRGBA(opts.MissingFill)
	outlineW := float64(opts.OutlineWidth) * r.scale
	valueFace := r.getFace(opts.ValueFont)
	valueColor := argbToRGBA(opts.ValueFont.Color)

	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			rect := lay.cellRect(row, col)
			v := m.vals[row][col]

			fill := missing
			if !IsMissing(v) {
				fill = cm.At(normalizeValue(v, min, max))
			}

			shape := shapeForCell(opts.Shape, float64(rect.Min.X), float64(rect.Min.Y), float64(lay.cell), opts)
			r.fillShape(shape, fill, outline, outlineW)

			if opts.Annotate && !IsMissing(v) {
				r.drawStringCentered(fmt.Sprintf(opts.ValueFormat, v), valueFace, valueColor, rect)
			}
		}
	}
}

// fillShape rasterizes one cell figure in a single scanline pass,
// painting the outline band where the shrunken shape no longer covers
// the pixel.
func (r *renderer) fillShape(s cellShape, fill, outline color.RGBA, outlineW float64) {
	inner := s
	if outlineW > 0 {
		inner = s.shrink(outlineW)
	}
	x0 := int(math.Floor(s.x))
	y0 := int(math.Floor(s.y))
	x1 := int(math.Ceil(s.x + s.w))
	y1 := int(math.Ceil(s.y + s.h))

	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			if !s.contains(px, py) {
				continue
			}
			if outlineW > 0 && !inner.contains(px, py) {
				r.setPixel(px, py, outline)
			} else {
				r.setPixel(px, py, fill)
			}
		}
	}
}

func (r *renderer) drawAxisLabels(lay layout, opts *Options) {
	yFace := r.getFace(opts.YLabelFont)
	yColor := argbToRGBA(opts.YLabelFont.Color)
	for row := 0; row < lay.rows; row++ {
		s := labelAt(opts.YLabels, row)
		if s == "" {
			continue
		}
		w := font.MeasureString(yFace, s).Ceil()
		lineH := yFace.Metrics().Height.Ceil()
		rect := lay.cellRect(row, 0)
		x := lay.left - lay.pad - w
		y := rect.Min.Y + (lay.cell+lineH)/2
		r.drawString(s, yFace, yColor, x, y)
	}

	xFace := r.getFace(opts.XLabelFont)
	xColor := argbToRGBA(opts.XLabelFont.Color)
	for col := 0; col < lay.cols; col++ {
		s := labelAt(opts.XLabels, col)
		if s == "" {
			continue
		}
		if opts.XLabelRotation != 0 {
			r.drawRotatedLabel(s, xFace, xColor, lay, col, opts.XLabelRotation)
			continue
		}
		rect := image.Rect(lay.left+col*lay.cell, 0, lay.left+(col+1)*lay.cell, lay.top)
		r.drawStringCentered(s, xFace, xColor, rect)
	}
}

// drawRotatedLabel renders the label to a scratch layer, rotates it,
// and composites it above the column.
func (r *renderer) drawRotatedLabel(s string, face font.Face, c color.RGBA, lay layout, col int, deg float64) {
	w := font.MeasureString(face, s).Ceil()
	metrics := face.Metrics()
	h := metrics.Height.Ceil()
	if w <= 0 || h <= 0 {
		return
	}

	scratch := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  scratch,
		Src:  &image.Uniform{c},
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(s)

	rotated := transform.Rotate(scratch, -deg, &transform.RotationOptions{ResizeBounds: true})
	rb := rotated.Bounds()
	cx := lay.left + col*lay.cell + lay.cell/2
	x := cx - rb.Dx()/2
	y := lay.top - lay.pad - rb.Dy()
	dst := image.Rect(x, y, x+rb.Dx(), y+rb.Dy())
	draw.Draw(r.img, dst, rotated, rb.Min, draw.Over)
}

func (r *renderer) drawColorbar(lay layout, opts *Options, cm Colormap, labels []string) {
	bar := lay.bar
	if bar.Empty() {
		return
	}

	denom := bar.Dy() - 1
	if denom < 1 {
		denom = 1
	}
	for py := bar.Min.Y; py < bar.Max.Y; py++ {
		t := 1 - float64(py-bar.Min.Y)/float64(denom)
		c := cm.At(t)
		for px := bar.Min.X; px < bar.Max.X; px++ {
			r.setPixel(px, py, c)
		}
	}
	if opts.OutlineWidth > 0 {
		r.drawRect(bar, argbToRGBA(opts.OutlineColor), int(r.scale))
	}

	face := r.getFace(opts.XLabelFont)
	c := argbToRGBA(opts.XLabelFont.Color)
	lineH := face.Metrics().Height.Ceil()
	x := bar.Max.X + lay.pad/2
	if len(labels) > 0 && labels[0] != "" {
		r.drawString(labels[0], face, c, x, bar.Min.Y+lineH)
	}
	if len(labels) > 1 && labels[1] != "" {
		r.drawString(labels[1], face, c, x, bar.Max.Y-lineH/4)
	}
}

// --- Drawing primitives ---

func (r *renderer) drawRect(rect image.Rectangle, c color.RGBA, width int) {
	for i := 0; i < width; i++ {
		// Top
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r.setPixel(x, rect.Min.Y+i, c)
		}
		// Bottom
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r.setPixel(x, rect.Max.Y-1-i, c)
		}
		// Left
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			r.setPixel(rect.Min.X+i, y, c)
		}
		// Right
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			r.setPixel(rect.Max.X-1-i, y, c)
		}
	}
}

func (r *renderer) setPixel(x, y int, c color.RGBA) {
	bounds := r.img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		r.img.SetRGBA(x, y, c)
	}
}

// --- Text rendering ---

// getFace returns a TrueType font.Face for the given Font, falling back to basicfont.
func (r *renderer) getFace(f *Font) font.Face {
	if f == nil {
		f = NewFont()
	}
	sizePt := float64(f.Size)
	if sizePt <= 0 {
		sizePt = 10
	}
	// Scale the point size by the oversample factor so text keeps its
	// proportion after the final downsample.
	scaledPt := pointToPx(sizePt, r.dpi) * r.scale

	name := f.Name
	if name == "" {
		name = "DejaVu Sans"
	}

	face := r.fonts.GetFace(name, scaledPt, f.Bold, f.Italic)
	if face != nil {
		return face
	}

	// Try common fallbacks
	for _, fallback := range []string{"dejavu sans", "arial", "helvetica", "liberation sans", "noto sans"} {
		face = r.fonts.GetFace(fallback, scaledPt, f.Bold, f.Italic)
		if face != nil {
			return face
		}
	}

	return basicfont.Face7x13
}

func (r *renderer) drawString(text string, face font.Face, c color.RGBA, x, y int) {
	d := &font.Drawer{
		Dst:  r.img,
		Src:  &image.Uniform{c},
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func (r *renderer) drawStringCentered(text string, face font.Face, c color.RGBA, rect image.Rectangle) {
	textW := font.MeasureString(face, text).Ceil()
	lineH := face.Metrics().Height.Ceil()
	x := rect.Min.X + (rect.Dx()-textW)/2
	y := rect.Min.Y + (rect.Dy()+lineH)/2

	d := &font.Drawer{
		Dst:  r.img,
		Src:  &image.Uniform{c},
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
