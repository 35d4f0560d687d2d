package showheat

import (
	"errors"
	"image"
	"testing"

	"golang.org/x/image/font"
)

// quietOpts renders with default geometry but no labels or
// annotations, so the grid origin is fixed by the cell padding alone
// and cell probes stay exact.
func quietOpts(rows, cols int) *Options {
	opts := DefaultOptions()
	opts.Annotate = false
	opts.XLabels = make([]string, cols)
	opts.YLabels = make([]string, rows)
	return opts
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func sumAt(img image.Image, x, y int) int {
	r, g, b := rgbAt(img, x, y)
	return int(r) + int(g) + int(b)
}

func TestRender_Size(t *testing.T) {
	m, _ := NewMatrix([][]float64{
		{8.5, 7.9},
		{9.0, 6.1},
	})
	img, err := Render(m, quietOpts(2, 2))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// cell 96, padding 12 per edge, no label gutters
	if img.Bounds().Dx() != 216 {
		t.Errorf("expected width 216, got %d", img.Bounds().Dx())
	}
	if img.Bounds().Dy() != 216 {
		t.Errorf("expected height 216, got %d", img.Bounds().Dy())
	}

	// The figure margin keeps the background color
	r, g, b := rgbAt(img, 2, 2)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("expected black margin, got %d,%d,%d", r, g, b)
	}
}

func TestRender_CellColors(t *testing.T) {
	m, _ := NewMatrix([][]float64{
		{8.5, 7.9},
		{9.0, 6.1},
	})
	img, err := Render(m, quietOpts(2, 2))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Cell centers, top-left cell at (12,12)
	centers := map[string][2]int{
		"0,0": {60, 60},
		"0,1": {156, 60},
		"1,0": {60, 156},
		"1,1": {156, 156},
	}

	// The maximum lands on the darkest ramp anchor
	r, g, b := rgbAt(img, centers["1,0"][0], centers["1,0"][1])
	if r != 0x08 || g != 0x30 || b != 0x6B {
		t.Errorf("max cell = #%02x%02x%02x, want #08306b", r, g, b)
	}
	// The minimum lands on the lightest anchor
	r, g, b = rgbAt(img, centers["1,1"][0], centers["1,1"][1])
	if r != 0xF7 || g != 0xFB || b != 0xFF {
		t.Errorf("min cell = #%02x%02x%02x, want #f7fbff", r, g, b)
	}

	// Fill darkness follows the rating order: 9.0 > 8.5 > 7.9 > 6.1
	s90 := sumAt(img, 60, 156)
	s85 := sumAt(img, 60, 60)
	s79 := sumAt(img, 156, 60)
	s61 := sumAt(img, 156, 156)
	if !(s90 < s85 && s85 < s79 && s79 < s61) {
		t.Errorf("fill sums not ordered by rating: %d %d %d %d", s90, s85, s79, s61)
	}
}

func TestRender_NilOptions(t *testing.T) {
	m, _ := NewMatrix([][]float64{{1, 2}})
	img, err := Render(m, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// Generated labels widen the figure beyond the bare grid
	if img.Bounds().Dx() <= 2*96+24 {
		t.Errorf("expected label gutters, width %d", img.Bounds().Dx())
	}
}

func TestRender_EmptyMatrix(t *testing.T) {
	_, err := Render(nil, nil)
	if err == nil {
		t.Fatal("expected error for nil matrix")
	}
	var de *DataError
	if !errors.As(err, &de) {
		t.Fatalf("expected DataError, got %T", err)
	}
	if !errors.Is(err, ErrEmptyMatrix) {
		t.Errorf("expected ErrEmptyMatrix, got %v", err)
	}
}

func TestRender_MissingCell(t *testing.T) {
	m, _ := NewMatrix([][]float64{{8.5, Missing()}})
	opts := quietOpts(1, 2)
	opts.Annotate = true
	img, err := Render(m, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Missing cells take the missing fill and carry no annotation
	r, g, b := rgbAt(img, 156, 60)
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("missing cell = %d,%d,%d, want white", r, g, b)
	}

	// A degenerate value range maps the value onto the ramp top
	r, g, b = rgbAt(img, 60, 60)
	if r != 0x08 || g != 0x30 || b != 0x6B {
		t.Errorf("uniform cell = #%02x%02x%02x, want #08306b", r, g, b)
	}
}

func TestRender_AllMissing(t *testing.T) {
	m, _ := NewMatrix([][]float64{{Missing(), Missing()}})
	img, err := Render(m, quietOpts(1, 2))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	r, g, b := rgbAt(img, 60, 60)
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("missing cell = %d,%d,%d, want white", r, g, b)
	}
}

func TestRender_AnnotationToggle(t *testing.T) {
	m, _ := NewMatrix([][]float64{{5}})

	plain, err := Render(m, quietOpts(1, 1))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	opts := quietOpts(1, 1)
	opts.Annotate = true
	annotated, err := Render(m, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	diff := 0
	b := plain.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if plain.At(x, y) != annotated.At(x, y) {
				diff++
			}
		}
	}
	if diff == 0 {
		t.Error("annotation left no pixels behind")
	}
}

func TestRender_ShapeKinds(t *testing.T) {
	m, _ := NewMatrix([][]float64{{5}})

	rectOpts := quietOpts(1, 1)
	rectOpts.Shape = ShapeRectangle
	rectImg, err := Render(m, rectOpts)
	if err != nil {
		t.Fatalf("Render rectangle: %v", err)
	}

	ellipseOpts := quietOpts(1, 1)
	ellipseOpts.Shape = ShapeEllipse
	ellipseImg, err := Render(m, ellipseOpts)
	if err != nil {
		t.Fatalf("Render ellipse: %v", err)
	}

	// Both shapes fill the cell center
	for _, img := range []image.Image{rectImg, ellipseImg} {
		r, g, b := rgbAt(img, 60, 60)
		if r != 0x08 || g != 0x30 || b != 0x6B {
			t.Errorf("center = #%02x%02x%02x, want #08306b", r, g, b)
		}
	}

	// Near the corner the rounded rectangle still covers the pixel,
	// the ellipse already fell back to the background
	r, g, b := rgbAt(rectImg, 90, 29)
	if r != 0x08 || g != 0x30 || b != 0x6B {
		t.Errorf("rect corner probe = #%02x%02x%02x, want fill", r, g, b)
	}
	r, g, b = rgbAt(ellipseImg, 90, 29)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("ellipse corner probe = #%02x%02x%02x, want background", r, g, b)
	}
}

func TestRender_Outline(t *testing.T) {
	m, _ := NewMatrix([][]float64{{5}})
	opts := quietOpts(1, 1)
	opts.OutlineWidth = 4
	opts.OutlineColor = ColorRed

	img, err := Render(m, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Top edge of the shape lies in the outline band
	r, g, b := rgbAt(img, 60, 23)
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("outline probe = %d,%d,%d, want red", r, g, b)
	}
	// Further in, the fill takes over
	r, g, b = rgbAt(img, 60, 40)
	if r != 0x08 || g != 0x30 || b != 0x6B {
		t.Errorf("fill probe = #%02x%02x%02x, want #08306b", r, g, b)
	}
}

func TestRender_Colorbar(t *testing.T) {
	m, _ := NewMatrix([][]float64{{1}, {2}})
	opts := quietOpts(2, 1)
	opts.ShowColorbar = true

	img, err := Render(m, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// The bar column starts right of the grid at x=120
	if img.Bounds().Dx() <= 164 {
		t.Errorf("expected colorbar gutter, width %d", img.Bounds().Dx())
	}

	// Ramp runs dark at the top to light at the bottom
	top := sumAt(img, 136, 20)
	bottom := sumAt(img, 136, 195)
	if top >= bottom {
		t.Errorf("bar top %d not darker than bottom %d", top, bottom)
	}
	if sumAt(img, 136, 100) == 0 {
		t.Error("bar midpoint should not be background")
	}
}

func TestRender_Oversample(t *testing.T) {
	m, _ := NewMatrix([][]float64{{5}})

	flat, err := Render(m, quietOpts(1, 1))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	opts := quietOpts(1, 1)
	opts.Oversample = 2
	smooth, err := Render(m, opts)
	if err != nil {
		t.Fatalf("Render oversampled: %v", err)
	}

	// Supersampling must not change the output geometry
	if flat.Bounds() != smooth.Bounds() {
		t.Errorf("bounds changed: %v vs %v", flat.Bounds(), smooth.Bounds())
	}
	if _, _, b := rgbAt(smooth, 60, 60); b < 0x40 {
		t.Errorf("oversampled center lost its fill, blue %d", b)
	}
}

func TestRender_DomainOverride(t *testing.T) {
	m, _ := NewMatrix([][]float64{{5}})
	lo, hi := 0.0, 10.0
	opts := quietOpts(1, 1)
	opts.DomainMin = &lo
	opts.DomainMax = &hi

	img, err := Render(m, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// 5 in [0,10] normalizes to 0.5: the middle ramp anchor
	r, g, b := rgbAt(img, 60, 60)
	if r != 0x6B || g != 0xAE || b != 0xD6 {
		t.Errorf("center = #%02x%02x%02x, want #6baed6", r, g, b)
	}
}

func TestRender_RotatedLabels(t *testing.T) {
	m, _ := NewMatrix([][]float64{{1, 2}})

	flatOpts := &Options{XLabels: []string{"E1", "E2"}, YLabels: []string{""}}
	flat, err := Render(m, flatOpts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	rotOpts := &Options{XLabels: []string{"E1", "E2"}, YLabels: []string{""}, XLabelRotation: 30}
	rotated, err := Render(m, rotOpts)
	if err != nil {
		t.Fatalf("Render rotated: %v", err)
	}

	// Tilted labels need a taller top gutter
	if rotated.Bounds().Dy() <= flat.Bounds().Dy() {
		t.Errorf("rotated height %d not taller than flat %d",
			rotated.Bounds().Dy(), flat.Bounds().Dy())
	}
}

func TestRender_InvalidOptions(t *testing.T) {
	m, _ := NewMatrix([][]float64{{1}})

	opts := quietOpts(1, 1)
	opts.Colormap = "nope"
	if _, err := Render(m, opts); err == nil {
		t.Error("expected error for unknown colormap")
	}

	opts = quietOpts(1, 1)
	opts.Shape = ShapeKind("hexagon")
	if _, err := Render(m, opts); err == nil {
		t.Error("expected error for unknown shape")
	}
}

func TestRender_SharedFontCache(t *testing.T) {
	m, _ := NewMatrix([][]float64{{1, 2}})
	fc := NewFontCache()

	opts := DefaultOptions()
	opts.FontCache = fc

	// First render triggers the font scan
	if _, err := Render(m, opts); err != nil {
		t.Fatalf("first render: %v", err)
	}
	// Second render reuses the cached faces
	if _, err := Render(m, opts); err != nil {
		t.Fatalf("second render: %v", err)
	}
}

func TestFontCache_SystemFonts(t *testing.T) {
	fc := NewFontCache()
	face := fc.GetFace("dejavu sans", 12, false, false)
	if face == nil {
		t.Skip("DejaVu Sans not found on this system, skipping")
	}
	w := font.MeasureString(face, "Hello")
	if w <= 0 {
		t.Error("expected positive text width from TrueType face")
	}
}

func TestFontCache_LoadFontData(t *testing.T) {
	fc := NewFontCache()
	// Loading invalid data should fail
	err := fc.LoadFontData("test", []byte("not a font"))
	if err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestFontCache_UnknownFont(t *testing.T) {
	fc := NewFontCache()
	face := fc.GetFace("nonexistent-font-xyz-12345", 12, false, false)
	if face != nil {
		t.Error("expected nil for nonexistent font")
	}
}
