package showheat

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Options configures heatmap rendering.
type Options struct {
	// Shape is the figure drawn in each cell. Default: ShapeRectangle.
	Shape ShapeKind
	// Colormap names the fill ramp; see ColormapNames. A "_r" suffix
	// selects the reversed ramp. Default: "Blues".
	Colormap string
	// Annotate draws the formatted rating at each cell center.
	// DefaultOptions enables it; missing cells are never annotated.
	Annotate bool
	// ValueFormat is the fmt verb for annotations. Default: "%.1f".
	ValueFormat string
	// ValueFont styles annotations. Nil means bold 14pt white.
	ValueFont *Font

	// XLabels are the per-column labels drawn along the top edge.
	// Nil generates "E1".."En". An empty string hides one label.
	XLabels []string
	// YLabels are the per-row labels drawn down the left edge.
	// Nil generates "S1".."Sm".
	YLabels []string
	// XLabelFont styles column labels. Nil means bold 12pt white.
	XLabelFont *Font
	// YLabelFont styles row labels. Nil means bold 14pt white.
	YLabelFont *Font
	// XLabelRotation tilts column labels counterclockwise, in degrees.
	XLabelRotation float64

	// Background fills the figure. Default: black.
	Background Color
	// MissingFill fills shapes of missing cells. Default: white.
	MissingFill Color
	// OutlineColor strokes each shape. Default: black.
	OutlineColor Color
	// OutlineWidth is the stroke width in pixels; 0 disables the stroke.
	OutlineWidth int

	// CellSize is the edge length of one grid cell in pixels. Default: 96.
	CellSize int
	// Inset is the per-side margin of rectangle shapes, as a fraction
	// of the cell. Default: 0.1.
	Inset float64
	// CornerRadius is the rectangle corner radius as a fraction of the
	// cell; 0 gives sharp corners. Default: 0.2.
	CornerRadius float64
	// EllipseWidth and EllipseHeight span ellipse shapes, as fractions
	// of the cell. Default: 0.8 each.
	EllipseWidth  float64
	EllipseHeight float64

	// ShowColorbar draws a vertical ramp legend right of the grid.
	ShowColorbar bool
	// DomainMin and DomainMax pin the color normalization range.
	// Nil means the matrix's own min and max.
	DomainMin *float64
	DomainMax *float64

	// Oversample renders at an integer multiple of CellSize and
	// downsamples with a Lanczos filter for smoother shape edges.
	// Default: 1 (off).
	Oversample int
	// DPI is the rendering DPI for font sizing. Default: 96.
	DPI float64
	// FontDirs specifies additional directories to search for
	// TrueType/OpenType fonts. System font directories are always
	// searched automatically.
	FontDirs []string
	// FontCache allows sharing a pre-configured FontCache across
	// multiple renders. If nil, a new FontCache is created using FontDirs.
	FontCache *FontCache
}

// DefaultOptions returns rendering options matching the classic look:
// rounded rectangles, the Blues ramp, bold white annotations on a
// black background.
func DefaultOptions() *Options {
	return &Options{
		Shape:         ShapeRectangle,
		Colormap:      "Blues",
		Annotate:      true,
		ValueFormat:   "%.1f",
		ValueFont:     NewFont().SetSize(14).SetBold(true),
		XLabelFont:    NewFont().SetSize(12).SetBold(true),
		YLabelFont:    NewFont().SetSize(14).SetBold(true),
		Background:    ColorBlack,
		MissingFill:   ColorWhite,
		OutlineColor:  ColorBlack,
		OutlineWidth:  1,
		CellSize:      96,
		Inset:         0.1,
		CornerRadius:  0.2,
		EllipseWidth:  0.8,
		EllipseHeight: 0.8,
		Oversample:    1,
		DPI:           96,
	}
}

// normalized returns a patched copy with unset fields replaced by
// their defaults, so hand-built Options behave like DefaultOptions
// for everything they leave out.
func (o *Options) normalized() *Options {
	out := *o
	if out.Shape == "" {
		out.Shape = ShapeRectangle
	}
	if out.Colormap == "" {
		out.Colormap = "Blues"
	}
	if out.ValueFormat == "" {
		out.ValueFormat = "%.1f"
	}
	if out.ValueFont == nil {
		out.ValueFont = NewFont().SetSize(14).SetBold(true)
	} else {
		out.ValueFont = out.ValueFont.clone()
	}
	if out.XLabelFont == nil {
		out.XLabelFont = NewFont().SetSize(12).SetBold(true)
	} else {
		out.XLabelFont = out.XLabelFont.clone()
	}
	if out.YLabelFont == nil {
		out.YLabelFont = NewFont().SetSize(14).SetBold(true)
	} else {
		out.YLabelFont = out.YLabelFont.clone()
	}
	if out.Background.ARGB == "" {
		out.Background = ColorBlack
	}
	if out.MissingFill.ARGB == "" {
		out.MissingFill = ColorWhite
	}
	if out.OutlineColor.ARGB == "" {
		out.OutlineColor = ColorBlack
	}
	if out.CellSize <= 0 {
		out.CellSize = 96
	}
	if out.EllipseWidth <= 0 {
		out.EllipseWidth = 0.8
	}
	if out.EllipseHeight <= 0 {
		out.EllipseHeight = 0.8
	}
	if out.Oversample < 1 {
		out.Oversample = 1
	}
	if out.DPI <= 0 {
		out.DPI = 96
	}
	return &out
}

// themeDocument is the outer shape of a theme file.
type themeDocument struct {
	Theme map[string]interface{} `mapstructure:"theme"`
}

// Theme is the declarative option surface used by theme files and the
// preview API. Colors are hex strings; nil pointer fields leave the
// base option untouched.
type Theme struct {
	Shape          string   `yaml:"shape" json:"shape,omitempty"`
	Colormap       string   `yaml:"colormap" json:"colormap,omitempty"`
	Annotate       *bool    `yaml:"annotate" json:"annotate,omitempty"`
	ValueFormat    string   `yaml:"value_format" json:"value_format,omitempty"`
	FontName       string   `yaml:"font" json:"font,omitempty"`
	ValueFontSize  int      `yaml:"value_font_size" json:"value_font_size,omitempty"`
	Background     string   `yaml:"background" json:"background,omitempty"`
	TextColor      string   `yaml:"text_color" json:"text_color,omitempty"`
	AxisColor      string   `yaml:"axis_color" json:"axis_color,omitempty"`
	MissingFill    string   `yaml:"missing_fill" json:"missing_fill,omitempty"`
	Outline        string   `yaml:"outline" json:"outline,omitempty"`
	OutlineWidth   *int     `yaml:"outline_width" json:"outline_width,omitempty"`
	XLabelSize     int      `yaml:"x_label_size" json:"x_label_size,omitempty"`
	YLabelSize     int      `yaml:"y_label_size" json:"y_label_size,omitempty"`
	XLabelRotation float64  `yaml:"x_label_rotation" json:"x_label_rotation,omitempty"`
	CellSize       int      `yaml:"cell_size" json:"cell_size,omitempty"`
	Inset          *float64 `yaml:"inset" json:"inset,omitempty"`
	CornerRadius   *float64 `yaml:"corner_radius" json:"corner_radius,omitempty"`
	EllipseWidth   *float64 `yaml:"ellipse_width" json:"ellipse_width,omitempty"`
	EllipseHeight  *float64 `yaml:"ellipse_height" json:"ellipse_height,omitempty"`
	Colorbar       *bool    `yaml:"colorbar" json:"colorbar,omitempty"`
	Oversample     int      `yaml:"oversample" json:"oversample,omitempty"`
	DomainMin      *float64 `yaml:"domain_min" json:"domain_min,omitempty"`
	DomainMax      *float64 `yaml:"domain_max" json:"domain_max,omitempty"`
}

// LoadOptions reads a YAML theme file and applies it over
// DefaultOptions. The file carries a single "theme" document:
//
//	theme:
//	  shape: ellipse
//	  colormap: Viridis
//	  background: "#101010"
func LoadOptions(path string) (*Options, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}

	doc := &themeDocument{}
	if err := vp.Unmarshal(doc); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}

	body, err := yaml.Marshal(doc.Theme)
	if err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}
	theme := &Theme{}
	if err := yaml.Unmarshal(body, theme); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}

	opts := DefaultOptions()
	if err := theme.Apply(opts); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Apply lays the theme's set fields over opts. Unset fields leave the
// base value alone, so themes can be partial.
func (t *Theme) Apply(opts *Options) error {
	if t.Shape != "" {
		kind, err := ParseShapeKind(t.Shape)
		if err != nil {
			return err
		}
		opts.Shape = kind
	}
	if t.Colormap != "" {
		opts.Colormap = t.Colormap
	}
	if t.Annotate != nil {
		opts.Annotate = *t.Annotate
	}
	if t.ValueFormat != "" {
		opts.ValueFormat = t.ValueFormat
	}
	if t.FontName != "" {
		opts.ValueFont.SetName(t.FontName)
		opts.XLabelFont.SetName(t.FontName)
		opts.YLabelFont.SetName(t.FontName)
	}
	if t.ValueFontSize > 0 {
		opts.ValueFont.SetSize(t.ValueFontSize)
	}
	if t.Background != "" {
		opts.Background = NewColor(t.Background)
	}
	if t.TextColor != "" {
		opts.ValueFont.SetColor(NewColor(t.TextColor))
	}
	if t.AxisColor != "" {
		opts.XLabelFont.SetColor(NewColor(t.AxisColor))
		opts.YLabelFont.SetColor(NewColor(t.AxisColor))
	}
	if t.MissingFill != "" {
		opts.MissingFill = NewColor(t.MissingFill)
	}
	if t.Outline != "" {
		opts.OutlineColor = NewColor(t.Outline)
	}
	if t.OutlineWidth != nil {
		opts.OutlineWidth = *t.OutlineWidth
	}
	if t.XLabelSize > 0 {
		opts.XLabelFont.SetSize(t.XLabelSize)
	}
	if t.YLabelSize > 0 {
		opts.YLabelFont.SetSize(t.YLabelSize)
	}
	if t.XLabelRotation != 0 {
		opts.XLabelRotation = t.XLabelRotation
	}
	if t.CellSize > 0 {
		opts.CellSize = t.CellSize
	}
	if t.Inset != nil {
		opts.Inset = *t.Inset
	}
	if t.CornerRadius != nil {
		opts.CornerRadius = *t.CornerRadius
	}
	if t.EllipseWidth != nil {
		opts.EllipseWidth = *t.EllipseWidth
	}
	if t.EllipseHeight != nil {
		opts.EllipseHeight = *t.EllipseHeight
	}
	if t.Colorbar != nil {
		opts.ShowColorbar = *t.Colorbar
	}
	if t.Oversample > 0 {
		opts.Oversample = t.Oversample
	}
	if t.DomainMin != nil {
		opts.DomainMin = t.DomainMin
	}
	if t.DomainMax != nil {
		opts.DomainMax = t.DomainMax
	}
	return nil
}
