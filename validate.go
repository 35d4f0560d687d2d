package showheat

import (
	"fmt"
	"strings"
)

// Validate checks the options for configuration issues and returns an
// error describing all problems found, or nil if the options are
// valid. Zero values pass: they are replaced by defaults at render
// time. Set values are checked strictly.
func (o *Options) Validate() error {
	var errs []string

	if o.Shape != "" && !o.Shape.valid() {
		errs = append(errs, fmt.Sprintf("unknown shape %q", o.Shape))
	}
	if o.Colormap != "" {
		if _, err := ColormapByName(o.Colormap); err != nil {
			errs = append(errs, fmt.Sprintf("unknown colormap %q", o.Colormap))
		}
	}
	if o.ValueFormat != "" && !strings.Contains(o.ValueFormat, "%") {
		errs = append(errs, fmt.Sprintf("value format %q has no format verb", o.ValueFormat))
	}
	if o.Inset < 0 || o.Inset >= 0.5 {
		errs = append(errs, "inset must be in [0, 0.5)")
	}
	if o.CornerRadius < 0 || o.CornerRadius > 0.5 {
		errs = append(errs, "corner radius must be in [0, 0.5]")
	}
	if o.EllipseWidth < 0 || o.EllipseWidth > 1 {
		errs = append(errs, "ellipse width must be in (0, 1]")
	}
	if o.EllipseHeight < 0 || o.EllipseHeight > 1 {
		errs = append(errs, "ellipse height must be in (0, 1]")
	}
	if o.OutlineWidth < 0 {
		errs = append(errs, "outline width must not be negative")
	}
	if o.CellSize < 0 {
		errs = append(errs, "cell size must be positive")
	}
	if o.Oversample < 0 || o.Oversample > 8 {
		errs = append(errs, "oversample must be between 1 and 8")
	}
	if o.DomainMin != nil && o.DomainMax != nil && *o.DomainMin > *o.DomainMax {
		errs = append(errs, "domain min must not exceed domain max")
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid options:\n  %s", strings.Join(errs, "\n  "))
}
