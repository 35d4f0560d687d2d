package showheat

import "strings"

// ShapeKind selects the figure drawn in each grid cell.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
)

// ParseShapeKind resolves a shape name, case-insensitively.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rectangle", "rect":
		return ShapeRectangle, nil
	case "ellipse", "circle":
		return ShapeEllipse, nil
	}
	return "", NewConfigError("shape", s, ErrUnknownShape)
}

func (k ShapeKind) valid() bool {
	return k == ShapeRectangle || k == ShapeEllipse
}

// cellShape is the drawable figure of one grid cell, in pixel space.
// Rectangles carry a corner radius; ellipses ignore it.
type cellShape struct {
	kind   ShapeKind
	x, y   float64 // top-left of the shape box
	w, h   float64
	radius float64
}

// shapeForCell places the configured figure inside the cell whose
// top-left corner is (cellX, cellY). Rectangles are inset on each side;
// ellipses are centered with their own width and height fractions.
func shapeForCell(kind ShapeKind, cellX, cellY, cell float64, opts *Options) cellShape {
	switch kind {
	case ShapeEllipse:
		w := opts.EllipseWidth * cell
		h := opts.EllipseHeight * cell
		return cellShape{
			kind: ShapeEllipse,
			x:    cellX + (cell-w)/2,
			y:    cellY + (cell-h)/2,
			w:    w,
			h:    h,
		}
	default:
		inset := opts.Inset * cell
		return cellShape{
			kind:   ShapeRectangle,
			x:      cellX + inset,
			y:      cellY + inset,
			w:      cell - 2*inset,
			h:      cell - 2*inset,
			radius: opts.CornerRadius * cell,
		}
	}
}

// contains reports whether the pixel at (px, py) falls inside the
// shape, testing the pixel center against the implicit equation.
func (s cellShape) contains(px, py int) bool {
	fx := float64(px) + 0.5
	fy := float64(py) + 0.5
	if s.w <= 0 || s.h <= 0 {
		return false
	}

	if s.kind == ShapeEllipse {
		rx := s.w / 2
		ry := s.h / 2
		dx := (fx - (s.x + rx)) / rx
		dy := (fy - (s.y + ry)) / ry
		return dx*dx+dy*dy <= 1.0
	}

	if fx < s.x || fx > s.x+s.w || fy < s.y || fy > s.y+s.h {
		return false
	}
	r := s.radius
	if r <= 0 {
		return true
	}
	if max := minf(s.w, s.h) / 2; r > max {
		r = max
	}
	// Distance to the nearest corner-arc center decides the corners;
	// everything between the arc centers is inside.
	cx := clampf(fx, s.x+r, s.x+s.w-r)
	cy := clampf(fy, s.y+r, s.y+s.h-r)
	dx := fx - cx
	dy := fy - cy
	return dx*dx+dy*dy <= r*r
}

// shrink insets the shape by d pixels on every side, tightening the
// corner radius to match. Used to carve the outline band.
func (s cellShape) shrink(d float64) cellShape {
	out := s
	out.x += d
	out.y += d
	out.w -= 2 * d
	out.h -= 2 * d
	out.radius = s.radius - d
	if out.radius < 0 {
		out.radius = 0
	}
	return out
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
