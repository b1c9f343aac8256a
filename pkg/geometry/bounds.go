package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// EmptyBounds is the box that contains nothing: +Inf minimum, -Inf maximum
func EmptyBounds() geom.Rect {
	return geom.Rect{
		Min: geom.Coord{X: math.Inf(1), Y: math.Inf(1)},
		Max: geom.Coord{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Bounds computes the axis aligned box covering every command.
// Lines and endpoint arcs contribute their start and end points, unresolved center form
// arcs contribute their center plus and minus the radius on each axis.
// Note that an endpoint arc bulging past its endpoints is not covered beyond them.
func Bounds(cmds []PathCommand) geom.Rect {
	r := EmptyBounds()
	for _, c := range cmds {
		switch c.Kind {
		case CenterArc:
			r.ExpandToContainCoord(geom.Coord{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius})
			r.ExpandToContainCoord(geom.Coord{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius})
		default:
			r.ExpandToContainCoord(c.Start)
			r.ExpandToContainCoord(c.End)
		}
	}
	return r
}

///////////////////////////////////////////////////////////////////////////////
/// VIEWPORT
///////////////////////////////////////////////////////////////////////////////

// Viewport is the view rectangle of a drawing
type Viewport struct {
	Left, Top     float64
	Width, Height float64
}

// NewViewport converts a bounding box into a viewport
func NewViewport(r geom.Rect) Viewport {
	return Viewport{
		Left:   r.Min.X,
		Top:    r.Min.Y,
		Width:  r.Max.X - r.Min.X,
		Height: r.Max.Y - r.Min.Y,
	}
}

// Dilate grows the viewport on every side by d*(width+height)/2. A d of zero leaves it as is.
func (v Viewport) Dilate(d float64) Viewport {
	if d == 0 {
		return v
	}
	margin := d * (v.Width + v.Height) / 2
	return Viewport{
		Left:   v.Left - margin,
		Top:    v.Top - margin,
		Width:  v.Width + 2*margin,
		Height: v.Height + 2*margin,
	}
}

// IsFinite reports whether every field is a finite number
func (v Viewport) IsFinite() bool {
	for _, f := range []float64{v.Left, v.Top, v.Width, v.Height} {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return false
		}
	}
	return true
}

// StrokeWidth is the stroke width that keeps lines visible at any drawing scale
func (v Viewport) StrokeWidth() float64 {
	return (v.Width + v.Height) / 200
}

// Format renders the viewport as an SVG viewBox value "left top width height"
func (v Viewport) Format(precision int) string {
	return FormatNumber(v.Left, precision) + " " +
		FormatNumber(v.Top, precision) + " " +
		FormatNumber(v.Width, precision) + " " +
		FormatNumber(v.Height, precision)
}

func (v Viewport) String() string {
	return v.Format(-1)
}
