package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// Tolerance is the distance under which two curve endpoints are considered coincident
const Tolerance = 1e-6

///////////////////////////////////////////////////////////////////////////////
/// POINT3
///////////////////////////////////////////////////////////////////////////////

// Point3 is a point in sketch space. Sketches are planar in X/Y so Z is carried but never used.
type Point3 struct {
	X, Y, Z float64
}

func NewPoint3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Coord projects the point onto the X/Y plane
func (p Point3) Coord() geom.Coord {
	return geom.Coord{X: p.X, Y: p.Y}
}

// Distance returns the planar distance between a and b
func Distance(a, b Point3) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// AlmostEqual reports whether a and b coincide within Tolerance
func AlmostEqual(a, b Point3) bool {
	return Distance(a, b) < Tolerance
}

///////////////////////////////////////////////////////////////////////////////
/// CURVES
///////////////////////////////////////////////////////////////////////////////

type CurveType string

const (
	Line3D   CurveType = "Line3D"
	Arc3D    CurveType = "Arc3D"
	Circle3D CurveType = "Circle3D"
)

// Curve is one primitive of a sketch loop: a *Line, *Arc, *Circle or *Unsupported
type Curve interface {
	Type() CurveType
}

// directed is implemented by curves with a well defined start and end
type directed interface {
	Curve
	Endpoints() (start, end Point3)
	Reversed() Curve
}

// Line is a straight segment from Start to End
type Line struct {
	Start, End Point3
}

func NewLine(start, end Point3) *Line {
	return &Line{Start: start, End: end}
}

func (l *Line) Type() CurveType { return Line3D }

func (l *Line) Endpoints() (Point3, Point3) { return l.Start, l.End }

func (l *Line) Reversed() Curve {
	return &Line{Start: l.End, End: l.Start}
}

// Arc is a circular arc in center form. Start and End are the stored endpoints which are
// trusted for positioning; the angles (radians, any sign or range) only drive the arc flags.
type Arc struct {
	Start, End Point3
	Center     Point3
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func (a *Arc) Type() CurveType { return Arc3D }

func (a *Arc) Endpoints() (Point3, Point3) { return a.Start, a.End }

// Reversed swaps the endpoints and the angles
func (a *Arc) Reversed() Curve {
	return &Arc{
		Start:      a.End,
		End:        a.Start,
		Center:     a.Center,
		Radius:     a.Radius,
		StartAngle: a.EndAngle,
		EndAngle:   a.StartAngle,
	}
}

// Circle is a full turn around Center. It has no start or end.
type Circle struct {
	Center Point3
	Radius float64
}

func NewCircle(center Point3, radius float64) *Circle {
	return &Circle{Center: center, Radius: radius}
}

func (c *Circle) Type() CurveType { return Circle3D }

// Unsupported holds a curve whose type tag is none of Line3D, Arc3D or Circle3D.
// Its presence invalidates the whole sketch.
type Unsupported struct {
	Kind string
}

func (u *Unsupported) Type() CurveType { return CurveType(u.Kind) }

///////////////////////////////////////////////////////////////////////////////
/// LOOPS, PROFILES, SKETCHES
///////////////////////////////////////////////////////////////////////////////

// Loop is an ordered run of curves forming one closed boundary
type Loop struct {
	Curves  []Curve
	IsOuter bool
}

// Profile is a named set of loops bounding one region
type Profile struct {
	Name  string
	Loops []Loop
}

// Sketch is the unit that converts into one Drawing
type Sketch struct {
	Name     string
	Profiles []Profile
}

// NumCurves counts every curve across all loops of the sketch
func (s Sketch) NumCurves() int {
	n := 0
	for _, p := range s.Profiles {
		for _, l := range p.Loops {
			n += len(l.Curves)
		}
	}
	return n
}
