package geometry

import (
	"fmt"
	"math"

	"github.com/jbeda/geom"
)

///////////////////////////////////////////////////////////////////////////////
/// PATH COMMAND
///////////////////////////////////////////////////////////////////////////////

type CommandKind int

const (
	// LineTo is a straight segment from Start to End
	LineTo CommandKind = iota
	// CenterArc is an arc given by Center, Radius, StartAngle and EndAngle
	CenterArc
	// EndpointArc is an SVG style arc: Start, End, radii, rotation and the two flags
	EndpointArc
)

func (k CommandKind) String() string {
	switch k {
	case LineTo:
		return "LineTo"
	case CenterArc:
		return "CenterArc"
	case EndpointArc:
		return "EndpointArc"
	default:
		return "Unknown"
	}
}

// PathCommand is one drawing step of a loop. Which fields are meaningful depends on Kind.
// Start is only read for the first command of a path; every later command starts where
// the previous one ended.
type PathCommand struct {
	Kind       CommandKind
	Start, End geom.Coord

	// center form
	Center     geom.Coord
	Radius     float64
	StartAngle float64
	EndAngle   float64

	// endpoint form
	RadiusX, RadiusY float64
	Rotation         float64
	LargeArc         bool
	Sweep            bool
}

// NewLineCommand creates a LineTo command
func NewLineCommand(start, end geom.Coord) PathCommand {
	return PathCommand{Kind: LineTo, Start: start, End: end}
}

// NewCenterArcCommand creates an unresolved center form arc
func NewCenterArcCommand(center geom.Coord, radius, startAngle, endAngle float64) PathCommand {
	return PathCommand{
		Kind:       CenterArc,
		Center:     center,
		Radius:     radius,
		StartAngle: startAngle,
		EndAngle:   endAngle,
	}
}

// Letter returns the SVG path letter the command is written with
func (pc PathCommand) Letter() string {
	if pc.Kind == LineTo {
		return "L"
	}
	return "A"
}

// Resolve returns the command in line or endpoint form. Center form arcs are converted,
// everything else is returned unchanged.
func (pc PathCommand) Resolve() PathCommand {
	if pc.Kind != CenterArc {
		return pc
	}
	return CenterToEndpoint(pc.Center, pc.Radius, pc.StartAngle, pc.EndAngle)
}

///////////////////////////////////////////////////////////////////////////////
/// ARC CONVERSION
///////////////////////////////////////////////////////////////////////////////

// ArcFlags returns the SVG large-arc and sweep flags for an arc running from theta1 to theta2.
// The raw signed difference is used, the angles are not normalised.
func ArcFlags(theta1, theta2 float64) (largeArc, sweep bool) {
	delta := theta2 - theta1
	return math.Abs(delta) > math.Pi, delta > 0
}

// CenterToEndpoint converts a circular arc given by center, radius and angles into endpoint
// form, following the center to endpoint conversion of SVG 1.1 appendix F.6.4 with a
// rotation of zero.
func CenterToEndpoint(center geom.Coord, r, theta1, theta2 float64) PathCommand {
	largeArc, sweep := ArcFlags(theta1, theta2)
	return PathCommand{
		Kind:       EndpointArc,
		Start:      geom.Coord{X: center.X + r*math.Cos(theta1), Y: center.Y + r*math.Sin(theta1)},
		End:        geom.Coord{X: center.X + r*math.Cos(theta2), Y: center.Y + r*math.Sin(theta2)},
		Center:     center,
		Radius:     r,
		StartAngle: theta1,
		EndAngle:   theta2,
		RadiusX:    r,
		RadiusY:    r,
		Rotation:   0,
		LargeArc:   largeArc,
		Sweep:      sweep,
	}
}

///////////////////////////////////////////////////////////////////////////////
/// TRANSLATION
///////////////////////////////////////////////////////////////////////////////

// CurveCommands translates one curve into path commands. Lines and arcs give one command,
// circles give two half arcs in center form because a single arc command cannot describe
// a closed circle.
func CurveCommands(c Curve) ([]PathCommand, error) {
	switch v := c.(type) {
	case *Line:
		return []PathCommand{NewLineCommand(v.Start.Coord(), v.End.Coord())}, nil
	case *Arc:
		largeArc, sweep := ArcFlags(v.StartAngle, v.EndAngle)
		return []PathCommand{{
			Kind:       EndpointArc,
			Start:      v.Start.Coord(),
			End:        v.End.Coord(),
			Center:     v.Center.Coord(),
			Radius:     v.Radius,
			StartAngle: v.StartAngle,
			EndAngle:   v.EndAngle,
			RadiusX:    v.Radius,
			RadiusY:    v.Radius,
			LargeArc:   largeArc,
			Sweep:      sweep,
		}}, nil
	case *Circle:
		center := v.Center.Coord()
		return []PathCommand{
			NewCenterArcCommand(center, v.Radius, 0, math.Pi),
			NewCenterArcCommand(center, v.Radius, math.Pi, 2*math.Pi),
		}, nil
	case nil:
		return nil, fmt.Errorf("%w: nil curve", ErrUnsupportedCurve)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurve, c.Type())
	}
}

// LoopCommands translates every curve of an already oriented loop, in order
func LoopCommands(loop Loop) ([]PathCommand, error) {
	var ret []PathCommand
	for i, c := range loop.Curves {
		cmds, err := CurveCommands(c)
		if err != nil {
			return nil, fmt.Errorf("curve %d: %w", i, err)
		}
		ret = append(ret, cmds...)
	}
	return ret, nil
}
