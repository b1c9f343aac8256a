package geometry

import "errors"

var (
	// ErrUnsupportedCurve is returned when a sketch holds a curve that is not a line, arc or circle
	ErrUnsupportedCurve = errors.New("unsupported curve type")
	// ErrEmptySketch is returned when a sketch produces no path commands at all
	ErrEmptySketch = errors.New("sketch has no drawable curves")
	// ErrDegenerateViewport is returned when the computed viewport is not finite
	ErrDegenerateViewport = errors.New("degenerate viewport")
)
