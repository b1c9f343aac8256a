package geometry

import (
	"fmt"
)

// Options tune the conversion of a sketch into a drawing
type Options struct {
	Dilation  float64 // fractional margin added around the bounding box, 0 disables it
	Precision int     // decimals in path data and viewBox, negative for shortest round trip
}

func DefaultOptions() Options {
	return Options{
		Dilation:  0.1,
		Precision: -1,
	}
}

// Drawing is the render ready form of one sketch: a viewport and one closed path per loop
type Drawing struct {
	Name     string
	Viewport Viewport
	Paths    []string
}

// StrokeWidth is the stroke width the drawing should be rendered with
func (d *Drawing) StrokeWidth() float64 {
	return d.Viewport.StrokeWidth()
}

// ConvertSketch runs the whole engine over one sketch. Every loop of every profile is
// oriented, translated into path commands and assembled into its own path; the viewport
// covers the commands of all loops and is dilated by opts.Dilation.
//
// A sketch containing any unsupported curve is rejected as a whole with ErrUnsupportedCurve.
// A sketch without commands gives ErrEmptySketch and a non finite viewport gives
// ErrDegenerateViewport.
func ConvertSketch(s Sketch, opts Options) (*Drawing, error) {
	var all []PathCommand
	var paths []string

	for pi, profile := range s.Profiles {
		for li, loop := range profile.Loops {
			oriented := OrientLoop(loop)
			cmds, err := LoopCommands(oriented)
			if err != nil {
				return nil, fmt.Errorf("sketch %q profile %d loop %d: %w", s.Name, pi, li, err)
			}
			if len(cmds) == 0 {
				continue
			}
			resolved := make([]PathCommand, len(cmds))
			for i, c := range cmds {
				resolved[i] = c.Resolve()
			}
			all = append(all, resolved...)
			paths = append(paths, AssemblePath(resolved, opts.Precision))
		}
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("sketch %q: %w", s.Name, ErrEmptySketch)
	}

	vp := NewViewport(Bounds(all)).Dilate(opts.Dilation)
	if !vp.IsFinite() {
		return nil, fmt.Errorf("sketch %q: %w: %s", s.Name, ErrDegenerateViewport, vp)
	}

	return &Drawing{
		Name:     s.Name,
		Viewport: vp,
		Paths:    paths,
	}, nil
}
