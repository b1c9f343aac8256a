package geometry

import (
	"math"
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
)

func TestBoundsOfSingleLineWithDilation(t *testing.T) {
	cmds := []PathCommand{NewLineCommand(geom.Coord{X: 0, Y: 0}, geom.Coord{X: 10, Y: 0})}

	vp := NewViewport(Bounds(cmds))
	assert.Equal(t, Viewport{Left: 0, Top: 0, Width: 10, Height: 0}, vp)

	vp = vp.Dilate(0.1)
	assert.InDelta(t, -0.5, vp.Left, 1e-12)
	assert.InDelta(t, -0.5, vp.Top, 1e-12)
	assert.InDelta(t, 11, vp.Width, 1e-12)
	assert.InDelta(t, 1, vp.Height, 1e-12)
}

func TestDilateZeroIsIdentity(t *testing.T) {
	vp := Viewport{Left: 1, Top: 2, Width: 3, Height: 4}
	assert.Equal(t, vp, vp.Dilate(0))
}

func TestBoundsCenterArcUsesRadius(t *testing.T) {
	cmds := []PathCommand{NewCenterArcCommand(geom.Coord{X: 1, Y: 1}, 2, 0, math.Pi)}
	vp := NewViewport(Bounds(cmds))
	assert.Equal(t, Viewport{Left: -1, Top: -1, Width: 4, Height: 4}, vp)
}

func TestBoundsResolvedCircle(t *testing.T) {
	cmds, _ := CurveCommands(NewCircle(pt(0, 0), 1))
	for i := range cmds {
		cmds[i] = cmds[i].Resolve()
	}
	r := Bounds(cmds)
	// endpoints only: (1,0) and (-1,0)
	assert.InDelta(t, -1, r.Min.X, Tolerance)
	assert.InDelta(t, 1, r.Max.X, Tolerance)
	assert.InDelta(t, 0, r.Min.Y, Tolerance)
	assert.InDelta(t, 0, r.Max.Y, Tolerance)
}

func TestBoundsEmpty(t *testing.T) {
	r := Bounds(nil)
	assert.True(t, math.IsInf(r.Min.X, 1))
	assert.True(t, math.IsInf(r.Max.Y, -1))
	assert.False(t, NewViewport(r).IsFinite())
}

func TestViewportFormatting(t *testing.T) {
	vp := Viewport{Left: -0.5, Top: -0.5, Width: 11, Height: 1}
	assert.Equal(t, "-0.5 -0.5 11 1", vp.String())
	assert.InDelta(t, 0.06, vp.StrokeWidth(), 1e-12)

	vp = Viewport{Left: 1.0 / 3, Top: 0, Width: 2, Height: 2}
	assert.Equal(t, "0.333 0 2 2", vp.Format(3))
}
