package svgdoc

import (
	"testing"

	"github.com/richard-senior/sketchsvg/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSegment(t *testing.T) {
	s, err := NewSegment("M 6,5")
	require.NoError(t, err)
	assert.Equal(t, Segment{Letter: 'M', Params: []float64{6, 5}}, s)

	s, err = NewSegment("A1,1,0,0,1,0,1,")
	require.NoError(t, err)
	x, y, ok := s.End()
	assert.True(t, ok)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 1.0, y)

	s, err = NewSegment("Z")
	require.NoError(t, err)
	_, _, ok = s.End()
	assert.False(t, ok)

	for _, bad := range []string{"", "L1", "X1,2", "L1,b", "Z1"} {
		_, err := NewSegment(bad)
		assert.Error(t, err, bad)
	}
}

func TestParsePathData(t *testing.T) {
	segs, err := ParsePathData("M0,0,L5,0,L0,0,Z")
	require.NoError(t, err)
	require.Len(t, segs, 4)
	assert.Equal(t, byte('M'), segs[0].Letter)
	assert.Equal(t, []float64{5, 0}, segs[1].Params)
	assert.Equal(t, byte('Z'), segs[3].Letter)

	segs, err = ParsePathData("M1e-07,0,L2E+3,-4.5,Z")
	require.NoError(t, err)
	assert.Equal(t, []float64{2000, -4.5}, segs[1].Params)

	_, err = ParsePathData("")
	assert.Error(t, err)
	_, err = ParsePathData("M0,0,L5,Z")
	assert.Error(t, err)
}

func TestStatsOfConvertedLoops(t *testing.T) {
	s := geometry.Sketch{Profiles: []geometry.Profile{{Loops: []geometry.Loop{
		{Curves: []geometry.Curve{
			geometry.NewLine(geometry.NewPoint3(0, 0, 0), geometry.NewPoint3(5, 0, 0)),
			geometry.NewLine(geometry.NewPoint3(5, 0, 0), geometry.NewPoint3(0, 0, 0)),
		}},
		{Curves: []geometry.Curve{geometry.NewCircle(geometry.NewPoint3(1, 2, 0), 0.5)}},
	}}}}
	d, err := geometry.ConvertSketch(s, geometry.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, d.Paths, 2)

	lines, err := Stats(d.Paths[0], geometry.Tolerance)
	require.NoError(t, err)
	assert.Equal(t, PathStats{Lines: 2, Closed: true}, lines)

	circle, err := Stats(d.Paths[1], geometry.Tolerance)
	require.NoError(t, err)
	assert.Equal(t, PathStats{Arcs: 2, Closed: true}, circle)
	assert.Equal(t, 2, circle.Commands())
}

func TestStatsOpenPath(t *testing.T) {
	st, err := Stats("M0,0,L1,0,L1,1,Z", 1e-6)
	require.NoError(t, err)
	assert.False(t, st.Closed)

	st, err = Stats("M0,0,L1,0,L1,1", 1e-6)
	require.NoError(t, err)
	assert.False(t, st.Closed)
	assert.Equal(t, 2, st.Lines)
}
