package svgdoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/richard-senior/sketchsvg/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoLineDrawing(t *testing.T) *geometry.Drawing {
	t.Helper()
	s := geometry.Sketch{
		Name: "Sketch1",
		Profiles: []geometry.Profile{{Loops: []geometry.Loop{{IsOuter: true, Curves: []geometry.Curve{
			geometry.NewLine(geometry.NewPoint3(0, 0, 0), geometry.NewPoint3(5, 0, 0)),
			geometry.NewLine(geometry.NewPoint3(5, 0, 0), geometry.NewPoint3(0, 0, 0)),
		}}}}},
	}
	d, err := geometry.ConvertSketch(s, geometry.DefaultOptions())
	require.NoError(t, err)
	return d
}

func TestRender(t *testing.T) {
	out, err := Render(twoLineDrawing(t), DefaultStyle())
	require.NoError(t, err)

	assert.Contains(t, out, `viewBox="-0.25 -0.25 5.5 0.5"`)
	assert.Contains(t, out, `xmlns="`+SvgNamespace+`"`)
	assert.Contains(t, out, "path{stroke:black;stroke-width:0.03;fill:transparent}")
	assert.Contains(t, out, `<path d="M0,0,L5,0,L0,0,Z"`)
	assert.Contains(t, out, "<title>Sketch1</title>")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestRenderOnePathPerLoop(t *testing.T) {
	d := &geometry.Drawing{
		Viewport: geometry.Viewport{Left: 0, Top: 0, Width: 1, Height: 1},
		Paths:    []string{"M0,0,L1,0,Z", "M0,1,L1,1,Z", "M1,1,L0,0,Z"},
	}
	out, err := Render(d, DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "<path "))
	assert.NotContains(t, out, "<title>")
}

func TestRenderNil(t *testing.T) {
	_, err := Render(nil, DefaultStyle())
	assert.Error(t, err)
}

func TestParseRoundTrip(t *testing.T) {
	d := twoLineDrawing(t)
	out, err := Render(d, Style{Stroke: "red", Fill: "none", Precision: -1})
	require.NoError(t, err)

	doc, err := Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, d.Viewport, doc.Viewport)
	assert.Equal(t, d.Paths, doc.Paths)
	assert.Equal(t, "Sketch1", doc.Title)
	assert.Contains(t, doc.Style, "stroke:red")
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(`<html><body><p>nothing</p></body></html>`))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"><path d="M0,0,Z"/></svg>`))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader(`<svg viewBox="0 0 1"></svg>`))
	assert.Error(t, err)
}

func TestParseViewBox(t *testing.T) {
	vp, err := ParseViewBox("-0.5, -0.5 11\t1")
	require.NoError(t, err)
	assert.Equal(t, geometry.Viewport{Left: -0.5, Top: -0.5, Width: 11, Height: 1}, vp)

	_, err = ParseViewBox("0 0 a 1")
	assert.Error(t, err)
}

func TestWriteFilePlainAndBrotli(t *testing.T) {
	d := twoLineDrawing(t)
	dir := t.TempDir()

	plain := filepath.Join(dir, "nested", "part_000.svg")
	require.NoError(t, WriteFile(plain, d, DefaultStyle(), 6))
	raw, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<svg")

	compressed := filepath.Join(dir, "part_000.svg.br")
	require.NoError(t, WriteFile(compressed, d, DefaultStyle(), 11))
	raw, err = os.ReadFile(compressed)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "<svg")

	for _, p := range []string{plain, compressed} {
		doc, err := ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, "part_000", doc.Name)
		assert.Equal(t, d.Paths, doc.Paths)
		assert.Equal(t, d.Viewport, doc.Viewport)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.svg"))
	assert.Error(t, err)
}
