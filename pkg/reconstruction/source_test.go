package reconstruction

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/richard-senior/sketchsvg/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "testdata/20203_7e31e92a_0000.json"

func TestLoadFileKeepsDocumentOrder(t *testing.T) {
	doc, err := LoadFile(fixture)
	require.NoError(t, err)

	assert.Equal(t, []string{"f9b0c1de-sketch-b", "0a11-extrude", "1b22-sketch-a", "2c33-empty-sketch"}, doc.Entities.Keys)

	require.Len(t, doc.Entities.Values, 4)
	assert.Equal(t, []string{"zz-last-key-first", "aa-second"}, doc.Entities.Values[0].Profiles.Keys)

	extrude := doc.Entities.Values[1]
	assert.Equal(t, 0, extrude.Profiles.Len())
	assert.False(t, extrude.IsSketch())
}

func TestSketchesSkipsFeaturesAndEmptySketches(t *testing.T) {
	doc, err := LoadFile(fixture)
	require.NoError(t, err)

	sketches := doc.Sketches()
	require.Len(t, sketches, 2)
	assert.Equal(t, "Sketch2", sketches[0].Entity.Name)
	assert.Equal(t, 0, sketches[0].Index)
	assert.Equal(t, "Sketch1", sketches[1].Entity.Name)
	assert.Equal(t, 2, sketches[1].Index)
	assert.Equal(t, "1b22-sketch-a", sketches[1].ID)
}

func TestEntitySketch(t *testing.T) {
	doc, err := LoadFile(fixture)
	require.NoError(t, err)
	sketches := doc.Sketches()

	want := geometry.Sketch{
		Name: "Sketch2",
		Profiles: []geometry.Profile{
			{Name: "zz-last-key-first", Loops: []geometry.Loop{{IsOuter: true, Curves: []geometry.Curve{
				geometry.NewLine(geometry.NewPoint3(0, 0, 0), geometry.NewPoint3(5, 0, 0)),
				geometry.NewLine(geometry.NewPoint3(5, 0, 0), geometry.NewPoint3(0, 0, 0)),
			}}}},
			{Name: "aa-second", Loops: []geometry.Loop{{IsOuter: true, Curves: []geometry.Curve{
				geometry.NewCircle(geometry.NewPoint3(1, 2, 0), 0.5),
			}}}},
		},
	}
	if diff := cmp.Diff(want, sketches[0].Entity.Sketch()); diff != "" {
		t.Errorf("Sketch() mismatch (-want +got):\n%s", diff)
	}

	second := sketches[1].Entity.Sketch()
	curves := second.Profiles[0].Loops[0].Curves
	require.Len(t, curves, 2)
	arc, ok := curves[0].(*geometry.Arc)
	require.True(t, ok)
	assert.Equal(t, 1.0, arc.Radius)
	assert.InDelta(t, math.Pi, arc.EndAngle, 1e-15)
	assert.Equal(t, &geometry.Unsupported{Kind: "NurbsCurve3D"}, curves[1])
}

func TestSketchReturnsFreshCurves(t *testing.T) {
	doc, err := LoadFile(fixture)
	require.NoError(t, err)
	e := doc.Sketches()[0].Entity

	a, b := e.Sketch(), e.Sketch()
	assert.NotSame(t, a.Profiles[0].Loops[0].Curves[0], b.Profiles[0].Loops[0].Curves[0])
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"entities": [`))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{"entities": {"a": {"type": "Sketch", "profiles": [1, 2]}}}`))
	assert.Error(t, err)

	doc, err := Decode(strings.NewReader(`{"entities": null}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Sketches())
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json", "notes.txt", "c.json.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	files, err := ListFiles(dir, ".json")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "c.json.bak"),
	}, files)

	files, err = ListFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 4)

	_, err = ListFiles(filepath.Join(dir, "missing"), ".json")
	assert.Error(t, err)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "20203_7e31e92a_0000", BaseName("/data/r1.0.1/reconstruction/20203_7e31e92a_0000.json"))
	assert.Equal(t, "foo", BaseName("https://example.com/files/foo.json?token=1"))
}
