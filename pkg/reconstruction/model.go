package reconstruction

import (
	"encoding/json"
	"fmt"

	"github.com/richard-senior/sketchsvg/pkg/geometry"
)

// EntitySketch is the entity type whose profiles are converted
const EntitySketch = "Sketch"

// Document is one reconstruction file. Only the parts the converter reads are decoded.
type Document struct {
	Entities OrderedMap[Entity] `json:"entities"`
}

// Entity is a sketch or a modelling feature such as an extrude
type Entity struct {
	Name     string              `json:"name"`
	Type     string              `json:"type"`
	Profiles OrderedMap[Profile] `json:"profiles"`
}

// UnmarshalJSON only reads profiles of sketch entities. Features such as extrudes store a
// list of profile references under the same key.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name     string          `json:"name"`
		Type     string          `json:"type"`
		Profiles json.RawMessage `json:"profiles"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Name = raw.Name
	e.Type = raw.Type
	e.Profiles = OrderedMap[Profile]{}
	if raw.Type != EntitySketch || len(raw.Profiles) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw.Profiles, &e.Profiles); err != nil {
		return fmt.Errorf("sketch %q profiles: %w", raw.Name, err)
	}
	return nil
}

type Profile struct {
	Loops []Loop `json:"loops"`
}

type Loop struct {
	IsOuter       bool    `json:"is_outer"`
	ProfileCurves []Curve `json:"profile_curves"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Curve is the union of every curve record; which fields are set depends on Type
type Curve struct {
	Type        string  `json:"type"`
	StartPoint  Point   `json:"start_point"`
	EndPoint    Point   `json:"end_point"`
	CenterPoint Point   `json:"center_point"`
	Radius      float64 `json:"radius"`
	StartAngle  float64 `json:"start_angle"`
	EndAngle    float64 `json:"end_angle"`
}

func (p Point) point3() geometry.Point3 {
	return geometry.NewPoint3(p.X, p.Y, p.Z)
}

// Geometry converts the record into an engine curve. Unknown types become *geometry.Unsupported.
func (c Curve) Geometry() geometry.Curve {
	switch geometry.CurveType(c.Type) {
	case geometry.Line3D:
		return geometry.NewLine(c.StartPoint.point3(), c.EndPoint.point3())
	case geometry.Arc3D:
		return &geometry.Arc{
			Start:      c.StartPoint.point3(),
			End:        c.EndPoint.point3(),
			Center:     c.CenterPoint.point3(),
			Radius:     c.Radius,
			StartAngle: c.StartAngle,
			EndAngle:   c.EndAngle,
		}
	case geometry.Circle3D:
		return geometry.NewCircle(c.CenterPoint.point3(), c.Radius)
	default:
		return &geometry.Unsupported{Kind: c.Type}
	}
}

// IsSketch reports whether the entity is a sketch with at least one profile
func (e Entity) IsSketch() bool {
	return e.Type == EntitySketch && e.Profiles.Len() > 0
}

// Sketch builds a fresh engine sketch from the entity; nothing is shared with other calls
func (e Entity) Sketch() geometry.Sketch {
	ret := geometry.Sketch{Name: e.Name}
	for i, key := range e.Profiles.Keys {
		p := e.Profiles.Values[i]
		profile := geometry.Profile{Name: key}
		for _, l := range p.Loops {
			loop := geometry.Loop{IsOuter: l.IsOuter}
			for _, c := range l.ProfileCurves {
				loop.Curves = append(loop.Curves, c.Geometry())
			}
			profile.Loops = append(profile.Loops, loop)
		}
		ret.Profiles = append(ret.Profiles, profile)
	}
	return ret
}

// SketchEntry is a sketch entity together with where it was found
type SketchEntry struct {
	ID     string // entity key in the document
	Index  int    // position among the document's entities
	Entity Entity
}

// Sketches lists the convertible sketch entities in document order
func (d *Document) Sketches() []SketchEntry {
	var ret []SketchEntry
	for i, key := range d.Entities.Keys {
		e := d.Entities.Values[i]
		if !e.IsSketch() {
			continue
		}
		ret = append(ret, SketchEntry{ID: key, Index: i, Entity: e})
	}
	return ret
}
