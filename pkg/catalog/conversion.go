package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/richard-senior/sketchsvg/internal/logger"
	"github.com/richard-senior/sketchsvg/pkg/geometry"
)

const (
	StatusConverted = "converted"
	StatusSkipped   = "skipped"
)

// Conversion records the outcome of converting one sketch entity
type Conversion struct {
	Source      string  `json:"source" column:"source" dbtype:"TEXT NOT NULL" primary:"true"`
	Entity      string  `json:"entity" column:"entity" dbtype:"TEXT NOT NULL" primary:"true"`
	SketchName  string  `json:"sketchName" column:"sketch_name" dbtype:"TEXT"`
	Ordinal     int     `json:"ordinal" column:"ordinal" dbtype:"INTEGER"`
	Status      string  `json:"status" column:"status" dbtype:"TEXT NOT NULL" index:"true"`
	Reason      string  `json:"reason,omitempty" column:"reason" dbtype:"TEXT"`
	OutputPath  string  `json:"outputPath,omitempty" column:"output_path" dbtype:"TEXT"`
	Paths       int     `json:"paths" column:"paths" dbtype:"INTEGER"`
	ViewLeft    float64 `json:"viewLeft" column:"view_left" dbtype:"REAL"`
	ViewTop     float64 `json:"viewTop" column:"view_top" dbtype:"REAL"`
	ViewWidth   float64 `json:"viewWidth" column:"view_width" dbtype:"REAL"`
	ViewHeight  float64 `json:"viewHeight" column:"view_height" dbtype:"REAL"`
	ConvertedAt int64   `json:"convertedAt" column:"converted_at" dbtype:"INTEGER"`
}

func (c *Conversion) GetTableName() string {
	return "conversions"
}

func (c *Conversion) GetPrimaryKey() map[string]any {
	return map[string]any{
		"source": c.Source,
		"entity": c.Entity,
	}
}

// Viewport returns the stored viewport of a converted sketch
func (c *Conversion) Viewport() geometry.Viewport {
	return geometry.Viewport{Left: c.ViewLeft, Top: c.ViewTop, Width: c.ViewWidth, Height: c.ViewHeight}
}

// NewConverted records a drawing written to outputPath
func NewConverted(source, entity string, ordinal int, d *geometry.Drawing, outputPath string) *Conversion {
	return &Conversion{
		Source:      source,
		Entity:      entity,
		SketchName:  d.Name,
		Ordinal:     ordinal,
		Status:      StatusConverted,
		OutputPath:  outputPath,
		Paths:       len(d.Paths),
		ViewLeft:    d.Viewport.Left,
		ViewTop:     d.Viewport.Top,
		ViewWidth:   d.Viewport.Width,
		ViewHeight:  d.Viewport.Height,
		ConvertedAt: time.Now().Unix(),
	}
}

// NewSkipped records a sketch that produced no drawing
func NewSkipped(source, entity, sketchName string, ordinal int, reason error) *Conversion {
	return &Conversion{
		Source:      source,
		Entity:      entity,
		SketchName:  sketchName,
		Ordinal:     ordinal,
		Status:      StatusSkipped,
		Reason:      reason.Error(),
		ConvertedAt: time.Now().Unix(),
	}
}

///////////////////////////////////////////////////////////////////////////////
/// Catalog
///////////////////////////////////////////////////////////////////////////////

// Catalog is the conversion history of a batch run
type Catalog struct {
	store *Store
}

// Open opens the catalogue at path and makes sure its table exists
func Open(ctx context.Context, path string) (*Catalog, error) {
	store, err := OpenStore(path)
	if err != nil {
		return nil, err
	}
	if err := store.CreateTable(ctx, &Conversion{}); err != nil {
		store.Close()
		return nil, err
	}
	return &Catalog{store: store}, nil
}

func (c *Catalog) Close() error {
	return c.store.Close()
}

/**
* Records the conversions of one source file in a single transaction. Earlier records of
* the same entity are replaced and records of entities the file no longer holds are deleted,
* so after a run the catalogue describes the file as it was last converted.
* An empty convs clears the source.
 */
func (c *Catalog) Record(ctx context.Context, source string, convs []*Conversion) error {
	if source == "" {
		return fmt.Errorf("conversion needs a source")
	}
	keep := make(map[string]bool, len(convs))
	objs := make([]Persistable, len(convs))
	for i, conv := range convs {
		if conv.Source != source || conv.Entity == "" {
			return fmt.Errorf("conversion %q of %q does not belong to %s", conv.Entity, conv.Source, source)
		}
		keep[conv.Entity] = true
		objs[i] = conv
	}

	old, err := c.Conversions(ctx, source)
	if err != nil {
		return err
	}
	for _, o := range old {
		if keep[o.Entity] {
			continue
		}
		logger.Debug("forgetting", source, o.Entity)
		if err := c.store.Delete(ctx, o); err != nil {
			return err
		}
	}
	return c.store.BulkSave(ctx, objs)
}

// Conversions lists the records of source, every record when source is empty, by source then ordinal
func (c *Catalog) Conversions(ctx context.Context, source string) ([]*Conversion, error) {
	if source == "" {
		return FindWhere[Conversion](ctx, c.store, "1 = 1 ORDER BY source, ordinal")
	}
	return FindWhere[Conversion](ctx, c.store, "source = ? ORDER BY ordinal", source)
}

// Counts returns the number of records per status
func (c *Catalog) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := c.store.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM conversions GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count conversions: %w", err)
	}
	defer rows.Close()

	ret := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		ret[status] = n
	}
	return ret, rows.Err()
}
