package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/richard-senior/sketchsvg/internal/config"
	"github.com/richard-senior/sketchsvg/internal/logger"
	"github.com/richard-senior/sketchsvg/pkg/catalog"
	"github.com/richard-senior/sketchsvg/pkg/geometry"
	"github.com/richard-senior/sketchsvg/pkg/reconstruction"
	"github.com/richard-senior/sketchsvg/pkg/svgdoc"
	"github.com/richard-senior/sketchsvg/pkg/transport"
	"golang.org/x/sync/errgroup"
)

// Summary counts what a Run did
type Summary struct {
	Files       int      // reconstruction files decoded
	FailedFiles int      // files that could not be read or decoded
	Sketches    int      // convertible sketch entities found
	Converted   int      // drawings written
	Skipped     int      // sketches rejected by the engine
	Outputs     []string // written files, sorted
}

// Converter turns reconstruction files into svg drawings
type Converter struct {
	cfg     *config.Config
	fetcher transport.Fetcher
	catalog *catalog.Catalog
}

type Option func(*Converter)

// WithFetcher replaces the http client used for Config.InputURL
func WithFetcher(f transport.Fetcher) Option {
	return func(c *Converter) { c.fetcher = f }
}

// WithCatalog records every conversion attempt in cat
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Converter) { c.catalog = cat }
}

func New(cfg *config.Config, opts ...Option) *Converter {
	c := &Converter{cfg: cfg}
	for _, o := range opts {
		o(c)
	}
	if c.fetcher == nil {
		c.fetcher = transport.NewClient(cfg.HTTPTimeout)
	}
	return c
}

// source is one decoded reconstruction document
type source struct {
	name string // path or url
	base string
	doc  *reconstruction.Document
}

// job is one sketch to convert
type job struct {
	src     *source
	ordinal int
	entry   reconstruction.SketchEntry
}

func (j job) outputName(ext string) string {
	return fmt.Sprintf("%s_%03d%s", j.src.base, j.ordinal, ext)
}

/**
* Runs a whole batch: reads the configured sources, converts every sketch on a bounded
* worker group and writes one drawing per converted sketch into Config.OutputDir.
* Sketches the engine rejects are logged and skipped; undecodable files are logged and counted.
* @return the run summary, or an error when output or catalogue writes fail or ctx ends
 */
func (c *Converter) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{}

	sources, err := c.loadSources(ctx, sum)
	if err != nil {
		return sum, err
	}

	var jobs []job
	for _, src := range sources {
		for ordinal, entry := range src.doc.Sketches() {
			jobs = append(jobs, job{src: src, ordinal: ordinal, entry: entry})
		}
	}
	sum.Sketches = len(jobs)
	if len(jobs) == 0 {
		logger.Warn("No sketches found")
		return sum, c.record(ctx, sources, nil)
	}

	if err := os.MkdirAll(c.cfg.OutputDir, 0755); err != nil {
		return sum, fmt.Errorf("failed to create output directory: %w", err)
	}

	var mu sync.Mutex
	rows := make(map[*source][]*catalog.Conversion, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for i, j := range jobs {
		i, j := i, j
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sketch := j.entry.Entity.Sketch()
			logger.Info("processing", fmt.Sprintf("%d/%d", i+1, len(jobs)), j.src.base, sketch.Name, sketch.NumCurves(), "curves")
			rec, err := c.convertOne(j, sketch)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if rec.Status == catalog.StatusSkipped {
				sum.Skipped++
			} else {
				sum.Converted++
				sum.Outputs = append(sum.Outputs, rec.OutputPath)
			}
			rows[j.src] = append(rows[j.src], rec)
			return nil
		})
	}

	err = g.Wait()
	sort.Strings(sum.Outputs)
	if err == nil {
		// a cancel that raced the last job still ends the run
		err = ctx.Err()
	}
	if err != nil {
		return sum, err
	}
	if err := c.record(ctx, sources, rows); err != nil {
		return sum, err
	}
	logger.Inform("Converted", sum.Converted, "of", sum.Sketches, "sketches,", sum.Skipped, "skipped")
	return sum, nil
}

/**
* Converts and writes one sketch.
* @return the catalogue row of the attempt; a skipped sketch gives a skipped row and no error
 */
func (c *Converter) convertOne(j job, sketch geometry.Sketch) (*catalog.Conversion, error) {
	opts := geometry.Options{Dilation: c.cfg.Dilation, Precision: c.cfg.Precision}

	d, err := geometry.ConvertSketch(sketch, opts)
	if err != nil {
		if !isSkip(err) {
			return nil, err
		}
		logger.Warn("Skipping sketch", j.src.base, j.entry.ID, err)
		return catalog.NewSkipped(j.src.name, j.entry.ID, j.entry.Entity.Name, j.ordinal, err), nil
	}

	path := filepath.Join(c.cfg.OutputDir, j.outputName(c.cfg.OutputExt()))
	logger.Debug("writing", path)
	style := svgdoc.Style{Stroke: c.cfg.StrokeColour, Fill: c.cfg.Fill, Precision: c.cfg.Precision}
	if err := svgdoc.WriteFile(path, d, style, c.cfg.BrotliLevel); err != nil {
		return nil, err
	}
	return catalog.NewConverted(j.src.name, j.entry.ID, j.ordinal, d, path), nil
}

// record writes the rows of every decoded source to the catalogue, one transaction per file
func (c *Converter) record(ctx context.Context, sources []*source, rows map[*source][]*catalog.Conversion) error {
	if c.catalog == nil {
		return nil
	}
	for _, src := range sources {
		recs := rows[src]
		sort.Slice(recs, func(a, b int) bool { return recs[a].Ordinal < recs[b].Ordinal })
		if err := c.catalog.Record(ctx, src.name, recs); err != nil {
			return fmt.Errorf("failed to record %s: %w", src.name, err)
		}
	}
	return nil
}

// isSkip reports whether err rejects a single sketch rather than the run
func isSkip(err error) bool {
	return errors.Is(err, geometry.ErrUnsupportedCurve) ||
		errors.Is(err, geometry.ErrEmptySketch) ||
		errors.Is(err, geometry.ErrDegenerateViewport)
}

// loadSources decodes the url or every matching file of the input directory
func (c *Converter) loadSources(ctx context.Context, sum *Summary) ([]*source, error) {
	if c.cfg.InputURL != "" {
		data, err := c.fetcher.Fetch(ctx, c.cfg.InputURL)
		if err != nil {
			return nil, err
		}
		doc, err := reconstruction.Decode(bytes.NewReader(data))
		if err != nil {
			sum.FailedFiles++
			return nil, fmt.Errorf("failed to decode %s: %w", c.cfg.InputURL, err)
		}
		sum.Files++
		return []*source{{name: c.cfg.InputURL, base: reconstruction.BaseName(c.cfg.InputURL), doc: doc}}, nil
	}

	files, err := reconstruction.ListFiles(c.cfg.InputDir, c.cfg.Filter)
	if err != nil {
		return nil, err
	}
	logger.Info("Found", len(files), "files in", c.cfg.InputDir)

	var ret []*source
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Debug("reading", fmt.Sprintf("%d/%d", i+1, len(files)), f)
		doc, err := reconstruction.LoadFile(f)
		if err != nil {
			logger.Warn("Skipping unreadable file", f, err)
			sum.FailedFiles++
			continue
		}
		sum.Files++
		ret = append(ret, &source{name: f, base: reconstruction.BaseName(f), doc: doc})
	}
	return ret, nil
}
