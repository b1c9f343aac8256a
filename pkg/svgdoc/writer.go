package svgdoc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/andybalholm/brotli"
	"github.com/richard-senior/sketchsvg/pkg/geometry"
)

const (
	SvgNamespace = "http://www.w3.org/2000/svg"
	// BrotliExt marks drawings written through a brotli stream
	BrotliExt = ".br"
)

///////////////////////////////////////////////////////////////////////////////
/// Style
///////////////////////////////////////////////////////////////////////////////

// Style is the presentation shared by every path of a drawing
type Style struct {
	Stroke    string
	Fill      string
	Precision int // decimals of the viewBox and stroke width, negative for shortest
}

func DefaultStyle() Style {
	return Style{
		Stroke:    "black",
		Fill:      "transparent",
		Precision: -1,
	}
}

// css renders the single path rule of the embedded stylesheet
func (s Style) css(strokeWidth float64) string {
	return fmt.Sprintf("path{stroke:%s;stroke-width:%s;fill:%s}",
		s.Stroke, geometry.FormatNumber(strokeWidth, s.Precision), s.Fill)
}

///////////////////////////////////////////////////////////////////////////////
/// Writing
///////////////////////////////////////////////////////////////////////////////

/**
* Writes the drawing as a standalone svg document: the viewBox is the drawing's viewport,
* a stylesheet gives every path the configured stroke, stroke width and fill,
* and each loop becomes one <path>.
* @param w the destination
* @param d the drawing to render
* @param style presentation of the paths
* @return the first write error, if any
 */
func Write(w io.Writer, d *geometry.Drawing, style Style) error {
	if d == nil {
		return fmt.Errorf("drawing cannot be nil")
	}
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Startraw(fmt.Sprintf(`viewBox="%s"`, d.Viewport.Format(style.Precision)))
	if d.Name != "" {
		canvas.Title(d.Name)
	}
	canvas.Style("text/css", style.css(d.StrokeWidth()))
	for _, p := range d.Paths {
		canvas.Path(p)
	}
	canvas.End()
	return bw.Flush()
}

// Render is Write into a string
func Render(d *geometry.Drawing, style Style) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, d, style); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteFile writes the drawing to path, through a brotli stream at brotliLevel when path ends in .br
func WriteFile(path string, d *geometry.Drawing, style Style, brotliLevel int) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if !strings.HasSuffix(path, BrotliExt) {
		return Write(f, d, style)
	}

	bw := brotli.NewWriterLevel(f, brotliLevel)
	if err := Write(bw, d, style); err != nil {
		bw.Close()
		return err
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("failed to finish brotli stream: %w", err)
	}
	return nil
}
