package svgdoc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/richard-senior/sketchsvg/pkg/geometry"
)

// Document is what can be read back from a written drawing
type Document struct {
	Name     string
	Title    string
	Viewport geometry.Viewport
	Paths    []string
	Style    string
}

// Parse reads an svg document. Only the root viewBox, the title, the stylesheet and path data are kept.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing svg: %w", err)
	}

	root := doc.Find("svg").First()
	if root.Length() == 0 {
		return nil, fmt.Errorf("no <svg> element found")
	}

	viewBox, ok := attrFold(root, "viewBox")
	if !ok {
		return nil, fmt.Errorf("<svg> has no viewBox")
	}
	vp, err := ParseViewBox(viewBox)
	if err != nil {
		return nil, err
	}

	ret := &Document{
		Viewport: vp,
		Title:    strings.TrimSpace(root.Find("title").First().Text()),
		Style:    strings.TrimSpace(root.Find("style").First().Text()),
	}
	root.Find("path").Each(func(i int, s *goquery.Selection) {
		if d, ok := s.Attr("d"); ok {
			ret.Paths = append(ret.Paths, d)
		}
	})
	return ret, nil
}

// ReadFile parses the drawing at path, decompressing it first when it ends in .br
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read svg file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	name := filepath.Base(path)
	if strings.HasSuffix(name, BrotliExt) {
		r = brotli.NewReader(f)
		name = strings.TrimSuffix(name, BrotliExt)
	}
	doc, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Name = strings.TrimSuffix(name, filepath.Ext(name))
	return doc, nil
}

// ParseViewBox reads "min-x min-y width height", separated by spaces and/or commas
func ParseViewBox(s string) (geometry.Viewport, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return geometry.Viewport{}, fmt.Errorf("viewBox must have 4 numbers, got %q", s)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Viewport{}, fmt.Errorf("invalid viewBox number %q: %w", f, err)
		}
		v[i] = n
	}
	return geometry.Viewport{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}, nil
}

// attrFold looks an attribute up ignoring case, html parsing may or may not have kept it
func attrFold(s *goquery.Selection, name string) (string, bool) {
	if len(s.Nodes) == 0 {
		return "", false
	}
	for _, a := range s.Nodes[0].Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}
