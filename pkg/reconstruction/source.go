package reconstruction

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/richard-senior/sketchsvg/internal/logger"
)

// Decode reads one reconstruction document
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode reconstruction json: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and decodes the reconstruction document at path
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reconstruction file: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

/**
* Lists the regular files directly inside dir whose name contains filter, sorted by name.
* An empty filter matches every file. Sub directories are not descended into.
 */
func ListFiles(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var ret []string
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), filter) {
			continue
		}
		ret = append(ret, filepath.Join(dir, e.Name()))
	}
	sort.Strings(ret)
	logger.Debug(fmt.Sprintf("found %d of %d entries matching", len(ret), len(entries)), filter)
	return ret, nil
}

// BaseName strips directory and extension, leaving the project/component identifier of a file
func BaseName(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "?"); i >= 0 {
		base = base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
