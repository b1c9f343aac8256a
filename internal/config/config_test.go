package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ".json", cfg.Filter)
	assert.Equal(t, 0.1, cfg.Dilation)
	assert.Equal(t, -1, cfg.Precision)
	assert.Equal(t, ".svg", cfg.OutputExt())
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no input", func(c *Config) { c.InputDir = ""; c.InputURL = "" }},
		{"bad url", func(c *Config) { c.InputURL = "ftp://example.com/a.json" }},
		{"no output", func(c *Config) { c.OutputDir = "" }},
		{"bad compression", func(c *Config) { c.Compression = "zip" }},
		{"bad brotli level", func(c *Config) { c.BrotliLevel = 12 }},
		{"negative dilation", func(c *Config) { c.Dilation = -0.1 }},
		{"bad precision", func(c *Config) { c.Precision = -2 }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"no timeout", func(c *Config) { c.HTTPTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default().OutputDir, cfg.OutputDir)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketchsvg.yaml")
	content := `
input_dir: /data/r1.0.1/reconstruction
output_dir: /data/svg
compression: Brotli
dilation: 0.25
precision: 4
workers: 3
http_timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("SKETCHSVG_STROKE_COLOUR", "#333")
	t.Setenv("SKETCHSVG_WORKERS", "8")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/data/r1.0.1/reconstruction", cfg.InputDir)
	assert.Equal(t, "/data/svg", cfg.OutputDir)
	assert.Equal(t, CompressionBrotli, cfg.Compression)
	assert.Equal(t, ".svg.br", cfg.OutputExt())
	assert.Equal(t, 0.25, cfg.Dilation)
	assert.Equal(t, 4, cfg.Precision)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	// environment beats the file
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "#333", cfg.StrokeColour)
	assert.Equal(t, "transparent", cfg.Fill)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dilation": -1}`), 0644))
	_, err := Load(path, nil)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("SKETCHSVG_WORKERS", "8")
	t.Setenv("SKETCHSVG_FILL", "none")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-j", "2", "--compression", "brotli", "-o", "/tmp/out"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, CompressionBrotli, cfg.Compression)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	// unset flags do not hide the environment
	assert.Equal(t, "none", cfg.Fill)
	assert.Equal(t, 0.1, cfg.Dilation)
}
