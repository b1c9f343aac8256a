package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	CompressionNone   = "none"
	CompressionBrotli = "brotli"

	// EnvPrefix prefixes every environment override, e.g. SKETCHSVG_OUTPUT_DIR
	EnvPrefix = "SKETCHSVG"
)

// Config holds every setting of a conversion run
type Config struct {
	// === INPUT ===
	InputDir string // directory of reconstruction json files (default: "./reconstruction")
	InputURL string // single reconstruction json fetched over http(s); replaces InputDir when set
	Filter   string // only files whose name contains this are read (default: ".json")

	// === OUTPUT ===
	OutputDir    string // where drawings are written (default: "./output")
	Compression  string // "none" or "brotli" (default: "none")
	BrotliLevel  int    // 0-11 (default: 6)
	StrokeColour string // path stroke colour (default: "black")
	Fill         string // path fill (default: "transparent")

	// === GEOMETRY ===
	Dilation  float64 // fractional margin around the bounding box (default: 0.1)
	Precision int     // decimals written, -1 for shortest round trip (default: -1)

	// === RUNTIME ===
	Workers     int           // sketches converted concurrently (default: runtime.NumCPU())
	CatalogPath string        // sqlite catalogue of conversions, empty disables it (default: "")
	LogLevel    string        // DEBUG, INFO, WARN... (default: "INFO")
	LogFile     string        // also log to this file when set (default: "")
	HTTPTimeout time.Duration // timeout for InputURL (default: 30s)
}

// Default returns the configuration with all standard values
func Default() *Config {
	return &Config{
		InputDir: "./reconstruction",
		InputURL: "",
		Filter:   ".json",

		OutputDir:    "./output",
		Compression:  CompressionNone,
		BrotliLevel:  6,
		StrokeColour: "black",
		Fill:         "transparent",

		Dilation:  0.1,
		Precision: -1,

		Workers:     runtime.NumCPU(),
		CatalogPath: "",
		LogLevel:    "INFO",
		LogFile:     "",
		HTTPTimeout: 30 * time.Second,
	}
}

// keys used in config files and, upper cased and prefixed, in the environment
const (
	keyInputDir     = "input_dir"
	keyInputURL     = "input_url"
	keyFilter       = "filter"
	keyOutputDir    = "output_dir"
	keyCompression  = "compression"
	keyBrotliLevel  = "brotli_level"
	keyStrokeColour = "stroke_colour"
	keyFill         = "fill"
	keyDilation     = "dilation"
	keyPrecision    = "precision"
	keyWorkers      = "workers"
	keyCatalogPath  = "catalog_path"
	keyLogLevel     = "log_level"
	keyLogFile      = "log_file"
	keyHTTPTimeout  = "http_timeout"
)

// flagKeys maps command line flag names onto config keys
var flagKeys = map[string]string{
	"input-dir":    keyInputDir,
	"input-url":    keyInputURL,
	"filter":       keyFilter,
	"output-dir":   keyOutputDir,
	"compression":  keyCompression,
	"brotli-level": keyBrotliLevel,
	"stroke":       keyStrokeColour,
	"fill":         keyFill,
	"dilation":     keyDilation,
	"precision":    keyPrecision,
	"workers":      keyWorkers,
	"catalog":      keyCatalogPath,
	"log-level":    keyLogLevel,
	"log-file":     keyLogFile,
	"http-timeout": keyHTTPTimeout,
}

// RegisterFlags adds one flag per setting to fs, defaulting to Default()
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("input-dir", d.InputDir, "directory of reconstruction json files")
	fs.String("input-url", d.InputURL, "http(s) url of a single reconstruction json file, replaces --input-dir")
	fs.String("filter", d.Filter, "only read files whose name contains this")
	fs.StringP("output-dir", "o", d.OutputDir, "directory the drawings are written to")
	fs.String("compression", d.Compression, "none or brotli")
	fs.Int("brotli-level", d.BrotliLevel, "brotli quality 0-11")
	fs.String("stroke", d.StrokeColour, "path stroke colour")
	fs.String("fill", d.Fill, "path fill")
	fs.Float64("dilation", d.Dilation, "fractional margin around the bounding box")
	fs.Int("precision", d.Precision, "decimals written, -1 for shortest round trip")
	fs.IntP("workers", "j", d.Workers, "sketches converted concurrently")
	fs.String("catalog", d.CatalogPath, "sqlite catalogue of conversions, empty disables it")
	fs.String("log-level", d.LogLevel, "DEBUG, INFO, INFORM, HIGHLIGHT, WARN, ERROR")
	fs.String("log-file", d.LogFile, "also log to this file")
	fs.Duration("http-timeout", d.HTTPTimeout, "timeout for --input-url")
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault(keyInputDir, d.InputDir)
	v.SetDefault(keyInputURL, d.InputURL)
	v.SetDefault(keyFilter, d.Filter)
	v.SetDefault(keyOutputDir, d.OutputDir)
	v.SetDefault(keyCompression, d.Compression)
	v.SetDefault(keyBrotliLevel, d.BrotliLevel)
	v.SetDefault(keyStrokeColour, d.StrokeColour)
	v.SetDefault(keyFill, d.Fill)
	v.SetDefault(keyDilation, d.Dilation)
	v.SetDefault(keyPrecision, d.Precision)
	v.SetDefault(keyWorkers, d.Workers)
	v.SetDefault(keyCatalogPath, d.CatalogPath)
	v.SetDefault(keyLogLevel, d.LogLevel)
	v.SetDefault(keyLogFile, d.LogFile)
	v.SetDefault(keyHTTPTimeout, d.HTTPTimeout)
}

/**
* Loads the configuration: defaults, then the config file at path (yaml, toml or json,
* skipped when path is empty), then SKETCHSVG_* environment variables, then the flags
* of fs that were set on the command line (fs may be nil).
* The result is validated before it is returned.
 */
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		InputDir:     v.GetString(keyInputDir),
		InputURL:     v.GetString(keyInputURL),
		Filter:       v.GetString(keyFilter),
		OutputDir:    v.GetString(keyOutputDir),
		Compression:  strings.ToLower(v.GetString(keyCompression)),
		BrotliLevel:  v.GetInt(keyBrotliLevel),
		StrokeColour: v.GetString(keyStrokeColour),
		Fill:         v.GetString(keyFill),
		Dilation:     v.GetFloat64(keyDilation),
		Precision:    v.GetInt(keyPrecision),
		Workers:      v.GetInt(keyWorkers),
		CatalogPath:  v.GetString(keyCatalogPath),
		LogLevel:     v.GetString(keyLogLevel),
		LogFile:      v.GetString(keyLogFile),
		HTTPTimeout:  v.GetDuration(keyHTTPTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all configuration values are within reasonable ranges
func (c *Config) Validate() error {
	if c.InputDir == "" && c.InputURL == "" {
		return fmt.Errorf("either an input directory or an input url is required")
	}
	if c.InputURL != "" && !strings.HasPrefix(c.InputURL, "http://") && !strings.HasPrefix(c.InputURL, "https://") {
		return fmt.Errorf("InputURL must be an http or https url, got: %s", c.InputURL)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OutputDir cannot be empty")
	}
	if c.Compression != CompressionNone && c.Compression != CompressionBrotli {
		return fmt.Errorf("Compression must be %q or %q, got: %q", CompressionNone, CompressionBrotli, c.Compression)
	}
	if c.BrotliLevel < 0 || c.BrotliLevel > 11 {
		return fmt.Errorf("BrotliLevel must be between 0 and 11, got: %d", c.BrotliLevel)
	}
	if c.Dilation < 0 {
		return fmt.Errorf("Dilation cannot be negative, got: %f", c.Dilation)
	}
	if c.Precision < -1 || c.Precision > 17 {
		return fmt.Errorf("Precision must be between -1 and 17, got: %d", c.Precision)
	}
	if c.Workers < 1 {
		return fmt.Errorf("Workers must be at least 1, got: %d", c.Workers)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTPTimeout must be positive, got: %s", c.HTTPTimeout)
	}
	return nil
}

// OutputExt is the file extension drawings are written with
func (c *Config) OutputExt() string {
	if c.Compression == CompressionBrotli {
		return ".svg.br"
	}
	return ".svg"
}
