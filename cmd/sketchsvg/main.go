package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/richard-senior/sketchsvg/internal/config"
	"github.com/richard-senior/sketchsvg/internal/logger"
	"github.com/richard-senior/sketchsvg/pkg/catalog"
	"github.com/richard-senior/sketchsvg/pkg/convert"
	"github.com/richard-senior/sketchsvg/pkg/geometry"
	"github.com/richard-senior/sketchsvg/pkg/svgdoc"
	"github.com/spf13/pflag"
)

const usage = `Usage:
  sketchsvg [convert] [flags]            convert reconstruction sketches into svg drawings
  sketchsvg inspect [flags] <file.svg>.. print the viewBox and paths of written drawings

Settings are read from --config, then SKETCHSVG_* environment variables, then flags.
`

var errUnknownCommand = errors.New("unknown command")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	if errors.Is(err, errUnknownCommand) {
		fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("sketchsvg failed:", err)
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}

// run dispatches args to a subcommand, convert when the first argument is a flag or missing
func run(ctx context.Context, args []string, out io.Writer) error {
	cmd := "convert"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "convert":
		return runConvert(ctx, args)
	case "inspect":
		return runInspect(ctx, args, out)
	case "help":
		_, err := fmt.Fprint(out, usage)
		return err
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, cmd)
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage, "\nFlags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// setupLogging applies the configured level and log file
func setupLogging(cfg *config.Config) error {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	if cfg.LogFile != "" {
		logger.SetShowDateTime(true)
		if err := logger.SetLogFile('b', cfg.LogFile); err != nil {
			return err
		}
	}
	return nil
}

func runConvert(ctx context.Context, args []string) error {
	fs := newFlagSet("convert")
	configPath := fs.StringP("config", "c", "", "config file (yaml, toml or json)")
	config.RegisterFlags(fs)
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	logger.Info("Starting sketchsvg conversion")
	logger.Debug("Configuration", cfg)

	var opts []convert.Option
	if cfg.CatalogPath != "" {
		cat, err := catalog.Open(ctx, cfg.CatalogPath)
		if err != nil {
			return err
		}
		defer cat.Close()
		opts = append(opts, convert.WithCatalog(cat))
	}

	sum, err := convert.New(cfg, opts...).Run(ctx)
	if err != nil {
		return err
	}
	logger.Highlight(fmt.Sprintf("%d files (%d unreadable), %d sketches: %d converted, %d skipped",
		sum.Files, sum.FailedFiles, sum.Sketches, sum.Converted, sum.Skipped))
	return nil
}

func runInspect(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("inspect")
	catalogPath := fs.String("catalog", "", "also list the conversions recorded in this sqlite catalogue")
	logLevel := fs.String("log-level", "WARN", "log level")
	_ = fs.Parse(args)

	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	if fs.NArg() == 0 && *catalogPath == "" {
		fs.Usage()
		return fmt.Errorf("nothing to inspect")
	}

	for _, path := range fs.Args() {
		doc, err := svgdoc.ReadFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n  title:   %s\n  viewBox: %s\n  paths:   %d\n", path, doc.Title, doc.Viewport.Format(-1), len(doc.Paths))
		for i, d := range doc.Paths {
			st, err := svgdoc.Stats(d, geometry.Tolerance)
			if err != nil {
				return fmt.Errorf("%s path %d: %w", path, i, err)
			}
			closed := "closed"
			if !st.Closed {
				closed = "OPEN"
			}
			fmt.Fprintf(out, "    %3d: %d commands (%d lines, %d arcs) %s\n", i, st.Commands(), st.Lines, st.Arcs, closed)
		}
	}

	if *catalogPath == "" {
		return nil
	}
	cat, err := catalog.Open(ctx, *catalogPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	recs, err := cat.Conversions(ctx, "")
	if err != nil {
		return err
	}
	for _, r := range recs {
		detail := r.OutputPath + " viewBox " + r.Viewport().Format(-1)
		if r.Status == catalog.StatusSkipped {
			detail = r.Reason
		}
		fmt.Fprintf(out, "%s %s #%d %-9s %s\n", r.Source, r.SketchName, r.Ordinal, r.Status, detail)
	}
	counts, err := cat.Counts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "converted: %d, skipped: %d\n", counts[catalog.StatusConverted], counts[catalog.StatusSkipped])
	return nil
}
