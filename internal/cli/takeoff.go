package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmengistu/stratum/pkg/cache"
	"github.com/tmengistu/stratum/pkg/pipeline"
	"github.com/tmengistu/stratum/pkg/render"
)

// Model source names accepted by --source.
const (
	sourceLocal = "local"
	sourceMongo = "mongo"
)

// takeoffOpts holds the command-line flags for the takeoff command.
type takeoffOpts struct {
	sourceOpts

	elements    string // comma-separated element ids
	all         bool   // select every placed element
	interactive bool   // pick elements in a TUI
	formats     string // comma-separated output formats
	output      string // output file (single format) or base path (multiple)
	redisAddr   string // redis cache address
	noCache     bool   // disable caching
	refresh     bool   // bypass cached reports
}

// newTakeoffCmd creates the takeoff command, the tool's main operation:
// extract one record per material layer for the selected elements.
//
// The element selection comes from --elements, --all, or the
// interactive picker; supplying none of them is a fatal input error,
// reported before any extraction starts.
func newTakeoffCmd() *cobra.Command {
	opts := takeoffOpts{}

	cmd := &cobra.Command{
		Use:   "takeoff [model]",
		Short: "Extract material-per-layer records for selected elements",
		Long: `Takeoff resolves the element types behind a selection, walks each
type's compound layer structure, and emits one record per layer whose
material resolves: family, type, category, material, and 1-based layer
number.

The model argument is a snapshot file path (local source) or a stored
model name (mongo source). Types without a compound structure and
layers whose material does not resolve are skipped with a logged
warning; they never abort the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTakeoff(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.elements, "elements", "e", "", "comma-separated element ids to take off")
	cmd.Flags().BoolVar(&opts.all, "all", false, "select every placed element in the model")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick elements interactively")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): table (default), json, csv, dot, svg, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	addSourceFlags(cmd, &opts.sourceOpts)
	cmd.Flags().StringVar(&opts.redisAddr, "redis", os.Getenv("STRATUM_REDIS_ADDR"), "redis address for a shared cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached reports and re-extract")

	return cmd
}

// runTakeoff executes the takeoff pipeline and writes the requested
// artifacts.
func runTakeoff(ctx context.Context, modelArg string, opts *takeoffOpts) error {
	logger := loggerFromContext(ctx)

	src, closeSrc, err := opts.sourceOpts.open(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	c, err := openCache(ctx, opts)
	if err != nil {
		return err
	}

	elements, err := parseElements(opts.elements)
	if err != nil {
		return err
	}

	if opts.interactive {
		elements, err = pickElements(ctx, src, modelArg)
		if err != nil {
			return err
		}
	}

	runner := pipeline.NewRunner(c, nil, logger)
	defer runner.Close()

	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, "Extracting material layers...")
	spin.Start()
	result, err := runner.Execute(ctx, pipeline.Options{
		Model:      modelArg,
		SourceName: opts.sourceName,
		Refresh:    opts.refresh,
		Elements:   elements,
		All:        opts.all,
		Formats:    render.ParseFormats(opts.formats),
		Source:     src,
		Logger:     logger,
	})
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Takeoff failed for %q", modelArg))
		return err
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Extracted %d material layers from %q", result.Stats.RecordCount, result.Model))

	return writeArtifacts(result, opts.output)
}

// openCache builds the cache backend: redis when --redis is set, a
// file cache by default, and a null cache with --no-cache.
func openCache(ctx context.Context, opts *takeoffOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// parseElements parses the --elements flag into element ids, keeping
// the order given on the command line.
func parseElements(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid element id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// formatExtensions maps output formats to file extensions.
var formatExtensions = map[string]string{
	render.FormatTable: ".txt",
	render.FormatJSON:  ".json",
	render.FormatCSV:   ".csv",
	render.FormatDOT:   ".dot",
	render.FormatSVG:   ".svg",
	render.FormatPNG:   ".png",
}

// writeArtifacts writes each rendered artifact. With no --output, the
// terminal table goes to stdout and everything else falls back to
// "takeoff.<ext>" next to the working directory.
func writeArtifacts(result *pipeline.Result, output string) error {
	multiple := len(result.Artifacts) > 1

	for format, data := range result.Artifacts {
		if format == render.FormatTable && output == "" {
			fmt.Println(string(data))
			continue
		}

		path := artifactPath(output, format, multiple)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printSuccess("Wrote %s report to %s", format, path)
	}
	return nil
}

// artifactPath resolves where one artifact lands. A single format uses
// --output verbatim when given; multiple formats treat --output as a
// base path and append the format extension.
func artifactPath(output, format string, multiple bool) string {
	ext := formatExtensions[format]
	if output == "" {
		return "takeoff" + ext
	}
	if !multiple {
		return output
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + ext
}
