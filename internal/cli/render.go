package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/matzehuels/relline/pkg/config"
	"github.com/matzehuels/relline/pkg/errors"
	"github.com/matzehuels/relline/pkg/geom"
	pkgio "github.com/matzehuels/relline/pkg/io"
	"github.com/matzehuels/relline/pkg/pipeline"
)

// stdoutPath is the --output value that writes to standard output.
const stdoutPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (or base path for multiple outputs)
	formats  []string
	elements bool
	labels   bool
	detailed bool
	scale    float64
	scroll   string // "x,y" scroll offset override
	copy     bool   // copy the SVG to the clipboard
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Draw the connectors of a scene file",
		Long: `Render loads a scene (.json or .toml), runs one settled draw pass and
writes the result. Relations whose elements are missing, empty or outside the
bounding element are skipped; run with -v to see why.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = pipeline.ParseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output != "" && opts.output != stdoutPath {
				if err := errors.ValidatePath(opts.output); err != nil {
					return err
				}
			}
			if opts.output == stdoutPath && len(opts.formats) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(opts.formats))
			}
			if opts.copy && !slices.Contains(opts.formats, pipeline.FormatSVG) {
				opts.formats = append(opts.formats, pipeline.FormatSVG)
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], cfg, cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot, nodelink (comma-separated)")
	cmd.Flags().BoolVar(&opts.elements, "elements", false, "outline elements and the bounding element")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label element outlines (implies --elements)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include rectangles in dot/nodelink labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor (default from config, 2)")
	cmd.Flags().StringVar(&opts.scroll, "scroll", "", "scroll offset x,y (overrides the scene)")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the SVG to the clipboard")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

// pipelineOptions merges config defaults with flags. Flags win when set.
func (o *renderOpts) pipelineOptions(cfg *config.Config, cmd *cobra.Command) (pipeline.Options, error) {
	p := pipeline.Options{
		Formats:      o.formats,
		Elements:     cfg.Render.Elements,
		Labels:       cfg.Render.Labels,
		Scale:        cfg.Render.Scale,
		Detailed:     o.detailed,
		StrokeColor:  cfg.StrokeColor,
		DefaultColor: cfg.DefaultColor,
		Refresh:      o.refresh,
	}
	if cmd.Flags().Changed("elements") {
		p.Elements = o.elements
	}
	if cmd.Flags().Changed("labels") {
		p.Labels = o.labels
	}
	if cmd.Flags().Changed("scale") {
		p.Scale = o.scale
	}
	if o.scroll != "" {
		pt, err := parseScroll(o.scroll)
		if err != nil {
			return p, err
		}
		p.Scroll = &pt
	}
	return p, nil
}

func (c *CLI) runRender(ctx context.Context, input string, cfg *config.Config, cmd *cobra.Command, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	popts, err := opts.pipelineOptions(cfg, cmd)
	if err != nil {
		return err
	}

	s, err := pkgio.ImportScene(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d elements, %d relations", input, len(s.Elements), len(s.Relations))

	result, err := c.newRunner(opts.noCache).Render(ctx, s, popts)
	if err != nil {
		return err
	}

	if opts.output == stdoutPath {
		_, err := os.Stdout.Write(result.Artifacts[popts.Formats[0]])
		return err
	}

	base := basePath(opts.output, input)
	var written []string
	for _, format := range popts.Formats {
		path := base + "." + pipeline.Extension(format)
		if len(popts.Formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		written = append(written, path)
	}

	if opts.copy {
		if err := clipboard.WriteAll(string(result.Artifacts[pipeline.FormatSVG])); err != nil {
			printError("Could not copy to clipboard: %v", err)
		} else {
			logger.Debug("Copied SVG to clipboard")
		}
	}

	prog.done(fmt.Sprintf("Rendered %s", filepath.Base(input)))
	printSuccess("Rendered %d output(s)", len(written))
	printStats(result.Stats.Drawn, result.Stats.Skipped, len(result.Cached) == len(popts.Formats))
	printSkipReasons(result.Stats.Reasons)
	for _, p := range written {
		printFile(p)
	}
	return nil
}

// basePath derives the base output path from the output and input file
// paths. Known format extensions are stripped from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// parseScroll parses the --scroll flag.
func parseScroll(s string) (geom.Point, error) {
	p, err := geom.ParsePoint(s)
	if err != nil {
		return geom.Point{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "--scroll")
	}
	return p, nil
}

func writeFile(path string, data []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = f.Write(data)
	return err
}
