package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/inarow/pkg/errors"
	"github.com/matzehuels/inarow/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"

	defaultRenderDepth = 4
	defaultRenderNodes = 500
)

var renderFormats = []string{formatDOT, formatSVG, formatPNG}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	pos      positionFlags
	output   string // output file; stdout when empty
	format   string // dot, svg or png
	depth    int    // maximum distance from the root
	nodes    int    // maximum number of positions
	detailed bool   // show digest, next chip and outcome under each board
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		format: formatSVG,
		depth:  defaultRenderDepth,
		nodes:  defaultRenderNodes,
	}

	cmd := &cobra.Command{
		Use:   "render [digest]",
		Short: "Render the graph below a stored position",
		Long: `Render walks the stored graph breadth-first from a position and writes
it as Graphviz DOT, SVG or PNG. Terminal positions are colored by result;
positions cut off by --depth or --nodes are drawn dashed.`,
		Example: `  inarow render --rows 2 --cols 2 --run 2 -o tree.svg
  inarow render 3f5a1c... --format dot --depth 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(renderFormats, opts.format) {
				return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be dot, svg or png)", opts.format)
			}
			if opts.depth < 0 || opts.nodes < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--depth and --nodes must not be negative")
			}
			return c.withBackend(cmd, func(ctx context.Context, b *backend) error {
				return c.runRender(ctx, b, args, &opts)
			})
		},
	}

	opts.pos.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot, png")
	cmd.Flags().IntVar(&opts.depth, "depth", opts.depth, "maximum depth below the position (0 = unlimited)")
	cmd.Flags().IntVar(&opts.nodes, "nodes", opts.nodes, "maximum number of positions (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show digest, next chip and outcome counts")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, b *backend, args []string, opts *renderOpts) error {
	d, err := c.resolveDigest(b, args, &opts.pos)
	if err != nil {
		return err
	}
	if _, err := loadPosition(ctx, b.vault, d); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	g, err := render.Walk(ctx, b.vault, d, render.Limits{MaxNodes: opts.nodes, MaxDepth: opts.depth})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "walk %s", d.Short())
	}
	dot := render.ToDOT(g, render.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		data, err = render.RenderSVG(ctx, dot)
	case formatPNG:
		data, err = render.RenderPNG(ctx, dot)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.format)
	}
	prog.done(fmt.Sprintf("Rendered %d positions", len(g.Nodes)))

	if opts.output == "" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess(c.out, "Rendered %d positions, %d moves", len(g.Nodes), len(g.Edges))
	printFile(c.out, opts.output)
	return nil
}
