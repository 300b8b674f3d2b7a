package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/pipeline"
)

// layoutFlags holds the flags shared by commands that relayout a graph.
type layoutFlags struct {
	opts    pipeline.Options
	seed    uint64
	noCache bool
}

// register adds the layout flags to cmd.
func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.opts.Focus, "focus", "", "ID of the node to center on (required)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "jitter seed for a reproducible layout (default: random)")
	cmd.Flags().BoolVar(&f.opts.Concentric, "concentric", false, "place each hop distance on its own ring")
	cmd.Flags().BoolVar(&f.opts.Strict, "strict", false, "fail if the focus is not a node")
	cmd.Flags().Float64Var(&f.opts.BaseRadius, "radius", 0, "ring radius (default from config)")
	cmd.Flags().IntVar(&f.opts.Cutoff, "cutoff", 0, "maximum visible hop distance (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")

	cmd.ValidArgsFunction = completeJSONFiles
	_ = cmd.RegisterFlagCompletionFunc("focus", completeFocus)
}

// options merges flags over the configured layout defaults.
func (f *layoutFlags) options(c *CLI, cmd *cobra.Command) pipeline.Options {
	opts := f.opts
	def := c.Config.Layout
	if !cmd.Flags().Changed("radius") {
		opts.BaseRadius = def.BaseRadius
	}
	if !cmd.Flags().Changed("cutoff") {
		opts.Cutoff = def.Cutoff
	}
	if !cmd.Flags().Changed("concentric") {
		opts.Concentric = def.Concentric
	}
	if !cmd.Flags().Changed("strict") {
		opts.Strict = def.Strict
	}
	if cmd.Flags().Changed("seed") {
		seed := f.seed
		opts.Seed = &seed
	}
	return opts
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Relayout a graph around a focus node",
		Long: `Relayout a graph around a focus node.

Every node within three hops of the focus is placed on a ring around it and
faded by distance; everything further away is hidden. The output is the full
graph with positions, visibility and opacity filled in (json), or a
node-link diagram (dot, svg).

Seeded layouts (--seed) are reproducible and cached locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(c, cmd)
			if err := opts.Validate(); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.<format>)")
	cmd.Flags().StringVarP(&flags.opts.Format, "format", "f", pipeline.FormatJSON, "output format: json, dot, svg")
	cmd.Flags().BoolVar(&flags.opts.Detailed, "detailed", false, "show node types in diagrams")
	cmd.Flags().BoolVar(&flags.opts.IncludeHidden, "include-hidden", false, "draw hidden nodes faintly in diagrams")
	cmd.Flags().BoolVar(&flags.opts.EdgeLabels, "edge-labels", false, "label edges with their relation in diagrams")
	_ = cmd.MarkFlagRequired("focus")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG))

	return cmd
}

// runLayout loads the graph, relayouts it, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	sp := startSpinner(ctx, c.con, phaseLoad, input)
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, sp.fail(err))
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", sp.fail(err))
	}
	defer runner.Close()

	sp.advance(phaseLayout, fmt.Sprintf("%d nodes around %s", len(g.Nodes), opts.Focus))
	l, cached, err := runner.Layout(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", sp.fail(err))
	}

	sp.advance(phaseRender, opts.Format)
	data, err := runner.Render(ctx, l, opts)
	if err != nil {
		return fmt.Errorf("render %s: %w", opts.Format, sp.fail(err))
	}
	sp.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = layoutOutputPath(input, opts.Format)
	}
	if err := c.writeFile(outputPath, data); err != nil {
		return err
	}

	c.con.ok("Layout around %s", StyleHighlight.Render(focusLabel(g.Nodes, opts.Focus)))
	c.con.file(outputPath)
	c.con.layoutStats(l.Stats, cached)
	if l.Stats.HiddenNodes > 0 {
		c.con.detail("%d nodes more than %d hops away are hidden", l.Stats.HiddenNodes, opts.Cutoff)
	}
	if opts.Format == pipeline.FormatJSON {
		c.con.next("Render", appName+" visualize "+outputPath)
	}

	return nil
}

// layoutOutputPath derives "<input>.layout.<format>" from the input path.
func layoutOutputPath(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".layout." + format
}

// writeFile writes data to path.
func (c *CLI) writeFile(path string, data []byte) error {
	out, err := c.openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return out.Close()
}
