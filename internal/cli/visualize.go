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

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{Format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a node-link diagram from a computed layout",
		Long: `Render a node-link diagram from a computed layout.

The visualize command takes a layout file (produced by 'layout') and renders
it with Graphviz. Node positions come from the layout and are pinned, so the
diagram matches what the API would serve for the same focus and seed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format == pipeline.FormatJSON {
				return fmt.Errorf("invalid format: json (visualize renders dot or svg)")
			}
			if err := pipeline.ValidateFormat(opts.Format); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show node types")
	cmd.Flags().BoolVar(&opts.IncludeHidden, "include-hidden", false, "draw hidden nodes faintly")
	cmd.Flags().BoolVar(&opts.EdgeLabels, "edge-labels", false, "label edges with their relation")

	cmd.ValidArgsFunction = completeJSONFiles
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(pipeline.FormatSVG, pipeline.FormatDOT))

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	sp := startSpinner(ctx, c.con, phaseLoad, input)
	layout, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, sp.fail(err))
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", sp.fail(err))
	}
	defer runner.Close()

	sp.advance(phaseRender, fmt.Sprintf("%s around %s", opts.Format, layout.Focus))
	data, err := runner.Render(ctx, layout, opts)
	if err != nil {
		return fmt.Errorf("visualize: %w", sp.fail(err))
	}
	sp.stop()

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.Format
	}
	if err := c.writeFile(outputPath, data); err != nil {
		return err
	}

	c.con.ok("Rendered %s around %s", opts.Format, StyleHighlight.Render(focusLabel(layout.Nodes, layout.Focus)))
	c.con.file(outputPath)
	return nil
}
