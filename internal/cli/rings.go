package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/radial"
)

// ringsCommand creates the rings command, which prints the ring partition
// around a focus without writing a layout.
func (c *CLI) ringsCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "rings [graph.json]",
		Short: "Show which nodes sit how many hops from a focus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(c, cmd)
			if err := opts.Validate(); err != nil {
				return err
			}

			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}

			engineOpts := opts.EngineOptions()
			engineOpts.Jitter = radial.NoJitter()
			res, err := radial.NewEngine(engineOpts).Relayout(opts.Focus, g.Nodes, g.Edges)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, StyleTitle.Render("Rings around "+focusLabel(res.Nodes, opts.Focus)))
			fmt.Fprintln(c.out, ringsTable(res, opts.Cutoff).Render())
			fmt.Fprintln(c.out, StyleDim.Render(ringsFooter(res)))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("focus")
	return cmd
}

// ringsTable tabulates each ring's distance, visibility, opacity and members.
func ringsTable(res radial.Result, cutoff int) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	sorted := radial.SortedRings(res.Rings)

	rows := make([][]string, 0, len(sorted))
	for _, r := range sorted {
		shown, opacity := "yes", strconv.FormatFloat(radial.NodeOpacity(r.Distance), 'f', 2, 64)
		if r.Distance > cutoff {
			shown, opacity = "no", "-"
		}
		labels := make([]string, len(r.Nodes))
		for i, n := range r.Nodes {
			labels[i] = n.DisplayLabel()
		}
		rows = append(rows, []string{strconv.Itoa(r.Distance), shown, opacity, strings.Join(labels, ", ")})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Hops", "Shown", "Opacity", "Nodes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(sorted) {
				return base
			}
			switch {
			case sorted[row].Distance == 0:
				return base.Foreground(colorAccent).Bold(true)
			case sorted[row].Distance > cutoff:
				return base.Foreground(colorDim)
			default:
				return base.Foreground(colorValue)
			}
		})
}

// ringsFooter summarizes what the table does not show.
func ringsFooter(res radial.Result) string {
	unreachable := 0
	for _, n := range res.Nodes {
		if _, ok := res.Distances.Of(n.ID); !ok {
			unreachable++
		}
	}
	return fmt.Sprintf("%d visible · %d hidden · %d unreachable",
		res.Stats.VisibleNodes, res.Stats.HiddenNodes, unreachable)
}

// focusLabel returns the display label of the focus, or its ID when the
// focus is not a node.
func focusLabel(nodes []graph.Node, focus string) string {
	for _, n := range nodes {
		if n.ID == focus {
			return n.DisplayLabel()
		}
	}
	return focus
}
