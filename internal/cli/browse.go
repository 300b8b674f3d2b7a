package cli

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/radial"
)

// List styles
var (
	listHiddenStyle = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
)

// browseCommand creates the interactive focus browser.
func (c *CLI) browseCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "browse [graph.json]",
		Short: "Explore a graph by moving the focus interactively",
		Long: `Explore a graph by moving the focus interactively.

Nodes are listed by hop distance from the current focus. Press enter to
re-focus on the highlighted node and backspace to return to the previous one.
The starting focus defaults to the first node.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			if len(g.Nodes) == 0 {
				return fmt.Errorf("%s has no nodes", args[0])
			}

			opts := flags.options(c, cmd)
			if opts.Focus == "" {
				opts.Focus = g.Nodes[0].ID
			}
			opts.SetDefaults()

			engine := radial.NewEngine(opts.EngineOptions())
			m, err := NewBrowseModel(g, engine, opts.Focus, opts.Cutoff)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			if bm, ok := final.(BrowseModel); ok {
				c.con.info("Last focus: %s", StyleHighlight.Render(focusLabel(bm.Graph.Nodes, bm.Focus)))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// BrowseModel - Interactive focus selection
// =============================================================================

// BrowseModel is the bubbletea model for the focus browser.
type BrowseModel struct {
	Graph  graph.Graph
	Focus  string
	Result radial.Result
	Cursor int
	Height int
	Offset int

	engine  *radial.Engine
	cutoff  int
	order   []int    // node indexes sorted by distance
	history []string // previous foci
	err     error
}

// NewBrowseModel creates a browser focused on focus.
func NewBrowseModel(g graph.Graph, engine *radial.Engine, focus string, cutoff int) (BrowseModel, error) {
	m := BrowseModel{
		Graph:  g,
		Height: 15,
		engine: engine,
		cutoff: cutoff,
	}
	if err := m.refocus(focus); err != nil {
		return m, err
	}
	return m, nil
}

// refocus relayouts around focus and resets the cursor to it.
func (m *BrowseModel) refocus(focus string) error {
	res, err := m.engine.Relayout(focus, m.Graph.Nodes, m.Graph.Edges)
	if err != nil {
		return err
	}
	m.Focus = focus
	m.Result = res
	m.order = distanceOrder(res)
	m.Cursor, m.Offset = 0, 0
	return nil
}

// distanceOrder sorts node indexes by distance, unreachable nodes last.
// Ties keep input order.
func distanceOrder(res radial.Result) []int {
	order := make([]int, len(res.Nodes))
	for i := range order {
		order[i] = i
	}
	rank := func(i int) int {
		if d, ok := res.Distances.Of(res.Nodes[i].ID); ok {
			return d
		}
		return math.MaxInt
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(rank(a), rank(b))
	})
	return order
}

// Current returns the highlighted node.
func (m BrowseModel) Current() graph.Node {
	return m.Result.Nodes[m.order[m.Cursor]]
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.order)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			next := m.Current().ID
			if next == m.Focus {
				return m, nil
			}
			prev := m.Focus
			m.err = m.refocus(next)
			if m.err == nil {
				m.history = append(m.history, prev)
			}
		case "backspace", "b":
			if n := len(m.history); n > 0 {
				prev := m.history[n-1]
				m.err = m.refocus(prev)
				if m.err == nil {
					m.history = m.history[:n-1]
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Focus: " + focusLabel(m.Result.Nodes, m.Focus)))
	b.WriteString("\n")
	b.WriteString(listHiddenStyle.Render("↑/↓ navigate  ⏎ focus  ⌫ back  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.order))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Result.Nodes[m.order[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		hops, opacity := "—", "hidden"
		if d, ok := m.Result.Distances.Of(n.ID); ok {
			hops = strconv.Itoa(d)
		}
		if op, ok := n.Style.Opacity(); ok && !n.Hidden {
			opacity = strconv.FormatFloat(op, 'f', 2, 64)
		}
		typ := n.Type
		if typ == "" {
			typ = "—"
		}
		rows = append(rows, []string{cursor, n.DisplayLabel(), typ, hops, opacity})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Type", "Hops", "Opacity").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.order) {
				return lipgloss.NewStyle()
			}
			n := m.Result.Nodes[m.order[idx]]
			base := lipgloss.NewStyle()
			switch {
			case idx == m.Cursor:
				base = base.Foreground(colorOK).Bold(true)
			case n.Selected:
				base = base.Foreground(colorAccent)
			case n.Hidden:
				base = base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	st := m.Result.Stats
	b.WriteString(listHiddenStyle.Render(fmt.Sprintf("  [%d/%d]  %d visible · %d hidden · cutoff %d hops",
		m.Cursor+1, len(m.order), st.VisibleNodes, st.HiddenNodes, m.cutoff)))
	if len(m.history) > 0 {
		b.WriteString(listHiddenStyle.Render("  · back to " + m.history[len(m.history)-1]))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styleFail.Render(markFail) + " " + m.err.Error())
	}

	return b.String()
}
