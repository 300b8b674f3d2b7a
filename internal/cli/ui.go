package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/kgraph/pkg/errors"
	"github.com/matzehuels/kgraph/pkg/graph"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal, focus and headings
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorLink   = lipgloss.Color("75")  // light blue, commands
	colorValue  = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the ring table and the browser.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorValue)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)
	styleCode    = lipgloss.NewStyle().Bold(true).Foreground(colorFail)
)

const (
	markOK    = "✓"
	markFail  = "✗"
	markWarn  = "!"
	markInfo  = "›"
	markArrow = "→"
)

// =============================================================================
// Console
// =============================================================================

// console writes human-oriented status lines. Artifacts never go through
// it, so status output can be sent to stderr while data goes to stdout.
type console struct {
	w io.Writer
}

func (c console) line(s string) {
	fmt.Fprintln(c.w, s)
}

func (c console) ok(format string, args ...any) {
	c.line(styleOK.Render(markOK) + " " + fmt.Sprintf(format, args...))
}

func (c console) warn(format string, args ...any) {
	c.line(StyleWarning.Render(markWarn + " " + fmt.Sprintf(format, args...)))
}

func (c console) info(format string, args ...any) {
	c.line(styleMuted.Render(markInfo) + " " + fmt.Sprintf(format, args...))
}

func (c console) detail(format string, args ...any) {
	c.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// fail prints what failed and, for coded errors, the code in brackets.
func (c console) fail(what string, err error) {
	msg := styleFail.Render(markFail) + " " + what
	if err == nil {
		c.line(msg)
		return
	}
	if code := errors.GetCode(err); code != "" {
		msg += " " + styleCode.Render("["+string(code)+"]")
	}
	c.line(msg + ": " + errors.UserMessage(err))
}

// file prints an output path.
func (c console) file(path string) {
	c.line("  " + StyleDim.Render(markArrow) + " " + StyleValue.Render(path))
}

// layoutStats prints visible/hidden counts for a layout and whether it was
// served from the cache.
func (c console) layoutStats(st graph.LayoutStats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d/%d nodes shown", st.VisibleNodes, st.VisibleNodes+st.HiddenNodes),
		fmt.Sprintf("%d/%d edges shown", st.VisibleEdges, st.VisibleEdges+st.HiddenEdges),
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, styleMuted.Render("fresh"))
	}
	c.line("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// graphStats prints node and edge counts of an extracted graph.
func (c console) graphStats(g graph.Graph) {
	c.detail("%d nodes · %d edges", len(g.Nodes), len(g.Edges))
}

// next suggests a follow-up command.
func (c console) next(description, cmd string) {
	c.line("")
	c.line(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
