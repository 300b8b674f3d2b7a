package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kgraph/pkg/graph"
)

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for kgraph.

Besides commands and flags, the scripts complete --focus with the node IDs
of the graph file on the command line and --format with the formats each
command accepts.

  $ source <(kgraph completion bash)
  $ kgraph completion zsh > "${fpath[1]}/_kgraph"
  $ kgraph completion fish > ~/.config/fish/completions/kgraph.fish
  PS> kgraph completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(c.out, true)
			case "zsh":
				return root.GenZshCompletion(c.out)
			case "fish":
				return root.GenFishCompletion(c.out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(c.out)
			}
		},
	}
}

// completeJSONFiles completes the single graph or layout file argument.
func completeJSONFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFocus offers the node IDs of the graph named by the first
// argument, described by their labels.
func completeFocus(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	g, err := graph.ReadGraphFile(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return focusCandidates(g, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func focusCandidates(g graph.Graph, prefix string) []string {
	var out []string
	for _, n := range g.Nodes {
		if !strings.HasPrefix(n.ID, prefix) {
			continue
		}
		if n.Label != "" {
			out = append(out, n.ID+"\t"+n.Label)
		} else {
			out = append(out, n.ID)
		}
	}
	return out
}

// completeFormats completes --format with a fixed list.
func completeFormats(formats ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return formats, cobra.ShellCompDirectiveNoFileComp
	}
}
