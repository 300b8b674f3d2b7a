package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/graphgen"
)

// sampleCommand writes the demonstration graph or documents.
func (c *CLI) sampleCommand() *cobra.Command {
	var (
		output    string
		documents bool
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write the demonstration graph (or its source documents)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if documents {
				data, err = json.MarshalIndent(graphgen.SampleDocuments(), "", "  ")
				data = append(data, '\n')
			} else {
				data, err = graph.MarshalGraph(graph.Sample())
			}
			if err != nil {
				return err
			}

			if err := c.writeFile(output, data); err != nil {
				return err
			}
			if output != "" {
				c.con.ok("Sample written")
				c.con.file(output)
				if documents {
					c.con.next("Extract", fmt.Sprintf("%s generate %s", appName, output))
				} else {
					c.con.next("Layout", fmt.Sprintf("%s layout %s --focus n1", appName, output))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&documents, "documents", false, "write the sample documents for 'generate' instead")

	return cmd
}
