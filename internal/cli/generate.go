package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/graphgen"
)

// generateCommand creates the generate command for LLM graph extraction.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output  string
		model   string
		noCache bool
		sample  bool
	)

	cmd := &cobra.Command{
		Use:   "generate [documents.json]",
		Short: "Extract a knowledge graph from documents with an LLM",
		Long: `Extract a knowledge graph from documents with an LLM.

The input is a JSON array of {"id", "content"} objects. The documents are sent
to an OpenAI-compatible chat completion endpoint (Ollama by default, see the
[llm] config section) which answers with the nodes and edges it finds.

Results are cached by document content, so regenerating the same documents
does not call the model again.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if sample {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if model != "" {
				c.Config.LLM.Model = model
			}
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runGenerate(cmd.Context(), input, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().StringVar(&model, "model", "", "model name (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always call the model")
	cmd.Flags().BoolVar(&sample, "sample", false, "use the built-in sample documents")

	return cmd
}

// runGenerate loads documents, extracts a graph and writes it.
func (c *CLI) runGenerate(ctx context.Context, input, output string, noCache bool) error {
	docs := graphgen.SampleDocuments()
	if input != "" {
		var err error
		docs, err = graphgen.ReadDocumentsFile(input)
		if err != nil {
			return fmt.Errorf("load documents %s: %w", input, err)
		}
	}

	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer cc.Close()

	gen := c.newGenerator(cc)
	step := startStep(c.Logger, phaseExtract)

	sp := startSpinner(ctx, c.con, phaseExtract, fmt.Sprintf("%d documents with %s", len(docs), gen.Model()))
	g, err := gen.Generate(ctx, docs)
	if err != nil {
		return fmt.Errorf("generate: %w", sp.fail(err))
	}
	sp.stop()
	step.done("documents", len(docs), "nodes", len(g.Nodes), "edges", len(g.Edges))

	if len(g.Nodes) == 0 {
		c.con.warn("The model found no nodes")
	}

	outputPath := output
	if outputPath == "" {
		outputPath = generateOutputPath(input)
	}
	if err := graph.WriteGraphFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	c.con.ok("Graph extracted")
	c.con.file(outputPath)
	c.con.graphStats(g)
	if len(g.Nodes) > 0 {
		c.con.next("Layout", fmt.Sprintf("%s layout %s --focus %s", appName, outputPath, g.Nodes[0].ID))
	}
	return nil
}

// generateOutputPath derives "<input>.graph.json", or "graph.json" for the
// built-in documents.
func generateOutputPath(input string) string {
	if input == "" {
		return "graph.json"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".graph.json"
}
