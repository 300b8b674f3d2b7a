package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kgraph/pkg/buildinfo"
	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/observability"
	"github.com/matzehuels/kgraph/pkg/pipeline"
	"github.com/matzehuels/kgraph/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noCache  bool
		noLLM    bool
		seedDemo bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph and relayout HTTP API",
		Long: `Serve the graph and relayout HTTP API.

Graphs are stored in MongoDB when [mongo] uri is configured and in memory
otherwise. Layouts and extracted graphs are cached in Redis when [redis] addr
is configured and in the local cache directory otherwise. Prometheus metrics
are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache, noLLM, seedDemo)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noLLM, "no-llm", false, "disable POST /api/graphgen")
	cmd.Flags().BoolVar(&seedDemo, "sample", false, "store the sample graph on startup")

	return cmd
}

// runServe wires the store, cache, generator and metrics into a server and
// runs it until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, noCache, noLLM, seedDemo bool) error {
	logger := loggerFromContext(ctx)
	build := buildinfo.Get()
	logger.Info("starting kgraph", "version", build.Version, "commit", build.Commit, "go", build.GoVersion)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	defer observability.Use(observability.NewPrometheus(reg))()

	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(cc, nil, logger)
	defer runner.Close()

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	if seedDemo {
		rec, err := st.Create(ctx, "sample", graph.Sample())
		if err != nil {
			return fmt.Errorf("store sample graph: %w", err)
		}
		logger.Info("stored sample graph", "id", rec.ID)
	}

	cfg := server.Config{
		Store:        st,
		Runner:       runner,
		Gatherer:     reg,
		Registerer:   reg,
		Logger:       logger,
		Version:      build.Version,
		MaxBodyBytes: c.Config.Server.MaxBodyBytes,
		ReadTimeout:  c.Config.Server.ReadTimeout,
		WriteTimeout: c.Config.Server.WriteTimeout,
	}
	if !noLLM {
		gen := c.newGenerator(cc)
		cfg.Generator = gen
		logger.Info("graph generation enabled", "model", gen.Model(), "endpoint", c.Config.LLM.BaseURL)
	}

	return server.New(cfg).Run(ctx, c.Config.Server.Addr)
}
