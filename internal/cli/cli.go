// Package cli implements the kgraph command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kgraph/pkg/buildinfo"
	"github.com/matzehuels/kgraph/pkg/cache"
	"github.com/matzehuels/kgraph/pkg/config"
	"github.com/matzehuels/kgraph/pkg/errors"
	"github.com/matzehuels/kgraph/pkg/graphgen"
	"github.com/matzehuels/kgraph/pkg/pipeline"
	"github.com/matzehuels/kgraph/pkg/store"
)

const appName = "kgraph"

// Log levels for [New].
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI carries the state every subcommand shares.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config config.Config

	configPath string
	verbose    bool
	out        io.Writer // artifacts and tables
	con        console   // status lines
}

// New returns a CLI that logs and reports status to w at level and writes
// artifacts to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
		con:    console{w: w},
	}
}

// Execute runs the command line in args and returns the process exit code:
// 0 on success, 130 when interrupted, 2 when the input was rejected and 1
// for any other failure. Errors not already shown by a command are printed
// to the status writer.
func (c *CLI) Execute(ctx context.Context, args []string) int {
	root := c.RootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if ctx.Err() != nil || stderrors.Is(err, context.Canceled) {
		return 130
	}
	var shown reported
	if !stderrors.As(err, &shown) {
		c.con.fail(appName, err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch errors.HTTPStatus(err) {
	case http.StatusBadRequest, http.StatusNotFound:
		return 2
	default:
		return 1
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	build := buildinfo.Get()
	root := &cobra.Command{
		Use:           appName,
		Short:         "kgraph lays out knowledge graphs around a focus document",
		Long:          `kgraph extracts knowledge graphs from documents and re-lays them out radially around a chosen focus node, hiding everything more than three hops away.`,
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.Logger.SetLevel(LogDebug)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(build.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/kgraph/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.ringsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache returns Redis when configured, otherwise the local file cache.
// An unusable cache directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if rc := c.Config.Redis; rc.Enabled() {
		rcache, err := cache.NewRedisCache(ctx, rc.Addr, rc.Password, rc.DB,
			cache.WithPrefix(rc.Prefix), cache.WithDefaultTTL(rc.TTL))
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", rc.Addr, err)
		}
		c.Logger.Debug("using redis cache", "addr", rc.Addr, "db", rc.DB)
		return rcache, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore returns MongoDB when configured, otherwise an in-memory store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	mc := c.Config.Mongo
	if !mc.Enabled() {
		c.Logger.Warn("no mongo uri configured, stored graphs are kept in memory")
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, mc.URI, mc.Database, mc.Collection)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	c.Logger.Debug("using mongo store", "database", mc.Database, "collection", mc.Collection)
	return st, nil
}

// newGenerator creates an LLM graph generator that caches through cc.
func (c *CLI) newGenerator(cc cache.Cache) *graphgen.Generator {
	return graphgen.New(c.Config.LLM.Generator(), cc, c.Logger)
}
