package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kgraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached layouts, renders and extracted graphs",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Redis.Enabled() {
				return c.clearRedis(cmd.Context())
			}

			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				c.con.info("Cache is empty")
				return nil
			}

			count := countEntries(dir)
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear %s: %w", dir, err)
			}

			c.con.ok("Cleared %d cached layouts and extractions", count)
			c.con.detail("Directory: %s", dir)
			return nil
		},
	}
}

func (c *CLI) clearRedis(ctx context.Context) error {
	rc := c.Config.Redis
	rcache, err := cache.NewRedisCache(ctx, rc.Addr, rc.Password, rc.DB, cache.WithPrefix(rc.Prefix))
	if err != nil {
		return fmt.Errorf("connect redis %s: %w", rc.Addr, err)
	}
	defer rcache.Close()

	if err := rcache.Clear(ctx); err != nil {
		return fmt.Errorf("clear redis cache: %w", err)
	}
	c.con.ok("Cleared redis cache")
	c.con.detail("Keys: %s* on %s", rc.Prefix, rc.Addr)
	return nil
}

// countEntries counts the regular files below dir.
func countEntries(dir string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	return count
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rc := c.Config.Redis; rc.Enabled() {
				fmt.Fprintf(c.out, "redis://%s/%d (prefix %q)\n", rc.Addr, rc.DB, rc.Prefix)
				return nil
			}
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}
