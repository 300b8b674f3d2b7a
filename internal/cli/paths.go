package cli

import (
	"io"
	"os"
	"path/filepath"
)

// cacheDir is $XDG_CACHE_HOME/kgraph, or ~/.cache/kgraph when unset.
func cacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, appName), nil
}

// openOutput opens path for writing, or returns the artifact writer when
// path is empty. Closing the artifact writer is a no-op.
func (c *CLI) openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return writeOnly{c.out}, nil
	}
	return os.Create(path)
}

type writeOnly struct{ io.Writer }

func (writeOnly) Close() error { return nil }
