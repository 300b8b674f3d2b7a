package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	input := writeSampleGraph(t)
	tests := []struct {
		name     string
		args     []string
		cancel   bool
		wantCode int
		wantMsg  string
	}{
		{
			name:     "success",
			args:     []string{"layout", input, "--focus", "n1", "--no-cache", "-o", filepath.Join(t.TempDir(), "ok.json")},
			wantCode: 0,
		},
		{
			name:     "unknown focus",
			args:     []string{"layout", input, "--focus", "zz", "--strict", "--no-cache", "-o", filepath.Join(t.TempDir(), "x.json")},
			wantCode: 2,
			wantMsg:  "[FOCUS_NOT_FOUND]",
		},
		{
			name:     "missing file",
			args:     []string{"layout", filepath.Join(t.TempDir(), "nope.json"), "--focus", "n1", "--no-cache"},
			wantCode: 2,
			wantMsg:  "[FILE_NOT_FOUND]",
		},
		{
			name:     "unknown command",
			args:     []string{"explode"},
			wantCode: 1,
			wantMsg:  `unknown command "explode"`,
		},
		{
			name:     "interrupted",
			args:     []string{"layout", input, "--focus", "n1", "--no-cache", "-o", filepath.Join(t.TempDir(), "c.json")},
			cancel:   true,
			wantCode: 130,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			t.Setenv("XDG_CACHE_HOME", t.TempDir())
			t.Setenv("KGRAPH_REDIS_ADDR", "")
			t.Setenv("KGRAPH_MONGO_URI", "")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				cancel()
			}

			var status bytes.Buffer
			c := New(&status, LogInfo)
			c.out = io.Discard
			code := c.Execute(ctx, tt.args)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (status: %q)", code, tt.wantCode, status.String())
			}
			if tt.wantMsg == "" {
				return
			}
			if n := strings.Count(status.String(), tt.wantMsg); n != 1 {
				t.Errorf("%q shown %d times, want once: %q", tt.wantMsg, n, status.String())
			}
		})
	}
}

func TestVerboseFlag(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var status bytes.Buffer
	c := New(&status, LogInfo)
	c.out = io.Discard
	if code := c.Execute(context.Background(), []string{"-v", "cache", "path"}); code != 0 {
		t.Fatalf("exit code = %d: %q", code, status.String())
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}
